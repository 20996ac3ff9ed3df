// Package reasoning derives new hypotheses from clusters of related claims
// in the graph. Clusters come from shared entity mentions and from extends
// chains; an oracle call turns each cluster into a candidate hypothesis.
package reasoning

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"scireasoner/pkg/ai"
	"scireasoner/pkg/common"
	"scireasoner/pkg/graph"
	"scireasoner/pkg/logger"
)

const (
	defaultMinSupportingClaims = 2
	defaultMaxHypotheses       = 10
)

// Inferencer generates hypotheses that are implied by, but never stated
// in, the source documents.
type Inferencer struct {
	client ai.Client
}

// NewInferencer returns an inferencer backed by the given oracle client.
func NewInferencer(client ai.Client) *Inferencer {
	return &Inferencer{client: client}
}

type inferenceResponse struct {
	Hypothesis string  `json:"hypothesis" jsonschema_description:"A single testable hypothesis implied by the claims"`
	Confidence float64 `json:"confidence" jsonschema_description:"Confidence in the hypothesis between 0 and 1"`
	Reasoning  string  `json:"reasoning" jsonschema_description:"Brief reasoning connecting the claims to the hypothesis"`
}

// Infer clusters related claims and asks the oracle for a hypothesis per
// cluster. Non-positive parameters select the defaults. Clusters whose
// oracle call fails are logged and skipped, never aborting the batch.
func (inf *Inferencer) Infer(ctx context.Context, g *graph.Graph, minSupportingClaims int, maxHypotheses int) []common.Hypothesis {
	if minSupportingClaims <= 0 {
		minSupportingClaims = defaultMinSupportingClaims
	}
	if maxHypotheses <= 0 {
		maxHypotheses = defaultMaxHypotheses
	}

	claimClusters := inf.findClusters(g, minSupportingClaims, maxHypotheses)
	logger.Info("inferring hypotheses", "clusters", len(claimClusters))

	hypotheses := make([]common.Hypothesis, 0, len(claimClusters))
	for _, cluster := range claimClusters {
		hypothesis, err := inf.inferFromCluster(ctx, g, cluster)
		if err != nil {
			logger.Warn("hypothesis inference failed for cluster", "claims", len(cluster), "error", err)
			continue
		}
		hypotheses = append(hypotheses, *hypothesis)
	}
	return hypotheses
}

// findClusters collects claim clusters from shared entity mentions and
// extends chains, dropping clusters already covered by an earlier one.
func (inf *Inferencer) findClusters(g *graph.Graph, minSupportingClaims int, maxClusters int) [][]string {
	accepted := make([][]string, 0)

	consider := func(cluster []string) {
		if len(cluster) < minSupportingClaims || len(accepted) >= maxClusters {
			return
		}
		for _, existing := range accepted {
			if isSubset(cluster, existing) {
				return
			}
		}
		accepted = append(accepted, cluster)
	}

	for _, entityNode := range g.NodesOfType(graph.NodeTypeEntity) {
		cluster := make([]string, 0)
		for _, edge := range g.In(entityNode.ID) {
			if edge.Type == graph.EdgeTypeMentions {
				cluster = append(cluster, edge.SourceID)
			}
		}
		consider(cluster)
	}

	for _, claimNode := range g.NodesOfType(graph.NodeTypeClaim) {
		cluster := []string{claimNode.ID}
		for _, edge := range g.In(claimNode.ID) {
			if edge.Type == graph.EdgeTypeExtends {
				cluster = append(cluster, edge.SourceID)
			}
		}
		consider(cluster)
	}

	return accepted
}

// inferFromCluster asks the oracle for a hypothesis over the cluster's
// claim texts. The hypothesis id is derived from the sorted claim ids so
// the same cluster always yields the same id.
func (inf *Inferencer) inferFromCluster(ctx context.Context, g *graph.Graph, cluster []string) (*common.Hypothesis, error) {
	var sb strings.Builder
	for i, claimID := range cluster {
		node, ok := g.Node(claimID)
		if !ok || node.Claim == nil {
			continue
		}
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, node.Claim.ClaimType, node.Claim.Text)
	}

	response := &inferenceResponse{}
	err := inf.client.GenerateCompletionWithFormat(
		ctx,
		"inferred_hypothesis",
		"A hypothesis inferred from a cluster of related claims",
		fmt.Sprintf(ai.InferHypothesisPrompt, sb.String()),
		response,
		ai.WithSystemPrompts(ai.InferHypothesisSystemPrompt),
	)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(response.Hypothesis) == "" {
		return nil, fmt.Errorf("oracle returned empty hypothesis")
	}
	if response.Confidence < 0 {
		response.Confidence = 0
	}
	if response.Confidence > 1 {
		response.Confidence = 1
	}

	return &common.Hypothesis{
		HypothesisID:     inferredHypothesisID(cluster),
		Text:             response.Hypothesis,
		SupportingClaims: append([]string(nil), cluster...),
		Confidence:       response.Confidence,
		Source:           common.HypothesisSourceInferred,
		Reasoning:        response.Reasoning,
	}, nil
}

// Apply inserts the hypotheses into the graph together with supports edges
// from their claims.
func (inf *Inferencer) Apply(g *graph.Graph, hypotheses []common.Hypothesis) {
	for i := range hypotheses {
		hypothesis := &hypotheses[i]
		g.AddNode(graph.NewHypothesisNode(hypothesis))
		for _, claimID := range hypothesis.SupportingClaims {
			g.AddEdge(&graph.Edge{
				SourceID: graph.ClaimNodeID(claimID),
				TargetID: graph.HypothesisNodeID(hypothesis.HypothesisID),
				Type:     graph.EdgeTypeSupports,
				Weight:   hypothesis.Confidence,
			})
		}
	}
}

// inferredHypothesisID hashes the sorted supporting claim ids. Sorting
// makes the id independent of cluster discovery order.
func inferredHypothesisID(cluster []string) string {
	sorted := append([]string(nil), cluster...)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "|")))
	return "inferred_" + hex.EncodeToString(sum[:])
}

func isSubset(candidate []string, existing []string) bool {
	set := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		set[id] = struct{}{}
	}
	for _, id := range candidate {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
