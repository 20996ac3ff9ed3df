package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"scireasoner/pkg/ai"
	"scireasoner/pkg/common"
	"scireasoner/pkg/graph"
)

type fakeOracle struct {
	response string
	fail     bool
	calls    int
}

func (f *fakeOracle) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeOracle) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	f.calls++
	if f.fail {
		return errors.New("oracle unavailable")
	}
	return json.Unmarshal([]byte(f.response), out)
}

func (f *fakeOracle) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeOracle) GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error) {
	return nil, errors.New("not implemented")
}

// clusterGraph builds a graph with two claims mentioning the same entity.
func clusterGraph() *graph.Graph {
	g := graph.New()
	g.AddNode(graph.NewDocumentNode(&common.Document{DocID: "d1"}))
	g.AddNode(graph.NewEntityNode(&common.Entity{
		EntityID: "e1", Text: "BERT", EntityType: common.EntityTypeModel, DocID: "d1",
	}))
	g.AddNode(graph.NewClaimNode(&common.Claim{
		ClaimID: "c1", Text: "BERT improves task A",
		ClaimType: common.ClaimTypeConclusive, DocID: "d1", Confidence: 0.9,
	}))
	g.AddNode(graph.NewClaimNode(&common.Claim{
		ClaimID: "c2", Text: "BERT improves task B",
		ClaimType: common.ClaimTypeConclusive, DocID: "d1", Confidence: 0.8,
	}))
	g.AddEdge(&graph.Edge{SourceID: "claim_c1", TargetID: "ent_e1", Type: graph.EdgeTypeMentions, Weight: 1.0})
	g.AddEdge(&graph.Edge{SourceID: "claim_c2", TargetID: "ent_e1", Type: graph.EdgeTypeMentions, Weight: 1.0})
	return g
}

func TestInferFromSharedEntityCluster(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{
		response: `{"hypothesis": "BERT transfers across tasks", "confidence": 0.85, "reasoning": "both claims show gains"}`,
	}
	g := clusterGraph()

	hypotheses := NewInferencer(oracle).Infer(context.Background(), g, 2, 10)
	if len(hypotheses) != 1 {
		t.Fatalf("hypotheses = %d, want 1", len(hypotheses))
	}

	h := hypotheses[0]
	if h.Text != "BERT transfers across tasks" {
		t.Fatalf("unexpected hypothesis text %q", h.Text)
	}
	if h.Source != common.HypothesisSourceInferred {
		t.Fatalf("source = %q, want inferred", h.Source)
	}
	if h.Confidence != 0.85 {
		t.Fatalf("confidence = %v, want 0.85", h.Confidence)
	}
	if len(h.SupportingClaims) != 2 {
		t.Fatalf("supporting claims = %v, want both cluster claims", h.SupportingClaims)
	}
	if !strings.HasPrefix(h.HypothesisID, "inferred_") {
		t.Fatalf("hypothesis id %q missing inferred prefix", h.HypothesisID)
	}
}

func TestInferredIDDeterministic(t *testing.T) {
	t.Parallel()

	a := inferredHypothesisID([]string{"claim_c2", "claim_c1"})
	b := inferredHypothesisID([]string{"claim_c1", "claim_c2"})
	if a != b {
		t.Fatalf("id depends on cluster order: %s vs %s", a, b)
	}
	// inferred_ prefix plus a full sha256 hex digest.
	if len(a) != len("inferred_")+64 {
		t.Fatalf("id length = %d, want full digest", len(a))
	}
}

func TestInferSkipsFailedClusters(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{fail: true}
	g := clusterGraph()

	hypotheses := NewInferencer(oracle).Infer(context.Background(), g, 2, 10)
	if len(hypotheses) != 0 {
		t.Fatalf("failed clusters should be skipped, got %d hypotheses", len(hypotheses))
	}
	if oracle.calls == 0 {
		t.Fatalf("oracle was never called")
	}
}

func TestFindClustersSubsetDedup(t *testing.T) {
	t.Parallel()

	g := clusterGraph()
	// A second entity mentioned by the same two claims yields an identical
	// cluster that must be deduplicated.
	g.AddNode(graph.NewEntityNode(&common.Entity{
		EntityID: "e2", Text: "bert-large", EntityType: common.EntityTypeModel, DocID: "d1",
	}))
	g.AddEdge(&graph.Edge{SourceID: "claim_c1", TargetID: "ent_e2", Type: graph.EdgeTypeMentions, Weight: 1.0})
	g.AddEdge(&graph.Edge{SourceID: "claim_c2", TargetID: "ent_e2", Type: graph.EdgeTypeMentions, Weight: 1.0})

	clusters := NewInferencer(&fakeOracle{}).findClusters(g, 2, 10)
	if len(clusters) != 1 {
		t.Fatalf("clusters = %d, want 1 after subset dedup", len(clusters))
	}
}

func TestApplyAddsSupportsEdges(t *testing.T) {
	t.Parallel()

	g := clusterGraph()
	inferencer := NewInferencer(&fakeOracle{})
	inferencer.Apply(g, []common.Hypothesis{{
		HypothesisID:     "inferred_abc",
		Text:             "synthetic",
		SupportingClaims: []string{"claim_c1", "claim_c2"},
		Confidence:       0.5,
		Source:           common.HypothesisSourceInferred,
	}})

	node, ok := g.Node("hyp_inferred_abc")
	if !ok {
		t.Fatalf("hypothesis node missing after Apply")
	}
	edges := g.In(node.ID)
	if len(edges) != 2 {
		t.Fatalf("supports edges = %d, want 2", len(edges))
	}
	for _, edge := range edges {
		if edge.Type != graph.EdgeTypeSupports || edge.Weight != 0.5 {
			t.Fatalf("unexpected edge %+v", edge)
		}
	}
}
