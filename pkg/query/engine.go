// Package query exposes the four read-only queries over a finished
// reasoning graph. Lookups on missing identifiers return an explicit not
// found shape with empty collections instead of failing.
package query

import (
	"sort"
	"strings"

	"scireasoner/pkg/common"
	"scireasoner/pkg/graph"
)

// Engine answers queries over a graph. The graph is treated as read-only.
type Engine struct {
	graph *graph.Graph
}

// NewEngine returns a query engine over the given graph.
func NewEngine(g *graph.Graph) *Engine {
	return &Engine{graph: g}
}

// ClaimEvidence is a claim appearing as evidence in a query result.
type ClaimEvidence struct {
	ClaimID    string  `json:"claim_id"`
	Text       string  `json:"text"`
	ClaimType  string  `json:"claim_type"`
	DocID      string  `json:"doc_id"`
	Confidence float64 `json:"confidence"`
	Weight     float64 `json:"weight"`
}

// DocumentStance records which side(s) of a hypothesis a document's claims
// fall on. A document can be on both sides at once.
type DocumentStance struct {
	DocID       string `json:"doc_id"`
	Title       string `json:"title"`
	Supports    bool   `json:"supports"`
	Contradicts bool   `json:"contradicts"`
}

// HypothesisSupportResult is the answer to a hypothesis support query.
// Hypothesis is nil when no hypothesis matched.
type HypothesisSupportResult struct {
	Hypothesis          *common.Hypothesis `json:"hypothesis"`
	SupportingClaims    []ClaimEvidence    `json:"supporting_claims"`
	ContradictingClaims []ClaimEvidence    `json:"contradicting_claims"`
	Documents           []DocumentStance   `json:"documents"`
}

// QueryHypothesisSupport resolves a hypothesis by id or by case-insensitive
// substring match on its text, first match in node order winning, and
// gathers the claims and documents on each side of it.
func (e *Engine) QueryHypothesisSupport(idOrText string) *HypothesisSupportResult {
	result := &HypothesisSupportResult{
		SupportingClaims:    []ClaimEvidence{},
		ContradictingClaims: []ClaimEvidence{},
		Documents:           []DocumentStance{},
	}

	node := e.findHypothesis(idOrText)
	if node == nil {
		return result
	}
	result.Hypothesis = node.Hypothesis

	stances := make(map[string]*DocumentStance)
	docOrder := make([]string, 0)
	markDoc := func(docID string, supports bool) {
		stance, ok := stances[docID]
		if !ok {
			title := ""
			if docNode, found := e.graph.Node(graph.DocumentNodeID(docID)); found && docNode.Document != nil {
				title = docNode.Document.Title
			}
			stance = &DocumentStance{DocID: docID, Title: title}
			stances[docID] = stance
			docOrder = append(docOrder, docID)
		}
		if supports {
			stance.Supports = true
		} else {
			stance.Contradicts = true
		}
	}

	for _, edge := range e.graph.In(node.ID) {
		if edge.Type != graph.EdgeTypeSupports {
			continue
		}
		if claim := e.claimEvidence(edge.SourceID, edge.Weight); claim != nil {
			result.SupportingClaims = append(result.SupportingClaims, *claim)
			markDoc(claim.DocID, true)
		}
	}
	for _, edge := range e.graph.Out(node.ID) {
		if edge.Type != graph.EdgeTypeContradicts {
			continue
		}
		if claim := e.claimEvidence(edge.TargetID, edge.Weight); claim != nil {
			result.ContradictingClaims = append(result.ContradictingClaims, *claim)
			markDoc(claim.DocID, false)
		}
	}

	for _, docID := range docOrder {
		result.Documents = append(result.Documents, *stances[docID])
	}
	return result
}

// EntityMatch is an entity node matched by an evolution query.
type EntityMatch struct {
	EntityID   string `json:"entity_id"`
	Text       string `json:"text"`
	EntityType string `json:"entity_type"`
	DocID      string `json:"doc_id"`
}

// HypothesisSummary is a hypothesis referenced from a query result.
type HypothesisSummary struct {
	HypothesisID string  `json:"hypothesis_id"`
	Text         string  `json:"text"`
	Confidence   float64 `json:"confidence"`
	Source       string  `json:"source"`
}

// EntityEvolutionResult traces how claims about an entity develop across
// documents. Evolution is sorted by doc_id as a timeline proxy.
type EntityEvolutionResult struct {
	MatchedEntities   []EntityMatch       `json:"matched_entities"`
	Evolution         []ClaimEvidence     `json:"evolution"`
	RelatedHypotheses []HypothesisSummary `json:"related_hypotheses"`
}

// QueryEntityEvolution resolves entity nodes by id or by case-insensitive
// name substring and returns the union of claims mentioning any of them,
// with the hypotheses those claims support.
func (e *Engine) QueryEntityEvolution(idOrName string) *EntityEvolutionResult {
	result := &EntityEvolutionResult{
		MatchedEntities:   []EntityMatch{},
		Evolution:         []ClaimEvidence{},
		RelatedHypotheses: []HypothesisSummary{},
	}

	matched := e.findEntities(idOrName)
	if len(matched) == 0 {
		return result
	}

	seenClaims := make(map[string]struct{})
	seenHypotheses := make(map[string]struct{})
	for _, entityNode := range matched {
		result.MatchedEntities = append(result.MatchedEntities, EntityMatch{
			EntityID:   entityNode.Entity.EntityID,
			Text:       entityNode.Entity.Text,
			EntityType: entityNode.Entity.EntityType,
			DocID:      entityNode.Entity.DocID,
		})

		claimIDs := make([]string, 0)
		for _, edge := range e.graph.In(entityNode.ID) {
			if edge.Type == graph.EdgeTypeMentions {
				claimIDs = append(claimIDs, edge.SourceID)
			}
		}
		for _, edge := range e.graph.Out(entityNode.ID) {
			if edge.Type == graph.EdgeTypeMentions {
				claimIDs = append(claimIDs, edge.TargetID)
			}
		}

		for _, claimID := range claimIDs {
			if _, dup := seenClaims[claimID]; dup {
				continue
			}
			seenClaims[claimID] = struct{}{}
			claim := e.claimEvidence(claimID, 1.0)
			if claim == nil {
				continue
			}
			result.Evolution = append(result.Evolution, *claim)

			for _, edge := range e.graph.Out(claimID) {
				if edge.Type != graph.EdgeTypeSupports {
					continue
				}
				target, ok := e.graph.Node(edge.TargetID)
				if !ok || target.Hypothesis == nil {
					continue
				}
				if _, dup := seenHypotheses[target.ID]; dup {
					continue
				}
				seenHypotheses[target.ID] = struct{}{}
				result.RelatedHypotheses = append(result.RelatedHypotheses, HypothesisSummary{
					HypothesisID: target.Hypothesis.HypothesisID,
					Text:         target.Hypothesis.Text,
					Confidence:   target.Hypothesis.Confidence,
					Source:       target.Hypothesis.Source,
				})
			}
		}
	}

	sort.SliceStable(result.Evolution, func(i, j int) bool {
		return result.Evolution[i].DocID < result.Evolution[j].DocID
	})
	return result
}

// Unvalidated hypothesis reasons.
const (
	ReasonLowSupport         = "low_support"
	ReasonHighContradictions = "high_contradictions"
)

// UnvalidatedHypothesis is a hypothesis flagged as under-evidenced.
type UnvalidatedHypothesis struct {
	Hypothesis         *common.Hypothesis `json:"hypothesis"`
	SupportCount       int                `json:"support_count"`
	ContradictionCount int                `json:"contradiction_count"`
	Reason             string             `json:"reason"`
}

// QueryUnvalidatedHypotheses flags every hypothesis with fewer than
// minSupport supporting claims or more than maxContradictions
// contradicting claims. Low support wins the reason tag when both hold.
func (e *Engine) QueryUnvalidatedHypotheses(minSupport int, maxContradictions int) []UnvalidatedHypothesis {
	unvalidated := []UnvalidatedHypothesis{}
	for _, node := range e.graph.NodesOfType(graph.NodeTypeHypothesis) {
		supportCount := 0
		for _, edge := range e.graph.In(node.ID) {
			if edge.Type != graph.EdgeTypeSupports {
				continue
			}
			if source, ok := e.graph.Node(edge.SourceID); ok && source.Type == graph.NodeTypeClaim {
				supportCount++
			}
		}
		contradictionCount := 0
		for _, edge := range e.graph.Out(node.ID) {
			if edge.Type != graph.EdgeTypeContradicts {
				continue
			}
			if target, ok := e.graph.Node(edge.TargetID); ok && target.Type == graph.NodeTypeClaim {
				contradictionCount++
			}
		}

		var reason string
		switch {
		case supportCount < minSupport:
			reason = ReasonLowSupport
		case contradictionCount > maxContradictions:
			reason = ReasonHighContradictions
		default:
			continue
		}
		unvalidated = append(unvalidated, UnvalidatedHypothesis{
			Hypothesis:         node.Hypothesis,
			SupportCount:       supportCount,
			ContradictionCount: contradictionCount,
			Reason:             reason,
		})
	}
	return unvalidated
}

// RelatedNode is a node adjacent to a claim, with the connecting edge.
type RelatedNode struct {
	NodeID       string         `json:"node_id"`
	NodeType     graph.NodeType `json:"node_type"`
	Text         string         `json:"text"`
	Relationship graph.EdgeType `json:"relationship"`
	Direction    string         `json:"direction"`
	Weight       float64        `json:"weight"`
}

// ClaimRelationshipsResult lists the claim and hypothesis nodes directly
// adjacent to a claim. Claim is nil when no claim matched.
type ClaimRelationshipsResult struct {
	Claim   *common.Claim `json:"claim"`
	Related []RelatedNode `json:"related"`
}

// QueryClaimRelationships resolves a claim by id or by case-insensitive
// substring on its text and returns its direct claim and hypothesis
// neighbors in both directions. No transitive closure.
func (e *Engine) QueryClaimRelationships(idOrText string) *ClaimRelationshipsResult {
	result := &ClaimRelationshipsResult{Related: []RelatedNode{}}

	node := e.findClaim(idOrText)
	if node == nil {
		return result
	}
	result.Claim = node.Claim

	for _, edge := range e.graph.Out(node.ID) {
		if related := e.relatedNode(edge.TargetID, edge, "outgoing"); related != nil {
			result.Related = append(result.Related, *related)
		}
	}
	for _, edge := range e.graph.In(node.ID) {
		if related := e.relatedNode(edge.SourceID, edge, "incoming"); related != nil {
			result.Related = append(result.Related, *related)
		}
	}
	return result
}

func (e *Engine) relatedNode(id string, edge *graph.Edge, direction string) *RelatedNode {
	node, ok := e.graph.Node(id)
	if !ok {
		return nil
	}
	var text string
	switch node.Type {
	case graph.NodeTypeClaim:
		text = node.Claim.Text
	case graph.NodeTypeHypothesis:
		text = node.Hypothesis.Text
	default:
		return nil
	}
	return &RelatedNode{
		NodeID:       node.ID,
		NodeType:     node.Type,
		Text:         text,
		Relationship: edge.Type,
		Direction:    direction,
		Weight:       edge.Weight,
	}
}

func (e *Engine) claimEvidence(id string, weight float64) *ClaimEvidence {
	node, ok := e.graph.Node(id)
	if !ok || node.Claim == nil {
		return nil
	}
	return &ClaimEvidence{
		ClaimID:    node.Claim.ClaimID,
		Text:       node.Claim.Text,
		ClaimType:  node.Claim.ClaimType,
		DocID:      node.Claim.DocID,
		Confidence: node.Claim.Confidence,
		Weight:     weight,
	}
}

func (e *Engine) findHypothesis(idOrText string) *graph.Node {
	if node, ok := e.graph.Node(graph.HypothesisNodeID(idOrText)); ok && node.Hypothesis != nil {
		return node
	}
	needle := strings.ToLower(idOrText)
	for _, node := range e.graph.NodesOfType(graph.NodeTypeHypothesis) {
		if strings.Contains(strings.ToLower(node.Hypothesis.Text), needle) {
			return node
		}
	}
	return nil
}

func (e *Engine) findClaim(idOrText string) *graph.Node {
	if node, ok := e.graph.Node(graph.ClaimNodeID(idOrText)); ok && node.Claim != nil {
		return node
	}
	needle := strings.ToLower(idOrText)
	for _, node := range e.graph.NodesOfType(graph.NodeTypeClaim) {
		if strings.Contains(strings.ToLower(node.Claim.Text), needle) {
			return node
		}
	}
	return nil
}

func (e *Engine) findEntities(idOrName string) []*graph.Node {
	if node, ok := e.graph.Node(graph.EntityNodeID(idOrName)); ok && node.Entity != nil {
		return []*graph.Node{node}
	}
	needle := strings.ToLower(idOrName)
	matched := make([]*graph.Node, 0)
	for _, node := range e.graph.NodesOfType(graph.NodeTypeEntity) {
		if strings.Contains(strings.ToLower(node.Entity.Text), needle) {
			matched = append(matched, node)
		}
	}
	return matched
}
