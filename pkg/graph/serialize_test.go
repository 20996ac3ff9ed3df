package graph

import (
	"fmt"
	"reflect"
	"sort"
	"testing"

	"scireasoner/pkg/common"
)

func buildSampleGraph() *Graph {
	g := New()
	g.AddNode(NewDocumentNode(&common.Document{DocID: "d1", Title: "Paper One"}))
	g.AddNode(entityNode("e1", "d1"))
	g.AddNode(NewClaimNode(&common.Claim{
		ClaimID:    "c1",
		Text:       "method A beats method B",
		ClaimType:  common.ClaimTypeComparative,
		DocID:      "d1",
		Confidence: 0.9,
	}))
	g.AddNode(NewHypothesisNode(&common.Hypothesis{
		HypothesisID: "h1",
		Text:         "method A generalizes",
		Confidence:   0.8,
		Source:       common.HypothesisSourceExplicit,
	}))
	g.AddEdge(&Edge{SourceID: "doc_d1", TargetID: "ent_e1", Type: EdgeTypeContains, Weight: 1.0})
	g.AddEdge(&Edge{SourceID: "doc_d1", TargetID: "claim_c1", Type: EdgeTypeContains, Weight: 1.0})
	g.AddEdge(&Edge{SourceID: "claim_c1", TargetID: "ent_e1", Type: EdgeTypeMentions, Weight: 1.0})
	g.AddEdge(&Edge{SourceID: "claim_c1", TargetID: "hyp_h1", Type: EdgeTypeSupports, Weight: 0.8})
	return g
}

func edgeMultiset(snap *Snapshot) []string {
	edges := make([]string, 0, len(snap.Edges))
	for _, e := range snap.Edges {
		edges = append(edges, fmt.Sprintf("%s|%s|%s|%v", e.SourceID, e.TargetID, e.EdgeType, e.Weight))
	}
	sort.Strings(edges)
	return edges
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	g := buildSampleGraph()
	first, err := g.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	loaded, err := Load(first)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := loaded.Snapshot()
	if err != nil {
		t.Fatalf("second Snapshot: %v", err)
	}

	if first.NumNodes != second.NumNodes || first.NumEdges != second.NumEdges {
		t.Fatalf("counts changed: %d/%d vs %d/%d",
			first.NumNodes, first.NumEdges, second.NumNodes, second.NumEdges)
	}
	if !reflect.DeepEqual(first.Nodes, second.Nodes) {
		t.Fatalf("node snapshots changed across round trip")
	}
	if !reflect.DeepEqual(edgeMultiset(first), edgeMultiset(second)) {
		t.Fatalf("edge multiset changed across round trip")
	}

	node, ok := loaded.Node("claim_c1")
	if !ok || node.Claim == nil {
		t.Fatalf("claim node lost in round trip")
	}
	if node.Claim.Text != "method A beats method B" || node.Claim.Confidence != 0.9 {
		t.Fatalf("claim record corrupted: %+v", node.Claim)
	}
}

func TestLoadUnknownNodeType(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{
		Nodes: []NodeSnapshot{{NodeID: "x", NodeType: "mystery", Properties: map[string]any{}}},
	}
	if _, err := Load(snap); err == nil {
		t.Fatalf("Load accepted an unknown node type")
	}
}

func TestLoadDropsDanglingEdges(t *testing.T) {
	t.Parallel()

	g := buildSampleGraph()
	snap, err := g.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	snap.Edges = append(snap.Edges, EdgeSnapshot{
		SourceID: "claim_c1", TargetID: "hyp_ghost", EdgeType: EdgeTypeSupports, Weight: 0.5,
	})

	loaded, err := Load(snap)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.NumEdges() != g.NumEdges() {
		t.Fatalf("dangling edge was not dropped: %d vs %d", loaded.NumEdges(), g.NumEdges())
	}
}
