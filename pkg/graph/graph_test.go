package graph

import (
	"testing"

	"scireasoner/pkg/common"
)

func entityNode(id string, docID string) *Node {
	return NewEntityNode(&common.Entity{
		EntityID:   id,
		Text:       id,
		EntityType: common.EntityTypeMethod,
		DocID:      docID,
	})
}

func TestAddEdgeMissingEndpoint(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode(entityNode("e1", "d1"))

	tests := []struct {
		name string
		edge *Edge
	}{
		{
			name: "missing target",
			edge: &Edge{SourceID: "ent_e1", TargetID: "ent_ghost", Type: EdgeTypeLinksTo, Weight: 1.0},
		},
		{
			name: "missing source",
			edge: &Edge{SourceID: "ent_ghost", TargetID: "ent_e1", Type: EdgeTypeLinksTo, Weight: 1.0},
		},
		{
			name: "both missing",
			edge: &Edge{SourceID: "a", TargetID: "b", Type: EdgeTypeSupports, Weight: 1.0},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if g.AddEdge(tc.edge) {
				t.Fatalf("AddEdge accepted an edge with a missing endpoint")
			}
			if g.NumEdges() != 0 {
				t.Fatalf("NumEdges = %d, want 0", g.NumEdges())
			}
		})
	}
}

func TestNodesInsertionOrder(t *testing.T) {
	t.Parallel()

	g := New()
	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		g.AddNode(entityNode(id, "d1"))
	}

	nodes := g.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("NumNodes = %d, want 3", len(nodes))
	}
	for i, id := range ids {
		if nodes[i].ID != EntityNodeID(id) {
			t.Fatalf("Nodes()[%d] = %s, want %s", i, nodes[i].ID, EntityNodeID(id))
		}
	}

	// Re-adding keeps the original position.
	g.AddNode(entityNode("c", "d2"))
	nodes = g.Nodes()
	if len(nodes) != 3 || nodes[0].ID != "ent_c" {
		t.Fatalf("re-adding node changed ordering: %v", nodes[0].ID)
	}
	if nodes[0].Entity.DocID != "d2" {
		t.Fatalf("re-adding node did not replace record")
	}
}

func TestNodeIDPrefixes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"document plain", DocumentNodeID("abc"), "doc_abc"},
		{"document idempotent", DocumentNodeID("doc_abc"), "doc_abc"},
		{"entity plain", EntityNodeID("x"), "ent_x"},
		{"claim idempotent", ClaimNodeID("claim_x"), "claim_x"},
		{"hypothesis plain", HypothesisNodeID("h1"), "hyp_h1"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("got %s, want %s", tc.got, tc.want)
			}
		})
	}
}

func TestValidateEdge(t *testing.T) {
	t.Parallel()

	if err := ValidateEdge(EdgeTypeSupports, NodeTypeClaim, NodeTypeHypothesis); err != nil {
		t.Fatalf("valid edge rejected: %v", err)
	}
	if err := ValidateEdge(EdgeTypeContains, NodeTypeClaim, NodeTypeDocument); err == nil {
		t.Fatalf("claim->document contains edge should be rejected")
	}
	if err := ValidateEdge("bogus", NodeTypeClaim, NodeTypeClaim); err == nil {
		t.Fatalf("unknown edge type should be rejected")
	}
}

func TestGraphValidate(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode(NewDocumentNode(&common.Document{DocID: "d1"}))
	g.AddNode(entityNode("e1", "d1"))
	g.AddEdge(&Edge{SourceID: "doc_d1", TargetID: "ent_e1", Type: EdgeTypeContains, Weight: 1.0})
	if violations := g.Validate(); len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}

	// Permissive insertion, caught only by explicit validation.
	if !g.AddEdge(&Edge{SourceID: "ent_e1", TargetID: "doc_d1", Type: EdgeTypeSupports, Weight: 1.0}) {
		t.Fatalf("schema-violating edge should still insert")
	}
	if violations := g.Validate(); len(violations) != 1 {
		t.Fatalf("violations = %d, want 1", len(violations))
	}
}
