package graph

import (
	"scireasoner/pkg/common"
)

// Node is a tagged union over the four record kinds. Exactly one of the
// record pointers matching Type is set.
type Node struct {
	ID   string
	Type NodeType

	Document   *common.Document
	Entity     *common.Entity
	Claim      *common.Claim
	Hypothesis *common.Hypothesis
}

// NewDocumentNode wraps a document record as a graph node.
func NewDocumentNode(doc *common.Document) *Node {
	return &Node{ID: DocumentNodeID(doc.DocID), Type: NodeTypeDocument, Document: doc}
}

// NewEntityNode wraps an entity record as a graph node.
func NewEntityNode(entity *common.Entity) *Node {
	return &Node{ID: EntityNodeID(entity.EntityID), Type: NodeTypeEntity, Entity: entity}
}

// NewClaimNode wraps a claim record as a graph node.
func NewClaimNode(claim *common.Claim) *Node {
	return &Node{ID: ClaimNodeID(claim.ClaimID), Type: NodeTypeClaim, Claim: claim}
}

// NewHypothesisNode wraps a hypothesis record as a graph node.
func NewHypothesisNode(hypothesis *common.Hypothesis) *Node {
	return &Node{ID: HypothesisNodeID(hypothesis.HypothesisID), Type: NodeTypeHypothesis, Hypothesis: hypothesis}
}

// Edge is a directed, typed, weighted connection between two nodes.
// Parallel edges between the same endpoints are allowed.
type Edge struct {
	SourceID   string
	TargetID   string
	Type       EdgeType
	Weight     float64
	Properties map[string]any
}

// Graph is a directed multigraph over tagged nodes. Node iteration follows
// insertion order so repeated builds over the same inputs produce identical
// output.
type Graph struct {
	nodes    map[string]*Node
	order    []string
	outgoing map[string][]*Edge
	incoming map[string][]*Edge
	numEdges int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]*Edge),
		incoming: make(map[string][]*Edge),
	}
}

// AddNode inserts a node. Re-adding an existing id replaces the stored
// record but keeps the original insertion position.
func (g *Graph) AddNode(node *Node) {
	if _, exists := g.nodes[node.ID]; !exists {
		g.order = append(g.order, node.ID)
	}
	g.nodes[node.ID] = node
}

// AddEdge inserts a directed edge. If either endpoint is missing the edge
// is silently dropped and false is returned; the graph is unchanged.
func (g *Graph) AddEdge(edge *Edge) bool {
	if _, ok := g.nodes[edge.SourceID]; !ok {
		return false
	}
	if _, ok := g.nodes[edge.TargetID]; !ok {
		return false
	}
	g.outgoing[edge.SourceID] = append(g.outgoing[edge.SourceID], edge)
	g.incoming[edge.TargetID] = append(g.incoming[edge.TargetID], edge)
	g.numEdges++
	return true
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	node, ok := g.nodes[id]
	return node, ok
}

// HasNode reports whether the id is present.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// NodesOfType returns all nodes of the given kind in insertion order.
func (g *Graph) NodesOfType(kind NodeType) []*Node {
	nodes := make([]*Node, 0)
	for _, id := range g.order {
		if node := g.nodes[id]; node.Type == kind {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// Out returns the outgoing edges of a node in insertion order.
func (g *Graph) Out(id string) []*Edge {
	return g.outgoing[id]
}

// In returns the incoming edges of a node in insertion order.
func (g *Graph) In(id string) []*Edge {
	return g.incoming[id]
}

// Edges returns every edge of the graph, grouped by source node in node
// insertion order.
func (g *Graph) Edges() []*Edge {
	edges := make([]*Edge, 0, g.numEdges)
	for _, id := range g.order {
		edges = append(edges, g.outgoing[id]...)
	}
	return edges
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// NumEdges returns the edge count, counting parallel edges individually.
func (g *Graph) NumEdges() int {
	return g.numEdges
}
