package graph

import (
	"encoding/json"
	"fmt"

	"scireasoner/pkg/common"
)

// NodeSnapshot is the serialized form of a node. Properties holds the JSON
// object of the wrapped record.
type NodeSnapshot struct {
	NodeID     string         `json:"node_id"`
	NodeType   NodeType       `json:"node_type"`
	Properties map[string]any `json:"properties"`
}

// EdgeSnapshot is the serialized form of an edge.
type EdgeSnapshot struct {
	SourceID   string         `json:"source_id"`
	TargetID   string         `json:"target_id"`
	EdgeType   EdgeType       `json:"edge_type"`
	Weight     float64        `json:"weight"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Snapshot is a complete serializable view of a graph.
type Snapshot struct {
	Nodes    []NodeSnapshot `json:"nodes"`
	Edges    []EdgeSnapshot `json:"edges"`
	NumNodes int            `json:"num_nodes"`
	NumEdges int            `json:"num_edges"`
}

// Snapshot serializes the graph. Nodes appear in insertion order, edges
// grouped by source node, so loading the snapshot and snapshotting again
// yields the same document.
func (g *Graph) Snapshot() (*Snapshot, error) {
	snap := &Snapshot{
		Nodes:    make([]NodeSnapshot, 0, g.NumNodes()),
		Edges:    make([]EdgeSnapshot, 0, g.NumEdges()),
		NumNodes: g.NumNodes(),
		NumEdges: g.NumEdges(),
	}
	for _, node := range g.Nodes() {
		properties, err := nodeProperties(node)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize node %s: %w", node.ID, err)
		}
		snap.Nodes = append(snap.Nodes, NodeSnapshot{
			NodeID:     node.ID,
			NodeType:   node.Type,
			Properties: properties,
		})
	}
	for _, edge := range g.Edges() {
		snap.Edges = append(snap.Edges, EdgeSnapshot{
			SourceID:   edge.SourceID,
			TargetID:   edge.TargetID,
			EdgeType:   edge.Type,
			Weight:     edge.Weight,
			Properties: edge.Properties,
		})
	}
	return snap, nil
}

// Load reconstructs a graph from a snapshot. Nodes with an unknown kind
// abort the load; edges referencing missing nodes are dropped, matching
// insertion semantics.
func Load(snap *Snapshot) (*Graph, error) {
	g := New()
	for _, ns := range snap.Nodes {
		node, err := nodeFromSnapshot(ns)
		if err != nil {
			return nil, err
		}
		g.AddNode(node)
	}
	for _, es := range snap.Edges {
		g.AddEdge(&Edge{
			SourceID:   es.SourceID,
			TargetID:   es.TargetID,
			Type:       es.EdgeType,
			Weight:     es.Weight,
			Properties: es.Properties,
		})
	}
	return g, nil
}

func nodeProperties(node *Node) (map[string]any, error) {
	var record any
	switch node.Type {
	case NodeTypeDocument:
		record = node.Document
	case NodeTypeEntity:
		record = node.Entity
	case NodeTypeClaim:
		record = node.Claim
	case NodeTypeHypothesis:
		record = node.Hypothesis
	default:
		return nil, fmt.Errorf("unknown node type %q", node.Type)
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	properties := make(map[string]any)
	if err := json.Unmarshal(raw, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func nodeFromSnapshot(ns NodeSnapshot) (*Node, error) {
	raw, err := json.Marshal(ns.Properties)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize node %s: %w", ns.NodeID, err)
	}
	node := &Node{ID: ns.NodeID, Type: ns.NodeType}
	switch ns.NodeType {
	case NodeTypeDocument:
		doc := &common.Document{}
		if err := json.Unmarshal(raw, doc); err != nil {
			return nil, err
		}
		node.Document = doc
	case NodeTypeEntity:
		entity := &common.Entity{}
		if err := json.Unmarshal(raw, entity); err != nil {
			return nil, err
		}
		node.Entity = entity
	case NodeTypeClaim:
		claim := &common.Claim{}
		if err := json.Unmarshal(raw, claim); err != nil {
			return nil, err
		}
		node.Claim = claim
	case NodeTypeHypothesis:
		hypothesis := &common.Hypothesis{}
		if err := json.Unmarshal(raw, hypothesis); err != nil {
			return nil, err
		}
		node.Hypothesis = hypothesis
	default:
		return nil, fmt.Errorf("unknown node type %q for node %s", ns.NodeType, ns.NodeID)
	}
	return node, nil
}
