package graph

import (
	"fmt"
	"strings"
)

// NodeType discriminates the four kinds of nodes in the reasoning graph.
type NodeType string

const (
	NodeTypeDocument   NodeType = "document"
	NodeTypeEntity     NodeType = "entity"
	NodeTypeClaim      NodeType = "claim"
	NodeTypeHypothesis NodeType = "hypothesis"
)

// EdgeType discriminates the kinds of edges in the reasoning graph.
type EdgeType string

const (
	EdgeTypeSupports    EdgeType = "supports"
	EdgeTypeContradicts EdgeType = "contradicts"
	EdgeTypeExtends     EdgeType = "extends"
	EdgeTypeBasedOn     EdgeType = "based_on"
	EdgeTypeMentions    EdgeType = "mentions"
	EdgeTypeContains    EdgeType = "contains"
	EdgeTypeLinksTo     EdgeType = "links_to"
)

// Node id prefixes per kind; they guarantee global uniqueness across the
// four id namespaces.
const (
	documentIDPrefix   = "doc_"
	entityIDPrefix     = "ent_"
	claimIDPrefix      = "claim_"
	hypothesisIDPrefix = "hyp_"
)

// DocumentNodeID returns the graph node id for a document id. Ids that
// already carry the prefix are returned unchanged.
func DocumentNodeID(docID string) string {
	if strings.HasPrefix(docID, documentIDPrefix) {
		return docID
	}
	return documentIDPrefix + docID
}

// EntityNodeID returns the graph node id for an entity id.
func EntityNodeID(entityID string) string {
	if strings.HasPrefix(entityID, entityIDPrefix) {
		return entityID
	}
	return entityIDPrefix + entityID
}

// ClaimNodeID returns the graph node id for a claim id.
func ClaimNodeID(claimID string) string {
	if strings.HasPrefix(claimID, claimIDPrefix) {
		return claimID
	}
	return claimIDPrefix + claimID
}

// HypothesisNodeID returns the graph node id for a hypothesis id.
func HypothesisNodeID(hypothesisID string) string {
	if strings.HasPrefix(hypothesisID, hypothesisIDPrefix) {
		return hypothesisID
	}
	return hypothesisIDPrefix + hypothesisID
}

// edgeRule describes which endpoint kinds an edge kind permits.
type edgeRule struct {
	Description string
	Sources     []NodeType
	Targets     []NodeType
}

// edgeRules is the schema table for the graph. It documents intended edge
// usage; insertion never consults it. Callers that want strict-mode checking
// run ValidateEdge or Graph.Validate explicitly.
var edgeRules = map[EdgeType]edgeRule{
	EdgeTypeSupports: {
		Description: "claim or evidence supports a hypothesis or claim",
		Sources:     []NodeType{NodeTypeClaim, NodeTypeEntity},
		Targets:     []NodeType{NodeTypeHypothesis, NodeTypeClaim},
	},
	EdgeTypeContradicts: {
		Description: "claim contradicts another claim or hypothesis",
		Sources:     []NodeType{NodeTypeClaim},
		Targets:     []NodeType{NodeTypeClaim, NodeTypeHypothesis},
	},
	EdgeTypeExtends: {
		Description: "claim extends or builds upon another claim",
		Sources:     []NodeType{NodeTypeClaim},
		Targets:     []NodeType{NodeTypeClaim},
	},
	EdgeTypeBasedOn: {
		Description: "hypothesis or claim is based on evidence",
		Sources:     []NodeType{NodeTypeEntity, NodeTypeClaim},
		Targets:     []NodeType{NodeTypeHypothesis, NodeTypeClaim},
	},
	EdgeTypeMentions: {
		Description: "claim or document mentions an entity",
		Sources:     []NodeType{NodeTypeClaim, NodeTypeDocument},
		Targets:     []NodeType{NodeTypeEntity},
	},
	EdgeTypeContains: {
		Description: "document contains claims, entities or hypotheses",
		Sources:     []NodeType{NodeTypeDocument},
		Targets:     []NodeType{NodeTypeClaim, NodeTypeEntity, NodeTypeHypothesis},
	},
	EdgeTypeLinksTo: {
		Description: "entities are linked across documents",
		Sources:     []NodeType{NodeTypeEntity},
		Targets:     []NodeType{NodeTypeEntity},
	},
}

// ValidateEdge reports whether an edge of the given kind may connect the
// given endpoint kinds under the schema table.
func ValidateEdge(edgeType EdgeType, source NodeType, target NodeType) error {
	rule, ok := edgeRules[edgeType]
	if !ok {
		return fmt.Errorf("unknown edge type %q", edgeType)
	}
	if !containsNodeType(rule.Sources, source) {
		return fmt.Errorf("edge %q does not permit source kind %q", edgeType, source)
	}
	if !containsNodeType(rule.Targets, target) {
		return fmt.Errorf("edge %q does not permit target kind %q", edgeType, target)
	}
	return nil
}

// Validate runs the schema check over every edge of the graph and returns
// all violations. An empty result means the graph is schema-clean.
func (g *Graph) Validate() []error {
	var violations []error
	for _, edge := range g.Edges() {
		source, ok := g.Node(edge.SourceID)
		if !ok {
			continue
		}
		target, ok := g.Node(edge.TargetID)
		if !ok {
			continue
		}
		if err := ValidateEdge(edge.Type, source.Type, target.Type); err != nil {
			violations = append(violations, fmt.Errorf("%s -> %s: %w", edge.SourceID, edge.TargetID, err))
		}
	}
	return violations
}

func containsNodeType(kinds []NodeType, kind NodeType) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
