package common

// Document represents a parsed scientific document. It is created once per
// ingested file; the ID is a stable hash of the file content so re-ingesting
// the same file yields the same document.
type Document struct {
	DocID    string            `json:"doc_id"`
	Title    string            `json:"title"`
	Authors  []string          `json:"authors"`
	Abstract string            `json:"abstract"`
	Sections []Section         `json:"sections"`
	Metadata map[string]string `json:"metadata"`
}

// Section is a named region of a document with its raw text and the
// sentences split from it.
type Section struct {
	Section   string   `json:"section"`
	RawText   string   `json:"raw_text"`
	Sentences []string `json:"sentences"`
}

// Sentence is a single sentence with provenance metadata. Position is the
// sentence's index within its document.
type Sentence struct {
	SentenceID string `json:"sentence_id"`
	Text       string `json:"text"`
	Section    string `json:"section"`
	DocID      string `json:"doc_id"`
	Position   int    `json:"position"`
}

// Entity types recognized by the extraction oracle.
const (
	EntityTypeModel      = "model"
	EntityTypeMethod     = "method"
	EntityTypeDataset    = "dataset"
	EntityTypeMetric     = "metric"
	EntityTypeBiological = "biological"
	EntityTypeChemical   = "chemical"
	EntityTypeOther      = "other"
)

// Entity is a single entity mention extracted from a sentence. Mentions are
// immutable; cross-document identity is established by the linker, not by
// mutating the mention.
type Entity struct {
	EntityID   string `json:"entity_id"`
	Text       string `json:"text"`
	EntityType string `json:"entity_type"`
	DocID      string `json:"doc_id"`
	SentenceID string `json:"sentence_id"`
	Context    string `json:"context"`
}

// Claim types recognized by the extraction oracle.
const (
	ClaimTypeComparative = "comparative"
	ClaimTypeCausal      = "causal"
	ClaimTypeConclusive  = "conclusive"
	ClaimTypeOther       = "other"
)

// Claim is a scientific assertion extracted from a sentence. Entities holds
// references to the entities the claim mentions, either entity IDs or raw
// surface names when no extracted mention matched.
type Claim struct {
	ClaimID    string   `json:"claim_id"`
	Text       string   `json:"text"`
	ClaimType  string   `json:"claim_type"`
	Entities   []string `json:"entities"`
	DocID      string   `json:"doc_id"`
	SentenceID string   `json:"sentence_id"`
	Confidence float64  `json:"confidence"`
}

// Hypothesis sources.
const (
	HypothesisSourceExplicit = "explicit"
	HypothesisSourceInferred = "inferred"
)

// Hypothesis is a testable prediction, either stated explicitly in a
// document or inferred from a cluster of related claims. DocID is empty for
// inferred hypotheses; Reasoning is set only for inferred ones.
type Hypothesis struct {
	HypothesisID     string   `json:"hypothesis_id"`
	Text             string   `json:"text"`
	DocID            string   `json:"doc_id,omitempty"`
	SupportingClaims []string `json:"supporting_claims"`
	Confidence       float64  `json:"confidence"`
	Source           string   `json:"source"`
	Reasoning        string   `json:"reasoning,omitempty"`
}
