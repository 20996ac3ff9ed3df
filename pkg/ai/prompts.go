package ai

// ExtractEntitiesPrompt asks the oracle to find scientific entities in a
// numbered batch of sentences. Placeholder: sentence batch.
const ExtractEntitiesPrompt = `Extract scientific entities from the following sentences. For each entity, identify:
1. The entity name/text
2. Entity type: one of ["model", "method", "dataset", "metric", "biological", "chemical", "other"]
3. The sentence number where it appears

Sentences:
%s

Report every entity with its text, type and the 0-based index of the sentence it appears in.`

// ExtractClaimsPrompt asks the oracle to find scientific claims in a
// numbered batch of sentences. Placeholder: sentence batch.
const ExtractClaimsPrompt = `Identify scientific claims in the following sentences. A claim is a statement that:
- Makes a conclusion or assertion
- Compares methods/models/datasets
- States a causal relationship
- Presents experimental results

For each claim, identify:
1. The claim text (may be the full sentence or a part)
2. Claim type: one of ["comparative", "causal", "conclusive", "other"]
3. Entities mentioned (if any)
4. Confidence (0.0-1.0) that this is a significant claim

Sentences:
%s

Report every claim with its text, type, mentioned entity names, the 0-based sentence index and a confidence score.`

// DetectHypothesesPrompt asks the oracle to find explicitly stated
// hypotheses in a numbered batch of sentences. Placeholder: sentence batch.
const DetectHypothesesPrompt = `Identify explicit scientific hypotheses in the following sentences. A hypothesis is:
- A testable prediction or assumption
- Often stated as "we hypothesize", "we propose", "we test whether"
- A statement about expected relationships or outcomes

Sentences:
%s

Report every hypothesis with its text, the 0-based index of the sentence it appears in and a confidence score (0.0-1.0).`

// InferHypothesisPrompt asks the oracle to synthesize one unifying
// hypothesis from a cluster of related claims. Placeholder: numbered claim
// list.
const InferHypothesisPrompt = `Given the following related scientific claims from different papers, infer the underlying shared hypothesis that these claims collectively support or test.

Claims:
%s

A hypothesis should be:
- A testable prediction or assumption
- More general than the individual claims
- Something that could explain or unify these claims

Report the inferred hypothesis text, a confidence score (0.0-1.0) and a brief explanation of why this hypothesis was inferred.`

// System prompts for the oracle calls above.
const (
	ExtractEntitiesSystemPrompt  = "You are a scientific entity extraction expert."
	ExtractClaimsSystemPrompt    = "You are a scientific claim extraction expert."
	DetectHypothesesSystemPrompt = "You are a scientific hypothesis detection expert."
	InferHypothesisSystemPrompt  = "You are a scientific reasoning expert. Infer hypotheses from related claims."
)
