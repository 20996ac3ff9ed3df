// Package extract turns sentences into typed entity, claim and hypothesis
// records via structured oracle calls. Sentences are batched to bound the
// prompt size and failed batches are skipped instead of failing the run.
package extract

import (
	"context"
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"scireasoner/internal/util"
	"scireasoner/pkg/ai"
	"scireasoner/pkg/common"
	"scireasoner/pkg/logger"
)

const (
	entityBatchSize     = 10
	claimBatchSize      = 10
	hypothesisBatchSize = 15
	maxBatchTokens      = 3000
	defaultMaxRetries   = 3
	idSuffixLength      = 8
	tokenEncoding       = "cl100k_base"
)

// Extractor runs the oracle-backed extraction stages over a document's
// sentences.
type Extractor struct {
	client     ai.Client
	encoding   *tiktoken.Tiktoken
	maxRetries int
}

// NewExtractor returns an extractor. A non-positive maxRetries selects the
// default retry count per batch.
func NewExtractor(client ai.Client, maxRetries int) (*Extractor, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	// The token tables ship with the binary, so construction works offline.
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	encoding, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load token encoding: %w", err)
	}
	return &Extractor{
		client:     client,
		encoding:   encoding,
		maxRetries: maxRetries,
	}, nil
}

type extractedEntity struct {
	Text        string `json:"text" jsonschema_description:"The entity name exactly as it appears in the sentence"`
	EntityType  string `json:"entity_type" jsonschema:"enum=model,enum=method,enum=dataset,enum=metric,enum=biological,enum=chemical,enum=other" jsonschema_description:"The entity category"`
	SentenceIdx int    `json:"sentence_idx" jsonschema_description:"0-based index of the sentence the entity appears in"`
}

type entitiesResponse struct {
	Entities []extractedEntity `json:"entities" jsonschema_description:"All scientific entities found in the sentences"`
}

// ExtractEntities finds scientific entities in the sentences. Entity ids
// embed the owning sentence id.
func (e *Extractor) ExtractEntities(ctx context.Context, sentences []common.Sentence) ([]common.Entity, error) {
	entities := make([]common.Entity, 0)
	for _, batch := range e.batches(sentences, entityBatchSize) {
		response := &entitiesResponse{}
		err := util.RetryErrWithContext(ctx, e.maxRetries, func(ctx context.Context) error {
			return e.client.GenerateCompletionWithFormat(
				ctx,
				"extracted_entities",
				"Scientific entities found in a batch of sentences",
				fmt.Sprintf(ai.ExtractEntitiesPrompt, numberedBatch(batch)),
				response,
				ai.WithSystemPrompts(ai.ExtractEntitiesSystemPrompt),
			)
		})
		if err != nil {
			if ctx.Err() != nil {
				return entities, ctx.Err()
			}
			logger.Warn("entity extraction failed for batch, skipping", "sentences", len(batch), "error", err)
			continue
		}

		for _, item := range response.Entities {
			if item.SentenceIdx < 0 || item.SentenceIdx >= len(batch) {
				continue
			}
			sentence := batch[item.SentenceIdx]
			entities = append(entities, common.Entity{
				EntityID:   fmt.Sprintf("%s_ent_%s", sentence.SentenceID, gonanoid.Must(idSuffixLength)),
				Text:       item.Text,
				EntityType: normalizeEntityType(item.EntityType),
				DocID:      sentence.DocID,
				SentenceID: sentence.SentenceID,
				Context:    sentence.Text,
			})
		}
	}
	return entities, nil
}

type extractedClaim struct {
	Text        string   `json:"text" jsonschema_description:"The claim statement"`
	ClaimType   string   `json:"claim_type" jsonschema:"enum=comparative,enum=causal,enum=conclusive,enum=other" jsonschema_description:"The claim category"`
	Entities    []string `json:"entities" jsonschema_description:"Names of entities mentioned by the claim"`
	SentenceIdx int      `json:"sentence_idx" jsonschema_description:"0-based index of the sentence containing the claim"`
	Confidence  float64  `json:"confidence" jsonschema_description:"Confidence between 0 and 1 that this is a significant claim"`
}

type claimsResponse struct {
	Claims []extractedClaim `json:"claims" jsonschema_description:"All scientific claims found in the sentences"`
}

// ExtractClaims finds scientific claims in the sentences. Entity names the
// oracle reports are resolved against the extracted entities by lowercase
// text; unresolved names are kept verbatim.
func (e *Extractor) ExtractClaims(ctx context.Context, sentences []common.Sentence, entities []common.Entity) ([]common.Claim, error) {
	entityIDsByText := make(map[string]string, len(entities))
	for _, entity := range entities {
		key := util.NormalizeText(entity.Text)
		if _, ok := entityIDsByText[key]; !ok {
			entityIDsByText[key] = entity.EntityID
		}
	}

	claims := make([]common.Claim, 0)
	for _, batch := range e.batches(sentences, claimBatchSize) {
		response := &claimsResponse{}
		err := util.RetryErrWithContext(ctx, e.maxRetries, func(ctx context.Context) error {
			return e.client.GenerateCompletionWithFormat(
				ctx,
				"extracted_claims",
				"Scientific claims found in a batch of sentences",
				fmt.Sprintf(ai.ExtractClaimsPrompt, numberedBatch(batch)),
				response,
				ai.WithSystemPrompts(ai.ExtractClaimsSystemPrompt),
			)
		})
		if err != nil {
			if ctx.Err() != nil {
				return claims, ctx.Err()
			}
			logger.Warn("claim extraction failed for batch, skipping", "sentences", len(batch), "error", err)
			continue
		}

		for _, item := range response.Claims {
			if item.SentenceIdx < 0 || item.SentenceIdx >= len(batch) {
				continue
			}
			sentence := batch[item.SentenceIdx]
			refs := make([]string, 0, len(item.Entities))
			for _, name := range item.Entities {
				if id, ok := entityIDsByText[util.NormalizeText(name)]; ok {
					refs = append(refs, id)
				} else {
					refs = append(refs, name)
				}
			}
			claims = append(claims, common.Claim{
				ClaimID:    fmt.Sprintf("%s_claim_%s", sentence.SentenceID, gonanoid.Must(idSuffixLength)),
				Text:       item.Text,
				ClaimType:  normalizeClaimType(item.ClaimType),
				Entities:   refs,
				DocID:      sentence.DocID,
				SentenceID: sentence.SentenceID,
				Confidence: item.Confidence,
			})
		}
	}
	return claims, nil
}

type detectedHypothesis struct {
	Text        string  `json:"text" jsonschema_description:"The hypothesis statement"`
	SentenceIdx int     `json:"sentence_idx" jsonschema_description:"0-based index of the sentence stating the hypothesis"`
	Confidence  float64 `json:"confidence" jsonschema_description:"Confidence between 0 and 1"`
}

type hypothesesResponse struct {
	Hypotheses []detectedHypothesis `json:"hypotheses" jsonschema_description:"All explicitly stated hypotheses found in the sentences"`
}

// DetectHypotheses finds explicitly stated hypotheses in the sentences.
// Claims extracted from the same sentence become the hypothesis's
// supporting claims.
func (e *Extractor) DetectHypotheses(ctx context.Context, sentences []common.Sentence, claims []common.Claim) ([]common.Hypothesis, error) {
	claimsBySentence := make(map[string][]string)
	for _, claim := range claims {
		claimsBySentence[claim.SentenceID] = append(claimsBySentence[claim.SentenceID], claim.ClaimID)
	}

	hypotheses := make([]common.Hypothesis, 0)
	for _, batch := range e.batches(sentences, hypothesisBatchSize) {
		response := &hypothesesResponse{}
		err := util.RetryErrWithContext(ctx, e.maxRetries, func(ctx context.Context) error {
			return e.client.GenerateCompletionWithFormat(
				ctx,
				"detected_hypotheses",
				"Explicit hypotheses found in a batch of sentences",
				fmt.Sprintf(ai.DetectHypothesesPrompt, numberedBatch(batch)),
				response,
				ai.WithSystemPrompts(ai.DetectHypothesesSystemPrompt),
			)
		})
		if err != nil {
			if ctx.Err() != nil {
				return hypotheses, ctx.Err()
			}
			logger.Warn("hypothesis detection failed for batch, skipping", "sentences", len(batch), "error", err)
			continue
		}

		for _, item := range response.Hypotheses {
			if item.SentenceIdx < 0 || item.SentenceIdx >= len(batch) {
				continue
			}
			sentence := batch[item.SentenceIdx]
			hypotheses = append(hypotheses, common.Hypothesis{
				HypothesisID:     fmt.Sprintf("%s_hyp_%s", sentence.DocID, gonanoid.Must(idSuffixLength)),
				Text:             item.Text,
				DocID:            sentence.DocID,
				SupportingClaims: append([]string(nil), claimsBySentence[sentence.SentenceID]...),
				Confidence:       item.Confidence,
				Source:           common.HypothesisSourceExplicit,
			})
		}
	}
	return hypotheses, nil
}

// batches splits sentences into runs bounded by both a sentence count and a
// token budget per prompt.
func (e *Extractor) batches(sentences []common.Sentence, batchSize int) [][]common.Sentence {
	batches := make([][]common.Sentence, 0)
	current := make([]common.Sentence, 0, batchSize)
	currentTokens := 0
	for _, sentence := range sentences {
		tokens := len(e.encoding.Encode(sentence.Text, nil, nil))
		if len(current) > 0 && (len(current) >= batchSize || currentTokens+tokens > maxBatchTokens) {
			batches = append(batches, current)
			current = make([]common.Sentence, 0, batchSize)
			currentTokens = 0
		}
		current = append(current, sentence)
		currentTokens += tokens
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}

func numberedBatch(sentences []common.Sentence) string {
	var sb strings.Builder
	for i, sentence := range sentences {
		fmt.Fprintf(&sb, "%d. %s\n", i, sentence.Text)
	}
	return sb.String()
}

func normalizeEntityType(entityType string) string {
	switch strings.ToLower(strings.TrimSpace(entityType)) {
	case common.EntityTypeModel, common.EntityTypeMethod, common.EntityTypeDataset,
		common.EntityTypeMetric, common.EntityTypeBiological, common.EntityTypeChemical:
		return strings.ToLower(strings.TrimSpace(entityType))
	default:
		return common.EntityTypeOther
	}
}

func normalizeClaimType(claimType string) string {
	switch strings.ToLower(strings.TrimSpace(claimType)) {
	case common.ClaimTypeComparative, common.ClaimTypeCausal, common.ClaimTypeConclusive:
		return strings.ToLower(strings.TrimSpace(claimType))
	default:
		return common.ClaimTypeOther
	}
}
