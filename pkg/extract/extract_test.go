package extract

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"scireasoner/pkg/ai"
	"scireasoner/pkg/common"
)

type fakeOracle struct {
	responses map[string]string
	calls     int
	fail      bool
}

func (f *fakeOracle) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeOracle) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	f.calls++
	if f.fail {
		return errors.New("oracle unavailable")
	}
	raw, ok := f.responses[name]
	if !ok {
		return errors.New("no canned response for " + name)
	}
	return json.Unmarshal([]byte(raw), out)
}

func (f *fakeOracle) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeOracle) GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error) {
	return nil, errors.New("not implemented")
}

func sentence(id string, docID string, text string, position int) common.Sentence {
	return common.Sentence{SentenceID: id, DocID: docID, Text: text, Position: position}
}

func newTestExtractor(t *testing.T, oracle ai.Client) *Extractor {
	t.Helper()
	extractor, err := NewExtractor(oracle, 1)
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	return extractor
}

func TestExtractEntities(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{responses: map[string]string{
		"extracted_entities": `{"entities":[
			{"text":"BERT","entity_type":"model","sentence_idx":0},
			{"text":"GLUE","entity_type":"DATASET","sentence_idx":1},
			{"text":"stray","entity_type":"model","sentence_idx":7},
			{"text":"mystery","entity_type":"quantum","sentence_idx":0}
		]}`,
	}}
	extractor := newTestExtractor(t, oracle)

	sentences := []common.Sentence{
		sentence("d1_sent_0", "d1", "BERT improves accuracy.", 0),
		sentence("d1_sent_1", "d1", "Evaluation uses GLUE.", 1),
	}
	entities, err := extractor.ExtractEntities(context.Background(), sentences)
	if err != nil {
		t.Fatalf("ExtractEntities: %v", err)
	}
	if len(entities) != 3 {
		t.Fatalf("want 3 entities (out-of-range index dropped), got %d", len(entities))
	}
	first := entities[0]
	if !strings.HasPrefix(first.EntityID, "d1_sent_0_ent_") {
		t.Fatalf("entity id %q does not embed the sentence id", first.EntityID)
	}
	if first.DocID != "d1" || first.SentenceID != "d1_sent_0" || first.Context != sentences[0].Text {
		t.Fatalf("entity provenance not carried: %+v", first)
	}
	if entities[1].EntityType != common.EntityTypeDataset {
		t.Fatalf("want entity type lowercased to %q, got %q", common.EntityTypeDataset, entities[1].EntityType)
	}
	if entities[2].EntityType != common.EntityTypeOther {
		t.Fatalf("want unknown entity type mapped to %q, got %q", common.EntityTypeOther, entities[2].EntityType)
	}
}

func TestExtractClaimsResolvesEntityNames(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{responses: map[string]string{
		"extracted_claims": `{"claims":[
			{"text":"BERT outperforms LSTM.","claim_type":"comparative","entities":["bert","unknown thing"],"sentence_idx":0,"confidence":0.9}
		]}`,
	}}
	extractor := newTestExtractor(t, oracle)

	sentences := []common.Sentence{
		sentence("d1_sent_0", "d1", "BERT outperforms LSTM on every task.", 0),
	}
	entities := []common.Entity{
		{EntityID: "d1_sent_0_ent_abc", Text: "BERT", EntityType: common.EntityTypeModel, DocID: "d1", SentenceID: "d1_sent_0"},
	}
	claims, err := extractor.ExtractClaims(context.Background(), sentences, entities)
	if err != nil {
		t.Fatalf("ExtractClaims: %v", err)
	}
	if len(claims) != 1 {
		t.Fatalf("want 1 claim, got %d", len(claims))
	}
	claim := claims[0]
	if !strings.HasPrefix(claim.ClaimID, "d1_sent_0_claim_") {
		t.Fatalf("claim id %q does not embed the sentence id", claim.ClaimID)
	}
	if claim.ClaimType != common.ClaimTypeComparative {
		t.Fatalf("claim type = %q", claim.ClaimType)
	}
	if len(claim.Entities) != 2 || claim.Entities[0] != "d1_sent_0_ent_abc" || claim.Entities[1] != "unknown thing" {
		t.Fatalf("want resolved id plus verbatim unresolved name, got %v", claim.Entities)
	}
}

func TestDetectHypothesesLinksSameSentenceClaims(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{responses: map[string]string{
		"detected_hypotheses": `{"hypotheses":[
			{"text":"We hypothesize pretraining transfers.","sentence_idx":1,"confidence":0.8}
		]}`,
	}}
	extractor := newTestExtractor(t, oracle)

	sentences := []common.Sentence{
		sentence("d1_sent_0", "d1", "Background text.", 0),
		sentence("d1_sent_1", "d1", "We hypothesize pretraining transfers.", 1),
	}
	claims := []common.Claim{
		{ClaimID: "d1_sent_1_claim_x", SentenceID: "d1_sent_1", DocID: "d1"},
		{ClaimID: "d1_sent_0_claim_y", SentenceID: "d1_sent_0", DocID: "d1"},
	}
	hypotheses, err := extractor.DetectHypotheses(context.Background(), sentences, claims)
	if err != nil {
		t.Fatalf("DetectHypotheses: %v", err)
	}
	if len(hypotheses) != 1 {
		t.Fatalf("want 1 hypothesis, got %d", len(hypotheses))
	}
	hyp := hypotheses[0]
	if !strings.HasPrefix(hyp.HypothesisID, "d1_hyp_") {
		t.Fatalf("hypothesis id %q does not embed the document id", hyp.HypothesisID)
	}
	if hyp.Source != common.HypothesisSourceExplicit {
		t.Fatalf("source = %q", hyp.Source)
	}
	if len(hyp.SupportingClaims) != 1 || hyp.SupportingClaims[0] != "d1_sent_1_claim_x" {
		t.Fatalf("want only the same-sentence claim as support, got %v", hyp.SupportingClaims)
	}
}

func TestFailedBatchesAreSkipped(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{fail: true}
	extractor := newTestExtractor(t, oracle)

	sentences := []common.Sentence{
		sentence("d1_sent_0", "d1", "Some text.", 0),
	}
	entities, err := extractor.ExtractEntities(context.Background(), sentences)
	if err != nil {
		t.Fatalf("ExtractEntities: %v", err)
	}
	if len(entities) != 0 {
		t.Fatalf("want no entities from failed batches, got %d", len(entities))
	}
	if oracle.calls == 0 {
		t.Fatal("oracle was never called")
	}
}

func TestBatches(t *testing.T) {
	t.Parallel()

	extractor := newTestExtractor(t, &fakeOracle{})

	var sentences []common.Sentence
	for i := 0; i < 25; i++ {
		sentences = append(sentences, sentence("d1_sent_0", "d1", "Short sentence.", i))
	}
	batches := extractor.batches(sentences, 10)
	if len(batches) != 3 {
		t.Fatalf("want 3 batches of at most 10, got %d", len(batches))
	}
	if len(batches[0]) != 10 || len(batches[2]) != 5 {
		t.Fatalf("unexpected batch sizes: %d, %d, %d", len(batches[0]), len(batches[1]), len(batches[2]))
	}

	// A sentence heavy enough to blow the token budget forces a new batch
	// even below the count limit.
	heavy := sentence("d1_sent_0", "d1", strings.Repeat("tokenization ", maxBatchTokens), 0)
	batches = extractor.batches([]common.Sentence{sentences[0], heavy, sentences[1]}, 10)
	if len(batches) != 3 {
		t.Fatalf("want heavy sentence isolated into its own batch, got %d batches", len(batches))
	}

	if got := extractor.batches(nil, 10); len(got) != 0 {
		t.Fatalf("want no batches for no sentences, got %d", len(got))
	}
}

func TestNumberedBatch(t *testing.T) {
	t.Parallel()

	got := numberedBatch([]common.Sentence{
		sentence("s0", "d1", "First.", 0),
		sentence("s1", "d1", "Second.", 1),
	})
	want := "0. First.\n1. Second.\n"
	if got != want {
		t.Fatalf("numberedBatch = %q, want %q", got, want)
	}
}
