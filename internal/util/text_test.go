package util

import "testing"

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	if got := NormalizeText("  BERT Model \n"); got != "bert model" {
		t.Fatalf("NormalizeText = %q", got)
	}
}

func TestTokenSet(t *testing.T) {
	t.Parallel()

	set := TokenSet("deep deep residual network")
	if len(set) != 3 {
		t.Fatalf("token set = %v, want 3 unique tokens", set)
	}
	if _, ok := set["residual"]; !ok {
		t.Fatalf("missing token in %v", set)
	}
}
