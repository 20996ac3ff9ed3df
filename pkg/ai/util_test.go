package ai

import (
	"testing"
)

func TestUnmarshalFlexible(t *testing.T) {
	t.Parallel()

	type payload struct {
		Hypothesis string  `json:"hypothesis"`
		Confidence float64 `json:"confidence"`
	}

	tests := []struct {
		name    string
		input   string
		want    payload
		wantErr bool
	}{
		{
			name:  "clean json",
			input: `{"hypothesis": "x", "confidence": 0.5}`,
			want:  payload{Hypothesis: "x", Confidence: 0.5},
		},
		{
			name:  "double encoded",
			input: `"{\"hypothesis\": \"x\", \"confidence\": 0.5}"`,
			want:  payload{Hypothesis: "x", Confidence: 0.5},
		},
		{
			name:  "duplicate leading brace",
			input: `{{"hypothesis": "x", "confidence": 0.5}`,
			want:  payload{Hypothesis: "x", Confidence: 0.5},
		},
		{
			name:  "trailing comma repaired",
			input: `{"hypothesis": "x", "confidence": 0.5,}`,
			want:  payload{Hypothesis: "x", Confidence: 0.5},
		},
		{
			name:  "surrounding whitespace",
			input: "  \n{\"hypothesis\": \"x\", \"confidence\": 0.5}\n ",
			want:  payload{Hypothesis: "x", Confidence: 0.5},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var got payload
			err := UnmarshalFlexible(tc.input, &got)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalFlexible: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestGenerateOptions(t *testing.T) {
	t.Parallel()

	opts := &GenerateOptions{}
	for _, apply := range []GenerateOption{
		WithModel("m"),
		WithSystemPrompts("a", "b"),
		WithTemperature(0.2),
	} {
		apply(opts)
	}

	if opts.Model != "m" {
		t.Fatalf("model = %q", opts.Model)
	}
	if len(opts.SystemPrompts) != 2 {
		t.Fatalf("system prompts = %v", opts.SystemPrompts)
	}
	if opts.Temperature != 0.2 {
		t.Fatalf("temperature = %v", opts.Temperature)
	}
}
