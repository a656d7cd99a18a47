package llm

import (
	"encoding/json"
	"testing"
)

func TestExtractJSONFencedBlock(t *testing.T) {
	text := "Here is my analysis.\n```json\n{\"sentiment\": \"bullish\", \"confidence\": 0.8}\n```\nDone."
	raw, ok := ExtractJSON(text)
	if !ok {
		t.Fatalf("expected fenced block to be extracted")
	}
	var out struct {
		Sentiment  string  `json:"sentiment"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Sentiment != "bullish" || out.Confidence != 0.8 {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

func TestExtractJSONBareObject(t *testing.T) {
	text := `The answer is {"action": "buy", "confidence": 0.6} as discussed.`
	raw, ok := ExtractJSON(text)
	if !ok {
		t.Fatalf("expected bare object to be extracted")
	}
	if string(raw) != `{"action": "buy", "confidence": 0.6}` {
		t.Fatalf("unexpected raw: %s", raw)
	}
}

func TestExtractJSONBracesInsideStrings(t *testing.T) {
	text := `prefix {"note": "uses {curly} braces", "ok": true} suffix`
	raw, ok := ExtractJSON(text)
	if !ok {
		t.Fatalf("expected extraction despite braces in string value")
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["note"] != "uses {curly} braces" {
		t.Fatalf("unexpected note: %v", out["note"])
	}
}

func TestExtractJSONEscapedQuotes(t *testing.T) {
	text := `{"quote": "he said \"buy\" loudly"}`
	raw, ok := ExtractJSON(text)
	if !ok {
		t.Fatalf("expected extraction with escaped quotes")
	}
	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
}

func TestExtractJSONNested(t *testing.T) {
	text := "```json\n{\"outer\": {\"inner\": [1, 2, 3]}}\n```"
	raw, ok := ExtractJSON(text)
	if !ok {
		t.Fatalf("expected nested object extraction")
	}
	if !json.Valid(raw) {
		t.Fatalf("extracted payload is not valid JSON: %s", raw)
	}
}

func TestExtractJSONMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"no json here at all",
		"{unterminated",
		"``` {still broken ```",
		`{"key": }`,
	}
	for _, text := range cases {
		if _, ok := ExtractJSON(text); ok {
			t.Fatalf("expected failure for %q", text)
		}
	}
}

func TestExtractJSONSkipsBrokenThenFindsValid(t *testing.T) {
	text := `{broken then {"valid": true}`
	raw, ok := ExtractJSON(text)
	if !ok {
		t.Fatalf("expected scan to skip broken candidate")
	}
	if string(raw) != `{"valid": true}` {
		t.Fatalf("unexpected raw: %s", raw)
	}
}
