package record

import (
	"reflect"
	"testing"
)

func TestConversationFromMap_DeclaredFields(t *testing.T) {
	data := map[string]any{
		"_v":        float64(2),
		"type":      float64(1),
		"text":      "fix the bug",
		"richText":  "<p>fix the bug</p>",
		"createdAt": "2025-06-01T10:30:00Z",
		"isAgentic": true,
		"lints":     []any{map[string]any{"severity": "error"}},
		"tokenCount": map[string]any{
			"inputTokens":  float64(120),
			"outputTokens": float64(450),
		},
	}
	c := ConversationFromMap(data, map[string]string{
		"bubble_id":       "bub-1",
		"conversation_id": "conv-1",
	})

	if c.V != 2 || c.Type != 1 {
		t.Errorf("V, Type = %d, %d", c.V, c.Type)
	}
	if c.Text != "fix the bug" || c.RichText != "<p>fix the bug</p>" {
		t.Errorf("Text = %q, RichText = %q", c.Text, c.RichText)
	}
	if c.BubbleID != "bub-1" || c.ConversationID != "conv-1" {
		t.Errorf("identity = %q, %q", c.BubbleID, c.ConversationID)
	}
	if !c.IsAgentic {
		t.Error("IsAgentic = false")
	}
	if len(c.Lints) != 1 {
		t.Errorf("Lints = %v", c.Lints)
	}
	if len(c.Raw) != 0 {
		t.Errorf("Raw should be empty, got %v", c.Raw)
	}
}

func TestConversationFromMap_OverflowKeepsOriginalNames(t *testing.T) {
	data := map[string]any{
		"text":              "hello",
		"someFutureField":   "value",
		"anotherNewThing":   float64(7),
		"nestedUnknownData": map[string]any{"k": "v"},
	}
	c := ConversationFromMap(data, nil)

	if c.Text != "hello" {
		t.Errorf("Text = %q", c.Text)
	}
	want := map[string]any{
		"someFutureField":   "value",
		"anotherNewThing":   float64(7),
		"nestedUnknownData": map[string]any{"k": "v"},
	}
	if !reflect.DeepEqual(c.Raw, want) {
		t.Errorf("Raw = %v, want %v", c.Raw, want)
	}
}

func TestConversationFromMap_MistypedValueGoesToRaw(t *testing.T) {
	// "lints" is declared as a list; a non-list payload value must survive
	// in Raw instead of being zeroed away.
	c := ConversationFromMap(map[string]any{"lints": "not-a-list"}, nil)
	if c.Lints != nil {
		t.Errorf("Lints = %v, want nil", c.Lints)
	}
	if c.Raw["lints"] != "not-a-list" {
		t.Errorf("Raw = %v", c.Raw)
	}
}

func TestConversationFromMap_NullLeavesDefault(t *testing.T) {
	c := ConversationFromMap(map[string]any{"text": nil, "lints": nil}, nil)
	if c.Text != "" || c.Lints != nil {
		t.Errorf("null handling: Text = %q, Lints = %v", c.Text, c.Lints)
	}
	if len(c.Raw) != 0 {
		t.Errorf("nulls leaked into Raw: %v", c.Raw)
	}
}

func TestConversationFromMap_ModelNameNesting(t *testing.T) {
	c := ConversationFromMap(map[string]any{"modelName": "gpt-5"}, nil)
	if got := c.ModelName(); got != "gpt-5" {
		t.Errorf("ModelName = %q", got)
	}
	if _, leaked := c.Raw["modelName"]; leaked {
		t.Error("modelName leaked into Raw after nesting")
	}

	// When modelInfo already exists, the inner key is normalized instead.
	c = ConversationFromMap(map[string]any{
		"modelInfo": map[string]any{"model_name": "claude"},
	}, nil)
	if got := c.ModelName(); got != "claude" {
		t.Errorf("ModelName after inner rename = %q", got)
	}
}

func TestConversationFromMap_TokenNesting(t *testing.T) {
	c := ConversationFromMap(map[string]any{
		"inputTokens":  float64(10),
		"outputTokens": float64(20),
	}, nil)

	in, ok := c.InputTokens()
	if !ok || in != 10 {
		t.Errorf("InputTokens = %d, %v", in, ok)
	}
	out, ok := c.OutputTokens()
	if !ok || out != 20 {
		t.Errorf("OutputTokens = %d, %v", out, ok)
	}
	total, ok := c.TotalTokens()
	if !ok || total != 30 {
		t.Errorf("TotalTokens = %d, %v", total, ok)
	}
}

func TestConversation_TotalTokensRequiresBoth(t *testing.T) {
	c := ConversationFromMap(map[string]any{"inputTokens": float64(10)}, nil)
	if _, ok := c.TotalTokens(); ok {
		t.Error("TotalTokens reported ok with output count missing")
	}
}

func TestConversationFromMap_TokenCountAlwaysMapping(t *testing.T) {
	c := ConversationFromMap(map[string]any{"tokenCount": "garbage"}, nil)
	if c.TokenCount == nil || len(c.TokenCount) != 0 {
		t.Errorf("TokenCount = %v, want empty mapping", c.TokenCount)
	}
}

func TestConversationFromMap_KeyPartsWinOverPayload(t *testing.T) {
	c := ConversationFromMap(map[string]any{"bubbleId": "from-payload"}, map[string]string{
		"bubble_id": "from-key",
	})
	if c.BubbleID != "from-key" {
		t.Errorf("BubbleID = %q, want key part to win", c.BubbleID)
	}
}

func TestConversationFromMap_UnmappedKeyPartGoesToRaw(t *testing.T) {
	c := ConversationFromMap(nil, map[string]string{"workspace_id": "ws-9"})
	if c.Raw["workspace_id"] != "ws-9" {
		t.Errorf("Raw = %v", c.Raw)
	}
}

// Every payload entry must end up either in a declared field or in Raw.
func TestConversationFromMap_NoDataLoss(t *testing.T) {
	data := map[string]any{
		"text":           "t",
		"isAgentic":      true,
		"mysteryFieldA":  "a",
		"mysteryFieldB":  []any{"b"},
		"gitDiffs":       []any{"diff"},
		"capabilities":   "mistyped",
		"consoleLogs":    nil,
	}
	c := ConversationFromMap(data, nil)

	declared := 0
	if c.Text == "t" {
		declared++
	}
	if c.IsAgentic {
		declared++
	}
	if len(c.GitDiffs) == 1 {
		declared++
	}
	if declared != 3 {
		t.Fatalf("declared fields not all set")
	}
	for _, key := range []string{"mysteryFieldA", "mysteryFieldB", "capabilities"} {
		if _, ok := c.Raw[key]; !ok {
			t.Errorf("Raw missing %q: %v", key, c.Raw)
		}
	}
}
