package record

import (
	"reflect"
	"testing"
	"time"
)

func convAt(created, model string) *Conversation {
	data := map[string]any{}
	if created != "" {
		data["createdAt"] = created
	}
	if model != "" {
		data["modelName"] = model
	}
	return ConversationFromMap(data, nil)
}

func TestConversationCollection_FilterByDateRange(t *testing.T) {
	cc := NewConversationCollection([]*Conversation{
		convAt("2025-06-01T09:00:00Z", ""),
		convAt("2025-06-15T12:00:00Z", ""),
		convAt("2025-07-01T18:00:00Z", ""),
		convAt("", ""), // no timestamp, always dropped
	})

	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	got := cc.FilterByDateRange(start, end)
	if got.Len() != 1 {
		t.Fatalf("Len = %d, want 1", got.Len())
	}
	if first, _ := got.First(); first.CreatedAt != "2025-06-15T12:00:00Z" {
		t.Errorf("kept %q", first.CreatedAt)
	}

	// Zero bounds leave that side open.
	if got := cc.FilterByDateRange(time.Time{}, end); got.Len() != 2 {
		t.Errorf("open start: Len = %d, want 2", got.Len())
	}
	if got := cc.FilterByDateRange(start, time.Time{}); got.Len() != 2 {
		t.Errorf("open end: Len = %d, want 2", got.Len())
	}
}

func TestConversationCollection_DateRangeMixedZones(t *testing.T) {
	// Zone-aware and zone-naive timestamps compare by wall clock.
	cc := NewConversationCollection([]*Conversation{
		convAt("2025-06-15T12:00:00+09:00", ""),
		convAt("2025-06-15T12:00:00", ""),
	})
	start := time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 13, 0, 0, 0, time.UTC)
	if got := cc.FilterByDateRange(start, end); got.Len() != 2 {
		t.Errorf("Len = %d, want both kept by wall clock", got.Len())
	}
}

func TestConversationCollection_FilterByModel(t *testing.T) {
	cc := NewConversationCollection([]*Conversation{
		convAt("", "gpt-5"),
		convAt("", "claude"),
		convAt("", ""),
	})
	if got := cc.FilterByModel("claude"); got.Len() != 1 {
		t.Errorf("Len = %d, want 1", got.Len())
	}
}

func TestConversationCollection_FilterByTokenCount(t *testing.T) {
	withTokens := func(in, out int) *Conversation {
		return ConversationFromMap(map[string]any{
			"tokenCount": map[string]any{
				"inputTokens":  float64(in),
				"outputTokens": float64(out),
			},
		}, nil)
	}
	cc := NewConversationCollection([]*Conversation{
		withTokens(100, 50),
		withTokens(10, 500),
		ConversationFromMap(nil, nil), // no counts, treated as zero
	})

	if got := cc.FilterByTokenCount(50, 0); got.Len() != 1 {
		t.Errorf("min input 50: Len = %d, want 1", got.Len())
	}
	if got := cc.FilterByTokenCount(0, 0); got.Len() != 3 {
		t.Errorf("no bounds: Len = %d, want 3", got.Len())
	}
}

func TestConversationCollection_ContentFilters(t *testing.T) {
	cc := NewConversationCollection([]*Conversation{
		ConversationFromMap(map[string]any{"suggestedCodeBlocks": []any{"b"}}, nil),
		ConversationFromMap(map[string]any{"diffsSinceLastApply": []any{"d"}}, nil),
		ConversationFromMap(map[string]any{"multiFileLinterErrors": []any{"e"}}, nil),
		ConversationFromMap(map[string]any{"isAgentic": true}, nil),
	})

	if got := cc.WithCodeBlocks(); got.Len() != 1 {
		t.Errorf("WithCodeBlocks = %d", got.Len())
	}
	if got := cc.WithDiffs(); got.Len() != 1 {
		t.Errorf("WithDiffs = %d", got.Len())
	}
	if got := cc.WithLintErrors(); got.Len() != 1 {
		t.Errorf("WithLintErrors = %d", got.Len())
	}
	if got := cc.AgenticOnly(); got.Len() != 1 {
		t.Errorf("AgenticOnly = %d", got.Len())
	}
}

func TestConversationCollection_GroupByDate(t *testing.T) {
	cc := NewConversationCollection([]*Conversation{
		convAt("2025-06-01T09:00:00Z", ""),
		convAt("2025-06-01T22:00:00Z", ""),
		convAt("2025-06-02T09:00:00Z", ""),
		convAt("bad timestamp", ""),
	})
	g := cc.GroupByDate()

	if want := []string{"2025-06-01", "2025-06-02", "unknown"}; !reflect.DeepEqual(g.Keys(), want) {
		t.Errorf("Keys = %v, want %v", g.Keys(), want)
	}
	day1, _ := g.Get("2025-06-01")
	if day1.Len() != 2 {
		t.Errorf("2025-06-01 group = %d entries", day1.Len())
	}
}

func TestConversationCollection_GroupByModel(t *testing.T) {
	cc := NewConversationCollection([]*Conversation{
		convAt("", "gpt-5"),
		convAt("", ""),
		convAt("", "gpt-5"),
	})
	g := cc.GroupByModel()
	if want := []string{"gpt-5", "unknown"}; !reflect.DeepEqual(g.Keys(), want) {
		t.Errorf("Keys = %v, want %v", g.Keys(), want)
	}
}

func TestComposerSessionCollection(t *testing.T) {
	sessions := NewComposerSessionCollection([]*ComposerSession{
		{ComposerID: "a", FilesModified: []string{"x.go"}, FileExtensions: []string{".go"}},
		{ComposerID: "b", FilesModified: []string{"y.ts", "z.ts"}, FileExtensions: []string{".ts"}},
		{ComposerID: "c", FilesModified: []string{"m.go", "n.ts"}, FileExtensions: []string{".go", ".ts"}},
	})

	if got := sessions.FilterByExtension(".go"); got.Len() != 2 {
		t.Errorf("FilterByExtension(.go) = %d", got.Len())
	}
	if got := sessions.FilterByFileCount(2, -1); got.Len() != 2 {
		t.Errorf("FilterByFileCount(2, unbounded) = %d", got.Len())
	}
	if got := sessions.FilterByFileCount(0, 1); got.Len() != 1 {
		t.Errorf("FilterByFileCount(0, 1) = %d", got.Len())
	}

	byExt := sessions.GroupByExtension()
	if len(byExt) != 2 {
		t.Fatalf("GroupByExtension groups = %d", len(byExt))
	}
	// Session "c" touched both extensions and must appear in both groups.
	if byExt[".go"].Len() != 2 || byExt[".ts"].Len() != 2 {
		t.Errorf("group sizes = %d, %d", byExt[".go"].Len(), byExt[".ts"].Len())
	}
}

func TestTrackingCollection(t *testing.T) {
	mk := func(source, ext, composer string) *TrackingEntry {
		return &TrackingEntry{Hash: "h", Metadata: map[string]any{
			"source": source, "fileExtension": ext, "composerId": composer,
		}}
	}
	tc := NewTrackingCollection([]*TrackingEntry{
		mk("composer", ".go", "c1"),
		mk("composer", ".ts", "c2"),
		mk("tab", ".go", "c1"),
		{Hash: "h", Metadata: map[string]any{}},
	})

	if got := tc.FilterBySource("composer"); got.Len() != 2 {
		t.Errorf("FilterBySource = %d", got.Len())
	}
	if got := tc.FilterByExtension(".go"); got.Len() != 2 {
		t.Errorf("FilterByExtension = %d", got.Len())
	}
	if got := tc.FilterByComposerID("c1"); got.Len() != 2 {
		t.Errorf("FilterByComposerID = %d", got.Len())
	}

	bySource := tc.GroupBySource()
	if want := []string{"composer", "tab", "unknown"}; !reflect.DeepEqual(bySource.Keys(), want) {
		t.Errorf("GroupBySource keys = %v", bySource.Keys())
	}
	byExt := tc.GroupByExtension()
	if want := []string{".go", ".ts", "unknown"}; !reflect.DeepEqual(byExt.Keys(), want) {
		t.Errorf("GroupByExtension keys = %v", byExt.Keys())
	}
}
