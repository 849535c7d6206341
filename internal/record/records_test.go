package record

import (
	"reflect"
	"testing"

	"github.com/hpungsan/cursordata/internal/errors"
)

func TestRequestContextFromMap(t *testing.T) {
	r := RequestContextFromMap(map[string]any{
		"multiFileLinterErrors": []any{"err"},
		"cursorRules":           []any{"rule"},
		"unexpectedExtra":       true,
	})
	if len(r.MultiFileLinterErrors) != 1 || len(r.CursorRules) != 1 {
		t.Errorf("declared fields not set: %+v", r)
	}
	if r.Raw["unexpectedExtra"] != true {
		t.Errorf("Raw = %v", r.Raw)
	}
}

func TestCheckpointFromMap(t *testing.T) {
	cp := CheckpointFromMap(map[string]any{
		"files":               map[string]any{"main.go": map[string]any{}},
		"nonExistentFiles":    []any{"gone.go"},
		"newlyCreatedFolders": []any{"pkg/"},
	}, map[string]string{
		"bubble_id":     "bub-1",
		"checkpoint_id": "cp-1",
	})

	if cp.BubbleID != "bub-1" || cp.CheckpointID != "cp-1" {
		t.Errorf("identity = %q, %q", cp.BubbleID, cp.CheckpointID)
	}
	if len(cp.Files) != 1 {
		t.Errorf("Files = %v", cp.Files)
	}
	if !reflect.DeepEqual(cp.NonExistentFiles, []string{"gone.go"}) {
		t.Errorf("NonExistentFiles = %v", cp.NonExistentFiles)
	}
	if !reflect.DeepEqual(cp.NewlyCreatedFolders, []string{"pkg/"}) {
		t.Errorf("NewlyCreatedFolders = %v", cp.NewlyCreatedFolders)
	}
}

func TestCheckpointFromMap_MixedTypeStringList(t *testing.T) {
	// A string list holding a non-string element cannot take the declared
	// type and must survive in Raw.
	cp := CheckpointFromMap(map[string]any{
		"nonExistentFiles": []any{"ok.go", float64(3)},
	}, nil)
	if cp.NonExistentFiles != nil {
		t.Errorf("NonExistentFiles = %v, want nil", cp.NonExistentFiles)
	}
	if _, ok := cp.Raw["nonExistentFiles"]; !ok {
		t.Errorf("Raw = %v", cp.Raw)
	}
}

func TestBlockDiffFromMap(t *testing.T) {
	b := BlockDiffFromMap(map[string]any{
		"newModelDiffWrtV0": map[string]any{"chunks": []any{}},
	})
	if b.NewModelDiffWrtV0 == nil {
		t.Error("NewModelDiffWrtV0 not set")
	}
	if b.OriginalModelDiffWrtV0 != nil {
		t.Error("OriginalModelDiffWrtV0 should default to nil")
	}
}

func TestComposerFromMap(t *testing.T) {
	c := ComposerFromMap(map[string]any{
		"_v":                  float64(3),
		"composerId":          "comp-payload",
		"hasLoaded":           true,
		"status":              "completed",
		"generatingBubbleIds": []any{"b1", "b2"},
	}, map[string]string{"composer_id": "comp-key"})

	if c.V != 3 || !c.HasLoaded || c.Status != "completed" {
		t.Errorf("fields = %+v", c)
	}
	// The payload id takes precedence over the key part.
	if c.ComposerID != "comp-payload" {
		t.Errorf("ComposerID = %q", c.ComposerID)
	}
	if !reflect.DeepEqual(c.GeneratingBubbleIDs, []string{"b1", "b2"}) {
		t.Errorf("GeneratingBubbleIDs = %v", c.GeneratingBubbleIDs)
	}
}

func TestComposerFromMap_KeyPartFillsMissingID(t *testing.T) {
	c := ComposerFromMap(map[string]any{"text": "hi"}, map[string]string{"composer_id": "comp-key"})
	if c.ComposerID != "comp-key" {
		t.Errorf("ComposerID = %q, want key part", c.ComposerID)
	}
}

func TestInlineDiffsFromMap(t *testing.T) {
	d := InlineDiffsFromMap("ws-1", map[string]any{"anything": true})
	if d.WorkspaceID != "ws-1" || d.Data["anything"] != true {
		t.Errorf("InlineDiffs = %+v", d)
	}
}

func TestTrackingEntryFromMap(t *testing.T) {
	e, err := TrackingEntryFromMap(map[string]any{
		"hash": "abc123",
		"metadata": map[string]any{
			"source":        "composer",
			"composerId":    "comp-1",
			"fileExtension": ".go",
			"fileName":      "/p/main.go",
		},
	})
	if err != nil {
		t.Fatalf("TrackingEntryFromMap: %v", err)
	}
	if e.Hash != "abc123" || e.Source() != "composer" || e.ComposerID() != "comp-1" {
		t.Errorf("entry = %+v", e)
	}
	if e.FileExtension() != ".go" || e.FileName() != "/p/main.go" {
		t.Errorf("file meta = %q, %q", e.FileExtension(), e.FileName())
	}
}

func TestTrackingEntryFromMap_MissingHash(t *testing.T) {
	_, err := TrackingEntryFromMap(map[string]any{"metadata": map[string]any{}})
	if !errors.Is(err, errors.ErrMissingField) {
		t.Errorf("err = %v, want missing-field error", err)
	}
}

func TestTrackingEntryFromMap_NoMetadata(t *testing.T) {
	e, err := TrackingEntryFromMap(map[string]any{"hash": "h"})
	if err != nil {
		t.Fatal(err)
	}
	if e.Metadata == nil || e.Source() != "" {
		t.Errorf("entry = %+v", e)
	}
}

func TestSessionFromEntries(t *testing.T) {
	mk := func(file, ext string) *TrackingEntry {
		return &TrackingEntry{Hash: "h", Metadata: map[string]any{
			"fileName": file, "fileExtension": ext,
		}}
	}
	entries := []*TrackingEntry{
		mk("a.go", ".go"),
		mk("b.go", ".go"),
		mk("a.go", ".go"), // duplicate file
		{Hash: "h", Metadata: map[string]any{}},
	}
	s := SessionFromEntries("comp-1", entries)

	if s.ComposerID != "comp-1" || s.EntriesCount != 4 {
		t.Errorf("session = %+v", s)
	}
	if !reflect.DeepEqual(s.FilesModified, []string{"a.go", "b.go"}) {
		t.Errorf("FilesModified = %v", s.FilesModified)
	}
	if !reflect.DeepEqual(s.FileExtensions, []string{".go"}) {
		t.Errorf("FileExtensions = %v", s.FileExtensions)
	}
}
