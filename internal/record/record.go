// Package record defines the typed record kinds decoded from the state
// database, the factories that build them from raw JSON payloads, and the
// domain collections layered over them.
//
// Every record kind carries a fixed set of declared fields plus one Raw
// overflow bag. The factories translate payload field names to snake_case,
// assign whatever matches a declared field, and park everything else in Raw
// under its original name, so no input data is ever dropped.
package record

import "github.com/hpungsan/cursordata/internal/keycodec"

// Key prefixes and patterns for the cursorDiskKV table.
const (
	KeyPrefixConversation   = "bubbleId:"
	KeyPrefixRequestContext = "messageRequestContext:"
	KeyPrefixCheckpoint     = "checkpointId:"
	KeyPrefixBlockDiff      = "codeBlockDiff:"
	KeyPrefixComposer       = "composerData:"
	KeyPrefixInlineDiffs    = "inlineDiffs-"

	KeyPatternConversation = "bubbleId:{bubble_id}:{conversation_id}"
	KeyPatternCheckpoint   = "checkpointId:{bubble_id}:{checkpoint_id}"
	KeyPatternComposer     = "composerData:{composer_id}"
	KeyPatternInlineDiffs  = "inlineDiffs-{workspace_id}"
)

// Known keys in the ItemTable.
const (
	ItemKeyTrackingLines     = "aiCodeTrackingLines"
	ItemKeyScoredCommits     = "aiCodeTrackingScoredCommits"
	ItemKeyTrackingStartTime = "aiCodeTrackingStartTime"

	ItemKeyComposerReopened  = "composer.hasReopenedOnce"
	ItemKeyBackgroundWindows = "backgroundComposer.windowBcMapping"
	ItemKeyWorkspaceTransfer = "chat.workspaceTransfer"
	ItemKeyPersonalContext   = "aicontext.personalContext"
)

// translate maps every payload key to its snake_case form and remembers the
// original spelling, so overflow entries can be stored under the name the
// payload used.
func translate(data map[string]any) (fields map[string]any, origin map[string]string) {
	fields = keycodec.RouteFields(data, nil)
	origin = make(map[string]string, len(data))
	for k := range data {
		origin[keycodec.CamelToSnake(k)] = k
	}
	return fields, origin
}

// originOf returns the original spelling for a translated name, falling back
// to the translated name itself (synthetic entries have no original form).
func originOf(origin map[string]string, name string) string {
	if o, ok := origin[name]; ok {
		return o
	}
	return name
}

// Coercion helpers. JSON payloads are dynamically shaped; a value that does
// not fit its declared field type is reported as a failure so the factory
// can route it to the overflow bag instead of silently zeroing it. A JSON
// null always succeeds and leaves the field at its default.

func toString(v any) (string, bool) {
	if v == nil {
		return "", true
	}
	s, ok := v.(string)
	return s, ok
}

func toBool(v any) (bool, bool) {
	if v == nil {
		return false, true
	}
	b, ok := v.(bool)
	return b, ok
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

func toList(v any) ([]any, bool) {
	if v == nil {
		return nil, true
	}
	l, ok := v.([]any)
	return l, ok
}

func toStringList(v any) ([]string, bool) {
	if v == nil {
		return nil, true
	}
	l, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(l))
	for _, e := range l {
		s, ok := e.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func toMap(v any) (map[string]any, bool) {
	if v == nil {
		return nil, true
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func intFrom(m map[string]any, key string) (int, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false
	}
	return toInt(v)
}
