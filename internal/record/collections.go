package record

import (
	"time"

	"github.com/hpungsan/cursordata/internal/collection"
)

// ConversationCollection is a collection of conversations with
// chat-specific filters layered over the generic operations.
type ConversationCollection struct {
	collection.Collection[*Conversation]
}

// NewConversationCollection wraps the given conversations.
func NewConversationCollection(items []*Conversation) ConversationCollection {
	return ConversationCollection{collection.New(items)}
}

// stripZone reduces a timestamp to its wall-clock components so that
// zone-aware and zone-naive values stored side by side compare sanely.
func stripZone(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// FilterByDateRange keeps conversations created within [start, end], both
// inclusive. A zero start or end leaves that side unbounded. Conversations
// without a parseable creation timestamp are dropped.
func (c ConversationCollection) FilterByDateRange(start, end time.Time) ConversationCollection {
	return ConversationCollection{c.Filter(func(conv *Conversation) bool {
		created, ok := ParseTimestamp(conv.CreatedAt)
		if !ok {
			return false
		}
		created = stripZone(created)
		if !start.IsZero() && created.Before(stripZone(start)) {
			return false
		}
		if !end.IsZero() && created.After(stripZone(end)) {
			return false
		}
		return true
	})}
}

// FilterByModel keeps conversations recorded against the given model name.
func (c ConversationCollection) FilterByModel(model string) ConversationCollection {
	return ConversationCollection{c.Filter(func(conv *Conversation) bool {
		return conv.ModelName() == model
	})}
}

// FilterByTokenCount keeps conversations with at least minInput input tokens
// and minOutput output tokens. Missing counts are treated as zero.
func (c ConversationCollection) FilterByTokenCount(minInput, minOutput int) ConversationCollection {
	return ConversationCollection{c.Filter(func(conv *Conversation) bool {
		in, _ := conv.InputTokens()
		out, _ := conv.OutputTokens()
		return in >= minInput && out >= minOutput
	})}
}

// WithCodeBlocks keeps conversations carrying suggested code blocks.
func (c ConversationCollection) WithCodeBlocks() ConversationCollection {
	return ConversationCollection{c.Filter(func(conv *Conversation) bool {
		return len(conv.SuggestedCodeBlocks) > 0
	})}
}

// WithDiffs keeps conversations carrying assistant or pending diffs.
func (c ConversationCollection) WithDiffs() ConversationCollection {
	return ConversationCollection{c.Filter(func(conv *Conversation) bool {
		return len(conv.AssistantSuggestedDiffs) > 0 || len(conv.DiffsSinceLastApply) > 0
	})}
}

// WithLintErrors keeps conversations carrying lint diagnostics.
func (c ConversationCollection) WithLintErrors() ConversationCollection {
	return ConversationCollection{c.Filter(func(conv *Conversation) bool {
		return len(conv.Lints) > 0 || len(conv.MultiFileLinterErrors) > 0
	})}
}

// AgenticOnly keeps agentic conversations.
func (c ConversationCollection) AgenticOnly() ConversationCollection {
	return ConversationCollection{c.Filter(func(conv *Conversation) bool {
		return conv.IsAgentic
	})}
}

// GroupByDate groups conversations by creation day (YYYY-MM-DD). Entries
// without a parseable timestamp group under "unknown".
func (c ConversationCollection) GroupByDate() collection.Grouped[*Conversation] {
	return c.GroupBy(func(conv *Conversation) string {
		created, ok := ParseTimestamp(conv.CreatedAt)
		if !ok {
			return "unknown"
		}
		return created.Format("2006-01-02")
	})
}

// GroupByModel groups conversations by model name, with "unknown" for
// conversations that recorded none.
func (c ConversationCollection) GroupByModel() collection.Grouped[*Conversation] {
	return c.GroupBy(func(conv *Conversation) string {
		if name := conv.ModelName(); name != "" {
			return name
		}
		return "unknown"
	})
}

// ComposerSessionCollection is a collection of composer session summaries.
type ComposerSessionCollection struct {
	collection.Collection[*ComposerSession]
}

// NewComposerSessionCollection wraps the given sessions.
func NewComposerSessionCollection(items []*ComposerSession) ComposerSessionCollection {
	return ComposerSessionCollection{collection.New(items)}
}

// FilterByExtension keeps sessions that touched files with the extension.
func (c ComposerSessionCollection) FilterByExtension(ext string) ComposerSessionCollection {
	return ComposerSessionCollection{c.Filter(func(s *ComposerSession) bool {
		for _, e := range s.FileExtensions {
			if e == ext {
				return true
			}
		}
		return false
	})}
}

// FilterByFileCount keeps sessions whose modified-file count is at least min
// and, when max is non-negative, at most max.
func (c ComposerSessionCollection) FilterByFileCount(min, max int) ComposerSessionCollection {
	return ComposerSessionCollection{c.Filter(func(s *ComposerSession) bool {
		n := len(s.FilesModified)
		if n < min {
			return false
		}
		if max >= 0 && n > max {
			return false
		}
		return true
	})}
}

// GroupByExtension groups sessions by file extension. A session that touched
// several extensions appears in every matching group, so this returns a plain
// map rather than a partition.
func (c ComposerSessionCollection) GroupByExtension() map[string]ComposerSessionCollection {
	byExt := make(map[string][]*ComposerSession)
	c.Each(func(s *ComposerSession) {
		for _, ext := range s.FileExtensions {
			byExt[ext] = append(byExt[ext], s)
		}
	})
	out := make(map[string]ComposerSessionCollection, len(byExt))
	for ext, sessions := range byExt {
		out[ext] = NewComposerSessionCollection(sessions)
	}
	return out
}

// TrackingCollection is a collection of code-tracking entries.
type TrackingCollection struct {
	collection.Collection[*TrackingEntry]
}

// NewTrackingCollection wraps the given entries.
func NewTrackingCollection(items []*TrackingEntry) TrackingCollection {
	return TrackingCollection{collection.New(items)}
}

// FilterBySource keeps entries whose metadata source matches.
func (c TrackingCollection) FilterBySource(source string) TrackingCollection {
	return TrackingCollection{c.Filter(func(e *TrackingEntry) bool {
		return e.Source() == source
	})}
}

// FilterByExtension keeps entries for files with the given extension.
func (c TrackingCollection) FilterByExtension(ext string) TrackingCollection {
	return TrackingCollection{c.Filter(func(e *TrackingEntry) bool {
		return e.FileExtension() == ext
	})}
}

// FilterByComposerID keeps entries produced by the given composer.
func (c TrackingCollection) FilterByComposerID(id string) TrackingCollection {
	return TrackingCollection{c.Filter(func(e *TrackingEntry) bool {
		return e.ComposerID() == id
	})}
}

// GroupBySource groups entries by metadata source, with "unknown" for
// entries that recorded none.
func (c TrackingCollection) GroupBySource() collection.Grouped[*TrackingEntry] {
	return c.GroupBy(func(e *TrackingEntry) string {
		if s := e.Source(); s != "" {
			return s
		}
		return "unknown"
	})
}

// GroupByExtension groups entries by file extension, with "unknown" for
// entries that recorded none.
func (c TrackingCollection) GroupByExtension() collection.Grouped[*TrackingEntry] {
	return c.GroupBy(func(e *TrackingEntry) string {
		if x := e.FileExtension(); x != "" {
			return x
		}
		return "unknown"
	})
}
