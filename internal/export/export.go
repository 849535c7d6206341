// Package export renders conversation transcripts for sharing: Markdown,
// standalone HTML, and JSON summaries.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/cursordata/internal/errors"
	"github.com/hpungsan/cursordata/internal/record"
)

// Summary is the JSON export shape for one conversation.
type Summary struct {
	BubbleID       string `json:"bubbleId"`
	ConversationID string `json:"conversationId,omitempty"`
	Role           string `json:"role"`
	ModelName      string `json:"modelName,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
	Text           string `json:"text"`
	InputTokens    *int   `json:"inputTokens,omitempty"`
	OutputTokens   *int   `json:"outputTokens,omitempty"`
}

// roleFor maps the stored bubble type to a transcript role. Cursor writes
// type 1 for user messages and type 2 for assistant messages.
func roleFor(bubbleType int) string {
	switch bubbleType {
	case 1:
		return "user"
	case 2:
		return "assistant"
	}
	return fmt.Sprintf("type-%d", bubbleType)
}

// Summarize reduces conversations to their export shape.
func Summarize(conversations []*record.Conversation) []Summary {
	out := make([]Summary, 0, len(conversations))
	for _, conv := range conversations {
		s := Summary{
			BubbleID:       conv.BubbleID,
			ConversationID: conv.ConversationID,
			Role:           roleFor(conv.Type),
			ModelName:      conv.ModelName(),
			CreatedAt:      conv.CreatedAt,
			Text:           conv.Text,
		}
		if in, ok := conv.InputTokens(); ok {
			s.InputTokens = &in
		}
		if n, ok := conv.OutputTokens(); ok {
			s.OutputTokens = &n
		}
		out = append(out, s)
	}
	return out
}

// JSON renders conversations as an indented JSON array.
func JSON(conversations []*record.Conversation) ([]byte, error) {
	data, err := json.MarshalIndent(Summarize(conversations), "", "  ")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return data, nil
}

// Markdown renders conversations as a transcript document. The output is
// deterministic: one section per conversation in input order.
func Markdown(title string, conversations []*record.Conversation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", title)

	for _, conv := range conversations {
		b.WriteString("\n")
		fmt.Fprintf(&b, "## %s\n", roleFor(conv.Type))

		var meta []string
		if conv.ModelName() != "" {
			meta = append(meta, "model: "+conv.ModelName())
		}
		if conv.CreatedAt != "" {
			meta = append(meta, "created: "+conv.CreatedAt)
		}
		if total, ok := conv.TotalTokens(); ok {
			meta = append(meta, fmt.Sprintf("tokens: %d", total))
		}
		if len(meta) > 0 {
			fmt.Fprintf(&b, "_%s_\n", strings.Join(meta, " | "))
		}

		b.WriteString("\n")
		if conv.Text != "" {
			b.WriteString(conv.Text)
			b.WriteString("\n")
		} else {
			b.WriteString("(no text)\n")
		}
	}
	return b.String()
}

var htmlPage = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}</body>
</html>
`))

// HTML renders conversations as a standalone HTML page. The transcript is
// built as Markdown first and converted with goldmark.
func HTML(title string, conversations []*record.Conversation) ([]byte, error) {
	var body bytes.Buffer
	md := Markdown(title, conversations)
	if err := goldmark.Convert([]byte(md), &body); err != nil {
		return nil, errors.NewInternal(err)
	}

	var page bytes.Buffer
	err := htmlPage.Execute(&page, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return page.Bytes(), nil
}
