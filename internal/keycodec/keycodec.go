// Package keycodec translates between the naming conventions used inside the
// state database and the canonical names used by record types.
//
// Two concerns live here: parsing structured composite keys (such as
// "bubbleId:<id>:<id>") into named parts via a small {placeholder} pattern
// grammar, and converting camelCase payload field names into snake_case.
package keycodec

import (
	"regexp"
	"strings"
)

var (
	// acronymBoundary splits "HTMLContent" into "HTML_Content".
	acronymBoundary = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	// wordBoundary splits "bubbleId" into "bubble_Id".
	wordBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// ParseKey matches key against a pattern containing {name} placeholders
// separated by literal delimiters and returns the extracted parts.
//
// A pattern without placeholders succeeds only on an exact match and yields
// an empty, non-nil map. Every placeholder except the last matches one or
// more characters excluding the delimiter that follows it; the last
// placeholder is greedy and matches through the end of the key, delimiters
// included. The match must cover the whole key.
//
//	ParseKey("bubbleId:abc:123", "bubbleId:{bubble_id}:{conversation_id}")
//	  => {"bubble_id": "abc", "conversation_id": "123"}, true
func ParseKey(key, pattern string) (map[string]string, bool) {
	segments := strings.Split(pattern, "{")
	if len(segments) == 1 {
		if key == pattern {
			return map[string]string{}, true
		}
		return nil, false
	}

	var expr strings.Builder
	expr.WriteString(`\A`)
	expr.WriteString(regexp.QuoteMeta(segments[0]))

	var names []string
	for i, segment := range segments[1:] {
		name, rest, closed := strings.Cut(segment, "}")
		if !closed {
			// Unbalanced brace: the segment carries no placeholder.
			continue
		}
		names = append(names, name)
		if i == len(segments)-2 {
			// Last placeholder matches everything, delimiters included.
			expr.WriteString(`(.*)`)
		} else {
			delimiter := ":"
			if rest != "" {
				delimiter = rest[:1]
			}
			expr.WriteString(`([^` + regexp.QuoteMeta(delimiter) + `]+)`)
		}
		expr.WriteString(regexp.QuoteMeta(rest))
	}
	expr.WriteString(`\z`)

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, false
	}

	match := re.FindStringSubmatch(key)
	if match == nil {
		return nil, false
	}

	parts := make(map[string]string, len(names))
	for i, name := range names {
		parts[name] = match[i+1]
	}
	return parts, true
}

// CamelToSnake converts a camelCase name to snake_case.
// Acronym runs keep their boundary ("HTMLContent" => "html_content").
// Idempotent on names that are already snake_case.
func CamelToSnake(name string) string {
	s := acronymBoundary.ReplaceAllString(name, "${1}_${2}")
	s = wordBoundary.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

// RouteFields translates every key of data into canonical form. Entries in
// the known table take precedence over automatic case translation. The split
// between modeled fields and the overflow bag happens later, when a record
// factory compares translated names against its declared-field table.
func RouteFields(data map[string]any, known map[string]string) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if target, ok := known[k]; ok {
			out[target] = v
			continue
		}
		out[CamelToSnake(k)] = v
	}
	return out
}
