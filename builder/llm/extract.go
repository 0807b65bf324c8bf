package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedBlock  = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*\\n?(.*?)```")
	bracketArray = regexp.MustCompile(`(?s)\[.*\]`)
	braceObject  = regexp.MustCompile(`(?s)\{.*\}`)
)

// JSONCandidates returns the pieces of text that may hold the JSON payload,
// in the order they should be tried: fenced code blocks, the outermost
// bracketed array, the outermost braced object, then the whole text.
func JSONCandidates(text string) []string {
	var out []string
	for _, m := range fencedBlock.FindAllStringSubmatch(text, -1) {
		if s := strings.TrimSpace(m[1]); s != "" {
			out = append(out, s)
		}
	}
	if m := bracketArray.FindString(text); m != "" {
		out = append(out, m)
	}
	if m := braceObject.FindString(text); m != "" {
		out = append(out, m)
	}
	if s := strings.TrimSpace(text); s != "" {
		out = append(out, s)
	}
	return out
}

// ExtractJSON decodes the first candidate of text that unmarshals into v.
func ExtractJSON(text string, v any) error {
	for _, candidate := range JSONCandidates(text) {
		if err := json.Unmarshal([]byte(candidate), v); err == nil {
			return nil
		}
	}
	return ErrNoJSON
}

var wrappingFence = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n(.*?)\\n?```$")

// CleanText strips a wrapping code fence and surrounding quotes from a
// free-text answer.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if m := wrappingFence.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
