package adgen

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// parseCandidates decodes the raw LLM completion into candidates. Providers
// sometimes wrap the JSON in markdown fences despite instructions, so those
// are stripped first. Empty candidates are dropped and text beyond the
// display limits is cut at a word boundary.
func parseCandidates(raw string) ([]Candidate, error) {
	cleaned := stripFences(raw)

	var decoded []Candidate
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, fmt.Errorf("decode candidates JSON: %w", err)
	}

	candidates := make([]Candidate, 0, len(decoded))
	for _, c := range decoded {
		c.HeadlineText = strings.TrimSpace(c.HeadlineText)
		c.BodyText = strings.TrimSpace(c.BodyText)
		if c.HeadlineText == "" {
			continue
		}
		c.HeadlineText = truncateToWordBoundary(c.HeadlineText, maxHeadlineLen)
		c.BodyText = truncateToWordBoundary(c.BodyText, maxBodyLen)
		candidates = append(candidates, c)
		if len(candidates) == maxCandidates {
			break
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no usable candidates in response")
	}
	return candidates, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		// Drop the language tag line ("json" etc).
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// truncateToWordBoundary cuts s to at most limit runes, backing up to the
// last space so no word is split. A single word longer than the limit is cut
// mid-word.
func truncateToWordBoundary(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := runes[:limit]
	last := -1
	for i, r := range cut {
		if unicode.IsSpace(r) {
			last = i
		}
	}
	if last > 0 {
		cut = cut[:last]
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace)
}
