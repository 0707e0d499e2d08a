package adgen

import (
	"strings"
	"testing"
)

func TestParseCandidates(t *testing.T) {
	raw := `[
		{"headlineText": "Fresh Coffee Daily", "bodyText": "Roasted this morning."},
		{"headlineText": "Wake Up Better", "bodyText": ""}
	]`

	candidates, err := parseCandidates(raw)
	if err != nil {
		t.Fatalf("parseCandidates: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("len = %d, want 2", len(candidates))
	}
	if candidates[0].HeadlineText != "Fresh Coffee Daily" {
		t.Errorf("HeadlineText = %q", candidates[0].HeadlineText)
	}
}

func TestParseCandidates_MarkdownFences(t *testing.T) {
	raw := "```json\n[{\"headlineText\": \"Fenced\", \"bodyText\": \"Still parses.\"}]\n```"

	candidates, err := parseCandidates(raw)
	if err != nil {
		t.Fatalf("parseCandidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].HeadlineText != "Fenced" {
		t.Errorf("candidates = %+v", candidates)
	}
}

func TestParseCandidates_DropsEmptyHeadlines(t *testing.T) {
	raw := `[
		{"headlineText": "", "bodyText": "No headline."},
		{"headlineText": "   ", "bodyText": "Whitespace only."},
		{"headlineText": "Keeper", "bodyText": ""}
	]`

	candidates, err := parseCandidates(raw)
	if err != nil {
		t.Fatalf("parseCandidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].HeadlineText != "Keeper" {
		t.Errorf("candidates = %+v", candidates)
	}
}

func TestParseCandidates_AllEmpty(t *testing.T) {
	if _, err := parseCandidates(`[{"headlineText": "", "bodyText": ""}]`); err == nil {
		t.Error("expected error for all-empty candidates")
	}
}

func TestParseCandidates_CapsCount(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < 8; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"headlineText": "Headline", "bodyText": ""}`)
	}
	sb.WriteString("]")

	candidates, err := parseCandidates(sb.String())
	if err != nil {
		t.Fatalf("parseCandidates: %v", err)
	}
	if len(candidates) != maxCandidates {
		t.Errorf("len = %d, want %d", len(candidates), maxCandidates)
	}
}

func TestParseCandidates_InvalidJSON(t *testing.T) {
	if _, err := parseCandidates("sorry, I can't help with that"); err == nil {
		t.Error("expected error for non-JSON response")
	}
}

func TestTruncateToWordBoundary(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "under limit", in: "Short headline", limit: 40, want: "Short headline"},
		{name: "exact limit", in: strings.Repeat("a", 40), limit: 40, want: strings.Repeat("a", 40)},
		{name: "cuts at word", in: "Buy our excellent premium roasted coffee beans", limit: 20, want: "Buy our excellent"},
		{name: "single long word", in: strings.Repeat("a", 50), limit: 40, want: strings.Repeat("a", 40)},
		{name: "no trailing space", in: "one two three", limit: 8, want: "one two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateToWordBoundary(tt.in, tt.limit)
			if got != tt.want {
				t.Errorf("truncateToWordBoundary(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
			if len([]rune(got)) > tt.limit {
				t.Errorf("result exceeds limit: %d > %d", len([]rune(got)), tt.limit)
			}
		})
	}
}

func TestParseCandidates_TruncatesLongText(t *testing.T) {
	longHeadline := strings.Repeat("word ", 20) // 100 chars
	raw := `[{"headlineText": "` + strings.TrimSpace(longHeadline) + `", "bodyText": ""}]`

	candidates, err := parseCandidates(raw)
	if err != nil {
		t.Fatalf("parseCandidates: %v", err)
	}
	if got := len([]rune(candidates[0].HeadlineText)); got > maxHeadlineLen {
		t.Errorf("headline length = %d, want <= %d", got, maxHeadlineLen)
	}
}
