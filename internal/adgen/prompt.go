package adgen

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed prompt.tmpl
var defaultPromptTemplate string

// PromptData holds the variables available in the prompt template.
type PromptData struct {
	Brand          string
	Product        string
	Benefit        string
	Promotion      string
	Audience       string
	Goal           string
	Keywords       []string
	Rules          []string
	ReferenceData  string
	LikedHeadlines []LikedExample
	MaxCandidates  int
	MaxHeadlineLen int
	MaxBodyLen     int
}

// LikedExample is a saved headline rendered into the prompt as a style example.
type LikedExample struct {
	HeadlineText string
	BodyText     string
}

// renderPrompt executes the prompt template with the given data.
// If customTemplate is non-empty it is used instead of the embedded default.
func renderPrompt(customTemplate string, data PromptData) (string, error) {
	src := defaultPromptTemplate
	if customTemplate != "" {
		src = customTemplate
	}

	tmpl, err := template.New("prompt").Parse(src)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func promptDataFromBrief(brief Brief) PromptData {
	data := PromptData{
		Brand:          brief.Brand,
		Product:        brief.Product,
		Benefit:        brief.Benefit,
		Promotion:      brief.Promotion,
		Audience:       brief.Audience,
		Goal:           brief.Goal,
		Keywords:       brief.Keywords,
		Rules:          brief.Rules,
		ReferenceData:  brief.ReferenceData,
		MaxCandidates:  maxCandidates,
		MaxHeadlineLen: maxHeadlineLen,
		MaxBodyLen:     maxBodyLen,
	}
	for _, h := range brief.LikedHeadlines {
		data.LikedHeadlines = append(data.LikedHeadlines, LikedExample{
			HeadlineText: h.HeadlineText,
			BodyText:     h.BodyText,
		})
	}
	return data
}
