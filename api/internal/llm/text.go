package llm

import (
	"errors"
	"strings"
)

const NoResult = "No result"

var ErrNoText = errors.New("response has no text")

// Text склеивает текстовые части первого кандидата.
// Нет кандидатов или текста -> ErrNoText.
func Text(resp *Response) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoText
	}
	c := resp.Candidates[0].Content
	if c == nil {
		return "", ErrNoText
	}
	var sb strings.Builder
	found := false
	for _, p := range c.Parts {
		if p.Text != nil {
			sb.WriteString(*p.Text)
			found = true
		}
	}
	if !found {
		return "", ErrNoText
	}
	return sb.String(), nil
}

// FirstTextOr возвращает candidates[0].content.parts[0].text,
// а при отсутствии любого звена (или пустом тексте) fallback.
func FirstTextOr(resp *Response, fallback string) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return fallback
	}
	c := resp.Candidates[0].Content
	if c == nil || len(c.Parts) == 0 {
		return fallback
	}
	if t := c.Parts[0].Text; t != nil && *t != "" {
		return *t
	}
	return fallback
}
