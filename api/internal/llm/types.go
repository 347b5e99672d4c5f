package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
)

const RoleUser = "user"

// Generator: один вызов generateContent у внешней модели.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Models: идентификаторы моделей по модальностям. Могут совпадать,
// но меняются независимо.
type Models struct {
	Text     string
	Vision   string
	Document string
	Audio    string
}

type Request struct {
	Model    string
	Contents []Content
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part: либо текст, либо inline data.
type Part struct {
	Text       *string     `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// InlineData: MIME-тип и байты в base64, как их ждёт сервис.
type InlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// UnmarshalJSON принимает и inline_data/mime_type, и inlineData/mimeType:
// в ответах сервис пишет camelCase.
func (p *Part) UnmarshalJSON(b []byte) error {
	var raw struct {
		Text       *string     `json:"text"`
		Snake      *InlineData `json:"inline_data"`
		InlineData *InlineData `json:"inlineData"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	p.Text, p.InlineData = raw.Text, raw.Snake
	if p.InlineData == nil {
		p.InlineData = raw.InlineData
	}
	return nil
}

func (d *InlineData) UnmarshalJSON(b []byte) error {
	var raw struct {
		Snake    string `json:"mime_type"`
		MIMEType string `json:"mimeType"`
		Data     string `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	d.MIMEType, d.Data = raw.Snake, raw.Data
	if d.MIMEType == "" {
		d.MIMEType = raw.MIMEType
	}
	return nil
}

func TextPart(s string) Part { return Part{Text: &s} }

// InlinePart кодирует буфер в base64.
func InlinePart(mime string, data []byte) Part {
	return Part{InlineData: &InlineData{
		MIMEType: mime,
		Data:     base64.StdEncoding.EncodeToString(data),
	}}
}

// Bytes декодирует base64 обратно.
func (d *InlineData) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(d.Data)
}

func UserContent(parts ...Part) Content {
	return Content{Role: RoleUser, Parts: parts}
}

// Response повторяет форму ответа generateContent:
// candidates[].content.parts[].text. Любое звено может отсутствовать.
type Response struct {
	Candidates []Candidate `json:"candidates,omitempty"`
}

type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}
