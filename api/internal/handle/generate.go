package handle

import (
	"errors"
	"net/http"

	"gemini-gateway/api/internal/llm"
)

const (
	errNoImage    = "Gambar tidak ditemukan"
	errNoDocument = "Dokumen tidak ditemukan"
	errNoAudio    = "Audio tidak ditemukan"
)

// generateText: POST /generate-text {prompt} -> {output}.
// Prompt уходит как есть, даже пустой: что с ним делать, решает модель.
func (h *Handle) generateText(r *http.Request, c *call) (any, error) {
	in, err := h.readInput(r, "")
	if err != nil {
		return nil, err
	}
	c.model, c.prompt = h.models.Text, in.Prompt

	resp, err := h.generate(r.Context(), c, llm.UserContent(llm.TextPart(in.Prompt)))
	if err != nil {
		return nil, err
	}
	text, err := llm.Text(resp)
	if err != nil {
		return nil, UpstreamError(err)
	}
	c.output = text
	return outputResponse{Output: text}, nil
}

// generateFromImage: POST /generate-from-image {prompt?, image} -> {output}.
func (h *Handle) generateFromImage(r *http.Request, c *call) (any, error) {
	in, err := h.readInput(r, "image")
	if err != nil {
		return nil, err
	}
	// Без файла: 500, не 400.
	if in.Upload == nil {
		return nil, InternalError(errors.New(errNoImage))
	}
	h.metrics.ObserveUpload(c.endpoint, len(in.Upload.Data))
	c.model, c.prompt, c.upload = h.models.Vision, orDefault(in.Prompt, h.prompts.Image), in.Upload

	resp, err := h.generate(r.Context(), c, llm.UserContent(
		llm.TextPart(c.prompt),
		llm.InlinePart(in.Upload.MIMEType, in.Upload.Data),
	))
	if err != nil {
		return nil, err
	}
	text, err := llm.Text(resp)
	if err != nil {
		return nil, UpstreamError(err)
	}
	c.output = text
	return outputResponse{Output: text}, nil
}

// generateFromDocument: POST /generate-from-document {prompt?, document} -> {result}.
// Без файла модель не вызывается.
func (h *Handle) generateFromDocument(r *http.Request, c *call) (any, error) {
	in, err := h.readInput(r, "document")
	if err != nil {
		return nil, err
	}
	if in.Upload == nil {
		return nil, ValidationError(errNoDocument)
	}
	h.metrics.ObserveUpload(c.endpoint, len(in.Upload.Data))
	c.model, c.prompt, c.upload = h.models.Document, orDefault(in.Prompt, h.prompts.Document), in.Upload

	resp, err := h.generate(r.Context(), c, llm.UserContent(
		llm.TextPart(c.prompt),
		llm.InlinePart(in.Upload.MIMEType, in.Upload.Data),
	))
	if err != nil {
		return nil, err
	}
	text, err := llm.Text(resp)
	if err != nil {
		return nil, UpstreamError(err)
	}
	c.output = text
	return resultResponse{Result: text}, nil
}

// generateFromAudio: POST /generate-from-audio {prompt?, audio} -> {result}.
// Два хода от user: инструкция, затем аудио. Пустой ответ модели -> "No result".
func (h *Handle) generateFromAudio(r *http.Request, c *call) (any, error) {
	in, err := h.readInput(r, "audio")
	if err != nil {
		return nil, err
	}
	if in.Upload == nil {
		return nil, ValidationError(errNoAudio)
	}
	h.metrics.ObserveUpload(c.endpoint, len(in.Upload.Data))
	c.model, c.prompt, c.upload = h.models.Audio, orDefault(in.Prompt, h.prompts.Audio), in.Upload

	resp, err := h.generate(r.Context(), c,
		llm.UserContent(llm.TextPart(c.prompt)),
		llm.UserContent(llm.InlinePart(in.Upload.MIMEType, in.Upload.Data)),
	)
	if err != nil {
		return nil, err
	}
	c.output = llm.FirstTextOr(resp, llm.NoResult)
	return resultResponse{Result: c.output}, nil
}

func orDefault(prompt, def string) string {
	if prompt == "" {
		return def
	}
	return prompt
}
