package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"gemini-gateway/api/internal/llm"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// SDKEngine ходит в Gemini через google/generative-ai-go.
// Клиент создаётся один раз и переиспользуется всеми запросами.
type SDKEngine struct {
	client *genai.Client
}

func NewSDK(ctx context.Context, apiKey string, opts ...option.ClientOption) (*SDKEngine, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &SDKEngine{client: cl}, nil
}

func (e *SDKEngine) Name() string { return "gemini-sdk" }

func (e *SDKEngine) Close() error { return e.client.Close() }

func (e *SDKEngine) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if len(req.Contents) == 0 {
		return nil, errors.New("gemini: empty contents")
	}
	contents, err := toGenai(req.Contents)
	if err != nil {
		return nil, err
	}

	m := e.client.GenerativeModel(strings.TrimSpace(req.Model))
	if m == nil {
		return nil, fmt.Errorf("gemini: model is nil")
	}

	last := contents[len(contents)-1]
	var resp *genai.GenerateContentResponse
	if len(contents) == 1 {
		resp, err = m.GenerateContent(ctx, last.Parts...)
	} else {
		// Несколько ходов: всё, кроме последнего, уходит в историю чата.
		cs := m.StartChat()
		cs.History = contents[:len(contents)-1]
		resp, err = cs.SendMessage(ctx, last.Parts...)
	}
	if err != nil {
		return nil, err
	}
	return fromGenai(resp), nil
}

func toGenai(in []llm.Content) ([]*genai.Content, error) {
	out := make([]*genai.Content, 0, len(in))
	for i, c := range in {
		gc := &genai.Content{Role: c.Role}
		if gc.Role == "" {
			gc.Role = llm.RoleUser
		}
		for _, p := range c.Parts {
			switch {
			case p.Text != nil:
				gc.Parts = append(gc.Parts, genai.Text(*p.Text))
			case p.InlineData != nil:
				data, err := p.InlineData.Bytes()
				if err != nil {
					return nil, fmt.Errorf("gemini: content %d: bad base64: %w", i, err)
				}
				gc.Parts = append(gc.Parts, genai.Blob{MIMEType: p.InlineData.MIMEType, Data: data})
			}
		}
		out = append(out, gc)
	}
	return out, nil
}

func fromGenai(resp *genai.GenerateContentResponse) *llm.Response {
	out := &llm.Response{}
	if resp == nil {
		return out
	}
	for _, c := range resp.Candidates {
		var cand llm.Candidate
		if c != nil && c.Content != nil {
			content := &llm.Content{Role: c.Content.Role}
			for _, p := range c.Content.Parts {
				switch v := p.(type) {
				case genai.Text:
					content.Parts = append(content.Parts, llm.TextPart(string(v)))
				case genai.Blob:
					content.Parts = append(content.Parts, blobPart(v))
				case *genai.Blob:
					content.Parts = append(content.Parts, blobPart(*v))
				}
			}
			cand.Content = content
		}
		out.Candidates = append(out.Candidates, cand)
	}
	return out
}

func blobPart(b genai.Blob) llm.Part {
	return llm.Part{InlineData: &llm.InlineData{
		MIMEType: b.MIMEType,
		Data:     base64.StdEncoding.EncodeToString(b.Data),
	}}
}
