package gemini

import (
	"context"
	"fmt"
	"net/http"

	"gemini-gateway/api/internal/llm"
)

// Engine: генератор, который нужно закрыть при остановке.
type Engine interface {
	llm.Generator
	Close() error
}

// New выбирает транспорт: "sdk" (generative-ai-go) или "rest".
func New(ctx context.Context, transport, apiKey, baseURL string) (Engine, error) {
	switch transport {
	case "", "sdk":
		return NewSDK(ctx, apiKey)
	case "rest":
		return NewREST(apiKey, baseURL, nil), nil
	default:
		return nil, fmt.Errorf("unknown gemini transport %q; use 'sdk' or 'rest'", transport)
	}
}

func (e *RESTEngine) Close() error {
	if t, ok := e.httpc.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
	return nil
}
