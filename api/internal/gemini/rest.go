package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"gemini-gateway/api/internal/llm"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// RESTEngine вызывает models/{model}:generateContent напрямую по HTTP.
type RESTEngine struct {
	APIKey  string
	BaseURL string
	httpc   *http.Client
}

// NewREST: таймаута у клиента нет, дедлайн задаёт контекст запроса.
func NewREST(key, baseURL string, httpc *http.Client) *RESTEngine {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if httpc == nil {
		httpc = &http.Client{}
	}
	return &RESTEngine{
		APIKey:  strings.TrimSpace(key),
		BaseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

func (e *RESTEngine) Name() string { return "gemini-rest" }

type restRequest struct {
	Contents []llm.Content `json:"contents"`
}

type restError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (e *RESTEngine) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if e.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	if len(req.Contents) == 0 {
		return nil, errors.New("gemini: empty contents")
	}
	payload, err := json.Marshal(restRequest{Contents: req.Contents})
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal: %w", err)
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent", e.BaseURL, url.PathEscape(strings.TrimSpace(req.Model)))
	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	hr.Header.Set("Content-Type", "application/json")
	hr.Header.Set("x-goog-api-key", e.APIKey)

	resp, err := e.httpc.Do(hr)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(resp.Body)
		var re restError
		if json.Unmarshal(x, &re) == nil && re.Error.Message != "" {
			return nil, errors.New(re.Error.Message)
		}
		return nil, fmt.Errorf("gemini %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}

	var out llm.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("gemini: bad JSON: %w", err)
	}
	return &out, nil
}
