package handle

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"gemini-gateway/api/internal/llm"
	"gemini-gateway/api/internal/metrics"
	"gemini-gateway/api/internal/store"

	"go.uber.org/zap"
)

// Prompts: инструкции по умолчанию, когда клиент не прислал prompt.
type Prompts struct {
	Image    string
	Document string
	Audio    string
}

type Options struct {
	Models         llm.Models
	Prompts        Prompts
	MaxUploadBytes int64
}

type Handle struct {
	gen       llm.Generator
	models    llm.Models
	prompts   Prompts
	maxUpload int64

	log     *zap.SugaredLogger
	metrics *metrics.Manager
	history store.Recorder
}

// New собирает обработчики. log, m и history могут быть nil.
func New(gen llm.Generator, opts Options, log *zap.SugaredLogger, m *metrics.Manager, history store.Recorder) *Handle {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if m == nil {
		m = metrics.NewManager()
	}
	if history == nil {
		history = store.Nop{}
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}
	return &Handle{
		gen:       gen,
		models:    opts.Models,
		prompts:   opts.Prompts,
		maxUpload: opts.MaxUploadBytes,
		log:       log,
		metrics:   m,
		history:   history,
	}
}

// Register вешает маршруты генерации на mux.
func (h *Handle) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /generate-text", h.route("generate-text", h.generateText))
	mux.HandleFunc("POST /generate-from-image", h.route("generate-from-image", h.generateFromImage))
	mux.HandleFunc("POST /generate-from-document", h.route("generate-from-document", h.generateFromDocument))
	mux.HandleFunc("POST /generate-from-audio", h.route("generate-from-audio", h.generateFromAudio))
}

func (h *Handle) route(endpoint string, fn endpointFunc) http.HandlerFunc {
	return h.metrics.Middleware(h.serve(endpoint, fn), endpoint)
}

// endpointFunc возвращает тело ответа или ошибку; статус выбирает serve.
type endpointFunc func(r *http.Request, c *call) (any, error)

// call: то, что узнали о запросе по ходу обработки (для логов и истории).
type call struct {
	endpoint string
	model    string
	prompt   string
	upload   *Upload
	output   string
}

func (h *Handle) serve(endpoint string, fn endpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, cancel := requestContext(r)
		defer cancel()
		r = r.WithContext(ctx)
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody())

		c := &call{endpoint: endpoint}
		out, err := fn(r, c)
		code := http.StatusOK
		rid := RequestIDFrom(ctx)
		if err != nil {
			code = StatusFor(err)
			h.log.Errorw("generation failed",
				"endpoint", endpoint, "request_id", rid, "model", c.model, "status", code, "error", err)
			writeJSON(w, code, errorResponse{Error: err.Error()})
		} else {
			h.log.Infow("generation done",
				"endpoint", endpoint, "request_id", rid, "model", c.model, "duration", time.Since(start))
			writeJSON(w, code, out)
		}
		h.record(ctx, rid, c, code, err, time.Since(start))
	}
}

// maxBody: лимит тела. В JSON файл идёт в base64 (+1/3), плюс запас на поля формы.
// Сам файл после декодирования проверяет checkSize.
func (h *Handle) maxBody() int64 { return h.maxUpload*4/3 + 4 + 1<<20 }

// requestContext: по умолчанию без дедлайна. X-Request-Timeout (сек) или
// ?timeoutSec= задают его явно.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	ts := r.Header.Get("X-Request-Timeout")
	if ts == "" {
		ts = r.URL.Query().Get("timeoutSec")
	}
	if v, _ := strconv.Atoi(ts); v > 0 {
		return context.WithTimeout(r.Context(), time.Duration(v)*time.Second)
	}
	return context.WithCancel(r.Context())
}

func (h *Handle) generate(ctx context.Context, c *call, contents ...llm.Content) (*llm.Response, error) {
	start := time.Now()
	resp, err := h.gen.Generate(ctx, llm.Request{Model: c.model, Contents: contents})
	h.metrics.RecordUpstreamCall(c.model, err, time.Since(start))
	if err != nil {
		return nil, UpstreamError(err)
	}
	return resp, nil
}

func (h *Handle) record(ctx context.Context, rid string, c *call, code int, callErr error, d time.Duration) {
	g := store.Generation{
		RequestID:  rid,
		Endpoint:   c.endpoint,
		Model:      c.model,
		Prompt:     c.prompt,
		Output:     c.output,
		StatusCode: code,
		Duration:   d,
	}
	if c.upload != nil {
		g.UploadMIME = c.upload.MIMEType
		g.UploadSize = len(c.upload.Data)
		g.UploadHash = c.upload.Hash()
	}
	if callErr != nil {
		g.Error = callErr.Error()
	}
	// Ответ уже отправлен: отмена клиентом не должна терять запись.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := h.history.Record(rctx, g); err != nil {
		h.log.Warnw("history record failed", "endpoint", c.endpoint, "request_id", rid, "error", err)
	}
}

type outputResponse struct {
	Output string `json:"output"`
}

type resultResponse struct {
	Result string `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
