package handle

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"gemini-gateway/api/internal/store"

	"go.uber.org/zap"
)

type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]store.Generation, error)
}

type generationView struct {
	RequestID  string    `json:"request_id"`
	CreatedAt  time.Time `json:"created_at"`
	Endpoint   string    `json:"endpoint"`
	Model      string    `json:"model"`
	UploadMIME string    `json:"upload_mime,omitempty"`
	UploadSize int       `json:"upload_size,omitempty"`
	UploadHash string    `json:"upload_hash,omitempty"`
	StatusCode int       `json:"status_code"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
}

// History: GET /history?limit=N, последние вызовы без промптов и ответов.
func History(rd HistoryReader, log *zap.SugaredLogger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if s := r.URL.Query().Get("limit"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil || v <= 0 || v > 500 {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit harus 1..500"})
				return
			}
			limit = v
		}
		rows, err := rd.Recent(r.Context(), limit)
		if err != nil {
			log.Errorw("history read failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		out := make([]generationView, 0, len(rows))
		for _, g := range rows {
			out = append(out, generationView{
				RequestID:  g.RequestID,
				CreatedAt:  g.CreatedAt,
				Endpoint:   g.Endpoint,
				Model:      g.Model,
				UploadMIME: g.UploadMIME,
				UploadSize: g.UploadSize,
				UploadHash: g.UploadHash,
				StatusCode: g.StatusCode,
				Error:      g.Error,
				DurationMS: g.Duration.Milliseconds(),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
