package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gemini-gateway/api/internal/store"

	. "github.com/smartystreets/goconvey/convey"
)

type fakeReader struct {
	limit int
	rows  []store.Generation
	err   error
}

func (f *fakeReader) Recent(_ context.Context, limit int) ([]store.Generation, error) {
	f.limit = limit
	return f.rows, f.err
}

func TestHistory(t *testing.T) {
	Convey("Given recorded generations", t, func() {
		rd := &fakeReader{rows: []store.Generation{{
			RequestID:  "r1",
			Endpoint:   "generate-from-image",
			Model:      "vision-model",
			Prompt:     "rahasia",
			UploadMIME: "image/png",
			UploadSize: 42,
			Output:     "jawaban",
			StatusCode: http.StatusOK,
			Duration:   1500 * time.Millisecond,
		}}}
		h := History(rd, nil)

		Convey("The default limit is 20 and prompts stay out of the response", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history", nil))

			So(w.Code, ShouldEqual, http.StatusOK)
			So(rd.limit, ShouldEqual, 20)
			So(w.Body.String(), ShouldNotContainSubstring, "rahasia")
			So(w.Body.String(), ShouldNotContainSubstring, "jawaban")

			var got []map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
			So(got, ShouldHaveLength, 1)
			So(got[0]["endpoint"], ShouldEqual, "generate-from-image")
			So(got[0]["duration_ms"], ShouldEqual, 1500.0)
		})

		Convey("A bad limit is a 400", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history?limit=abc", nil))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A read failure is a 500", func() {
			rd.err = errors.New("db down")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history?limit=5", nil))
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(rd.limit, ShouldEqual, 5)
		})
	})
}
