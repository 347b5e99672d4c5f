package handle

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	Convey("An inbound id is kept", t, func() {
		r := httptest.NewRequest(http.MethodPost, "/generate-text", nil)
		r.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		So(seen, ShouldEqual, "abc-123")
		So(w.Header().Get(RequestIDHeader), ShouldEqual, "abc-123")
	})

	Convey("A missing id is generated", t, func() {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generate-text", nil))
		So(seen, ShouldNotBeEmpty)
		So(w.Header().Get(RequestIDHeader), ShouldEqual, seen)
	})
}
