package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestID(t *testing.T) {
	cases := []struct {
		name     string
		incoming string
		wantSame bool
	}{
		{name: "generated", incoming: ""},
		{name: "propagated", incoming: "trace-abc-123", wantSame: true},
		{name: "too long is replaced", incoming: strings.Repeat("x", maxRequestIDLen+1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(RequestID())
			var seen string
			r.GET("/", func(c *gin.Context) {
				seen = c.GetString(RequestIDKey)
				c.String(200, "ok")
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.incoming != "" {
				req.Header.Set(RequestIDHeader, tc.incoming)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			if got == "" || got != seen {
				t.Fatalf("header %q, context %q", got, seen)
			}
			if (got == tc.incoming) != tc.wantSame {
				t.Fatalf("id %q, incoming %q, wantSame=%v", got, tc.incoming, tc.wantSame)
			}
		})
	}
}
