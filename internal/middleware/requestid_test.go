package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestIDPropagation(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantEcho bool
	}{
		{name: "client id is kept", header: "trace-1234", wantEcho: true},
		{name: "missing id is generated", header: "", wantEcho: false},
		{name: "oversized id is replaced", header: strings.Repeat("x", 65), wantEcho: false},
		{name: "whitespace id is replaced", header: "   ", wantEcho: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var ctxID string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxID = RequestIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("X-Request-ID", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			echoed := rr.Header().Get("X-Request-ID")
			if echoed == "" {
				t.Fatal("response must always carry X-Request-ID")
			}
			if echoed != ctxID {
				t.Fatalf("context id %q does not match echoed id %q", ctxID, echoed)
			}
			if tc.wantEcho && echoed != tc.header {
				t.Fatalf("expected client id %q to be kept, got %q", tc.header, echoed)
			}
			if !tc.wantEcho && echoed == tc.header {
				t.Fatalf("expected a generated id, got the raw header %q", echoed)
			}
		})
	}
}
