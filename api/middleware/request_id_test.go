package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/menuflow-backend/api/responses"
)

func TestRequestIDKeepsWellFormedHeader(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "plain token", header: "edge-7f3a:01", keep: true},
		{name: "missing", header: ""},
		{name: "too long", header: strings.Repeat("a", 129)},
		{name: "log injection", header: "abc\n{\"level\":\"error\"}"},
		{name: "spaces", header: "a b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var seen string
			handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = responses.RequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(requestIDHeader, tc.header)
			}
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)

			got := resp.Header().Get(requestIDHeader)
			if got != seen {
				t.Fatalf("context id %q differs from header %q", seen, got)
			}
			if tc.keep {
				if got != tc.header {
					t.Fatalf("expected %q to be kept, got %q", tc.header, got)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("expected a minted uuid, got %q", got)
			}
		})
	}
}
