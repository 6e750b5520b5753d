package store

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/kjstillabower/krishi-dashboard/internal/client"
)

// backend routes request paths (relative to /api/) to canned handlers.
type backend map[string]http.HandlerFunc

func jsonResponse(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func newTestStore(t *testing.T, routes backend) (*Store, *client.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path[len("/api/"):]
		h, ok := routes[r.Method+" "+path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL+"/api/", 2*time.Second)
	require.NoError(t, err)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 4, 14, 6, 0, 0, 0, time.UTC))
	return New(c, Options{Clock: clock}), c
}
