package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetch(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("texture-bytes"))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 1024)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		data, err := Fetch(ctx, srv.URL+"/ok", FetchOptions{Client: srv.Client()})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if string(data) != "texture-bytes" {
			t.Errorf("body = %q", data)
		}
		if !strings.HasPrefix(gotAgent, UserAgentName+"/") {
			t.Errorf("User-Agent = %q, want %s/<version>", gotAgent, UserAgentName)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, err := Fetch(ctx, srv.URL+"/missing", FetchOptions{Client: srv.Client()}); err == nil {
			t.Error("Expected error for 404")
		}
	})

	t.Run("size limit", func(t *testing.T) {
		if _, err := Fetch(ctx, srv.URL+"/big", FetchOptions{Client: srv.Client(), MaxBytes: 100}); err == nil {
			t.Error("Expected error when body exceeds MaxBytes")
		}
	})
}
