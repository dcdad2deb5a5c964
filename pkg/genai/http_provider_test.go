package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(url string) *HTTPProvider {
	return NewHTTPProvider(url, 2*time.Second, 500*time.Millisecond)
}

func TestGenerateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Message)

		json.NewEncoder(w).Encode(Response{Success: true, Text: "hi there", Language: "en"})
	}))
	defer srv.Close()

	text, err := newTestProvider(srv.URL).Generate(context.Background(), Request{Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hi there", text)
}

func TestGenerateMissingContextTolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := map[string]any{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, hasContext := raw["context"]
		assert.False(t, hasContext, "context must be omitted, not sent empty")

		json.NewEncoder(w).Encode(Response{Success: true, Text: "ok"})
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Generate(context.Background(), Request{Message: "q"})
	require.NoError(t, err)
}

func TestGenerateBackendFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Response{Success: false, FallbackResponse: "service busy, try later"})
	}))
	defer srv.Close()

	text, err := newTestProvider(srv.URL).Generate(context.Background(), Request{Message: "q"})
	require.NoError(t, err)
	assert.Equal(t, "service busy, try later", text)
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"failure without fallback", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(Response{Success: false})
		}},
		{"empty response text", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(Response{Success: true})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newTestProvider(srv.URL).Generate(context.Background(), Request{Message: "q"})
			assert.Error(t, err)
		})
	}
}

func TestProbe(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()
	assert.NoError(t, newTestProvider(healthy.URL).Probe(context.Background()))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	assert.Error(t, newTestProvider(down.URL).Probe(context.Background()))
}
