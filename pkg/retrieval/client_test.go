package retrieval

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

func TestFetchContextJoinsPassages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "doc-42", req.DocumentId)
		assert.Equal(t, 4, req.K)

		json.NewEncoder(w).Encode(searchResponse{
			Results: []string{"Paddy needs standing water.", "Drain fields before harvest."},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	blob, ok := c.FetchContext(context.Background(), "doc-42", "irrigation?", 4)

	require.True(t, ok)
	assert.Equal(t, "Paddy needs standing water."+PassageSeparator+"Drain fields before harvest.", blob)
}

func TestFetchContextFailuresReturnNone(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "empty result list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(searchResponse{Results: []string{}})
			},
		},
		{
			name: "absent result list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
		{
			name: "blank passages only",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(searchResponse{Results: []string{"", "   "}})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(srv.URL, 5*time.Second)
			blob, ok := c.FetchContext(context.Background(), "doc-1", "q", 3)
			assert.False(t, ok)
			assert.Empty(t, blob)
		})
	}
}

func TestFetchContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(searchResponse{Results: []string{"late"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond)
	_, ok := c.FetchContext(context.Background(), "doc-1", "q", 3)
	assert.False(t, ok)
}

func TestIngestDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "soil.pdf", r.Header.Get("X-Document-Name"))
		json.NewEncoder(w).Encode(ingestResponse{DocumentId: "doc-99"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	id, err := c.IngestDocument(context.Background(), "soil.pdf", []byte("pdf bytes"))
	require.NoError(t, err)
	assert.Equal(t, "doc-99", id)
}

func TestIngestDocumentErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.IngestDocument(context.Background(), "x.pdf", []byte("data"))
	assert.Error(t, err)
}
