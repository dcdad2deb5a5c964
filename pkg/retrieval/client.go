package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// PassageSeparator joins retrieved passages so the prompt structure stays
// interpretable by the generative model. It must not read as ordinary prose.
const PassageSeparator = "\n\n-----\n\n"

// Provider is the contract for the external document-retrieval service.
// FetchContext returns the joined top-k passages for a query, or ok=false
// when retrieval produced nothing usable. Callers treat ok=false as
// "proceed without grounding", never as an error.
type Provider interface {
	FetchContext(ctx context.Context, documentId, query string, k int) (string, bool)
}

// Ingestor uploads a document to the retrieval service for later grounding.
type Ingestor interface {
	IngestDocument(ctx context.Context, filename string, content []byte) (string, error)
}

// Client talks to the retrieval service over HTTP.
type Client struct {
	BaseURL string
	client  *http.Client
}

var _ Provider = &Client{}
var _ Ingestor = &Client{}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type searchRequest struct {
	DocumentId string `json:"documentId"`
	Query      string `json:"query"`
	K          int    `json:"k"`
}

type searchResponse struct {
	Results []string `json:"results"`
}

// FetchContext asks the retrieval service for the top-k passages and joins
// them with the passage separator. Any failure (timeout, non-2xx, empty
// result list) yields ok=false; no retry is attempted here.
func (c *Client) FetchContext(ctx context.Context, documentId, query string, k int) (string, bool) {
	payload, err := json.Marshal(searchRequest{
		DocumentId: documentId,
		Query:      query,
		K:          k,
	})
	if err != nil {
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/search", bytes.NewBuffer(payload))
	if err != nil {
		return "", false
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return "", false
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", false
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", false
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false
	}

	// An absent or empty result list is a valid non-error response.
	passages := make([]string, 0, len(parsed.Results))
	for _, p := range parsed.Results {
		if strings.TrimSpace(p) != "" {
			passages = append(passages, p)
		}
	}
	if len(passages) == 0 {
		return "", false
	}

	return strings.Join(passages, PassageSeparator), true
}

type ingestResponse struct {
	DocumentId string `json:"documentId"`
}

// IngestDocument uploads a document body for embedding. The returned id
// becomes the session's active document handle.
func (c *Client) IngestDocument(ctx context.Context, filename string, content []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/ingest", bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Document-Name", filename)

	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ingest request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ingest error: status %d, body: %s", res.StatusCode, string(body))
	}

	var parsed ingestResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if parsed.DocumentId == "" {
		return "", fmt.Errorf("ingest returned empty document id")
	}

	return parsed.DocumentId, nil
}
