package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPProvider talks to the generative-text endpoint over plain JSON HTTP.
type HTTPProvider struct {
	BaseURL string
	client  *http.Client
	probe   *http.Client
}

var _ Provider = &HTTPProvider{}

func NewHTTPProvider(baseURL string, timeout, probeTimeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		BaseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		// Health probes use the shortest timeout in the system.
		probe: &http.Client{
			Timeout: probeTimeout,
		},
	}
}

func (p *HTTPProvider) Generate(ctx context.Context, genReq Request) (string, error) {
	payload, err := json.Marshal(genReq)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.BaseURL+"/generate", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate error: status %d, body: %s", res.StatusCode, string(body))
	}

	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if !parsed.Success {
		// The backend degraded on its own; surface its fallback if it sent one.
		if parsed.FallbackResponse != "" {
			return parsed.FallbackResponse, nil
		}
		return "", fmt.Errorf("generate reported failure with no fallback")
	}
	if parsed.Text == "" {
		return "", fmt.Errorf("generate returned empty response")
	}

	return parsed.Text, nil
}

// Probe issues a lightweight GET against the backend root. Any 2xx status
// counts as healthy.
func (p *HTTPProvider) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", p.BaseURL+"/health", nil)
	if err != nil {
		return err
	}

	res, err := p.probe.Do(req)
	if err != nil {
		return fmt.Errorf("health probe failed: %w", err)
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("health probe status %d", res.StatusCode)
	}
	return nil
}
