package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Analyzer is the contract for the external image-analysis endpoint.
type Analyzer interface {
	Analyze(ctx context.Context, filename string, image []byte, question string) (string, error)
}

// Client posts an image plus an optional textual question as multipart form
// data and returns the analysis text.
type Client struct {
	BaseURL string
	client  *http.Client
}

var _ Analyzer = &Client{}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type analyzeResponse struct {
	Success  bool   `json:"success"`
	Analysis string `json:"analysis"`
}

// allowed image extensions, checked before any upload
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".bmp"}

// IsImageFilename reports whether the filename looks like a supported image.
// Non-image files are rejected locally before any network call.
func IsImageFilename(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (c *Client) Analyze(ctx context.Context, filename string, image []byte, question string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	if question != "" {
		if err := writer.WriteField("question", question); err != nil {
			return "", fmt.Errorf("write question: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/analyze", &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("analyze request failed: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("analyze error: status %d, body: %s", res.StatusCode, string(resBody))
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(resBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if !parsed.Success || parsed.Analysis == "" {
		return "", fmt.Errorf("analyze reported failure")
	}

	return parsed.Analysis, nil
}
