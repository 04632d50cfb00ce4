package caption

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"visionguard/internal/logger"
)

// Client talks to the captioning inference sidecar over HTTP. The sidecar
// hosts the pretrained image-to-text model; no ML runs in this process.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *logger.Logger
}

type captionRequest struct {
	ImageBase64 string `json:"image_base64"`
	Prompt      string `json:"prompt,omitempty"`
}

type captionResponse struct {
	Text string `json:"text"`
}

// NewClient creates a caption client for the given sidecar base URL.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  log,
	}
}

// Caption generates a description of the image. An empty prompt requests an
// unconditioned caption; a non-empty prompt conditions the generation on the
// given text. No retries: a failed call returns a wrapped error once.
func (c *Client) Caption(ctx context.Context, image []byte, prompt string) (string, error) {
	payload := captionRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(image),
		Prompt:      prompt,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode caption request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/caption", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build caption request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("caption service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("caption service returned %d: %s", resp.StatusCode, string(msg))
	}

	var result captionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode caption response: %w", err)
	}

	return strings.TrimSpace(result.Text), nil
}

// Healthy probes the sidecar's health endpoint.
func (c *Client) Healthy() bool {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
