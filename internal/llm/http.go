package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/haqsetu/triage/internal/reliability"
)

// HTTPClient forwards requests to a generation endpoint speaking a plain
// JSON request/response contract.
type HTTPClient struct {
	url     string
	retries int
	client  *http.Client
}

func NewHTTPClient(url string, timeout time.Duration, retries int) *HTTPClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	return &HTTPClient{
		url:     strings.TrimSpace(url),
		retries: retries,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		resp, retryable, err := c.post(ctx, payload)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable || attempt >= c.retries {
			return GenerateResponse{}, lastErr
		}
		backoff := reliability.ExponentialBackoff(attempt, 200*time.Millisecond, 2*time.Second)
		select {
		case <-ctx.Done():
			return GenerateResponse{}, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func (c *HTTPClient) post(ctx context.Context, payload []byte) (GenerateResponse, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return GenerateResponse{}, false, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, false, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		err := fmt.Errorf("generation http status %d: %s", res.StatusCode, string(body))
		return GenerateResponse{}, reliability.IsRetryableHTTPStatus(res.StatusCode), err
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return GenerateResponse{}, false, fmt.Errorf("read response: %w", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		// Some endpoints answer with bare text.
		text := strings.TrimSpace(string(body))
		if text == "" {
			return GenerateResponse{}, false, fmt.Errorf("empty generation response")
		}
		return GenerateResponse{Answer: text}, false, nil
	}

	text := extractAnswer(obj)
	if text == "" {
		return GenerateResponse{}, false, fmt.Errorf("generation response missing answer text")
	}
	return GenerateResponse{Answer: text}, false, nil
}

// extractAnswer pulls the reply text out of the common field names seen
// across generation endpoints.
func extractAnswer(obj map[string]any) string {
	for _, key := range []string{"answer", "text", "response", "content", "message"} {
		if v, ok := obj[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}
