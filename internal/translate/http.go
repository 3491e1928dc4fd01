package translate

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

// HTTPTranslator forwards requests to a translation endpoint speaking a
// plain JSON request/response contract.
type HTTPTranslator struct {
	url     string
	retries int
	client  *http.Client
}

func NewHTTPTranslator(url string, timeout time.Duration, retries int) *HTTPTranslator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	return &HTTPTranslator{
		url:     strings.TrimSpace(url),
		retries: retries,
		client:  &http.Client{Timeout: timeout},
	}
}

type translateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

func (t *HTTPTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	payload, err := json.Marshal(translateRequest{Text: text, SourceLang: sourceLang, TargetLang: targetLang})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		out, retryable, err := t.post(ctx, payload)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !retryable || attempt >= t.retries {
			return "", lastErr
		}
		backoff := reliability.ExponentialBackoff(attempt, 100*time.Millisecond, time.Second)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func (t *HTTPTranslator) post(ctx context.Context, payload []byte) (string, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := t.client.Do(httpReq)
	if err != nil {
		return "", false, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		err := fmt.Errorf("translation http status %d: %s", res.StatusCode, string(body))
		return "", reliability.IsRetryableHTTPStatus(res.StatusCode), err
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", false, fmt.Errorf("read response: %w", err)
	}

	var obj struct {
		TranslatedText string `json:"translated_text"`
		Text           string `json:"text"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", false, fmt.Errorf("decode response: %w", err)
	}
	if obj.TranslatedText != "" {
		return obj.TranslatedText, false, nil
	}
	if obj.Text != "" {
		return obj.Text, false, nil
	}
	return "", false, fmt.Errorf("translation response missing text")
}
