// Package llm defines the generation collaborator consumed by the agent
// core and its concrete transports. The core treats generation as a black
// box: a prompt plus optional system context and prior turns in, free-form
// text out, with latency and failure modes handled by the caller.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// HistoryTurn is one prior exchange in generic speaker/text shape.
type HistoryTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// GenerateRequest is the normalized request sent to the collaborator.
type GenerateRequest struct {
	Prompt      string        `json:"prompt"`
	Context     string        `json:"context,omitempty"`
	History     []HistoryTurn `json:"history,omitempty"`
	Temperature float64       `json:"temperature"`
}

// GenerateResponse carries the collaborator's free-form reply.
type GenerateResponse struct {
	Answer string `json:"answer"`
}

// Client generates a reply for one conversation turn.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
}

// Config controls client construction.
type Config struct {
	Mode    string
	URL     string
	Timeout time.Duration
	Retries int
}

// New builds a Client for the configured mode. In auto mode an HTTP
// endpoint is preferred when configured, with the deterministic mock as
// secondary so local runs always answer.
func New(cfg Config) (Client, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.URL) != "" {
			return NewFallbackClient(NewHTTPClient(cfg.URL, cfg.Timeout, cfg.Retries), NewMockClient()), nil
		}
		return NewMockClient(), nil
	case "http":
		if strings.TrimSpace(cfg.URL) == "" {
			return nil, fmt.Errorf("llm: http mode requires a url")
		}
		return NewHTTPClient(cfg.URL, cfg.Timeout, cfg.Retries), nil
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("llm: unsupported mode %q", cfg.Mode)
	}
}
