package llm

import (
	"context"
	"errors"
	"fmt"
)

// FallbackClient attempts a primary client first and falls back on error.
// Context cancellation and deadline expiry are not treated as fallback
// triggers: the turn is over either way.
type FallbackClient struct {
	primary  Client
	fallback Client
}

func NewFallbackClient(primary, fallback Client) *FallbackClient {
	return &FallbackClient{primary: primary, fallback: fallback}
}

func (c *FallbackClient) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	if c.primary == nil {
		if c.fallback != nil {
			return c.fallback.Generate(ctx, req)
		}
		return GenerateResponse{}, fmt.Errorf("fallback client misconfigured")
	}

	resp, err := c.primary.Generate(ctx, req)
	if err == nil {
		return resp, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return GenerateResponse{}, err
	}
	if c.fallback == nil {
		return GenerateResponse{}, err
	}

	fallbackResp, fallbackErr := c.fallback.Generate(ctx, req)
	if fallbackErr != nil {
		return GenerateResponse{}, fmt.Errorf("primary client error: %w; fallback client error: %v", err, fallbackErr)
	}
	return fallbackResp, nil
}
