package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// MockClient provides deterministic local replies when no generation
// endpoint is configured. It answers in the structured shape the agent
// core expects so local conversations exercise the full parse/merge path.
type MockClient struct{}

func NewMockClient() *MockClient { return &MockClient{} }

func (c *MockClient) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	select {
	case <-ctx.Done():
		return GenerateResponse{}, ctx.Err()
	default:
	}

	reply := map[string]any{
		"response_text": buildMockText(req),
		"recommended_actions": []string{
			"Step 1: Visit your nearest District Legal Services Authority (DLSA) office.",
			"Step 2: Call the Tele-Law helpline at 1516 for free guidance.",
		},
		"helplines": []map[string]string{
			{"name": "Tele-Law", "number": "1516"},
		},
		"needs_more_info":    true,
		"follow_up_question": "Can you tell me when this problem started?",
		"severity":           "low",
	}
	data, err := json.Marshal(reply)
	if err != nil {
		return GenerateResponse{}, err
	}
	return GenerateResponse{Answer: string(data)}, nil
}

func buildMockText(req GenerateRequest) string {
	base := strings.TrimSpace(req.Prompt)
	if base == "" {
		return "I am listening. Please describe your problem."
	}
	if len(req.History) == 0 {
		return "I understand you said: " + base + ". Free legal aid is available near you."
	}
	return "Thank you for telling me more: " + base + ". Free legal aid is available near you."
}
