// Package translate defines the text-translation collaborator. Translation
// is optional: when no endpoint is configured the agent core runs
// pivot-language only and the factory returns nil.
package translate

import (
	"context"
	"strings"
	"time"
)

// Translator converts text between language codes. May fail; callers are
// expected to degrade rather than abort the turn.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Config controls translator construction.
type Config struct {
	URL     string
	Timeout time.Duration
	Retries int
}

// New returns an HTTP-backed translator, or nil when no URL is configured.
func New(cfg Config) Translator {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil
	}
	return NewHTTPTranslator(cfg.URL, cfg.Timeout, cfg.Retries)
}
