package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/verte-zerg/speedforce/internal/model"
)

var errEmptyText = errors.New("provider returned empty text")

// TextRequest describes the text a session needs.
type TextRequest struct {
	Words      int
	Difficulty model.Difficulty
}

// TextProvider supplies practice text. Fetch may block and may fail.
type TextProvider interface {
	Fetch(ctx context.Context, req TextRequest) (string, error)
}

// TextProviderFunc adapts a function to TextProvider.
type TextProviderFunc func(ctx context.Context, req TextRequest) (string, error)

// Fetch implements TextProvider.
func (f TextProviderFunc) Fetch(ctx context.Context, req TextRequest) (string, error) {
	return f(ctx, req)
}

// fetchText asks the provider for text and falls back to the local generator
// on any failure, so the result is always usable.
func (m *Machine) fetchText(ctx context.Context, req TextRequest) string {
	if m.provider != nil {
		text, err := m.provider.Fetch(ctx, req)
		if err == nil && strings.TrimSpace(text) == "" {
			err = errEmptyText
		}
		if err == nil {
			return text
		}
		if ctx.Err() == nil {
			m.log.WithError(err).WithField("words", req.Words).Warn("text provider failed; using local text")
		}
	}
	return m.fallback.Fallback(req.Words)
}
