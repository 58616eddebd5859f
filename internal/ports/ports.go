package ports

import (
	"context"
	"time"

	"qrsafe/internal/domain"
)

//go:generate mockgen -source=ports.go -destination=mocks/ports.go -package=mocks

// AskRequest is one call to a search-and-reason model.
type AskRequest struct {
	Model     string
	Prompt    string
	WebSearch bool
}

// Asker sends a prompt to a language model and returns its text answer.
type Asker interface {
	Ask(ctx context.Context, req AskRequest) (string, error)
}

// VerdictCache keeps recent intelligence verdicts keyed by the exact raw URL
// that was assessed. Stored verdicts carry no findings text.
type VerdictCache interface {
	Get(ctx context.Context, rawURL string) (verdict domain.SafetyVerdict, found bool, err error)
	Set(ctx context.Context, rawURL string, verdict domain.SafetyVerdict, ttl time.Duration) error
}
