// Package report notifies the score backend of a resolved verdict. Calls are
// one-shot: no retries, no backoff, no local persistence.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/kingrea/tastematch/internal/quiz"
)

// ErrNoEndpoint is returned by NewHTTP when no base URL is configured.
var ErrNoEndpoint = errors.New("report: endpoint is not configured")

// ScorePath is appended to the configured base URL.
const ScorePath = "/players/score"

// Payload is the JSON body sent for a verdict.
type Payload struct {
	Score    quiz.Category `json:"score"`
	PlayerID string        `json:"player_id,omitempty"`
}

// Result is the backend's reply. The body is kept verbatim and never
// interpreted beyond logging.
type Result struct {
	StatusCode int
	Body       json.RawMessage
	Received   time.Time
}

// Reporter sends one verdict to the backend.
type Reporter interface {
	Report(ctx context.Context, verdict quiz.Category) (Result, error)
}

// Func adapts a function into a Reporter.
type Func func(ctx context.Context, verdict quiz.Category) (Result, error)

// Report executes f(ctx, verdict).
func (f Func) Report(ctx context.Context, verdict quiz.Category) (Result, error) {
	if f == nil {
		return Result{}, nil
	}
	return f(ctx, verdict)
}

// Nop discards every report. It is used when no endpoint is configured.
type Nop struct{}

// Report returns an empty result.
func (Nop) Report(context.Context, quiz.Category) (Result, error) {
	return Result{}, nil
}
