package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/tastematch/internal/quiz"
)

const (
	// DefaultTimeout bounds a single report round trip.
	DefaultTimeout = 5 * time.Second
	// maxResponseBytes caps how much of a reply is kept.
	maxResponseBytes int64 = 1 << 20
)

// HTTP posts verdicts as JSON to {endpoint}/players/score.
type HTTP struct {
	endpoint string
	playerID string
	client   *http.Client
	clock    func() time.Time
}

// HTTPOption customizes an HTTP reporter.
type HTTPOption func(*HTTP)

// WithPlayerID pins the player id instead of generating one.
func WithPlayerID(id string) HTTPOption {
	return func(h *HTTP) {
		if id = strings.TrimSpace(id); id != "" {
			h.playerID = id
		}
	}
}

// WithTimeout sets the client timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		if d > 0 {
			h.client.Timeout = d
		}
	}
}

// WithClock lets tests control the Received timestamp.
func WithClock(clock func() time.Time) HTTPOption {
	return func(h *HTTP) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// NewHTTP builds a reporter for the given base URL. Every reporter gets a
// fresh player id so the backend can group reports from one session.
func NewHTTP(endpoint string, opts ...HTTPOption) (*HTTP, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, fmt.Errorf("report: endpoint %q must be an http(s) URL", endpoint)
	}
	h := &HTTP{
		endpoint: endpoint,
		playerID: uuid.NewString(),
		client:   &http.Client{Timeout: DefaultTimeout},
		clock:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

// PlayerID returns the id sent with every report.
func (h *HTTP) PlayerID() string {
	return h.playerID
}

// URL returns the full score endpoint.
func (h *HTTP) URL() string {
	return h.endpoint + ScorePath
}

// Report posts {"score": verdict}. Non-2xx replies are returned as errors.
func (h *HTTP) Report(ctx context.Context, verdict quiz.Category) (Result, error) {
	payload, err := json.Marshal(Payload{Score: verdict, PlayerID: h.playerID})
	if err != nil {
		return Result{}, fmt.Errorf("report: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL(), bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("report: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("report: post %s: %w", h.URL(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("report: read response: %w", err)
	}
	result := Result{StatusCode: resp.StatusCode, Received: h.clock()}
	if len(bytes.TrimSpace(body)) > 0 {
		result.Body = json.RawMessage(body)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, fmt.Errorf("report: %s returned status %d", h.URL(), resp.StatusCode)
	}
	return result, nil
}
