package scorebridge

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kingrea/tastematch/internal/quiz"
)

// ProtocolVersion identifies the sink contract version exposed via /health.
const ProtocolVersion = "1.0.0"

// Score is one report received from a result screen.
type Score struct {
	Score      quiz.Category `json:"score"`
	PlayerID   string        `json:"player_id,omitempty"`
	ReceiptID  string        `json:"receipt_id"`
	ServerTime time.Time     `json:"server_time"`
}

// Normalize applies canonical formatting before validation.
func (s *Score) Normalize() {
	if s == nil {
		return
	}
	if c, ok := quiz.ParseCategory(string(s.Score)); ok {
		s.Score = c
	} else {
		s.Score = quiz.Category(strings.TrimSpace(string(s.Score)))
	}
	s.PlayerID = strings.TrimSpace(s.PlayerID)
}

// Validate enforces that only verdicts are accepted.
func (s Score) Validate() error {
	if s.Score == "" {
		return errors.New("score is required")
	}
	if !s.Score.IsEligible() {
		return fmt.Errorf("score %q is not a valid verdict", s.Score)
	}
	return nil
}

// ScoreProcessor consumes validated scores.
type ScoreProcessor interface {
	HandleScore(Score) error
}

// ScoreProcessorFunc adapts a function into a ScoreProcessor.
type ScoreProcessorFunc func(Score) error

// HandleScore executes f(s).
func (f ScoreProcessorFunc) HandleScore(s Score) error {
	if f == nil {
		return nil
	}
	return f(s)
}

// Logger records sink status information. It matches logging.Logger's Printf.
type Logger interface {
	Printf(format string, args ...any)
}

type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type scoreResponse struct {
	Status     string    `json:"status"`
	ReceiptID  string    `json:"receipt_id"`
	Duplicate  bool      `json:"duplicate,omitempty"`
	ServerTime time.Time `json:"server_time"`
}
