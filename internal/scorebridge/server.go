package scorebridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/tastematch/internal/report"
)

// ServerStatus reports runtime lifecycle states for the HTTP server.
type ServerStatus string

const (
	StatusStarting ServerStatus = "starting"
	StatusReady    ServerStatus = "ready"
	StatusDraining ServerStatus = "draining"
)

// ErrServerDisabled is returned by Start when the sink is switched off.
var ErrServerDisabled = errors.New("scorebridge: server disabled")

// Server is a local stand-in for the score backend.
type Server struct {
	settings  Settings
	board     *Board
	processor ScoreProcessor
	logger    Logger
	clock     func() time.Time
	newID     func() string

	mu      sync.RWMutex
	hs      *http.Server
	addr    string
	served  chan struct{}
	since   time.Time
	drained bool
}

// Option customizes server construction.
type Option func(*Server)

// WithBoard shares a board with the caller.
func WithBoard(b *Board) Option {
	return func(s *Server) {
		if b != nil {
			s.board = b
		}
	}
}

// WithProcessor runs after a score is accepted onto the board.
func WithProcessor(p ScoreProcessor) Option {
	return func(s *Server) {
		if p != nil {
			s.processor = p
		}
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithReceiptIDs allows tests to control receipt ids.
func WithReceiptIDs(gen func() string) Option {
	return func(s *Server) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewServer prepares a sink using the provided settings.
func NewServer(settings Settings, opts ...Option) *Server {
	s := &Server{
		settings:  settings,
		processor: ScoreProcessorFunc(func(Score) error { return nil }),
		logger:    nopLogger{},
		clock:     func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.board == nil {
		s.board = NewBoard(BoardWithLogger(s.logger))
	}
	return s
}

// Board returns the scoreboard fed by this server.
func (s *Server) Board() *Board {
	return s.board
}

// Handler returns the HTTP routes without binding a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc(report.ScorePath, s.handleScore)
	mux.HandleFunc("/scores", s.handleTotals)
	return mux
}

// Start binds the listener and serves in the background until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	if !s.settings.Enabled {
		return ErrServerDisabled
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hs != nil {
		return errors.New("scorebridge: server already started")
	}
	ln, err := net.Listen("tcp", s.settings.Addr)
	if err != nil {
		return fmt.Errorf("scorebridge: listen %s: %w", s.settings.Addr, err)
	}
	hs := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.settings.RequestTimeout,
		ReadTimeout:       s.settings.RequestTimeout,
		WriteTimeout:      s.settings.RequestTimeout,
		IdleTimeout:       s.settings.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.hs = hs
	s.addr = ln.Addr().String()
	s.served = make(chan struct{})
	s.since = s.now()
	s.drained = false
	go s.serve(hs, ln, s.served)
	s.logger.Printf("scorebridge: listening on %s", s.addr)
	return nil
}

func (s *Server) serve(hs *http.Server, ln net.Listener, done chan<- struct{}) {
	defer close(done)
	if err := hs.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		s.logger.Printf("scorebridge: serve: %v", err)
	}
}

// Shutdown drains in-flight requests and waits for the serve loop to exit.
// Calling it on a server that is not running is a no-op.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	hs, done := s.hs, s.served
	s.hs, s.served = nil, nil
	if hs != nil {
		s.drained = true
	}
	s.mu.Unlock()
	if hs == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := hs.Shutdown(ctx)
	<-done
	return err
}

// Addr returns the bound address while the server is running.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.hs == nil {
		return ""
	}
	return s.addr
}

// BaseURL is the URL reporters should target: the bound address once
// running, the configured one before.
func (s *Server) BaseURL() string {
	if addr := s.Addr(); addr != "" {
		return "http://" + addr
	}
	return s.settings.URL()
}

// Status reports the server's lifecycle state.
func (s *Server) Status() ServerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.hs != nil:
		return StatusReady
	case s.drained:
		return StatusDraining
	default:
		return StatusStarting
	}
}

func (s *Server) now() time.Time {
	return s.clock().UTC()
}

func (s *Server) uptime() time.Duration {
	s.mu.RLock()
	since := s.since
	s.mu.RUnlock()
	if since.IsZero() {
		return 0
	}
	return s.now().Sub(since)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", fmt.Sprintf("%s, %s", http.MethodGet, http.MethodHead))
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        string(s.Status()),
		Version:       ProtocolVersion,
		UptimeSeconds: int64(s.uptime().Seconds()),
	})
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	totals := s.board.Totals()
	writeJSON(w, http.StatusOK, map[string]any{
		"received": s.board.Received(),
		"totals":   totals.Map(),
	})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if r.Body == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty body"})
		return
	}
	reader := http.MaxBytesReader(w, r.Body, s.settings.bodyLimit())
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "payload exceeds limit"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unable to read body"})
		return
	}
	var score Score
	if err := json.Unmarshal(body, &score); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	score.Normalize()
	if err := score.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	score.ServerTime = s.now()
	score.ReceiptID = s.newID()
	if !s.board.Record(score) {
		writeJSON(w, http.StatusOK, scoreResponse{Status: "duplicate", ReceiptID: score.ReceiptID, Duplicate: true, ServerTime: score.ServerTime})
		return
	}
	if err := s.processor.HandleScore(score); err != nil {
		s.logger.Printf("scorebridge: processor error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "score processing failed"})
		return
	}
	writeJSON(w, http.StatusAccepted, scoreResponse{Status: "accepted", ReceiptID: score.ReceiptID, ServerTime: score.ServerTime})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
