// Package summary owns the result screen's state: the resolved verdict, the
// heartbeat that pulses the restart button, and the one-report-per-verdict
// notification to the score backend.
package summary

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kingrea/tastematch/internal/quiz"
	"github.com/kingrea/tastematch/internal/recommend"
	"github.com/kingrea/tastematch/internal/report"
)

// DefaultHeartbeat toggles the pulse flag every two seconds.
const DefaultHeartbeat = 2 * time.Second

// ErrUnmounted is returned by Mount once the session has been torn down.
var ErrUnmounted = errors.New("summary: session unmounted")

// View is everything the renderer needs for one verdict.
type View struct {
	Verdict        quiz.Category
	Tally          quiz.Tally
	Stats          quiz.Stats
	Recommendation recommend.Recommendation
	Theme          recommend.Theme
}

// RenderFunc receives a View each time the verdict changes.
type RenderFunc func(View)

// ReportOutcome describes a finished report attempt.
type ReportOutcome struct {
	Verdict quiz.Category
	Result  report.Result
	Err     error
}

// Option customizes a Session.
type Option func(*Session)

// WithReporter sets the score backend. The default discards reports.
func WithReporter(r report.Reporter) Option {
	return func(s *Session) {
		if r != nil {
			s.reporter = r
		}
	}
}

// WithRenderer registers the setter invoked once per verdict change.
func WithRenderer(fn RenderFunc) Option {
	return func(s *Session) {
		s.render = fn
	}
}

// WithReportDone registers a callback for finished report attempts. Attempts
// that finish once Unmount has begun are dropped silently.
func WithReportDone(fn func(ReportOutcome)) Option {
	return func(s *Session) {
		s.reportDone = fn
	}
}

// WithRestart wires the navigation trigger used by Restart.
func WithRestart(fn func()) Option {
	return func(s *Session) {
		s.restart = fn
	}
}

// WithHeartbeat overrides the pulse interval.
func WithHeartbeat(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Session resolves answers into a verdict and drives the result screen's side
// effects. All mutable state lives here; background tasks exit on Unmount.
type Session struct {
	questions  []quiz.Question
	reporter   report.Reporter
	render     RenderFunc
	reportDone func(ReportOutcome)
	restart    func()
	interval   time.Duration
	theme      recommend.Theme
	log        *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	pulses chan bool
	once   sync.Once

	mu         sync.Mutex
	view       View
	observed   bool
	pulse      bool
	mounted    bool
	closed     bool
	lastReport report.Result
	hasReport  bool
	reportsRun int
}

// New prepares a session for the given questions. Nothing runs until Mount.
func New(questions []quiz.Question, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		questions: append([]quiz.Question(nil), questions...),
		reporter:  report.Nop{},
		interval:  DefaultHeartbeat,
		theme:     recommend.DefaultTheme(),
		log:       zap.NewNop(),
		ctx:       ctx,
		cancel:    cancel,
		pulses:    make(chan bool, 1),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Mount starts the heartbeat. Calling it twice is a no-op.
func (s *Session) Mount() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrUnmounted
	}
	if s.mounted {
		return nil
	}
	s.mounted = true
	s.wg.Add(1)
	go s.heartbeat()
	s.log.Debug("session mounted", zap.Duration("heartbeat", s.interval))
	return nil
}

// Unmount stops the heartbeat, cancels any in-flight report and waits for
// both to exit. No report is started afterwards. Safe to call repeatedly and
// before Mount.
func (s *Session) Unmount() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	s.closePulses()
	s.log.Debug("session unmounted")
}

// Update resolves the answers. When the verdict differs from the last one
// observed, the renderer is pushed the new View and exactly one report is
// started. Returns the current View.
func (s *Session) Update(answers []quiz.Answer) View {
	tally, stats := quiz.Count(answers, s.questions)
	verdict := tally.Verdict()

	s.mu.Lock()
	if s.closed {
		view := s.view
		s.mu.Unlock()
		return view
	}
	changed := !s.observed || s.view.Verdict != verdict
	s.view = View{
		Verdict:        verdict,
		Tally:          tally,
		Stats:          stats,
		Recommendation: recommend.For(verdict),
		Theme:          s.theme,
	}
	s.observed = true
	view := s.view
	if changed {
		s.reportsRun++
		s.wg.Add(1)
		go s.send(verdict)
	}
	render := s.render
	s.mu.Unlock()

	if changed {
		s.log.Info("verdict resolved",
			zap.String("verdict", string(verdict)),
			zap.Int("matched", stats.Matched),
			zap.Int("skipped", stats.Skipped),
			zap.Int("unmatched", stats.Unmatched))
		if render != nil {
			render(view)
		}
	}
	return view
}

// View returns the latest resolved view and whether one exists.
func (s *Session) View() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view, s.observed
}

// Pulse reports the current heartbeat flag.
func (s *Session) Pulse() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pulse
}

// Pulses delivers each heartbeat toggle. Slow readers miss intermediate
// values. The channel closes on Unmount.
func (s *Session) Pulses() <-chan bool {
	return s.pulses
}

// LastReport returns the most recent successful report result.
func (s *Session) LastReport() (report.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport, s.hasReport
}

// ReportsStarted counts report attempts, one per distinct verdict.
func (s *Session) ReportsStarted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reportsRun
}

// Restart asks the owner to go back to the first question.
func (s *Session) Restart() {
	if s.restart != nil {
		s.restart()
	}
}

func (s *Session) heartbeat() {
	defer s.wg.Done()
	defer s.closePulses()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			s.pulse = !s.pulse
			value := s.pulse
			s.mu.Unlock()
			select {
			case s.pulses <- value:
			default:
				// Reader is behind; replace the stale value.
				select {
				case <-s.pulses:
				default:
				}
				select {
				case s.pulses <- value:
				default:
				}
			}
		}
	}
}

func (s *Session) send(verdict quiz.Category) {
	defer s.wg.Done()
	outcome := ReportOutcome{Verdict: verdict}
	outcome.Result, outcome.Err = s.callReporter(verdict)
	s.finishReport(outcome)
}

// callReporter turns a reporter panic into an error.
func (s *Session) callReporter(verdict quiz.Category) (res report.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("summary: reporter panicked: %v", r)
		}
	}()
	return s.reporter.Report(s.ctx, verdict)
}

func (s *Session) finishReport(outcome ReportOutcome) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if outcome.Err == nil {
		s.lastReport = outcome.Result
		s.hasReport = true
	}
	done := s.reportDone
	s.mu.Unlock()

	if outcome.Err != nil {
		s.log.Warn("score report failed",
			zap.String("verdict", string(outcome.Verdict)),
			zap.Error(outcome.Err))
	} else {
		s.log.Info("score reported",
			zap.String("verdict", string(outcome.Verdict)),
			zap.Int("status", outcome.Result.StatusCode))
	}
	if done != nil {
		s.notifyReportDone(done, outcome)
	}
}

func (s *Session) notifyReportDone(done func(ReportOutcome), outcome ReportOutcome) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("report callback panicked",
				zap.String("verdict", string(outcome.Verdict)),
				zap.Any("panic", r))
		}
	}()
	done(outcome)
}

func (s *Session) closePulses() {
	s.once.Do(func() { close(s.pulses) })
}
