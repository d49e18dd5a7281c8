package scorebridge

import (
	"sync"

	"github.com/kingrea/tastematch/internal/quiz"
)

const (
	defaultSubscriberCapacity = 32
	defaultDedupeWindow       = 1024
)

// BoardOption customizes Board construction.
type BoardOption func(*Board)

// BoardWithDedupeWindow controls how many players' last scores are remembered.
func BoardWithDedupeWindow(size int) BoardOption {
	return func(b *Board) {
		if size > 0 {
			b.dedupeWindow = size
		}
	}
}

// BoardWithSubscriberCapacity overrides the buffered channel size per subscriber.
func BoardWithSubscriberCapacity(capacity int) BoardOption {
	return func(b *Board) {
		if capacity > 0 {
			b.channelSize = capacity
		}
	}
}

// BoardWithLogger injects a logger for drop diagnostics.
func BoardWithLogger(logger Logger) BoardOption {
	return func(b *Board) {
		b.logger = logger
	}
}

// Board counts received scores per verdict and fans them out to live
// subscribers. A player repeating its last reported score is counted once;
// changing back to an earlier score counts again.
type Board struct {
	mu           sync.RWMutex
	totals       quiz.Tally
	received     int
	subscribers  map[*subscriber]struct{}
	lastScore    map[string]quiz.Category
	players      []string
	dedupeWindow int
	channelSize  int
	logger       Logger
}

// Subscription represents an active feed of accepted scores.
type Subscription struct {
	Scores <-chan Score
	cancel func()
}

// Close terminates the subscription.
func (s Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// NewBoard constructs an empty board.
func NewBoard(opts ...BoardOption) *Board {
	b := &Board{
		subscribers:  map[*subscriber]struct{}{},
		lastScore:    map[string]quiz.Category{},
		dedupeWindow: defaultDedupeWindow,
		channelSize:  defaultSubscriberCapacity,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Record counts a validated score. It returns false for a duplicate.
func (b *Board) Record(score Score) bool {
	idx := score.Score.Index()
	if idx < 0 {
		return false
	}
	b.mu.Lock()
	if score.PlayerID != "" {
		if last, ok := b.lastScore[score.PlayerID]; ok && last == score.Score {
			b.mu.Unlock()
			return false
		}
		b.remember(score.PlayerID, score.Score)
	}
	b.totals[idx]++
	b.received++
	subs := make([]*subscriber, 0, len(b.subscribers))
	for sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.Unlock()
	for _, sub := range subs {
		sub.deliver(score)
	}
	return true
}

// Totals returns the accepted count per verdict.
func (b *Board) Totals() quiz.Tally {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.totals
}

// Received returns how many scores were accepted.
func (b *Board) Received() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.received
}

// Subscribe returns a feed of scores accepted from now on.
func (b *Board) Subscribe() Subscription {
	sub := newSubscriber(b.channelSize, b.logger)
	b.mu.Lock()
	b.subscribers[sub] = struct{}{}
	b.mu.Unlock()
	return Subscription{
		Scores: sub.ch,
		cancel: func() { b.removeSubscriber(sub) },
	}
}

func (b *Board) removeSubscriber(sub *subscriber) {
	b.mu.Lock()
	delete(b.subscribers, sub)
	b.mu.Unlock()
	sub.close()
}

// remember stores the player's latest score, forgetting the least recently
// added player once the window is full. Callers hold b.mu.
func (b *Board) remember(player string, score quiz.Category) {
	if _, known := b.lastScore[player]; !known {
		b.players = append(b.players, player)
		if len(b.players) > b.dedupeWindow {
			delete(b.lastScore, b.players[0])
			b.players = b.players[1:]
		}
	}
	b.lastScore[player] = score
}

type subscriber struct {
	ch      chan Score
	logger  Logger
	closed  bool
	closeMu sync.Mutex
}

func newSubscriber(capacity int, logger Logger) *subscriber {
	if capacity <= 0 {
		capacity = defaultSubscriberCapacity
	}
	return &subscriber{ch: make(chan Score, capacity), logger: logger}
}

// deliver drops the oldest queued score when the subscriber falls behind.
func (s *subscriber) deliver(score Score) {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- score:
		return
	default:
	}
	select {
	case dropped := <-s.ch:
		if s.logger != nil {
			s.logger.Printf("scorebridge: dropped score %s (%s) on overflow", dropped.Score, dropped.ReceiptID)
		}
	default:
	}
	select {
	case s.ch <- score:
	default:
	}
}

func (s *subscriber) close() {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
