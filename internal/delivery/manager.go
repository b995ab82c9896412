package delivery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/quizdesk/internal/grading"
	"github.com/mind-engage/quizdesk/internal/quiz"
)

const (
	TickInterval     = time.Second
	DefaultRetention = time.Hour
)

// Manager owns live attempts and drives one countdown goroutine per attempt.
type Manager struct {
	mu       sync.Mutex
	attempts map[string]*Attempt

	grader    grading.Grader
	newTicker TickerFunc
	newID     func() string
	now       func() time.Time
	retention time.Duration
	onSubmit  []func(Snapshot)
	logger    *slog.Logger

	closed chan struct{}
	wg     sync.WaitGroup
}

type Option func(*Manager)

func WithTicker(f TickerFunc) Option        { return func(m *Manager) { m.newTicker = f } }
func WithIDs(f func() string) Option        { return func(m *Manager) { m.newID = f } }
func WithClock(f func() time.Time) Option   { return func(m *Manager) { m.now = f } }
func WithLogger(l *slog.Logger) Option      { return func(m *Manager) { m.logger = l } }
func WithOnSubmit(fn func(Snapshot)) Option { return func(m *Manager) { m.onSubmit = append(m.onSubmit, fn) } }

// WithRetention sets how long a submitted attempt stays readable. Zero keeps
// it until Close.
func WithRetention(d time.Duration) Option { return func(m *Manager) { m.retention = d } }

func NewManager(g grading.Grader, opts ...Option) *Manager {
	if g == nil {
		g = grading.NewDefaultGrader()
	}
	m := &Manager{
		attempts:  map[string]*Attempt{},
		grader:    g,
		newTicker: NewRealTicker,
		newID:     uuid.NewString,
		now:       time.Now,
		retention: DefaultRetention,
		logger:    slog.Default(),
		closed:    make(chan struct{}),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// StartOptions tie an attempt to the draft it previews, if any.
type StartOptions struct {
	DraftID  string
	OnSubmit func(Snapshot)
}

// Start creates an attempt for q, starts its countdown and returns it.
func (m *Manager) Start(ctx context.Context, q quiz.PublishedQuiz, so StartOptions) (*Attempt, error) {
	a := NewAttempt(m.newID(), q, m.grader)
	a.now = m.now
	a.draftID = so.DraftID
	for _, fn := range m.onSubmit {
		a.OnSubmit(fn)
	}
	if so.OnSubmit != nil {
		a.OnSubmit(so.OnSubmit)
	}
	a.OnSubmit(m.expire)

	m.mu.Lock()
	m.attempts[a.id] = a
	m.mu.Unlock()

	if err := a.Start(ctx); err != nil {
		return nil, err
	}
	select {
	case <-a.Done():
		// zero-length quiz, already graded
	default:
		m.wg.Add(1)
		go m.run(a, m.newTicker(TickInterval))
	}
	m.logger.Info("attempt started", slog.String("attempt_id", a.id), slog.String("quiz_id", q.ID))
	return a, nil
}

func (m *Manager) Get(id string) (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[id]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	return a, nil
}

// Close stops every countdown. Attempts still in progress are left unsubmitted.
func (m *Manager) Close() {
	m.mu.Lock()
	select {
	case <-m.closed:
	default:
		close(m.closed)
	}
	m.mu.Unlock()
	m.wg.Wait()
}

func (m *Manager) run(a *Attempt, t Ticker) {
	defer m.wg.Done()
	defer t.Stop()
	for {
		select {
		case <-t.C():
			if a.Tick(context.Background()) {
				return
			}
		case <-a.Done():
			return
		case <-m.closed:
			return
		}
	}
}

func (m *Manager) expire(s Snapshot) {
	m.logger.Info("attempt submitted",
		slog.String("attempt_id", s.ID),
		slog.String("quiz_id", s.QuizID),
		slog.Int("total_correct", s.TotalCorrect),
		slog.Bool("auto", s.AutoSubmitted),
	)
	if m.retention <= 0 {
		return
	}
	time.AfterFunc(m.retention, func() {
		m.mu.Lock()
		delete(m.attempts, s.ID)
		m.mu.Unlock()
	})
}
