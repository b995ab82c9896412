package delivery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mind-engage/quizdesk/internal/apperr"
	"github.com/mind-engage/quizdesk/internal/grading"
	"github.com/mind-engage/quizdesk/internal/quiz"
)

type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseInProgress Phase = "in_progress"
	PhaseSubmitted  Phase = "submitted"
)

var (
	ErrAttemptNotFound = apperr.E(apperr.NotFound, "attempt not found")
	ErrNotInProgress   = apperr.E(apperr.Validation, "attempt is not in progress")
)

type ItemResult struct {
	Prompt        string      `json:"prompt"`
	UserAnswer    quiz.Answer `json:"user_answer"`
	CorrectAnswer quiz.Answer `json:"correct_answer"`
	IsCorrect     bool        `json:"is_correct"`
	Feedback      []string    `json:"feedback,omitempty"`
}

// Snapshot is a read-only copy of an attempt. Results and TotalCorrect are
// set only once Phase is submitted.
type Snapshot struct {
	ID               string              `json:"id"`
	QuizID           string              `json:"quiz_id"`
	DraftID          string              `json:"draft_id,omitempty"`
	Phase            Phase               `json:"phase"`
	DurationSeconds  int                 `json:"duration_seconds"`
	RemainingSeconds int                 `json:"remaining_seconds"`
	QuestionCount    int                 `json:"question_count"`
	Answers          map[int]quiz.Answer `json:"answers"`
	Results          []ItemResult        `json:"results,omitempty"`
	TotalCorrect     int                 `json:"total_correct"`
	AutoSubmitted    bool                `json:"auto_submitted"`
	StartedAt        time.Time           `json:"started_at,omitempty"`
	SubmittedAt      time.Time           `json:"submitted_at,omitempty"`
}

// Attempt is one respondent's timed run. The only transition out of
// in_progress happens once, whether driven by the countdown or by Submit.
type Attempt struct {
	mu sync.Mutex

	id      string
	draftID string
	quiz    quiz.PublishedQuiz
	grader  grading.Grader
	now     func() time.Time

	phase       Phase
	remaining   int
	answers     map[int]quiz.Answer
	results     []ItemResult
	total       int
	auto        bool
	startedAt   time.Time
	submittedAt time.Time

	done  chan struct{}
	hooks []func(Snapshot)
}

func NewAttempt(id string, q quiz.PublishedQuiz, g grading.Grader) *Attempt {
	if g == nil {
		g = grading.NewDefaultGrader()
	}
	return &Attempt{
		id:        id,
		quiz:      q.Clone(),
		grader:    g,
		now:       time.Now,
		phase:     PhaseNotStarted,
		remaining: q.DurationSeconds,
		answers:   map[int]quiz.Answer{},
		done:      make(chan struct{}),
	}
}

// OnSubmit registers fn to run once, after grading, outside the attempt lock.
func (a *Attempt) OnSubmit(fn func(Snapshot)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// Done is closed when the attempt is submitted.
func (a *Attempt) Done() <-chan struct{} { return a.done }

func (a *Attempt) ID() string { return a.id }

func (a *Attempt) Quiz() quiz.PublishedQuiz { return a.quiz.Clone() }

// Start seeds the countdown. A zero-length quiz is submitted immediately.
func (a *Attempt) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.phase != PhaseNotStarted {
		a.mu.Unlock()
		return apperr.E(apperr.Validation, "attempt already started")
	}
	a.phase = PhaseInProgress
	a.remaining = a.quiz.DurationSeconds
	a.startedAt = a.now()
	if a.remaining > 0 {
		a.mu.Unlock()
		return nil
	}
	snap, hooks := a.finishLocked(ctx, true)
	a.mu.Unlock()
	runHooks(hooks, snap)
	return nil
}

// Tick advances the countdown by one second and reports whether this tick
// submitted the attempt.
func (a *Attempt) Tick(ctx context.Context) bool {
	a.mu.Lock()
	if a.phase != PhaseInProgress {
		a.mu.Unlock()
		return false
	}
	if a.remaining > 0 {
		a.remaining--
	}
	if a.remaining > 0 {
		a.mu.Unlock()
		return false
	}
	snap, hooks := a.finishLocked(ctx, true)
	a.mu.Unlock()
	runHooks(hooks, snap)
	return true
}

// Answer records the response for question i, replacing any earlier one.
func (a *Attempt) Answer(i int, ans quiz.Answer) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	if i < 0 || i >= len(a.quiz.Questions) {
		return apperr.E(apperr.Validation, fmt.Sprintf("question index %d out of range", i))
	}
	a.answers[i] = ans.Clone()
	return nil
}

// Submit grades the attempt. Repeated calls return the same result and
// report graded=false.
func (a *Attempt) Submit(ctx context.Context) (snap Snapshot, graded bool, err error) {
	a.mu.Lock()
	switch a.phase {
	case PhaseNotStarted:
		a.mu.Unlock()
		return Snapshot{}, false, ErrNotInProgress
	case PhaseSubmitted:
		snap = a.snapshotLocked()
		a.mu.Unlock()
		return snap, false, nil
	}
	snap, hooks := a.finishLocked(ctx, false)
	a.mu.Unlock()
	runHooks(hooks, snap)
	return snap, true, nil
}

func (a *Attempt) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// finishLocked moves in_progress to submitted. Caller holds a.mu and must
// run the returned hooks after unlocking.
func (a *Attempt) finishLocked(ctx context.Context, auto bool) (Snapshot, []func(Snapshot)) {
	results := make([]ItemResult, len(a.quiz.Questions))
	total := 0
	for i, q := range a.quiz.Questions {
		resp := a.answers[i] // missing answers grade as the zero Answer
		item := ItemResult{
			Prompt:        q.Prompt,
			UserAnswer:    resp.Clone(),
			CorrectAnswer: q.CorrectAnswer.Clone(),
		}
		res, err := a.grader.Grade(ctx, q, resp)
		if err != nil {
			item.Feedback = []string{"grading failed: " + err.Error()}
		} else {
			item.IsCorrect = res.Correct
			item.Feedback = res.Feedback
		}
		if item.IsCorrect {
			total++
		}
		results[i] = item
	}
	a.results = results
	a.total = total
	a.phase = PhaseSubmitted
	a.auto = auto
	if auto {
		a.remaining = 0
	}
	a.submittedAt = a.now()
	close(a.done)
	hooks := a.hooks
	a.hooks = nil
	return a.snapshotLocked(), hooks
}

func (a *Attempt) snapshotLocked() Snapshot {
	s := Snapshot{
		ID:               a.id,
		QuizID:           a.quiz.ID,
		DraftID:          a.draftID,
		Phase:            a.phase,
		DurationSeconds:  a.quiz.DurationSeconds,
		RemainingSeconds: a.remaining,
		QuestionCount:    len(a.quiz.Questions),
		Answers:          make(map[int]quiz.Answer, len(a.answers)),
		TotalCorrect:     a.total,
		AutoSubmitted:    a.auto,
		StartedAt:        a.startedAt,
		SubmittedAt:      a.submittedAt,
	}
	for k, v := range a.answers {
		s.Answers[k] = v.Clone()
	}
	if a.phase == PhaseSubmitted {
		s.Results = make([]ItemResult, len(a.results))
		for i, r := range a.results {
			r.UserAnswer = r.UserAnswer.Clone()
			r.CorrectAnswer = r.CorrectAnswer.Clone()
			s.Results[i] = r
		}
	}
	return s
}

func runHooks(hooks []func(Snapshot), snap Snapshot) {
	for _, fn := range hooks {
		fn(snap)
	}
}
