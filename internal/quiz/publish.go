package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/quizdesk/internal/apperr"
)

// Published is what an author gets back: the quiz id and a shareable locator.
type Published struct {
	ID      string `json:"id"`
	Locator string `json:"locator"`
}

type Publisher struct {
	Store   Store
	BaseURL string // optional origin prepended to locators

	NewID func() string
	Now   func() time.Time
}

// Publish validates d and stores a deep-copied snapshot of it.
func (p *Publisher) Publish(ctx context.Context, d Draft) (Published, error) {
	if err := Validate(d); err != nil {
		return Published{}, err
	}
	newID := p.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	rec := PublishedQuiz{
		ID:              newID(),
		OwnerID:         d.OwnerID,
		Questions:       cloneQuestions(d.Questions),
		DurationSeconds: d.DurationSeconds,
		CreatedAt:       now().Unix(),
	}
	if err := p.Store.Put(ctx, rec); err != nil {
		if apperr.Is(err, apperr.Conflict) {
			return Published{}, err
		}
		return Published{}, apperr.Wrap(apperr.Internal, "store quiz", err)
	}
	return Published{ID: rec.ID, Locator: Locator(p.BaseURL, rec.ID)}, nil
}

// Locator returns the share path for id, prefixed with base when set.
func Locator(base, id string) string {
	return strings.TrimSuffix(base, "/") + "/quiz/" + id
}

// Validate rejects drafts that cannot be delivered: no questions, blank
// prompts, or multiple-choice questions whose answer is not one of
// their (distinct, non-empty) choices.
func Validate(d Draft) error {
	if len(d.Questions) == 0 {
		return apperr.E(apperr.Validation, "quiz has no questions")
	}
	if d.DurationSeconds <= 0 {
		return apperr.E(apperr.Validation, "duration must be positive")
	}
	for i, q := range d.Questions {
		if !q.Kind.Valid() {
			return invalid(i, "unknown kind")
		}
		if strings.TrimSpace(q.Prompt) == "" {
			return invalid(i, "prompt is empty")
		}
		if q.Kind != KindMultipleChoice {
			continue
		}
		if len(q.Choices) == 0 {
			return invalid(i, "multiple choice needs choices")
		}
		seen := make(map[string]struct{}, len(q.Choices))
		for _, c := range q.Choices {
			if c == "" {
				return invalid(i, "choice is empty")
			}
			if _, dup := seen[c]; dup {
				return invalid(i, fmt.Sprintf("duplicate choice %q", c))
			}
			seen[c] = struct{}{}
		}
		if q.CorrectAnswer.Multi {
			return invalid(i, "multiple choice answer must be a single choice")
		}
		if _, ok := seen[q.CorrectAnswer.Text]; !ok {
			return invalid(i, "correct answer is not one of the choices")
		}
	}
	return nil
}

func invalid(i int, msg string) error {
	return apperr.E(apperr.Validation, fmt.Sprintf("question %d: %s", i+1, msg))
}
