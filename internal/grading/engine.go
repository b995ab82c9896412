package grading

import (
	"context"

	"github.com/mind-engage/quizdesk/internal/quiz"
)

// Result is the outcome of grading a single question response.
type Result struct {
	Correct  bool
	Feedback []string // optional notes
}

// Strategy grades a single question.
type Strategy interface {
	Grade(ctx context.Context, q quiz.Question, response quiz.Answer) (Result, error)
}

// Grader routes by question kind to the correct Strategy.
type Grader interface {
	Grade(ctx context.Context, q quiz.Question, response quiz.Answer) (Result, error)
}

type defaultGrader struct {
	strategies map[quiz.Kind]Strategy
}

func (g *defaultGrader) Grade(ctx context.Context, q quiz.Question, response quiz.Answer) (Result, error) {
	s, ok := g.strategies[q.Kind]
	if !ok {
		return Result{Feedback: []string{"no strategy available"}}, nil
	}
	return s.Grade(ctx, q, response)
}

// Engine options

type Option func(*config)

type config struct {
	NormalizeText bool // fold case, punctuation and spacing for typed answers
}

// WithNormalizedText relaxes fill-blank and free-response matching.
// Multiple choice always compares exactly.
func WithNormalizedText(b bool) Option { return func(c *config) { c.NormalizeText = b } }

// NewDefaultGrader installs built-in strategies. Without options every
// comparison is exact: case, whitespace and (for sequences) order sensitive.
func NewDefaultGrader(opts ...Option) Grader {
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}
	return &defaultGrader{
		strategies: map[quiz.Kind]Strategy{
			quiz.KindMultipleChoice: choiceStrategy{},
			quiz.KindFillBlank:      textStrategy{normalize: cfg.NormalizeText},
			quiz.KindFreeResponse:   textStrategy{normalize: cfg.NormalizeText},
		},
	}
}

// --- Strategies ---

type choiceStrategy struct{}

func (choiceStrategy) Grade(_ context.Context, q quiz.Question, response quiz.Answer) (Result, error) {
	res := Result{Correct: response.Equal(q.CorrectAnswer)}
	if !res.Correct && response.Text != "" && !contains(q.Choices, response.Text) {
		res.Feedback = append(res.Feedback, "response is not one of the choices")
	}
	return res, nil
}

// textStrategy covers single strings and ordered sequences alike.
type textStrategy struct{ normalize bool }

func (s textStrategy) Grade(_ context.Context, q quiz.Question, response quiz.Answer) (Result, error) {
	if !s.normalize {
		return Result{Correct: response.Equal(q.CorrectAnswer)}, nil
	}
	res := Result{Correct: normalizeAnswer(response).Equal(normalizeAnswer(q.CorrectAnswer))}
	if res.Correct && !response.Equal(q.CorrectAnswer) {
		res.Feedback = append(res.Feedback, "matched after normalization")
	}
	return res, nil
}

// helpers

func normalizeAnswer(a quiz.Answer) quiz.Answer {
	out := a.Clone()
	out.Text = normalize(out.Text)
	for i := range out.Parts {
		out.Parts[i] = normalize(out.Parts[i])
	}
	return out
}

func contains(arr []string, s string) bool {
	for _, v := range arr {
		if v == s {
			return true
		}
	}
	return false
}
