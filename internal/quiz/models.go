package quiz

import (
	"strings"
	"time"

	"github.com/mind-engage/quizdesk/internal/apperr"
)

type Kind string

const (
	KindMultipleChoice Kind = "multiple_choice"
	KindFillBlank      Kind = "fill_blank"
	KindFreeResponse   Kind = "free_response"
)

// DefaultChoiceSlots is the number of empty choices a new multiple-choice question gets.
const DefaultChoiceSlots = 4

// DefaultDurationSec is the countdown length of a fresh draft.
const DefaultDurationSec = 300

// ParseKind accepts the canonical names plus the short MCQ/BLANK/QA aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multiple_choice", "mcq", "multiple-choice":
		return KindMultipleChoice, nil
	case "fill_blank", "blank", "fill-blank":
		return KindFillBlank, nil
	case "free_response", "qa", "free-response":
		return KindFreeResponse, nil
	}
	return "", apperr.E(apperr.Validation, "unknown question kind: "+s)
}

func (k Kind) Valid() bool {
	switch k {
	case KindMultipleChoice, KindFillBlank, KindFreeResponse:
		return true
	}
	return false
}

type Question struct {
	Kind          Kind     `json:"kind"`
	Prompt        string   `json:"prompt"`
	Choices       []string `json:"choices,omitempty"` // multiple_choice only
	CorrectAnswer Answer   `json:"correct_answer"`
}

// NewQuestion returns an empty question of kind k.
func NewQuestion(k Kind) Question {
	q := Question{Kind: k}
	if k == KindMultipleChoice {
		q.Choices = make([]string, DefaultChoiceSlots)
	}
	return q
}

func (q Question) Clone() Question {
	out := q
	if q.Choices != nil {
		out.Choices = append([]string(nil), q.Choices...)
	}
	out.CorrectAnswer = q.CorrectAnswer.Clone()
	return out
}

func cloneQuestions(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out
}

// Draft is the editable authoring state. Mutate it only through Apply.
type Draft struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id"`
	Questions       []Question `json:"questions"`
	DurationSeconds int        `json:"duration_seconds"`
	Locked          bool       `json:"locked"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewDraft returns a draft holding a single multiple-choice stub.
func NewDraft(id, ownerID string, durationSec int) Draft {
	if durationSec <= 0 {
		durationSec = DefaultDurationSec
	}
	return Draft{
		ID:              id,
		OwnerID:         ownerID,
		Questions:       []Question{NewQuestion(KindMultipleChoice)},
		DurationSeconds: durationSec,
	}
}

func (d Draft) Clone() Draft {
	out := d
	out.Questions = cloneQuestions(d.Questions)
	return out
}

// PublishedQuiz is immutable once stored.
type PublishedQuiz struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id,omitempty"`
	Questions       []Question `json:"questions"`
	DurationSeconds int        `json:"duration_seconds"`
	CreatedAt       int64      `json:"created_at,omitempty"`
}

func (q PublishedQuiz) Clone() PublishedQuiz {
	out := q
	out.Questions = cloneQuestions(q.Questions)
	return out
}

// PublicQuestion is what a respondent sees: no correct answers.
type PublicQuestion struct {
	Kind    Kind     `json:"kind"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices,omitempty"`
	Slots   int      `json:"slots,omitempty"` // answer inputs for multi-part free response
}

type PublicQuiz struct {
	ID              string           `json:"id"`
	Questions       []PublicQuestion `json:"questions"`
	DurationSeconds int              `json:"duration_seconds"`
}

func (q PublishedQuiz) PublicView() PublicQuiz {
	out := PublicQuiz{ID: q.ID, DurationSeconds: q.DurationSeconds, Questions: make([]PublicQuestion, len(q.Questions))}
	for i, qq := range q.Questions {
		pq := PublicQuestion{Kind: qq.Kind, Prompt: qq.Prompt}
		if qq.Choices != nil {
			pq.Choices = append([]string(nil), qq.Choices...)
		}
		if qq.CorrectAnswer.Multi {
			pq.Slots = len(qq.CorrectAnswer.Parts)
		}
		out.Questions[i] = pq
	}
	return out
}
