package quiz

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mind-engage/quizdesk/internal/apperr"
)

type Op string

const (
	OpAddQuestion      Op = "add_question"
	OpSetType          Op = "set_type"
	OpSetPrompt        Op = "set_prompt"
	OpSetChoice        Op = "set_choice"
	OpSetCorrectAnswer Op = "set_correct_answer"
	OpAddSlot          Op = "add_slot"
	OpSetSlot          Op = "set_slot"
	OpRemoveQuestion   Op = "remove_question"
	OpSetDuration      Op = "set_duration"
)

// Action is one authoring edit. Index addresses a question, Slot a choice
// or free-response slot inside it. Minutes may be a JSON number or string.
type Action struct {
	Op      Op     `json:"op"`
	Index   int    `json:"index"`
	Slot    int    `json:"slot"`
	Kind    string `json:"kind,omitempty"`
	Text    string `json:"text,omitempty"`
	Minutes any    `json:"minutes,omitempty"`
}

// Apply returns a new draft with a applied. The input draft is never
// modified. Locked drafts come back unchanged.
func Apply(d Draft, a Action) (Draft, error) {
	if d.Locked {
		return d, nil
	}
	out := d.Clone()
	var err error
	switch a.Op {
	case OpAddQuestion:
		out.Questions = append(out.Questions, NewQuestion(KindMultipleChoice))
	case OpSetType:
		err = out.setType(a.Index, a.Kind)
	case OpSetPrompt:
		err = out.setPrompt(a.Index, a.Text)
	case OpSetChoice:
		err = out.setChoice(a.Index, a.Slot, a.Text)
	case OpSetCorrectAnswer:
		err = out.setCorrectAnswer(a.Index, a.Text)
	case OpAddSlot:
		err = out.addSlot(a.Index)
	case OpSetSlot:
		err = out.setSlot(a.Index, a.Slot, a.Text)
	case OpRemoveQuestion:
		err = out.removeQuestion(a.Index)
	case OpSetDuration:
		out.setDuration(a.Minutes)
	default:
		err = apperr.E(apperr.Validation, fmt.Sprintf("unknown op %q", a.Op))
	}
	if err != nil {
		return d, err
	}
	return out, nil
}

func outOfRange(what string, i int) error {
	return apperr.E(apperr.Validation, fmt.Sprintf("%s index %d out of range", what, i))
}

func (d *Draft) question(i int) (*Question, error) {
	if i < 0 || i >= len(d.Questions) {
		return nil, outOfRange("question", i)
	}
	return &d.Questions[i], nil
}

// setType discards the prompt, choices and answer of question i.
func (d *Draft) setType(i int, kind string) error {
	if _, err := d.question(i); err != nil {
		return err
	}
	k, err := ParseKind(kind)
	if err != nil {
		return err
	}
	d.Questions[i] = NewQuestion(k)
	return nil
}

func (d *Draft) setPrompt(i int, text string) error {
	q, err := d.question(i)
	if err != nil {
		return err
	}
	q.Prompt = text
	return nil
}

func (d *Draft) setChoice(i, j int, text string) error {
	q, err := d.question(i)
	if err != nil {
		return err
	}
	if j < 0 || j >= len(q.Choices) {
		return outOfRange("choice", j)
	}
	q.Choices[j] = text
	return nil
}

func (d *Draft) setCorrectAnswer(i int, text string) error {
	q, err := d.question(i)
	if err != nil {
		return err
	}
	q.CorrectAnswer = Text(text)
	return nil
}

// addSlot turns a free-response answer into a sequence and appends an empty slot.
func (d *Draft) addSlot(i int) error {
	q, err := d.question(i)
	if err != nil {
		return err
	}
	if q.Kind != KindFreeResponse {
		return apperr.E(apperr.Validation, "answer slots only apply to free-response questions")
	}
	if !q.CorrectAnswer.Multi {
		parts := []string{}
		if q.CorrectAnswer.Text != "" {
			parts = append(parts, q.CorrectAnswer.Text)
		}
		q.CorrectAnswer = Sequence(parts...)
	}
	q.CorrectAnswer.Parts = append(q.CorrectAnswer.Parts, "")
	return nil
}

func (d *Draft) setSlot(i, j int, text string) error {
	q, err := d.question(i)
	if err != nil {
		return err
	}
	if !q.CorrectAnswer.Multi || j < 0 || j >= len(q.CorrectAnswer.Parts) {
		return outOfRange("slot", j)
	}
	q.CorrectAnswer.Parts[j] = text
	return nil
}

// removeQuestion keeps at least one question in the draft.
func (d *Draft) removeQuestion(i int) error {
	if _, err := d.question(i); err != nil {
		return err
	}
	if len(d.Questions) == 1 {
		return nil
	}
	d.Questions = append(d.Questions[:i], d.Questions[i+1:]...)
	return nil
}

// setDuration ignores non-positive and non-numeric input.
func (d *Draft) setDuration(minutes any) {
	var m int
	switch v := minutes.(type) {
	case int:
		m = v
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 {
			return
		}
		m = int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return
		}
		m = n
	default:
		return
	}
	if m <= 0 || m > math.MaxInt32/60 {
		return
	}
	d.DurationSeconds = m * 60
}
