package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mind-engage/quizdesk/internal/apperr"
)

// draftSpec is the on-disk authoring format:
//
//	duration_minutes: 5
//	questions:
//	  - kind: mcq
//	    prompt: Capital of France?
//	    choices: [Paris, Rome]
//	    answer: Paris
//	  - kind: qa
//	    prompt: Name two primary colours
//	    answers: [red, blue]
type draftSpec struct {
	DurationMinutes int            `yaml:"duration_minutes" json:"duration_minutes"`
	Questions       []questionSpec `yaml:"questions" json:"questions"`
}

type questionSpec struct {
	Kind    string   `yaml:"kind" json:"kind"`
	Prompt  string   `yaml:"prompt" json:"prompt"`
	Choices []string `yaml:"choices" json:"choices"`
	Answer  string   `yaml:"answer" json:"answer"`
	Answers []string `yaml:"answers" json:"answers"`
}

// LoadDraft decodes a draft from YAML or JSON ("yaml", "yml", "json").
// Unknown fields are rejected. The result is not validated for publishing.
func LoadDraft(r io.Reader, format string) (Draft, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Draft{}, fmt.Errorf("read draft: %w", err)
	}
	var spec draftSpec
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		err = decodeJSON(data, &spec)
	case "yaml", "yml", "":
		err = decodeYAML(data, &spec)
	default:
		return Draft{}, apperr.E(apperr.Validation, "unsupported draft format: "+format)
	}
	if err != nil {
		return Draft{}, apperr.Wrap(apperr.Validation, "malformed draft", err)
	}
	return spec.toDraft()
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("parse json: multiple documents are not supported")
	}
	return nil
}

func decodeYAML(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("parse yaml: multiple documents are not supported")
	}
	return nil
}

func (s draftSpec) toDraft() (Draft, error) {
	d := Draft{DurationSeconds: DefaultDurationSec}
	if s.DurationMinutes > 0 {
		d.DurationSeconds = s.DurationMinutes * 60
	}
	for i, qs := range s.Questions {
		k, err := ParseKind(qs.Kind)
		if err != nil {
			return Draft{}, invalid(i, err.Error())
		}
		q := Question{Kind: k, Prompt: qs.Prompt, CorrectAnswer: Text(qs.Answer)}
		switch k {
		case KindMultipleChoice:
			q.Choices = append([]string{}, qs.Choices...)
			if len(q.Choices) == 0 {
				q.Choices = make([]string, DefaultChoiceSlots)
			}
		case KindFreeResponse:
			if len(qs.Answers) > 0 {
				q.CorrectAnswer = Sequence(qs.Answers...)
			}
		}
		if k != KindMultipleChoice && len(qs.Choices) > 0 {
			return Draft{}, invalid(i, "choices only apply to multiple choice")
		}
		if k != KindFreeResponse && len(qs.Answers) > 0 {
			return Draft{}, invalid(i, "answers only apply to free response")
		}
		d.Questions = append(d.Questions, q)
	}
	if len(d.Questions) == 0 {
		d.Questions = []Question{NewQuestion(KindMultipleChoice)}
	}
	return d, nil
}
