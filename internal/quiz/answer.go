package quiz

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Answer is either a single string or an ordered sequence of strings.
// On the wire it is a JSON string or a JSON array of strings.
type Answer struct {
	Text  string
	Parts []string
	Multi bool
}

func Text(s string) Answer { return Answer{Text: s} }

func Sequence(parts ...string) Answer {
	return Answer{Parts: append([]string{}, parts...), Multi: true}
}

// Equal is exact: case and whitespace sensitive, order sensitive for sequences.
// A string never equals a sequence.
func (a Answer) Equal(b Answer) bool {
	if a.Multi != b.Multi {
		return false
	}
	if !a.Multi {
		return a.Text == b.Text
	}
	if len(a.Parts) != len(b.Parts) {
		return false
	}
	for i := range a.Parts {
		if a.Parts[i] != b.Parts[i] {
			return false
		}
	}
	return true
}

// String renders sequences comma-joined.
func (a Answer) String() string {
	if a.Multi {
		return strings.Join(a.Parts, ", ")
	}
	return a.Text
}

func (a Answer) Clone() Answer {
	out := a
	if a.Parts != nil {
		out.Parts = append([]string{}, a.Parts...)
	}
	return out
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Multi {
		parts := a.Parts
		if parts == nil {
			parts = []string{}
		}
		return json.Marshal(parts)
	}
	return json.Marshal(a.Text)
}

func (a *Answer) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = Answer{}
		return nil
	case len(b) > 0 && b[0] == '[':
		var parts []string
		if err := json.Unmarshal(b, &parts); err != nil {
			return err
		}
		*a = Sequence(parts...)
		return nil
	default:
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Text(s)
		return nil
	}
}
