package schema

import (
	"encoding/json"
	"fmt"
	"time"

	id "moodlog/pkg/domain"
)

// Answer is one typed value in an entry. The concrete types below are the only
// implementations; a blank optional answer is stored as a nil Answer.
type Answer interface {
	// Raw is the persisted JSON shape: string, float64 or []string.
	Raw() any
	sealed()
}

type Text struct{ Value string }

type Number struct{ Value float64 }

type Choice struct{ Value string }

type MultiChoice struct{ Values []string }

type Scale struct{ Value float64 }

type DateAnswer struct{ Value id.Date }

// TimeAnswer is a wall-clock time of day with minute precision.
type TimeAnswer struct {
	Hour   int
	Minute int
}

func (a Text) Raw() any        { return a.Value }
func (a Number) Raw() any      { return a.Value }
func (a Choice) Raw() any      { return a.Value }
func (a MultiChoice) Raw() any { return append([]string{}, a.Values...) }
func (a Scale) Raw() any       { return a.Value }
func (a DateAnswer) Raw() any  { return a.Value.String() }
func (a TimeAnswer) Raw() any  { return a.String() }

func (Text) sealed()        {}
func (Number) sealed()      {}
func (Choice) sealed()      {}
func (MultiChoice) sealed() {}
func (Scale) sealed()       {}
func (DateAnswer) sealed()  {}
func (TimeAnswer) sealed()  {}

func (a TimeAnswer) String() string {
	return fmt.Sprintf("%02d:%02d", a.Hour, a.Minute)
}

// Numeric extracts the value of number and scale answers.
func Numeric(a Answer) (float64, bool) {
	switch v := a.(type) {
	case Number:
		return v.Value, true
	case Scale:
		return v.Value, true
	default:
		return 0, false
	}
}

// Answers maps field ids to typed answers.
type Answers map[string]Answer

// MarshalJSON writes the flat persisted shape; nil answers become null.
func (a Answers) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(a))
	for k, v := range a {
		if v == nil {
			flat[k] = nil
			continue
		}
		flat[k] = v.Raw()
	}
	return json.Marshal(flat)
}

// Clone copies the answers, including multi-choice selections.
func (a Answers) Clone() Answers {
	if a == nil {
		return nil
	}
	out := make(Answers, len(a))
	for k, v := range a {
		if mc, ok := v.(MultiChoice); ok {
			v = MultiChoice{Values: append([]string(nil), mc.Values...)}
		}
		out[k] = v
	}
	return out
}

// Raw returns the untyped flat mapping.
func (a Answers) Raw() map[string]any {
	flat := make(map[string]any, len(a))
	for k, v := range a {
		if v == nil {
			flat[k] = nil
			continue
		}
		flat[k] = v.Raw()
	}
	return flat
}

func parseClock(s string) (TimeAnswer, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeAnswer{}, false
	}
	return TimeAnswer{Hour: t.Hour(), Minute: t.Minute()}, true
}
