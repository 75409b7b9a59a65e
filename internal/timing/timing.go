// Package timing converts application-level schedules into Cronicle's
// calendar-match timing representation.
//
// Cronicle fires an event whenever the current UTC clock matches every
// populated field of its timing object. An absolute instant therefore
// becomes a timing object whose fields are all singleton sets; it fires
// exactly once.
package timing

import (
	"encoding/json"
	"time"
)

// Spec is Cronicle's native timing object: per-field sets of calendar
// values, all expressed in UTC. An absent (nil) field matches every value.
type Spec struct {
	Years    []int `json:"years,omitempty"`
	Months   []int `json:"months,omitempty"`
	Days     []int `json:"days,omitempty"`
	Weekdays []int `json:"weekdays,omitempty"`
	Hours    []int `json:"hours,omitempty"`
	Minutes  []int `json:"minutes,omitempty"`
}

// IsZero reports whether no field is populated. A zero Spec matches
// nothing and is rejected before submission.
func (s Spec) IsZero() bool {
	return len(s.Years) == 0 && len(s.Months) == 0 && len(s.Days) == 0 &&
		len(s.Weekdays) == 0 && len(s.Hours) == 0 && len(s.Minutes) == 0
}

type kind int

const (
	kindNone kind = iota
	kindInstant
	kindSpec
)

// Timing is a tagged variant: either an absolute instant (the application
// view) or a prebuilt calendar Spec (the scheduler view). The zero value
// is neither and fails validation.
type Timing struct {
	kind kind
	at   time.Time
	spec Spec
}

// At schedules a single firing at the given instant. Any timezone is
// accepted; Resolve normalizes to UTC.
func At(t time.Time) Timing {
	return Timing{kind: kindInstant, at: t}
}

// FromSpec wraps an already-built calendar Spec. Resolve returns it
// unchanged, so advanced callers can bypass the instant conversion.
func FromSpec(s Spec) Timing {
	return Timing{kind: kindSpec, spec: s}
}

func (t Timing) IsZero() bool {
	return t.kind == kindNone
}

// Resolve returns the calendar-match form. For an instant it extracts
// day-of-month, hour, minute, month (1-indexed) and year in UTC as
// singleton sets. The weekday field is left unset: the event is pinned
// to a calendar date, not a recurring weekday. For a Spec it is the
// identity. Resolve is pure and never fails.
func (t Timing) Resolve() Spec {
	switch t.kind {
	case kindInstant:
		u := t.at.UTC()
		return Spec{
			Years:   []int{u.Year()},
			Months:  []int{int(u.Month())},
			Days:    []int{u.Day()},
			Hours:   []int{u.Hour()},
			Minutes: []int{u.Minute()},
		}
	case kindSpec:
		return t.spec
	default:
		return Spec{}
	}
}

// MarshalJSON emits the resolved calendar form, which is the only shape
// the scheduler understands.
func (t Timing) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Resolve())
}

// UnmarshalJSON reads the calendar form, as returned by get_schedule.
func (t *Timing) UnmarshalJSON(data []byte) error {
	var s Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = FromSpec(s)
	return nil
}
