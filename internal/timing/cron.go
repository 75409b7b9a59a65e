package timing

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// starBit marks a wildcard field in robfig/cron's bitmask representation;
// lower bit i set means value i matches.
const starBit = 1 << 63

// FromCron converts a standard 5-field cron expression into a calendar
// Spec. Wildcard fields stay unset, matching Cronicle's "absent field
// matches all" convention.
func FromCron(expression string) (Spec, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(expression)
	if err != nil {
		return Spec{}, fmt.Errorf("parse cron: %w", err)
	}

	spec, ok := sched.(*cron.SpecSchedule)
	if !ok {
		return Spec{}, fmt.Errorf("unsupported cron expression %q", expression)
	}

	return Spec{
		Minutes:  setBits(spec.Minute, 0, 59),
		Hours:    setBits(spec.Hour, 0, 23),
		Days:     setBits(spec.Dom, 1, 31),
		Months:   setBits(spec.Month, 1, 12),
		Weekdays: setBits(spec.Dow, 0, 6),
	}, nil
}

func setBits(mask uint64, lo, hi int) []int {
	if mask&starBit != 0 {
		return nil
	}
	var values []int
	for v := lo; v <= hi; v++ {
		if mask&(1<<uint(v)) != 0 {
			values = append(values, v)
		}
	}
	return values
}
