package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// cronField describes one field of a cron(...) schedule expression.
type cronField struct {
	name          string
	min, max      int
	names         map[string]int
	allowQuestion bool
	allowL        bool
	allowW        bool
	allowHash     bool
}

var monthNames = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

var dayNames = map[string]int{
	"SUN": 1, "MON": 2, "TUE": 3, "WED": 4, "THU": 5, "FRI": 6, "SAT": 7,
}

// cronFields are the six fields of a scheduler cron expression, in order.
var cronFields = []cronField{
	{name: "minutes", min: 0, max: 59},
	{name: "hours", min: 0, max: 23},
	{name: "day-of-month", min: 1, max: 31, allowQuestion: true, allowL: true, allowW: true},
	{name: "month", min: 1, max: 12, names: monthNames},
	{name: "day-of-week", min: 1, max: 7, names: dayNames, allowQuestion: true, allowL: true, allowHash: true},
	{name: "year", min: 1970, max: 2199},
}

// ValidateScheduleExpression validates a recurrence expression of the form
// cron(<minutes> <hours> <day-of-month> <month> <day-of-week> <year>).
// Five-field bodies and rate(...) expressions are rejected.
func ValidateScheduleExpression(expr string) error {
	body, ok := unwrap(expr, "cron")
	if !ok {
		return fmt.Errorf("schedule expression must be cron(...)")
	}
	return validateCron(body)
}

func unwrap(expr, fn string) (string, bool) {
	body, ok := strings.CutPrefix(expr, fn+"(")
	if !ok {
		return "", false
	}
	body, ok = strings.CutSuffix(body, ")")
	return body, ok
}

func validateCron(body string) error {
	fields := strings.Fields(body)
	if len(fields) != len(cronFields) {
		return fmt.Errorf("cron expression must have %d fields, got %d", len(cronFields), len(fields))
	}
	for i, f := range cronFields {
		if err := f.validate(fields[i]); err != nil {
			return err
		}
	}
	// Exactly one of day-of-month and day-of-week must be '?'.
	domQ, dowQ := fields[2] == "?", fields[4] == "?"
	if domQ == dowQ {
		return fmt.Errorf("exactly one of day-of-month and day-of-week must be '?'")
	}
	return nil
}

func (f cronField) validate(value string) error {
	if value == "?" {
		if !f.allowQuestion {
			return fmt.Errorf("%s does not accept '?'", f.name)
		}
		return nil
	}
	for _, part := range strings.Split(value, ",") {
		if err := f.validatePart(part); err != nil {
			return err
		}
	}
	return nil
}

func (f cronField) validatePart(part string) error {
	if part == "" {
		return fmt.Errorf("%s has an empty list element", f.name)
	}
	base, step, hasStep := strings.Cut(part, "/")
	if hasStep {
		n, err := strconv.Atoi(step)
		if err != nil || n < 1 {
			return fmt.Errorf("%s has an invalid increment %q", f.name, step)
		}
	}
	if base == "*" {
		return nil
	}
	if f.allowHash {
		if day, nth, ok := strings.Cut(base, "#"); ok {
			if _, err := f.value(day); err != nil {
				return err
			}
			n, err := strconv.Atoi(nth)
			if err != nil || n < 1 || n > 5 {
				return fmt.Errorf("%s has an invalid occurrence %q", f.name, nth)
			}
			return nil
		}
	}
	if f.allowL {
		if base == "L" {
			return nil
		}
		if f.allowW && base == "LW" {
			return nil
		}
		if !f.allowW {
			if day, ok := strings.CutSuffix(base, "L"); ok {
				_, err := f.value(day)
				return err
			}
		}
	}
	if f.allowW {
		if day, ok := strings.CutSuffix(base, "W"); ok {
			_, err := f.value(day)
			return err
		}
	}
	lo, hi, isRange := strings.Cut(base, "-")
	from, err := f.value(lo)
	if err != nil {
		return err
	}
	if !isRange {
		return nil
	}
	to, err := f.value(hi)
	if err != nil {
		return err
	}
	if from > to {
		return fmt.Errorf("%s range %q is reversed", f.name, base)
	}
	return nil
}

func (f cronField) value(s string) (int, error) {
	if n, ok := f.names[strings.ToUpper(s)]; ok {
		return n, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s has an invalid value %q", f.name, s)
	}
	if n < f.min || n > f.max {
		return 0, fmt.Errorf("%s value %d is out of range %d-%d", f.name, n, f.min, f.max)
	}
	return n, nil
}
