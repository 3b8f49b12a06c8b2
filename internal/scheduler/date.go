package scheduler

import "time"

// Due dates are calendar dates with no time component. Everything in this
// package normalizes to midnight UTC so that timezone offsets can never
// shift a date across a day boundary.

const dateLayout = "2006-01-02"

// DateOnly truncates t to its calendar date at midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date.
func Today() time.Time {
	return DateOnly(time.Now().UTC())
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// NextDueDate computes the due date following current for a plan with the
// given recurrence interval. Day-granular addition: Jan 31 + 30 days rolls
// into March, it does not clamp to month ends.
//
// With catchUp false the date advances by exactly one interval, so a plan
// overdue by several intervals needs one pass per interval to become
// current. With catchUp true the date rolls forward to the first due date
// strictly after today in a single step.
func NextDueDate(current time.Time, frequencyDays int, today time.Time, catchUp bool) time.Time {
	next := DateOnly(current).AddDate(0, 0, frequencyDays)
	if !catchUp {
		return next
	}

	today = DateOnly(today)
	for !next.After(today) {
		next = next.AddDate(0, 0, frequencyDays)
	}
	return next
}
