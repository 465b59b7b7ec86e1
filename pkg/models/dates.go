package models

import "time"

// DateOf truncates t to its calendar day, expressed as midnight UTC.
// The day is taken in t's own location so a local evening stays on the same day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BeginAndDueDates is a begin day with an optional due day. When Due is
// set it is never before Begin.
type BeginAndDueDates struct {
	Begin time.Time  `yaml:"begin"`
	Due   *time.Time `yaml:"due,omitempty"`
}

// NewBeginAndDueDates normalises both days and enforces due >= begin.
func NewBeginAndDueDates(begin time.Time, due *time.Time) (BeginAndDueDates, error) {
	if begin.IsZero() {
		return BeginAndDueDates{}, InvalidArgument("new dates", "begin date is required")
	}
	d := BeginAndDueDates{Begin: DateOf(begin)}
	if due != nil {
		dd := DateOf(*due)
		if dd.Before(d.Begin) {
			return BeginAndDueDates{}, InvalidArgument("new dates", "due date %s is before begin date %s",
				dd.Format(time.DateOnly), d.Begin.Format(time.DateOnly))
		}
		d.Due = &dd
	}
	return d, nil
}

// Span returns the window [begin, begin+days] with both ends normalised.
func Span(begin time.Time, days int) BeginAndDueDates {
	b := DateOf(begin)
	due := b.AddDate(0, 0, days)
	return BeginAndDueDates{Begin: b, Due: &due}
}

// Contains reports whether day falls inside the inclusive window. A window
// without a due day is open-ended.
func (d BeginAndDueDates) Contains(day time.Time) bool {
	day = DateOf(day)
	if day.Before(d.Begin) {
		return false
	}
	return d.Due == nil || !day.After(*d.Due)
}

// EndsBefore reports whether the window has a due day strictly before day.
func (d BeginAndDueDates) EndsBefore(day time.Time) bool {
	return d.Due != nil && d.Due.Before(DateOf(day))
}

func (d BeginAndDueDates) clone() BeginAndDueDates {
	if d.Due != nil {
		due := *d.Due
		d.Due = &due
	}
	return d
}
