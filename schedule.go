package cronex

import "time"

// MaxSearchYears bounds how far Next and Prev scan before giving up and
// returning the zero time. Expressions that never fire, such as a
// day-of-month of 30 in February, would otherwise search forever.
const MaxSearchYears = 5

// Schedule describes anything that can yield its next activation time.
// Expression implements it, as do wrappers that decorate one.
type Schedule interface {
	// Next returns the earliest activation time strictly after t, or
	// the zero time if there is none within the search horizon.
	Next(t time.Time) time.Time
}

// ScheduleWithPrev is a Schedule that can also search backwards.
type ScheduleWithPrev interface {
	Schedule

	// Prev returns the latest activation time strictly before t, or
	// the zero time if there is none within the search horizon.
	Prev(t time.Time) time.Time
}

var _ ScheduleWithPrev = (*Expression)(nil)

// Next returns the earliest instant strictly after t at which the
// expression is active, in t's location, or the zero time if none
// occurs within MaxSearchYears.
//
// The scan walks real instants, so zone transitions behave the way a
// wall clock does: skipped wall times never fire and repeated wall
// times are tested once per offset.
func (x *Expression) Next(t time.Time) time.Time {
	limit := t.AddDate(MaxSearchYears, 0, 0)
	withSeconds := x.fields[FieldSecond].constrained()

	// Truncate on the absolute timeline. Deriving the minute start from
	// wall components instead would resolve ambiguous fall-back times to
	// the wrong offset and let the scan slip behind t.
	cur := t.Truncate(time.Minute)
	if !withSeconds {
		cur = cur.Add(time.Minute)
	}
	for !cur.After(limit) {
		_, off := cur.Zone()
		m := MomentOf(cur)
		if x.matchAt(m, off/60, true) {
			if !withSeconds {
				return cur
			}
			for s := 0; s < 60; s++ {
				m.Second = s
				if x.matchAt(m, off/60, false) {
					if hit := cur.Add(time.Duration(s) * time.Second); hit.After(t) {
						return hit
					}
				}
			}
		}
		cur = cur.Add(time.Minute)
	}
	return time.Time{}
}

// Prev returns the latest instant strictly before t at which the
// expression is active, in t's location, or the zero time if none
// occurs within MaxSearchYears.
func (x *Expression) Prev(t time.Time) time.Time {
	limit := t.AddDate(-MaxSearchYears, 0, 0)
	withSeconds := x.fields[FieldSecond].constrained()

	cur := t.Truncate(time.Minute)
	for !cur.Before(limit) {
		_, off := cur.Zone()
		m := MomentOf(cur)
		if x.matchAt(m, off/60, true) {
			if !withSeconds {
				if cur.Before(t) {
					return cur
				}
			} else {
				for s := 59; s >= 0; s-- {
					m.Second = s
					if x.matchAt(m, off/60, false) {
						if hit := cur.Add(time.Duration(s) * time.Second); hit.Before(t) {
							return hit
						}
					}
				}
			}
		}
		cur = cur.Add(-time.Minute)
	}
	return time.Time{}
}
