package cronex

import "time"

// Matches reports whether the expression is active at the wall-clock
// moment m, read at the same UTC offset as the epoch. It never fails:
// out-of-domain components and impossible dates simply do not match.
func (x *Expression) Matches(m Moment) bool {
	return x.MatchesOffset(m, x.epoch.UTCOffset)
}

// MatchesTime reports whether the expression is active at t, taking
// both the wall-clock components and the UTC offset from t.
func (x *Expression) MatchesTime(t time.Time) bool {
	_, off := t.Zone()
	return x.MatchesOffset(MomentOf(t), off/60)
}

// MatchesOffset is Matches with m read at an explicit zone offset,
// given in minutes east of UTC. The offset only shifts the elapsed
// spans repeaters count; the static fields always see m's components
// as written.
func (x *Expression) MatchesOffset(m Moment, utcOffset int) bool {
	return x.matchAt(m, utcOffset, false)
}

func (x *Expression) matchAt(m Moment, utcOffset int, skipSecond bool) bool {
	d := x.deltasAt(m, utcOffset)
	if !skipSecond && !x.fieldActive(FieldSecond, m.Second, d.seconds) {
		return false
	}
	if !x.fieldActive(FieldMinute, m.Minute, d.minutes) {
		return false
	}
	if !x.fieldActive(FieldHour, m.Hour, d.hours) {
		return false
	}
	if !x.fieldActive(FieldMonth, m.Month, d.months) {
		return false
	}
	if !x.fieldActive(FieldYear, m.Year, d.years) {
		return false
	}
	return x.dayActive(m, d)
}

// deltas holds the elapsed whole units between the epoch and a moment,
// one column per field. They are component differences, not truncated
// durations: 23:59 to 0:00 next day is one hour and one day.
type deltas struct {
	seconds int64
	minutes int64
	hours   int64
	days    int64
	months  int64
	years   int64
}

func (x *Expression) deltasAt(m Moment, utcOffset int) deltas {
	days := civilDay(m.Year, m.Month, m.Day) - x.epochDay
	offDiff := int64(utcOffset - x.epoch.UTCOffset)
	wallHours := int64(m.Hour-x.epoch.Hour) + days*24
	minutes := int64(m.Minute-x.epoch.Minute) + wallHours*60 - offDiff
	return deltas{
		seconds: int64(m.Second) + minutes*60,
		minutes: minutes,
		hours:   wallHours - offDiff/60,
		days:    days,
		months:  int64(m.Year-x.epoch.Year)*12 + int64(m.Month-x.epoch.Month),
		years:   int64(m.Year - x.epoch.Year),
	}
}

// fieldActive evaluates the non-day fields: static values first, then
// repeater periods against the field's elapsed delta. A delta of zero
// matches every repeater.
func (x *Expression) fieldActive(f Field, v int, delta int64) bool {
	fs := &x.fields[f]
	if fs.hasValue(f, v) {
		return true
	}
	for _, p := range fs.repeaters {
		if delta%int64(p) == 0 {
			return true
		}
	}
	return false
}

// dayActive applies the day condition. A bare wildcard in one day field
// defers entirely to the other; two explicit day fields combine with OR,
// the traditional crontab reading.
func (x *Expression) dayActive(m Moment, d deltas) bool {
	cal := calendarOf(m.Year, m.Month)
	domStar := x.fields[FieldDom].bare()
	dowStar := x.fields[FieldDow].bare()

	switch {
	case domStar && dowStar:
		return x.domActive(m, d, cal) && x.dowActive(m, cal)
	case domStar:
		return x.dowActive(m, cal)
	case dowStar:
		return x.domActive(m, d, cal)
	default:
		return x.domActive(m, d, cal) || x.dowActive(m, cal)
	}
}

func (x *Expression) domActive(m Moment, d deltas, cal calendar) bool {
	fs := &x.fields[FieldDom]
	if fs.hasValue(FieldDom, m.Day) {
		return true
	}
	for _, p := range fs.repeaters {
		if d.days%int64(p) == 0 {
			return true
		}
	}
	for _, r := range fs.rules {
		if ruleActive(r, m.Day, cal) {
			return true
		}
	}
	return false
}

func (x *Expression) dowActive(m Moment, cal calendar) bool {
	fs := &x.fields[FieldDow]
	if fs.hasValue(FieldDow, weekdayOf(m.Day, cal)) {
		return true
	}
	for _, r := range fs.rules {
		if ruleActive(r, m.Day, cal) {
			return true
		}
	}
	return false
}

// calendar carries the month facts the calendar rules depend on: the
// weekday of the 1st (0 = Sunday) and the number of days in the month.
type calendar struct {
	firstDOW int
	lastDOM  int
}

func calendarOf(year, month int) calendar {
	return calendar{
		firstDOW: int(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Weekday()),
		lastDOM:  daysIn(year, month),
	}
}

// weekdayOf derives the weekday of a day number arithmetically from the
// weekday of the 1st, so impossible dates like April 31 still evaluate.
func weekdayOf(day int, cal calendar) int {
	return posMod(cal.firstDOW+day-1, 7)
}

// ruleActive evaluates one calendar rule against the moment's day.
func ruleActive(r calRule, day int, cal calendar) bool {
	switch r.kind {
	case ruleLastDom:
		return day == cal.lastDOM
	case ruleLastOfWeekday:
		// Day 29 is the earliest possible fifth occurrence; step back a
		// week when the month is too short for it.
		target := posMod(r.weekday-cal.firstDOW, 7) + 29
		if target > cal.lastDOM {
			target -= 7
		}
		return day == target
	case ruleNthWeekday:
		return day == posMod(r.weekday-cal.firstDOW, 7)+1+7*(r.nth-1)
	case ruleNearestWeekday:
		return day == nearestWeekday(r.day, cal)
	case ruleLastWeekday:
		return day == nearestWeekday(cal.lastDOM, cal)
	}
	return false
}

// nearestWeekday returns the day of the month a `D W` rule fires on: day
// d pulled onto the closest Monday-Friday without leaving the month.
// Returns 0 when no day qualifies.
func nearestWeekday(d int, cal calendar) int {
	target := min(d, cal.lastDOM)
	switch weekdayOf(target, cal) {
	case 0: // Sunday: forward to Monday, or back to Friday at month end
		if target == cal.lastDOM {
			target -= 2
		} else {
			target++
		}
	case 6: // Saturday: back to Friday, or forward to Monday at month start
		if target == 1 {
			target += 2
		} else {
			target--
		}
	}
	if wd := weekdayOf(target, cal); wd == 0 || wd == 6 {
		return 0
	}
	return target
}

// daysIn returns the number of days in the given month.
func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// civilDay returns the day number of a calendar date counted from the
// Unix epoch date. Out-of-range days and months normalize linearly, so
// day deltas across impossible dates stay consistent.
func civilDay(year, month, day int) int64 {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return floorDiv(t.Unix(), 86400)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func posMod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
