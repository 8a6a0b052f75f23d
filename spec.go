package cronex

// Field identifies one field slot of an expression. The zero-based order
// follows the extended seven-field form; a standard five-field expression
// uses FieldMinute through FieldDow, with the seconds and year slots
// left unconstrained.
type Field int

const (
	FieldSecond Field = iota
	FieldMinute
	FieldHour
	FieldDom
	FieldMonth
	FieldDow
	FieldYear

	numFields = int(FieldYear) + 1
)

// String returns the field name as it appears in error messages.
func (f Field) String() string {
	switch f {
	case FieldSecond:
		return "seconds"
	case FieldMinute:
		return "minutes"
	case FieldHour:
		return "hours"
	case FieldDom:
		return "day-of-month"
	case FieldMonth:
		return "month"
	case FieldDow:
		return "day-of-week"
	case FieldYear:
		return "year"
	}
	return "unknown"
}

// bounds provides a range of acceptable values (plus a map of name to value).
type bounds struct {
	min, max uint
	names    map[string]uint
}

// The bounds for each field.
var (
	seconds = bounds{0, 59, nil}
	minutes = bounds{0, 59, nil}
	hours   = bounds{0, 23, nil}
	dom     = bounds{1, 31, nil}
	months  = bounds{1, 12, map[string]uint{
		"jan": 1,
		"feb": 2,
		"mar": 3,
		"apr": 4,
		"may": 5,
		"jun": 6,
		"jul": 7,
		"aug": 8,
		"sep": 9,
		"oct": 10,
		"nov": 11,
		"dec": 12,
	}}
	dow = bounds{0, 6, map[string]uint{
		"sun": 0,
		"mon": 1,
		"tue": 2,
		"wed": 3,
		"thu": 4,
		"fri": 5,
		"sat": 6,
	}}
	years = bounds{1970, 9999, nil}
)

var fieldDomains = [numFields]bounds{seconds, minutes, hours, dom, months, dow, years}

const (
	// Set the top bit if a bare wildcard was included in the expression.
	starBit = 1 << 63
)

// ruleKind enumerates the calendar rule variants of the day fields.
type ruleKind uint8

const (
	ruleLastDom        ruleKind = iota // L: last day of the month
	ruleLastOfWeekday                  // 5L: last Friday of the month
	ruleNearestWeekday                 // 15W: weekday nearest the 15th
	ruleLastWeekday                    // LW: last weekday of the month
	ruleNthWeekday                     // 4#2: second Thursday of the month
)

// calRule is one compiled calendar rule. The day fields are the only
// fields that carry them: L, NL, DW and LW compile into day-of-month
// rules, WD#N into a day-of-week rule.
type calRule struct {
	kind    ruleKind
	day     int // D in `D W`
	weekday int // WD in `WD L` and `WD#N`
	nth     int // N in `WD#N`
}

// fieldSpec is the compiled form of a single field: a bit set of static
// values (with starBit marking a bare wildcard), monotonic repeater
// periods, and calendar rules. The year field stores its values in a map
// because its domain does not fit a bit set; a nil map with starBit set
// means the year is unconstrained.
type fieldSpec struct {
	bits      uint64
	years     map[int]struct{}
	repeaters []int
	rules     []calRule
}

// bare reports whether the field was a bare wildcard (`*` or `?`).
// Stepped wildcards like `*/2` are not bare.
func (fs *fieldSpec) bare() bool {
	return fs.bits&starBit != 0
}

// hasValue reports whether v is in the field's static value set.
func (fs *fieldSpec) hasValue(f Field, v int) bool {
	if f == FieldYear {
		if fs.years == nil {
			return fs.bits&starBit != 0
		}
		_, ok := fs.years[v]
		return ok
	}
	// #nosec G115 -- v is bounds-checked before the shift
	return v >= 0 && v < 63 && fs.bits&(1<<uint(v)) != 0
}

// constrained reports whether the field restricts matching at all.
func (fs *fieldSpec) constrained() bool {
	return !fs.bare() || len(fs.repeaters) > 0 || len(fs.rules) > 0
}
