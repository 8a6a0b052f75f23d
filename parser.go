package cronex

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseOption enables the optional fields of the extended form.
// The standard five-field form needs no options.
type ParseOption int

const (
	// Second adds a leading seconds field (domain 0-59). Repeaters in the
	// seconds field count whole seconds since the epoch, whose implicit
	// second component is zero.
	Second ParseOption = 1 << iota

	// Year adds a trailing year field (domain 1970-9999) between the
	// day-of-week field and the comment. Year ranges do not wrap.
	Year
)

// MaxExpressionLength bounds the accepted input size.
const MaxExpressionLength = 1000

// shorthands maps the recognized special strings to their five-field
// expansions. Any other leading @token is an error.
var shorthands = map[string]string{
	"@yearly":   "0 0 1 1 *",
	"@annually": "0 0 1 1 *",
	"@monthly":  "0 0 1 * *",
	"@weekly":   "0 0 * * 0",
	"@daily":    "0 0 * * *",
	"@midnight": "0 0 * * *",
	"@hourly":   "0 * * * *",
}

// Parser compiles expressions with a fixed set of options. Parsers are
// values; the With* methods return modified copies, so a configured
// Parser can be shared freely between goroutines.
type Parser struct {
	options  ParseOption
	epoch    Epoch
	epochSet bool
}

// NewParser creates a Parser with the given options and the default epoch.
//
// Example:
//
//	// Six-field form with a leading seconds field
//	p := cronex.NewParser(cronex.Second)
//	expr, err := p.Parse("30 */5 * * * *")
func NewParser(options ParseOption) Parser {
	return Parser{options: options}
}

// WithEpoch returns a copy of the parser whose expressions start with the
// given epoch instead of DefaultEpoch. The epoch is validated during Parse.
func (p Parser) WithEpoch(e Epoch) Parser {
	p.epoch = e
	p.epochSet = true
	return p
}

// activeFields returns the visible field slots for the options, in the
// order they appear in an expression.
func activeFields(options ParseOption) []Field {
	fields := make([]Field, 0, numFields)
	if options&Second != 0 {
		fields = append(fields, FieldSecond)
	}
	fields = append(fields, FieldMinute, FieldHour, FieldDom, FieldMonth, FieldDow)
	if options&Year != 0 {
		fields = append(fields, FieldYear)
	}
	return fields
}

// Parse compiles a single expression line: the active fields, then an
// optional free-form comment. On success the comment is preserved
// verbatim and the compiled expression carries the parser's epoch.
func (p Parser) Parse(line string) (*Expression, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("empty expression: %w", ErrMalformedExpression)
	}
	if len(line) > MaxExpressionLength {
		return nil, fmt.Errorf("expression too long: %d > %d: %w", len(line), MaxExpressionLength, ErrMalformedExpression)
	}

	if strings.HasPrefix(line, "@") {
		var err error
		line, err = p.expandShorthand(line)
		if err != nil {
			return nil, err
		}
	}

	active := activeFields(p.options)
	fields, comment := splitFields(line, len(active))
	if len(fields) < len(active) {
		return nil, fmt.Errorf("expected %d fields, found %d in %q: %w",
			len(active), len(fields), line, ErrMalformedExpression)
	}

	epoch := DefaultEpoch
	if p.epochSet {
		epoch = p.epoch
	}
	if err := epoch.validate(); err != nil {
		return nil, err
	}

	x := &Expression{
		options: p.options,
		comment: comment,
		epoch:   epoch,
	}
	for f := 0; f < numFields; f++ {
		x.raw[f] = "*"
	}
	for i, f := range active {
		x.raw[f] = fields[i]
	}
	if err := x.Recompute(); err != nil {
		return nil, err
	}
	return x, nil
}

// expandShorthand replaces a leading @token with its five-field
// expansion, widened to match the active field count. The remainder of
// the line (the comment) is kept.
func (p Parser) expandShorthand(line string) (string, error) {
	token := line
	rest := ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		token, rest = line[:i], line[i:]
	}
	expansion, ok := shorthands[token]
	if !ok {
		return "", fmt.Errorf("unrecognized shorthand %q: %w", token, ErrMalformedField)
	}
	if p.options&Second != 0 {
		expansion = "0 " + expansion
	}
	if p.options&Year != 0 {
		expansion += " *"
	}
	return expansion + rest, nil
}

// splitFields splits off the first n whitespace-delimited tokens and
// returns them with the remainder of the line. The remainder keeps its
// internal whitespace; only the separator run before it is dropped.
func splitFields(line string, n int) (fields []string, rest string) {
	fields = make([]string, 0, n)
	rest = line
	for len(fields) < n {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			return fields, ""
		}
		i := strings.IndexAny(rest, " \t")
		if i < 0 {
			fields = append(fields, rest)
			return fields, ""
		}
		fields = append(fields, rest[:i])
		rest = rest[i:]
	}
	return fields, strings.TrimLeft(rest, " \t")
}

// compileField compiles one field's text into its value set, repeater
// periods, and calendar rules. A "field" is a comma-separated list of
// atoms; a bare wildcard must be the only atom in its field.
func compileField(f Field, text string) (fieldSpec, error) {
	b := fieldDomains[f]
	if text == "*" {
		return wildcardSpec(f, b), nil
	}
	if text == "?" {
		if f != FieldDom && f != FieldDow {
			return fieldSpec{}, fieldErrf(ErrMalformedField, f, text, "'?' is only valid in the day fields")
		}
		return wildcardSpec(f, b), nil
	}

	var fs fieldSpec
	if f == FieldYear {
		fs.years = make(map[int]struct{})
	}
	atoms := strings.Split(text, ",")
	for _, atom := range atoms {
		if err := compileAtom(&fs, f, b, atom, len(atoms)); err != nil {
			return fieldSpec{}, err
		}
	}
	return fs, nil
}

// wildcardSpec returns the compiled form of a bare `*` or `?`.
func wildcardSpec(f Field, b bounds) fieldSpec {
	if f == FieldYear {
		return fieldSpec{bits: starBit}
	}
	return fieldSpec{bits: getBits(b.min, b.max, 1) | starBit}
}

func compileAtom(fs *fieldSpec, f Field, b bounds, atom string, natoms int) error {
	switch atom {
	case "":
		return fieldErrf(ErrMalformedField, f, atom, "empty atom")
	case "*", "?":
		return fieldErrf(ErrMalformedField, f, atom, "wildcard must be the only atom in its field")
	}

	if strings.HasPrefix(atom, "%") {
		return compileRepeater(fs, f, atom)
	}
	if f == FieldDom || f == FieldDow {
		done, err := compileCalendarRule(fs, f, atom, natoms)
		if done || err != nil {
			return err
		}
	}
	return compileOrdinaryAtom(fs, f, b, atom)
}

// compileRepeater handles the %P monotonic form. The period counts whole
// field units since the epoch, so it may exceed the field's domain width.
func compileRepeater(fs *fieldSpec, f Field, atom string) error {
	if f == FieldDow {
		return fieldErrf(ErrMalformedField, f, atom, "repeaters are not valid in the day-of-week field")
	}
	period, err := parseNumber(atom[1:])
	if err != nil {
		return fieldErrf(ErrMalformedField, f, atom, "invalid repeater period")
	}
	if period < 2 {
		return fieldErrf(ErrMalformedField, f, atom, "repeater period must be greater than 1")
	}
	fs.repeaters = append(fs.repeaters, int(period))
	return nil
}

// compileCalendarRule recognizes the L, W and # forms. It reports
// done=false when the atom is not one of them, leaving it for the
// ordinary atom grammar.
func compileCalendarRule(fs *fieldSpec, f Field, atom string, natoms int) (done bool, err error) {
	upper := strings.ToUpper(atom)

	if f == FieldDow {
		i := strings.Index(atom, "#")
		if i < 0 {
			return false, nil
		}
		wd, err := parseWeekday(atom[:i])
		if err != nil {
			return true, fieldErrf(ErrMalformedField, f, atom, "invalid weekday before '#'")
		}
		nth, err := parseNumber(atom[i+1:])
		if err != nil || nth < 1 || nth > 5 {
			return true, fieldErrf(ErrMalformedField, f, atom, "occurrence after '#' must be 1-5")
		}
		fs.rules = append(fs.rules, calRule{kind: ruleNthWeekday, weekday: int(wd), nth: int(nth)})
		return true, nil
	}

	switch {
	case upper == "L":
		fs.rules = append(fs.rules, calRule{kind: ruleLastDom})
		return true, nil
	case upper == "LW":
		if natoms > 1 {
			return true, fieldErrf(ErrMalformedField, f, atom, "LW must be the only atom in its field")
		}
		fs.rules = append(fs.rules, calRule{kind: ruleLastWeekday})
		return true, nil
	case strings.HasSuffix(upper, "L"):
		prefix := atom[:len(atom)-1]
		if !allDigits(prefix) {
			return false, nil
		}
		wd, err := parseWeekday(prefix)
		if err != nil {
			return true, fieldErrf(ErrMalformedField, f, atom, "weekday before 'L' must be 0-7")
		}
		fs.rules = append(fs.rules, calRule{kind: ruleLastOfWeekday, weekday: int(wd)})
		return true, nil
	case strings.HasSuffix(upper, "W"):
		prefix := atom[:len(atom)-1]
		if !allDigits(prefix) {
			return false, nil
		}
		if natoms > 1 {
			return true, fieldErrf(ErrMalformedField, f, atom, "W must be the only atom in its field")
		}
		day, err := parseNumber(prefix)
		if err != nil || day < 1 || day > 31 {
			return true, fieldErrf(ErrMalformedField, f, atom, "day before 'W' must be 1-31")
		}
		fs.rules = append(fs.rules, calRule{kind: ruleNearestWeekday, day: int(day)})
		return true, nil
	}
	return false, nil
}

// compileOrdinaryAtom handles the value, range and step forms:
//
//	number | number "/" step | number "-" number [ "/" step ] | "*" "/" step
//
// A descending range wraps through the field maximum, and its step
// applies to the wrapped sequence as a whole.
func compileOrdinaryAtom(fs *fieldSpec, f Field, b bounds, atom string) error {
	rangeAndStep := strings.Split(atom, "/")
	lowAndHigh := strings.Split(rangeAndStep[0], "-")
	singleValue := len(lowAndHigh) == 1

	var start, end uint
	var err error
	switch {
	case lowAndHigh[0] == "*":
		if len(lowAndHigh) != 1 {
			return fieldErrf(ErrInvalidRange, f, atom, "wildcard cannot be a range bound")
		}
		start, end = b.min, b.max
	case len(lowAndHigh) == 1:
		start, err = parseValue(f, b, lowAndHigh[0])
		if err != nil {
			return fieldErrf(ErrMalformedField, f, atom, "%s", err)
		}
		end = start
	case len(lowAndHigh) == 2:
		start, err = parseValue(f, b, lowAndHigh[0])
		if err != nil {
			return rangeBoundErr(f, atom, lowAndHigh[0], err)
		}
		end, err = parseValue(f, b, lowAndHigh[1])
		if err != nil {
			return rangeBoundErr(f, atom, lowAndHigh[1], err)
		}
	default:
		return fieldErrf(ErrInvalidRange, f, atom, "too many hyphens")
	}

	step := uint(1)
	switch len(rangeAndStep) {
	case 1:
	case 2:
		step, err = parseNumber(rangeAndStep[1])
		if err != nil {
			return fieldErrf(ErrMalformedField, f, atom, "invalid step")
		}
		if step == 0 {
			return fieldErrf(ErrMalformedField, f, atom, "step of range must be a positive number")
		}
		// "N/step" means "N-max/step".
		if singleValue && lowAndHigh[0] != "*" {
			end = b.max
		}
	default:
		return fieldErrf(ErrMalformedField, f, atom, "too many slashes")
	}

	if f == FieldYear && start > end {
		return fieldErrf(ErrMalformedField, f, atom,
			"beginning of range (%d) beyond end of range (%d)", start, end)
	}

	add := func(v uint) {
		if f == FieldYear {
			fs.years[int(v)] = struct{}{}
			return
		}
		fs.bits |= 1 << v
	}
	if start <= end {
		for v := start; v <= end; v += step {
			add(v)
		}
		return nil
	}
	// Descending range: walk start..max then min..end, keeping every
	// step-th element of the combined sequence.
	i := uint(0)
	for v := start; v <= b.max; v++ {
		if i%step == 0 {
			add(v)
		}
		i++
	}
	for v := b.min; v <= end; v++ {
		if i%step == 0 {
			add(v)
		}
		i++
	}
	return nil
}

func rangeBoundErr(f Field, atom, bound string, err error) error {
	var oob *outOfDomainError
	if errors.As(err, &oob) {
		return fieldErrf(ErrMalformedField, f, atom, "%s", err)
	}
	return fieldErrf(ErrInvalidRange, f, atom, "bound %q is not a number or name", bound)
}

// outOfDomainError marks a value that parsed cleanly but falls outside
// the field's domain, so range errors can distinguish it from a
// non-numeric bound.
type outOfDomainError struct {
	value    uint
	min, max uint
}

func (e *outOfDomainError) Error() string {
	return fmt.Sprintf("value (%d) out of range (%d-%d)", e.value, e.min, e.max)
}

// parseValue resolves a single value position: a number, or a name in
// the month and day-of-week fields. Day-of-week additionally accepts 7
// as an alias for Sunday.
func parseValue(f Field, b bounds, s string) (uint, error) {
	if f == FieldDow {
		return parseWeekday(s)
	}
	v, err := parseIntOrName(s, b.names)
	if err != nil {
		return 0, err
	}
	if v < b.min || v > b.max {
		return 0, &outOfDomainError{value: v, min: b.min, max: b.max}
	}
	return v, nil
}

// parseWeekday resolves a day-of-week value, mapping 7 to Sunday.
func parseWeekday(s string) (uint, error) {
	v, err := parseIntOrName(s, dow.names)
	if err != nil {
		return 0, err
	}
	if v > 7 {
		return 0, &outOfDomainError{value: v, min: dow.min, max: 7}
	}
	if v == 7 {
		v = 0
	}
	return v, nil
}

// parseIntOrName returns the (possibly-named) integer contained in expr.
func parseIntOrName(expr string, names map[string]uint) (uint, error) {
	if names != nil {
		if namedInt, ok := names[strings.ToLower(expr)]; ok {
			return namedInt, nil
		}
	}
	return parseNumber(expr)
}

// parseNumber parses an unsigned decimal. Signs are rejected so that
// atoms like "+5" and "-1" fail cleanly.
func parseNumber(expr string) (uint, error) {
	if !allDigits(expr) {
		return 0, fmt.Errorf("not a number: %q", expr)
	}
	num, err := strconv.Atoi(expr)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int from %q: %w", expr, err)
	}
	return uint(num), nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// getBits sets all bits in the range [low, high], modulo the given step size.
func getBits(low, high, step uint) uint64 {
	var bits uint64

	// If step is 1, use shifts.
	if step == 1 {
		return ^(math.MaxUint64 << (high + 1)) & (math.MaxUint64 << low)
	}

	// Else, use a simple loop.
	for i := low; i <= high; i += step {
		bits |= 1 << i
	}
	return bits
}

var standardParser = NewParser(0)

// Compile parses and compiles a standard five-field expression with the
// default epoch. It is shorthand for NewParser(0).Parse(line).
func Compile(line string) (*Expression, error) {
	return standardParser.Parse(line)
}

// CompileWithEpoch is Compile with an explicit repeater epoch.
func CompileWithEpoch(line string, epoch Epoch) (*Expression, error) {
	return standardParser.WithEpoch(epoch).Parse(line)
}

// MustCompile is like Compile but panics on error. It simplifies safe
// initialization of global variables holding compiled expressions.
func MustCompile(line string) *Expression {
	x, err := Compile(line)
	if err != nil {
		panic(err)
	}
	return x
}
