package cronex

import (
	"strings"
	"time"
)

// Analysis contains detailed information about a compiled expression.
// It provides insight into the schedule without requiring the caller to
// walk the compiled form.
type Analysis struct {
	// Valid indicates whether the expression compiled successfully.
	Valid bool

	// Error contains the compile error if Valid is false.
	Error error

	// NextRun is the next activation time from now.
	// Zero if the expression is invalid or never fires again.
	NextRun time.Time

	// Fields maps field names (Field.String values) to their text.
	// Shorthands are expanded first, so "@daily" reports the fields
	// of "0 0 * * *".
	Fields map[string]string

	// IsShorthand indicates the expression used an @-form.
	IsShorthand bool

	// Shorthand is the @-token, e.g. "@daily". Empty otherwise.
	Shorthand string

	// Comment is the free text after the last field, if any.
	Comment string

	// HasRepeaters indicates at least one field uses a %-period.
	HasRepeaters bool

	// HasCalendarRules indicates a day field uses L, W or #.
	HasCalendarRules bool

	// Expression is the compiled expression, available for further
	// introspection. Nil if the line is invalid.
	Expression *Expression

	// Warnings contains non-fatal notes about the schedule. These do
	// not prevent compilation but may indicate unexpected behavior.
	Warnings []string
}

// Validate checks an expression without keeping the compiled form.
// It returns nil if the expression is valid, or an error describing
// the problem.
//
// By default it expects the standard five fields. Pass a ParseOption
// to change the field set.
//
// Example:
//
//	// Validate user input
//	if err := cronex.Validate(userInput); err != nil {
//	    return fmt.Errorf("invalid schedule: %w", err)
//	}
//
//	// Validate the six-field form
//	if err := cronex.Validate(userInput, cronex.Second); err != nil {
//	    // Handle error
//	}
func Validate(line string, options ...ParseOption) error {
	_, err := parserFor(options).Parse(line)
	return err
}

// ValidateWith validates an expression using a pre-configured Parser,
// typically one carrying a custom epoch or field options.
//
// Example:
//
//	parser := cronex.NewParser(cronex.Second).WithEpoch(epoch)
//	if err := cronex.ValidateWith("30 %90 * * * *", parser); err != nil {
//	    // Handle error
//	}
func ValidateWith(line string, parser Parser) error {
	_, err := parser.Parse(line)
	return err
}

// ValidateAll validates multiple expressions at once. It returns a map
// of index to error for any invalid lines. If all lines are valid,
// returns an empty map (not nil).
//
// This is useful for:
//   - Validating configuration files before deployment
//   - Bulk validation with detailed error reporting
//
// Example:
//
//	lines := []string{"* * * * *", "invalid", "0 9 * * mon-fri"}
//	errs := cronex.ValidateAll(lines)
//	for i, err := range errs {
//	    log.Printf("line %d is invalid: %v", i, err)
//	}
func ValidateAll(lines []string, options ...ParseOption) map[int]error {
	errs := make(map[int]error)
	parser := parserFor(options)

	for i, line := range lines {
		if _, err := parser.Parse(line); err != nil {
			errs[i] = err
		}
	}

	return errs
}

// Analyze compiles an expression and reports what it found.
//
// This is useful for:
//   - Configuration validation with detailed feedback
//   - UI previews showing when a schedule fires next
//   - Debugging expressions during import or migration
//
// Example:
//
//	result := cronex.Analyze("0 9 * * mon-fri weekday wakeup")
//	if !result.Valid {
//	    log.Printf("invalid: %v", result.Error)
//	} else {
//	    log.Printf("next run: %v", result.NextRun)
//	    log.Printf("fields: %v", result.Fields)
//	}
func Analyze(line string, options ...ParseOption) Analysis {
	return AnalyzeWith(line, parserFor(options))
}

// AnalyzeWith is Analyze with a pre-configured Parser.
func AnalyzeWith(line string, parser Parser) Analysis {
	result := Analysis{
		Fields: make(map[string]string),
	}

	x, err := parser.Parse(line)
	if err != nil {
		result.Error = err
		return result
	}

	result.Valid = true
	result.Expression = x
	result.Comment = x.Comment()

	if token, ok := shorthandToken(line); ok {
		result.IsShorthand = true
		result.Shorthand = token
	}

	for _, f := range activeFields(x.options) {
		result.Fields[f.String()] = x.FieldText(f)
		if len(x.fields[f].repeaters) > 0 {
			result.HasRepeaters = true
		}
		if len(x.fields[f].rules) > 0 {
			result.HasCalendarRules = true
		}
	}

	result.addWarnings(x)
	result.NextRun = x.Next(time.Now())

	return result
}

// addWarnings flags schedule shapes that compile fine but routinely
// surprise users.
func (r *Analysis) addWarnings(x *Expression) {
	if !x.fields[FieldDom].bare() && !x.fields[FieldDow].bare() {
		r.Warnings = append(r.Warnings,
			"both day-of-month and day-of-week are restricted - a day matching either field fires")
	}
	if r.HasRepeaters && x.Epoch() == DefaultEpoch {
		r.Warnings = append(r.Warnings,
			"repeater periods count from the default epoch 1970-01-01 00:00 UTC - set an epoch if they should count from elsewhere")
	}
}

// shorthandToken returns the leading @-token of a line, if present.
func shorthandToken(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "@") {
		return "", false
	}
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return trimmed, true
}

// parserFor returns a parser configured with the given options combined,
// or the standard five-field parser when none are provided.
func parserFor(options []ParseOption) Parser {
	if len(options) == 0 {
		return standardParser
	}
	var opts ParseOption
	for _, o := range options {
		opts |= o
	}
	return NewParser(opts)
}
