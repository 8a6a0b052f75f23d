package cronex

import (
	"errors"
	"fmt"
)

// Sentinel error kinds returned by compilation and epoch validation.
// Classify failures with errors.Is; field-level failures additionally
// match *FieldError via errors.As, carrying the field and atom text.
var (
	// ErrMalformedExpression indicates the expression does not have the
	// number of fields the active form requires.
	ErrMalformedExpression = errors.New("malformed expression")

	// ErrMalformedField indicates a field contains an atom that cannot be
	// compiled: an unrecognized token, an out-of-domain value, an invalid
	// step or repeater period, a misplaced calendar rule, or a wildcard
	// combined with other atoms.
	ErrMalformedField = errors.New("malformed field")

	// ErrInvalidRange indicates a range atom with a non-numeric bound or a
	// malformed shape such as "1-2-3".
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidEpoch indicates epoch components outside calendar range.
	ErrInvalidEpoch = errors.New("invalid epoch")
)

// FieldError reports why a single field failed to compile.
type FieldError struct {
	Field Field  // the field the atom belongs to
	Atom  string // the offending atom text
	Msg   string // description of the failure
	kind  error  // one of the sentinel kinds
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s field: atom %q: %s", e.Field, e.Atom, e.Msg)
}

// Unwrap returns the sentinel kind, so errors.Is(err, ErrMalformedField)
// and friends see through the field detail.
func (e *FieldError) Unwrap() error { return e.kind }

func fieldErrf(kind error, f Field, atom, format string, args ...any) error {
	return &FieldError{Field: f, Atom: atom, Msg: fmt.Sprintf(format, args...), kind: kind}
}
