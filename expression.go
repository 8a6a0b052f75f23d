package cronex

import (
	"fmt"
	"strings"
	"time"
)

// Epoch anchors repeater arithmetic: a %P atom fires when the whole
// number of field units elapsed since the epoch is a multiple of P.
type Epoch struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int

	// UTCOffset is the epoch's zone offset in minutes east of UTC.
	UTCOffset int
}

// DefaultEpoch is the Unix epoch, 1970-01-01 00:00 at offset zero.
var DefaultEpoch = Epoch{Year: 1970, Month: 1, Day: 1}

// EpochOf returns the epoch matching t's wall clock and zone offset.
func EpochOf(t time.Time) Epoch {
	_, off := t.Zone()
	return Epoch{
		Year:      t.Year(),
		Month:     int(t.Month()),
		Day:       t.Day(),
		Hour:      t.Hour(),
		Minute:    t.Minute(),
		UTCOffset: off / 60,
	}
}

func (e Epoch) validate() error {
	if e.Month < 1 || e.Month > 12 {
		return fmt.Errorf("epoch month (%d) out of range (1-12): %w", e.Month, ErrInvalidEpoch)
	}
	if e.Day < 1 || e.Day > daysIn(e.Year, e.Month) {
		return fmt.Errorf("epoch day (%d) invalid for %04d-%02d: %w", e.Day, e.Year, e.Month, ErrInvalidEpoch)
	}
	if e.Hour < 0 || e.Hour > 23 {
		return fmt.Errorf("epoch hour (%d) out of range (0-23): %w", e.Hour, ErrInvalidEpoch)
	}
	if e.Minute < 0 || e.Minute > 59 {
		return fmt.Errorf("epoch minute (%d) out of range (0-59): %w", e.Minute, ErrInvalidEpoch)
	}
	if e.UTCOffset < -24*60 || e.UTCOffset > 24*60 {
		return fmt.Errorf("epoch UTC offset (%d min) out of range (±1440): %w", e.UTCOffset, ErrInvalidEpoch)
	}
	return nil
}

// Moment is a broken-down wall-clock instant. Evaluation reads it
// literally: a combination that does not exist on the calendar, such as
// April 31, is neither normalized nor rejected, its components are
// simply tested as written. The Second component only matters when the
// seconds field is constrained.
type Moment struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// MomentOf returns the wall-clock components of t.
func MomentOf(t time.Time) Moment {
	return Moment{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// Expression is a compiled schedule expression: per-field value sets,
// repeater periods and calendar rules, plus the epoch and the trailing
// comment. Compiled expressions are safe for concurrent readers;
// SetEpoch, SetFieldText and Recompute are writes and need external
// synchronization.
type Expression struct {
	options  ParseOption
	raw      [numFields]string
	fields   [numFields]fieldSpec
	comment  string
	epoch    Epoch
	epochDay int64 // civil day number of the epoch date, kept for repeater deltas
}

// Comment returns the free-form text after the last field, verbatim.
func (x *Expression) Comment() string { return x.comment }

// Epoch returns the repeater epoch.
func (x *Expression) Epoch() Epoch { return x.epoch }

// SetEpoch replaces the repeater epoch after validating it, refreshing
// the cached day number the repeater deltas are derived from.
func (x *Expression) SetEpoch(e Epoch) error {
	if err := e.validate(); err != nil {
		return err
	}
	x.epoch = e
	x.epochDay = civilDay(e.Year, e.Month, e.Day)
	return nil
}

// FieldText returns the raw text of one field. Slots not present in the
// parsed form read as "*".
func (x *Expression) FieldText(f Field) string { return x.raw[f] }

// SetFieldText replaces the raw text of one field without recompiling.
// The change takes effect on the next Recompute; until then the
// previously compiled state keeps answering queries.
func (x *Expression) SetFieldText(f Field, text string) {
	x.raw[f] = strings.TrimSpace(text)
}

// Recompute recompiles every field from its raw text. On failure the
// previously compiled state stays live and the error names the first
// offending field and atom.
func (x *Expression) Recompute() error {
	var fields [numFields]fieldSpec
	for f := Field(0); f < Field(numFields); f++ {
		fs, err := compileField(f, x.raw[f])
		if err != nil {
			return err
		}
		fields[f] = fs
	}
	x.fields = fields
	x.epochDay = civilDay(x.epoch.Year, x.epoch.Month, x.epoch.Day)
	return nil
}

// String returns the expression in canonical form: the active fields
// joined by single spaces, then the comment when present. The result
// parses back into an equivalent expression.
func (x *Expression) String() string {
	parts := make([]string, 0, numFields+1)
	for _, f := range activeFields(x.options) {
		parts = append(parts, x.raw[f])
	}
	if x.comment != "" {
		parts = append(parts, x.comment)
	}
	return strings.Join(parts, " ")
}
