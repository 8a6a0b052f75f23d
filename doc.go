/*
Package cronex compiles crontab-style schedule expressions and decides
whether a given moment activates them.

# Installation

To download the package, run:

	go get github.com/netresearch/go-cronex

Import it in your program as:

	import "github.com/netresearch/go-cronex"

It requires Go 1.25 or later.

# Usage

Compile an expression once, then test moments against it or scan for
activation times:

	expr, err := cronex.Compile("0 9 * * mon-fri")
	if err != nil {
	    log.Fatal(err)
	}
	if expr.MatchesTime(time.Now()) {
	    fmt.Println("it's a weekday morning")
	}
	fmt.Println("next:", expr.Next(time.Now()))

Matching is a pure calendar test. Nothing runs jobs here; pair the
package with whatever execution machinery the application already has.

# Expression Format

An expression is five space-separated fields followed by an optional
free-form comment, which is preserved verbatim:

	Field name   | Mandatory? | Allowed values  | Allowed special characters
	----------   | ---------- | --------------  | --------------------------
	Minutes      | Yes        | 0-59            | * / , - %
	Hours        | Yes        | 0-23            | * / , - %
	Day of month | Yes        | 1-31            | * / , - % ? L W
	Month        | Yes        | 1-12 or JAN-DEC | * / , - %
	Day of week  | Yes        | 0-7 or SUN-SAT  | * / , - ? #

Month and day-of-week names are case insensitive; "SUN", "Sun" and
"sun" are equally accepted. In the day-of-week field, 7 is an alias
for Sunday.

# Alternative Formats

The six- and seven-field forms add a leading seconds field (0-59)
and a trailing year field (1970-9999). Enable them with parser
options:

	p := cronex.NewParser(cronex.Second | cronex.Year)
	expr, err := p.Parse("30 0 9 * * mon-fri 2026")

# Special Characters

Asterisk ( * )

The asterisk matches all values of its field. A bare asterisk (or a
bare question mark) must be the only atom in its field; "*,5" is an
error. Stepped forms like "*\/10" may appear inside lists.

Slash ( / )

Slashes describe increments of ranges. For example 3-59/15 in the
minutes field means the 3rd minute of the hour and every 15 minutes
thereafter. The form "*\/..." is equivalent to "first-last/...", an
increment over the full range of the field. The form "N/..." means
"N-MAX/...", starting at N and stepping until the end of the field.

Comma ( , )

Commas separate items of a list. For example "MON,WED,FRI" in the
day-of-week field means Mondays, Wednesdays and Fridays.

Hyphen ( - )

Hyphens define inclusive ranges: 9-17 in the hours field means every
hour between 9am and 5pm. A descending range wraps through the end of
the field, so 21-1 in the hours field means 21, 22, 23, 0 and 1, and
a step applies to the wrapped sequence as a whole: 10-5/2 in the
months field selects Oct, Dec, Feb and Apr.

Question mark ( ? )

Question mark may be used instead of '*' for leaving either
day-of-month or day-of-week blank.

Percent ( % )

A percent atom %P matches whenever a whole number of P field units
has elapsed since the expression's epoch, regardless of the value on
the clock. See Repeaters below. Repeaters are accepted in every field
except day-of-week, and P must be at least 2.

L - Day of Month Field

A lone L matches the last day of the month. A digit before it names a
weekday instead: 5L matches the last Friday of the month, 0L the last
Sunday.

	L        - Last day of every month (Jan 31, Feb 28/29, ...)
	5L       - Last Friday of every month
	0L,L     - Last Sunday and last day of every month

W - Day of Month Field

DW matches the weekday (Monday to Friday) nearest to day D, never
leaving the month: if D falls on a Saturday it matches the preceding
Friday, on a Sunday the following Monday, clamped at the month's
edges. LW matches the last weekday of the month. Both forms must
stand alone in their field.

	15W      - Nearest weekday to the 15th
	1W       - The 1st, or the first Monday when the 1st is a weekend day
	LW       - Last weekday of the month

Hash ( # ) - Day of Week Field

WD#N matches the Nth occurrence of weekday WD in the month, with N
between 1 and 5.

	FRI#3    - Third Friday of every month
	0#2      - Second Sunday of every month

# Repeaters and the Epoch

Ordinary atoms constrain what the clock reads; repeaters constrain how
much time has passed. Each expression carries an epoch, a reference
moment that defaults to 1970-01-01 00:00 UTC, and a repeater %P in a
field matches exactly when the whole field units elapsed between the
epoch and the tested moment are divisible by P.

	// Fires at midnight every 14th day counted from New Year 2010,
	// i.e. every other Friday.
	epoch := cronex.Epoch{Year: 2010, Month: 1, Day: 1}
	expr, err := cronex.CompileWithEpoch("0 0 %14 * *", epoch)

Elapsed units are calendar differences between clock readings, not
divisions of absolute duration: from 23:59 to 0:00 the next day, one
minute, one hour and one day have elapsed. When the tested moment's
UTC offset differs from the epoch's, the difference is charged to the
second, minute and hour columns, so an hourly repeater keeps its
rhythm across zone changes while a daily one stays aligned to the
local calendar.

# Predefined schedules

One of several pre-defined schedules may be used in place of an
expression's fields. A comment may still follow the token.

	Entry                  | Description                                | Equivalent To
	-----                  | -----------                                | -------------
	@yearly (or @annually) | Once a year, midnight, Jan. 1st            | 0 0 1 1 *
	@monthly               | Once a month, midnight, first of month     | 0 0 1 * *
	@weekly                | Once a week, midnight on Sunday            | 0 0 * * 0
	@daily (or @midnight)  | Once a day, midnight                       | 0 0 * * *
	@hourly                | Once an hour, beginning of hour            | 0 * * * *

Any other @token is an error. Durations ("@every ...") are not part of
this format; express fixed intervals with repeaters instead.

# Day Field Interaction

The day-of-month and day-of-week fields share the decision about which
dates match. A bare wildcard in one of them defers entirely to the
other; when both carry explicit atoms, a date matching either one
fires, which is the traditional crontab reading:

	30 4 1,15 * 5    - 4:30 on the 1st, the 15th, and every Friday
	30 4 1,15 * *    - 4:30 on the 1st and the 15th only
	30 4 * * 5       - 4:30 on Fridays only

# Moments and Time Zones

Expressions are evaluated against plain clock readings, not instants.
Matches takes a Moment, a bundle of naive calendar components read at
the epoch's UTC offset; MatchesTime reads both the components and the
offset from a time.Time. The offset never changes what the static
fields see, it only shifts the elapsed spans that repeaters count.

Moments are taken literally and never validated. April 31 is a
representable Moment whose day simply reads 31 and whose weekday
follows arithmetically from the month's layout; feeding only real
dates to Matches is the caller's job. Next can never return such a
date because its scan walks real instants of its argument's location.

# Recompilation

An Expression can be edited in place: SetFieldText replaces one
field's text without compiling it, and Recompute compiles all fields
atomically. When Recompute fails the previous compiled state stays
live, so a half-edited expression keeps matching the way it did
before the edit:

	expr := cronex.MustCompile("0 9 * * mon-fri")
	expr.SetFieldText(cronex.FieldHour, "9-17")
	if err := expr.Recompute(); err != nil {
	    // still matching "0 9 * * mon-fri"
	}

# Thread Safety

A compiled Expression is safe for concurrent readers. The mutating
methods (SetFieldText, SetEpoch, Recompute) require external
synchronization; a Parser, being a value, can be shared freely.

# Logging

The package defines a Logger interface that is a subset of the one in
github.com/go-logr/logr, with two levels (Info and Error) and key/value
parameters. The crontab loader and the command-line tool report
skipped lines and scan results through it; an adapter,
[Verbose]PrintfLogger, wraps the standard library *log.Logger, and
SlogLogger plugs in log/slog.
*/
package cronex
