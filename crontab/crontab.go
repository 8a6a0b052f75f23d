// Package crontab reads crontab-style files whose schedule lines use
// the cronex expression format. Beyond schedule lines it understands
// blank lines, '#' comments, NAME=VALUE environment assignments and an
// EPOCH=<time> directive that anchors the repeaters of all following
// schedule lines.
//
// The text after a line's last schedule field is the entry's command,
// carried verbatim. Nothing in this package runs commands; it only
// parses files and answers which entries are active at a given time.
package crontab

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	cronex "github.com/netresearch/go-cronex"
)

// Entry is one schedule line of a crontab file.
type Entry struct {
	// Line is the 1-based line number the entry was read from.
	Line int

	// Text is the raw line as it appeared in the file.
	Text string

	// Expr is the compiled schedule. Its epoch reflects the most
	// recent EPOCH directive above the line, if any.
	Expr *cronex.Expression

	// Command is the free text after the schedule fields.
	Command string
}

// File is a parsed crontab.
type File struct {
	// Path is the source path, empty when parsed from a reader.
	Path string

	// Entries holds the schedule lines in file order.
	Entries []Entry

	// Env holds NAME=VALUE assignments. The EPOCH directive is applied
	// to the parser and does not appear here.
	Env map[string]string

	// Errors holds the lines that failed to parse. Empty in strict
	// mode, where the first bad line aborts parsing instead.
	Errors []LineError
}

// LineError describes a line that could not be parsed.
type LineError struct {
	Line int    // 1-based line number
	Text string // the raw line
	Err  error  // the underlying parse error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Option configures parsing.
type Option func(*settings)

type settings struct {
	parser cronex.Parser
	logger cronex.Logger
	strict bool
}

// WithParser sets the expression parser used for schedule lines,
// typically one with the Second or Year option, or a preset epoch. An
// EPOCH directive in the file overrides the parser's epoch for the
// lines below it.
func WithParser(p cronex.Parser) Option {
	return func(s *settings) { s.parser = p }
}

// WithLogger sets the logger used to report skipped lines. The default
// discards everything.
func WithLogger(l cronex.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// Strict makes parsing fail on the first bad line instead of
// collecting it in File.Errors.
func Strict() Option {
	return func(s *settings) { s.strict = true }
}

// epochLayouts are the accepted EPOCH directive formats, tried in
// order. Layouts without a zone are read as UTC.
var epochLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseFile reads and parses the crontab at path.
func ParseFile(path string, options ...Option) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read crontab: %w", err)
	}
	defer f.Close()

	file, err := Parse(f, options...)
	if err != nil {
		return nil, err
	}
	file.Path = path
	return file, nil
}

// Parse parses a crontab from r.
//
// In the default mode bad lines are collected in File.Errors, logged,
// and skipped; the returned error is non-nil only when reading fails.
// With Strict, the first bad line is returned as a *LineError.
func Parse(r io.Reader, options ...Option) (*File, error) {
	s := settings{
		parser: cronex.NewParser(0),
		logger: cronex.DiscardLogger,
	}
	for _, opt := range options {
		opt(&s)
	}

	file := &File{Env: make(map[string]string)}
	parser := s.parser

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if name, value, ok := splitAssignment(line); ok {
			if name == "EPOCH" {
				p, err := applyEpoch(s.parser, parser, value)
				if err != nil {
					if fail := file.record(lineno, raw, err, s); fail != nil {
						return nil, fail
					}
					continue
				}
				parser = p
			} else {
				file.Env[name] = value
			}
			continue
		}

		x, err := parser.Parse(line)
		if err != nil {
			if fail := file.record(lineno, raw, err, s); fail != nil {
				return nil, fail
			}
			continue
		}

		file.Entries = append(file.Entries, Entry{
			Line:    lineno,
			Text:    raw,
			Expr:    x,
			Command: x.Comment(),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read crontab: %w", err)
	}

	s.logger.Info("parsed crontab",
		"entries", len(file.Entries), "env", len(file.Env), "errors", len(file.Errors))
	return file, nil
}

// record handles a bad line according to the strict setting. It
// returns the error to abort with, or nil when the line was collected.
func (f *File) record(lineno int, raw string, err error, s settings) error {
	le := LineError{Line: lineno, Text: raw, Err: err}
	if s.strict {
		return &le
	}
	s.logger.Error(err, "skipping invalid crontab line", "line", lineno)
	f.Errors = append(f.Errors, le)
	return nil
}

// applyEpoch parses an EPOCH directive value and returns the parser to
// use for the following lines. An empty value restores the base
// parser's epoch.
func applyEpoch(base, current cronex.Parser, value string) (cronex.Parser, error) {
	if value == "" {
		return base, nil
	}
	for _, layout := range epochLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return current.WithEpoch(cronex.EpochOf(t)), nil
		}
	}
	return current, fmt.Errorf("invalid epoch %q: unrecognized time format", value)
}

// splitAssignment recognizes a NAME=VALUE line. The name must look
// like an environment variable; anything else is treated as a schedule
// line, so commands containing '=' are not misread.
func splitAssignment(line string) (name, value string, ok bool) {
	i := strings.IndexByte(line, '=')
	if i < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(line[:i])
	if !isEnvName(name) {
		return "", "", false
	}
	return name, strings.TrimSpace(line[i+1:]), true
}

func isEnvName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// ActiveAt returns the entries whose schedule matches t, in file
// order.
func (f *File) ActiveAt(t time.Time) []Entry {
	var active []Entry
	for _, e := range f.Entries {
		if e.Expr.MatchesTime(t) {
			active = append(active, e)
		}
	}
	return active
}

// NextRuns returns the next activation after t for every entry, in
// file order. Entries that never fire again map to the zero time.
func (f *File) NextRuns(t time.Time) []time.Time {
	runs := make([]time.Time, len(f.Entries))
	for i, e := range f.Entries {
		runs[i] = e.Expr.Next(t)
	}
	return runs
}
