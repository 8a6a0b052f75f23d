// cronex is a command line tool for the cronex schedule expression
// language. It validates expressions, tests whether they match an
// instant, lists upcoming and past activations, and inspects crontab
// files whose schedule lines use the language.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	cronex "github.com/netresearch/go-cronex"
	"github.com/netresearch/go-cronex/crontab"
)

func main() {
	if err := run(); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}

// exitCode signals a specific process exit status for outcomes that
// already reported themselves, such as an inactive check. main exits
// with the code without printing anything further.
type exitCode int

func (c exitCode) Error() string { return fmt.Sprintf("exit status %d", int(c)) }
func (c exitCode) ExitCode() int { return int(c) }

func run() error {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return exitCode(2)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "validate":
		return runValidate(rest)
	case "check":
		return runCheck(rest)
	case "next":
		return runNext(rest)
	case "prev":
		return runPrev(rest)
	case "crontab":
		return runCrontab(rest)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		printUsage()
		return exitCode(2)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `cronex works with cron-style schedule expressions: five fields
(minute hour day-of-month month day-of-week) with optional seconds and
year fields, %P repeaters anchored to an epoch, and calendar rules such
as L, 15W and fri#3. Text after the last field is the expression's
comment.

Usage:
  cronex <command> [flags] <arguments>

Commands:
  validate    compile expressions and report the first error in each
  check       test whether an expression matches an instant
  next        print upcoming activations of an expression
  prev        print past activations of an expression
  crontab     inspect a crontab file with cronex schedule lines
  help        show this help

Run "cronex <command> --help" for the command's flags.

Exit status:
  0  success; for check, the expression matches
  1  check: no match; validate: an expression is invalid; next/prev:
     nothing found; crontab: the file has bad lines
  2  usage or processing error
`)
}

// common holds the flags shared by every subcommand and resolves them,
// together with an optional config file, into the runtime environment.
type common struct {
	configPath string
	seconds    bool
	years      bool
	epoch      string
	utcOffset  int
	verbose    bool
}

func (c *common) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "path to a YAML file with defaults for these flags")
	fs.BoolVar(&c.seconds, "seconds", false, "expressions carry a leading seconds field")
	fs.BoolVar(&c.years, "years", false, "expressions carry a trailing year field")
	fs.StringVar(&c.epoch, "epoch", "", `repeater epoch, e.g. "2010-01-04" (default 1970-01-01)`)
	fs.IntVar(&c.utcOffset, "utc-offset", 0, "override the epoch's zone offset, in minutes east of UTC")
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "log progress to stderr")
}

// env is the resolved runtime for one invocation.
type env struct {
	parser cronex.Parser
	logger cronex.Logger
	cfg    *Config
}

// env merges the config file, if any, with the flags that were
// explicitly set, validates the result and builds the parser and
// logger from it.
func (c *common) env(fs *pflag.FlagSet) (*env, error) {
	cfg := DefaultConfig()
	if c.configPath != "" {
		loaded, err := LoadConfig(c.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if fs.Changed("seconds") {
		cfg.Seconds = c.seconds
	}
	if fs.Changed("years") {
		cfg.Years = c.years
	}
	if fs.Changed("epoch") {
		cfg.Epoch = c.epoch
	}
	if fs.Changed("utc-offset") {
		cfg.UTCOffset = c.utcOffset
	}
	if fs.Changed("verbose") {
		cfg.Verbose = c.verbose
	}
	if fs.Changed("count") {
		count, err := fs.GetInt("count")
		if err != nil {
			return nil, err
		}
		cfg.Count = count
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	parser, err := cfg.Parser()
	if err != nil {
		return nil, err
	}

	logger := cronex.DiscardLogger
	if cfg.Verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
		logger = cronex.NewSlogLogger(slog.New(handler))
	}

	return &env{parser: parser, logger: logger, cfg: cfg}, nil
}

func printHelp(fs *pflag.FlagSet, intro string) {
	fmt.Fprint(os.Stderr, intro)
	fmt.Fprint(os.Stderr, "\nFlags:\n")
	fs.SetOutput(os.Stderr)
	fs.PrintDefaults()
}

// timeLayouts are the accepted forms for --at, --from and epoch
// values, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime reads s in one of the accepted layouts. Layouts without a
// zone are interpreted in loc.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (want e.g. %q or %q)",
		s, "2006-01-02", "2006-01-02 15:04")
}

// atOrNow resolves an --at style flag value: empty means now,
// zoneless values are read in local time.
func atOrNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return parseTime(s, time.Local)
}

const validateIntro = `Compile each expression and report the first error in it. With
--explain, print the parsed fields, comment, warnings and the next
activation instead of a single ok line.

Usage:
  cronex validate [flags] <expression>...

Examples:
  cronex validate "*/15 9-17 * * mon-fri"
  cronex validate --seconds "30 0 * * * *"
  cronex validate --explain "0 0 %14 * * payroll run"
`

func runValidate(args []string) error {
	c := new(common)
	fs := pflag.NewFlagSet("cronex validate", pflag.ContinueOnError)
	c.addFlags(fs)
	explain := fs.Bool("explain", false, "print a full analysis of each expression")

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(fs, validateIntro)
			return nil
		}
		return err
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "validate needs at least one expression")
		return exitCode(2)
	}
	env, err := c.env(fs)
	if err != nil {
		return err
	}

	invalid := 0
	for _, line := range fs.Args() {
		if *explain {
			a := cronex.AnalyzeWith(line, env.parser)
			fmt.Print(formatAnalysis(line, a))
			if !a.Valid {
				invalid++
			}
			continue
		}
		if err := cronex.ValidateWith(line, env.parser); err != nil {
			fmt.Printf("%s: %v\n", line, err)
			invalid++
		} else {
			fmt.Printf("%s: ok\n", line)
		}
	}
	if invalid > 0 {
		return exitCode(1)
	}
	return nil
}

// fieldOrder fixes the printing order of the per-field analysis keys.
var fieldOrder = []string{
	"seconds", "minutes", "hours", "day-of-month", "month", "day-of-week", "year",
}

func formatAnalysis(line string, a cronex.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "expression: %s\n", line)
	if !a.Valid {
		fmt.Fprintf(&b, "  error: %v\n", a.Error)
		return b.String()
	}
	if a.IsShorthand {
		fmt.Fprintf(&b, "  shorthand: %s\n", a.Shorthand)
	}
	for _, name := range fieldOrder {
		if text, ok := a.Fields[name]; ok {
			fmt.Fprintf(&b, "  %s: %s\n", name, text)
		}
	}
	if a.Comment != "" {
		fmt.Fprintf(&b, "  comment: %s\n", a.Comment)
	}
	if a.HasRepeaters {
		fmt.Fprintf(&b, "  epoch: %s\n", formatEpoch(a.Expression.Epoch()))
	}
	if !a.NextRun.IsZero() {
		fmt.Fprintf(&b, "  next: %s\n", a.NextRun.Format(time.RFC3339))
	}
	for _, w := range a.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", w)
	}
	return b.String()
}

func formatEpoch(e cronex.Epoch) string {
	sign, off := "+", e.UTCOffset
	if off < 0 {
		sign, off = "-", -off
	}
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d %s%02d%02d",
		e.Year, e.Month, e.Day, e.Hour, e.Minute, sign, off/60, off%60)
}

const checkIntro = `Test whether an expression matches an instant. Prints "active" or
"inactive"; the exit status is 0 for a match, 1 for none.

Usage:
  cronex check [flags] <expression>

Examples:
  cronex check "*/15 9-17 * * mon-fri"
  cronex check --at "2026-03-02 09:30" "30 9 * * mon"
  cronex check --epoch 2010-01-04 "0 0 %14 * *" && run-payroll
`

func runCheck(args []string) error {
	c := new(common)
	fs := pflag.NewFlagSet("cronex check", pflag.ContinueOnError)
	c.addFlags(fs)
	at := fs.String("at", "", "instant to test (default now; zoneless values are local time)")

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(fs, checkIntro)
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "check needs exactly one expression")
		return exitCode(2)
	}
	env, err := c.env(fs)
	if err != nil {
		return err
	}

	x, err := env.parser.Parse(fs.Arg(0))
	if err != nil {
		return err
	}
	t, err := atOrNow(*at)
	if err != nil {
		return err
	}
	env.logger.Info("checking schedule", "expression", x.String(), "at", t)

	if x.MatchesTime(t) {
		fmt.Println("active")
		return nil
	}
	fmt.Println("inactive")
	return exitCode(1)
}

const nextIntro = `Print the next activations of an expression, one RFC 3339 time per
line. Exits with status 1 when none exist within the search horizon.

Usage:
  cronex next [flags] <expression>

Examples:
  cronex next "0 4 * * *"
  cronex next -n 5 --from 2026-01-01 "0 0 L * *"
`

func runNext(args []string) error {
	c := new(common)
	fs := pflag.NewFlagSet("cronex next", pflag.ContinueOnError)
	c.addFlags(fs)
	fs.IntP("count", "n", 0, "number of activations to print")
	from := fs.String("from", "", "search forward from this time (default now)")

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(fs, nextIntro)
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "next needs exactly one expression")
		return exitCode(2)
	}
	env, err := c.env(fs)
	if err != nil {
		return err
	}

	x, err := env.parser.Parse(fs.Arg(0))
	if err != nil {
		return err
	}
	t, err := atOrNow(*from)
	if err != nil {
		return err
	}
	env.logger.Info("searching forward", "expression", x.String(), "from", t, "count", env.cfg.Count)

	times := cronex.NextN(x, t, env.cfg.Count)
	for _, u := range times {
		fmt.Println(u.Format(time.RFC3339))
	}
	if len(times) == 0 {
		fmt.Fprintln(os.Stderr, "no activation within the search horizon")
		return exitCode(1)
	}
	return nil
}

const prevIntro = `Print the most recent activations of an expression before a time,
newest first, one RFC 3339 time per line. Exits with status 1 when
none exist within the search horizon.

Usage:
  cronex prev [flags] <expression>

Examples:
  cronex prev "0 4 * * *"
  cronex prev -n 5 --from 2026-01-01 "0 0 29 2 *"
`

func runPrev(args []string) error {
	c := new(common)
	fs := pflag.NewFlagSet("cronex prev", pflag.ContinueOnError)
	c.addFlags(fs)
	fs.IntP("count", "n", 0, "number of activations to print")
	from := fs.String("from", "", "search backward from this time (default now)")

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(fs, prevIntro)
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "prev needs exactly one expression")
		return exitCode(2)
	}
	env, err := c.env(fs)
	if err != nil {
		return err
	}

	x, err := env.parser.Parse(fs.Arg(0))
	if err != nil {
		return err
	}
	t, err := atOrNow(*from)
	if err != nil {
		return err
	}
	env.logger.Info("searching backward", "expression", x.String(), "from", t, "count", env.cfg.Count)

	cur, found := t, 0
	for found < env.cfg.Count {
		cur = x.Prev(cur)
		if cur.IsZero() {
			break
		}
		fmt.Println(cur.Format(time.RFC3339))
		found++
	}
	if found == 0 {
		fmt.Fprintln(os.Stderr, "no activation within the search horizon")
		return exitCode(1)
	}
	return nil
}

const crontabIntro = `Inspect a crontab file whose schedule lines use cronex expressions.
By default every entry is listed with its next activation. With --at,
only the commands active at that instant are printed. Bad lines go to
stderr and make the exit status 1; with --strict the first bad line
aborts with status 2. Use "-" to read from stdin.

The file may contain NAME=VALUE assignments and an EPOCH=<time>
directive that anchors the repeaters of the lines below it.

Usage:
  cronex crontab [flags] <path>

Examples:
  cronex crontab /etc/cronex.tab
  cronex crontab --at "2026-03-02 09:30" /etc/cronex.tab
  crontab -l | cronex crontab -
`

func runCrontab(args []string) error {
	c := new(common)
	fs := pflag.NewFlagSet("cronex crontab", pflag.ContinueOnError)
	c.addFlags(fs)
	at := fs.String("at", "", "print only the commands active at this time")
	strict := fs.Bool("strict", false, "stop at the first bad line")

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(fs, crontabIntro)
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "crontab needs exactly one file path")
		return exitCode(2)
	}
	env, err := c.env(fs)
	if err != nil {
		return err
	}

	opts := []crontab.Option{
		crontab.WithParser(env.parser),
		crontab.WithLogger(env.logger),
	}
	if *strict {
		opts = append(opts, crontab.Strict())
	}

	var f *crontab.File
	path := fs.Arg(0)
	if path == "-" {
		f, err = crontab.Parse(os.Stdin, opts...)
	} else {
		f, err = crontab.ParseFile(path, opts...)
	}
	if err != nil {
		return err
	}

	if *at != "" {
		t, err := parseTime(*at, time.Local)
		if err != nil {
			return err
		}
		for _, e := range f.ActiveAt(t) {
			fmt.Println(e.Command)
		}
	} else {
		now := time.Now()
		runs := f.NextRuns(now)
		for i, e := range f.Entries {
			when := "never"
			if !runs[i].IsZero() {
				when = runs[i].Format(time.RFC3339)
			}
			fmt.Printf("line %-4d next %-25s %s\n", e.Line, when, e.Command)
		}
	}

	for i := range f.Errors {
		fmt.Fprintln(os.Stderr, f.Errors[i].Error())
	}
	if len(f.Errors) > 0 {
		return exitCode(1)
	}
	return nil
}
