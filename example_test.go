package cronex_test

import (
	"fmt"
	"log"
	"os"
	"time"

	cronex "github.com/netresearch/go-cronex"
)

// This example demonstrates compiling an expression and asking it questions.
func Example() {
	x := cronex.MustCompile("*/15 9-17 * * mon-fri")

	probe := time.Date(2025, 1, 1, 9, 15, 0, 0, time.UTC) // a Wednesday
	fmt.Println("matches:", x.MatchesTime(probe))

	next := x.Next(time.Date(2025, 1, 1, 9, 20, 0, 0, time.UTC))
	fmt.Println("next:", next.Format(time.RFC3339))
	// Output:
	// matches: true
	// next: 2025-01-01T09:30:00Z
}

// This example demonstrates compiling an expression and finding its next
// activation.
func ExampleCompile() {
	x, err := cronex.Compile("0 9 * * MON-FRI")
	if err != nil {
		log.Fatal(err)
	}

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) // Wednesday
	next := x.Next(now)
	fmt.Printf("Next run: %s\n", next.Format("Mon 15:04"))
	// Output: Next run: Wed 09:00
}

// This example demonstrates that predefined schedules expand to ordinary
// five-field expressions.
func ExampleMustCompile() {
	x := cronex.MustCompile("@weekly")
	fmt.Println(x.String())
	// Output: 0 0 * * 0
}

// This example demonstrates validating user input without keeping the
// compiled form.
func ExampleValidate() {
	err := cronex.Validate("61 * * * *")
	fmt.Println(err)
	// Output: minutes field: atom "61": value (61) out of range (0-59)
}

// This example demonstrates matching a literal moment.
func ExampleExpression_Matches() {
	x := cronex.MustCompile("30 8 15 7 *")

	fmt.Println(x.Matches(cronex.Moment{Year: 2012, Month: 7, Day: 15, Hour: 8, Minute: 30}))
	fmt.Println(x.Matches(cronex.Moment{Year: 2012, Month: 7, Day: 16, Hour: 8, Minute: 30}))
	// Output:
	// true
	// false
}

// This example demonstrates walking activations of a schedule whose hour
// range wraps through midnight.
func ExampleExpression_Next() {
	x := cronex.MustCompile("0 22-2 * * *")

	first := x.Next(time.Date(2012, 7, 9, 23, 30, 0, 0, time.UTC))
	second := x.Next(first)
	fmt.Println(first.Format(time.RFC3339))
	fmt.Println(second.Format(time.RFC3339))
	// Output:
	// 2012-07-10T00:00:00Z
	// 2012-07-10T01:00:00Z
}

// This example demonstrates scanning backwards to the previous activation.
func ExampleExpression_Prev() {
	x := cronex.MustCompile("0 0 L * *")

	prev := x.Prev(time.Date(2012, 3, 15, 0, 0, 0, 0, time.UTC))
	fmt.Println(prev.Format(time.RFC3339))
	// Output: 2012-02-29T00:00:00Z
}

// This example demonstrates a biweekly schedule built from a day repeater
// and a custom epoch. The epoch fixes which weeks the period counts from.
func ExampleParser_WithEpoch() {
	parser := cronex.NewParser(0).WithEpoch(cronex.Epoch{Year: 2010, Month: 1, Day: 1})

	x, err := parser.Parse("0 0 %14 * * biweekly payroll")
	if err != nil {
		log.Fatal(err)
	}

	next := x.Next(time.Date(2010, 1, 2, 0, 0, 0, 0, time.UTC))
	fmt.Println(next.Format("2006-01-02"))
	fmt.Println(x.Comment())
	// Output:
	// 2010-01-15
	// biweekly payroll
}

// This example demonstrates the two-phase edit cycle. A failed Recompute
// reports the problem and leaves the previous compiled state in effect.
func ExampleExpression_SetFieldText() {
	x := cronex.MustCompile("0 9 * * *")

	x.SetFieldText(cronex.FieldHour, "9-17")
	if err := x.Recompute(); err != nil {
		log.Fatal(err)
	}
	fmt.Println(x.String())

	x.SetFieldText(cronex.FieldHour, "25")
	fmt.Println(x.Recompute())
	fmt.Println(x.Matches(cronex.Moment{Year: 2025, Month: 1, Day: 1, Hour: 17}))
	// Output:
	// 0 9-17 * * *
	// hours field: atom "25": value (25) out of range (0-23)
	// true
}

// This example demonstrates inspecting an expression without walking its
// compiled form.
func ExampleAnalyze() {
	result := cronex.Analyze("@daily overnight batch")

	fmt.Println("valid:", result.Valid)
	fmt.Println("shorthand:", result.Shorthand)
	fmt.Println("hours:", result.Fields["hours"])
	fmt.Println("comment:", result.Comment)
	// Output:
	// valid: true
	// shorthand: @daily
	// hours: 0
	// comment: overnight batch
}

// This example demonstrates listing the next several activations.
func ExampleNextN() {
	x := cronex.MustCompile("0 12 * * *")

	start := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	for _, tm := range cronex.NextN(x, start, 3) {
		fmt.Println(tm.Format("Jan 2 15:04"))
	}
	// Output:
	// Jun 15 12:00
	// Jun 16 12:00
	// Jun 17 12:00
}

// This example demonstrates counting activations in a half-open interval.
func ExampleBetween() {
	x := cronex.MustCompile("0 9 * * MON")

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	fmt.Println(len(cronex.Between(x, start, end)))
	// Output: 4
}

// This example demonstrates verbose logging with a plain standard library
// logger as the backend.
func ExampleVerbosePrintfLogger() {
	logger := cronex.VerbosePrintfLogger(log.New(os.Stdout, "", 0))

	logger.Info("compiled", "expression", "0 9 * * mon-fri")
	// Output: compiled, expression=0 9 * * mon-fri
}
