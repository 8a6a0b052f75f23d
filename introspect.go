package cronex

import "time"

// NextN returns the next n activation times for the schedule, starting
// after t. Returns nil if schedule is nil or n <= 0.
//
// This is useful for:
//   - Calendar previews showing upcoming activations
//   - Capacity planning
//   - Debugging schedule expressions
//
// Example:
//
//	expr := cronex.MustCompile("0 9 * * mon")
//	times := cronex.NextN(expr, time.Now(), 10)
//	for _, t := range times {
//	    fmt.Println("Next run:", t)
//	}
func NextN(schedule Schedule, t time.Time, n int) []time.Time {
	if schedule == nil || n <= 0 {
		return nil
	}

	times := make([]time.Time, 0, n)
	current := t

	for i := 0; i < n; i++ {
		next := schedule.Next(current)
		if next.IsZero() {
			break
		}
		times = append(times, next)
		current = next
	}

	return times
}

// Between returns all activation times strictly after start and before
// end. Both bounds are exclusive, matching Next. Returns nil if schedule
// is nil.
//
// WARNING: For high-frequency schedules over long ranges, this can
// return many results. Use BetweenWithLimit for bounded queries.
func Between(schedule Schedule, start, end time.Time) []time.Time {
	return BetweenWithLimit(schedule, start, end, 0)
}

// BetweenWithLimit returns activation times strictly after start and
// before end, up to limit. If limit is 0 or negative, no limit is
// applied. Returns nil if schedule is nil.
//
// Example:
//
//	expr := cronex.MustCompile("* * * * *") // Every minute
//	times := cronex.BetweenWithLimit(expr, start, end, 100)
func BetweenWithLimit(schedule Schedule, start, end time.Time, limit int) []time.Time {
	if schedule == nil {
		return nil
	}

	if !start.Before(end) {
		return nil
	}

	var times []time.Time
	if limit > 0 {
		times = make([]time.Time, 0, limit)
	}

	current := start
	for {
		next := schedule.Next(current)
		if next.IsZero() || !next.Before(end) {
			break
		}
		times = append(times, next)
		current = next

		if limit > 0 && len(times) >= limit {
			break
		}
	}

	return times
}

// Count returns the number of activations strictly after start and
// before end. Returns 0 if schedule is nil.
//
// WARNING: For high-frequency schedules over long ranges, this may take
// significant time. Use CountWithLimit for bounded counting.
func Count(schedule Schedule, start, end time.Time) int {
	return CountWithLimit(schedule, start, end, 0)
}

// CountWithLimit counts activations strictly after start and before
// end, up to limit. If limit is 0 or negative, no limit is applied.
// Returns the count, which will be at most limit if a limit was given.
// Returns 0 if schedule is nil.
//
// Example:
//
//	expr := cronex.MustCompile("* * * * *")
//	count := cronex.CountWithLimit(expr, start, end, 10000)
//	if count == 10000 {
//	    fmt.Println("At least 10000 activations")
//	}
func CountWithLimit(schedule Schedule, start, end time.Time, limit int) int {
	if schedule == nil {
		return 0
	}

	if !start.Before(end) {
		return 0
	}

	count := 0
	current := start

	for {
		next := schedule.Next(current)
		if next.IsZero() || !next.Before(end) {
			break
		}
		count++
		current = next

		if limit > 0 && count >= limit {
			break
		}
	}

	return count
}
