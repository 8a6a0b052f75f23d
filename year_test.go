package cronex

import (
	"testing"
	"time"
)

// TestYearFieldParsing tests that the year field can be parsed.
func TestYearFieldParsing(t *testing.T) {
	parser := NewParser(Year)

	tests := []struct {
		name    string
		line    string
		wantErr bool
	}{
		{
			name:    "specific year",
			line:    "0 0 1 1 * 2025",
			wantErr: false,
		},
		{
			name:    "year range",
			line:    "0 0 1 1 * 2024-2026",
			wantErr: false,
		},
		{
			name:    "year wildcard",
			line:    "0 0 1 1 * *",
			wantErr: false,
		},
		{
			name:    "year list",
			line:    "0 0 1 1 * 2024,2025,2026",
			wantErr: false,
		},
		{
			name:    "year step",
			line:    "0 0 1 1 * 2020-2030/2",
			wantErr: false,
		},
		{
			name:    "year below minimum",
			line:    "0 0 1 1 * 0",
			wantErr: true,
		},
		{
			name:    "year above maximum",
			line:    "0 0 1 1 * 2147483648",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.line)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
		})
	}
}

// TestYearFieldWithSeconds tests the year field when seconds are also enabled.
func TestYearFieldWithSeconds(t *testing.T) {
	parser := NewParser(Second | Year)

	tests := []struct {
		name    string
		line    string
		wantErr bool
	}{
		{
			name:    "7 fields with specific year",
			line:    "0 0 0 1 1 * 2025",
			wantErr: false,
		},
		{
			name:    "7 fields with year range",
			line:    "30 15 10 15 6 * 2024-2026",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.line)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
		})
	}
}

// TestYearFieldScheduleNext tests that Next respects year constraints.
func TestYearFieldScheduleNext(t *testing.T) {
	parser := NewParser(Year)
	loc := time.UTC

	tests := []struct {
		name     string
		line     string
		from     time.Time
		wantYear int
		wantZero bool // expect zero time (no activation found)
	}{
		{
			name:     "next in specific year",
			line:     "0 0 1 1 * 2025",
			from:     time.Date(2024, 6, 15, 10, 0, 0, 0, loc),
			wantYear: 2025,
		},
		{
			name:     "next in year range - start of range",
			line:     "0 0 1 1 * 2024-2026",
			from:     time.Date(2023, 6, 15, 10, 0, 0, 0, loc),
			wantYear: 2024,
		},
		{
			name:     "next in year range - middle of range",
			line:     "0 0 1 1 * 2024-2026",
			from:     time.Date(2024, 6, 15, 10, 0, 0, 0, loc),
			wantYear: 2025,
		},
		{
			name:     "next in year range - end of range",
			line:     "0 0 1 1 * 2024-2026",
			from:     time.Date(2025, 6, 15, 10, 0, 0, 0, loc),
			wantYear: 2026,
		},
		{
			name:     "after year range returns zero",
			line:     "0 0 1 1 * 2024-2026",
			from:     time.Date(2026, 6, 15, 10, 0, 0, 0, loc),
			wantZero: true,
		},
		{
			name:     "wildcard year works normally",
			line:     "0 0 1 1 * *",
			from:     time.Date(2024, 6, 15, 10, 0, 0, 0, loc),
			wantYear: 2025,
		},
		{
			name:     "year list",
			line:     "0 0 1 1 * 2024,2026,2028",
			from:     time.Date(2024, 6, 15, 10, 0, 0, 0, loc),
			wantYear: 2026,
		},
		{
			name:     "upper end of the domain",
			line:     "0 0 1 1 * 9999",
			from:     time.Date(9998, 6, 15, 10, 0, 0, 0, loc),
			wantYear: 9999,
		},
		{
			name:     "year step",
			line:     "0 0 1 1 * 2020-2030/2",
			from:     time.Date(2025, 6, 15, 10, 0, 0, 0, loc),
			wantYear: 2026,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := parser.Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.line, err)
			}

			next := x.Next(tt.from)
			if tt.wantZero {
				if !next.IsZero() {
					t.Errorf("Next(%v) = %v, want zero time", tt.from, next)
				}
				return
			}

			if next.IsZero() {
				t.Errorf("Next(%v) returned zero time, want year %d", tt.from, tt.wantYear)
				return
			}

			if next.Year() != tt.wantYear {
				t.Errorf("Next(%v).Year() = %d, want %d", tt.from, next.Year(), tt.wantYear)
			}
		})
	}
}

// TestYearFieldSchedulePrev tests that Prev respects year constraints.
func TestYearFieldSchedulePrev(t *testing.T) {
	parser := NewParser(Year)
	loc := time.UTC

	tests := []struct {
		name     string
		line     string
		from     time.Time
		wantYear int
		wantZero bool
	}{
		{
			name:     "prev in specific year",
			line:     "0 0 1 1 * 2024",
			from:     time.Date(2025, 6, 15, 10, 0, 0, 0, loc),
			wantYear: 2024,
		},
		{
			name:     "prev in year range - end of range",
			line:     "0 0 1 1 * 2024-2026",
			from:     time.Date(2027, 6, 15, 10, 0, 0, 0, loc),
			wantYear: 2026,
		},
		{
			name:     "prev in year range - middle of range",
			line:     "0 0 1 1 * 2024-2026",
			from:     time.Date(2026, 1, 1, 0, 0, 0, 0, loc),
			wantYear: 2025,
		},
		{
			name:     "prev in year range - start of range",
			line:     "0 0 1 1 * 2024-2026",
			from:     time.Date(2025, 1, 1, 0, 0, 0, 0, loc),
			wantYear: 2024,
		},
		{
			name:     "before year range returns zero",
			line:     "0 0 1 1 * 2024-2026",
			from:     time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
			wantZero: true,
		},
		{
			name:     "wildcard year works normally",
			line:     "0 0 1 1 * *",
			from:     time.Date(2024, 6, 15, 10, 0, 0, 0, loc),
			wantYear: 2024,
		},
		{
			name:     "year list",
			line:     "0 0 1 1 * 2024,2026,2028",
			from:     time.Date(2027, 6, 15, 10, 0, 0, 0, loc),
			wantYear: 2026,
		},
		{
			name:     "year step",
			line:     "0 0 1 1 * 2020-2030/2",
			from:     time.Date(2027, 6, 15, 10, 0, 0, 0, loc),
			wantYear: 2026,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := parser.Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.line, err)
			}

			prev := x.Prev(tt.from)
			if tt.wantZero {
				if !prev.IsZero() {
					t.Errorf("Prev(%v) = %v, want zero time", tt.from, prev)
				}
				return
			}

			if prev.IsZero() {
				t.Errorf("Prev(%v) returned zero time, want year %d", tt.from, tt.wantYear)
				return
			}

			if prev.Year() != tt.wantYear {
				t.Errorf("Prev(%v).Year() = %d, want %d", tt.from, prev.Year(), tt.wantYear)
			}
		})
	}
}

// TestYearFieldWithSevenFields tests the full 7-field form end to end.
func TestYearFieldWithSevenFields(t *testing.T) {
	parser := NewParser(Second | Year)
	loc := time.UTC

	// Second 30, minute 15, hour 10 on Jan 1, any weekday, 2025.
	x, err := parser.Parse("30 15 10 1 1 * 2025")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	from := time.Date(2024, 12, 15, 10, 0, 0, 0, loc)
	next := x.Next(from)
	if next.IsZero() {
		t.Fatal("Next returned zero time")
	}

	expected := time.Date(2025, 1, 1, 10, 15, 30, 0, loc)
	if !next.Equal(expected) {
		t.Errorf("Next() = %v, want %v", next, expected)
	}
}

// TestParseOptionConstants verifies the option flags are distinct bits.
func TestParseOptionConstants(t *testing.T) {
	if Second == 0 {
		t.Error("Second constant should not be zero")
	}
	if Year == 0 {
		t.Error("Year constant should not be zero")
	}
	if Second&Year != 0 {
		t.Error("Second and Year constants overlap")
	}
}

// TestYearBounds verifies the accepted year domain.
func TestYearBounds(t *testing.T) {
	parser := NewParser(Year)

	tests := []struct {
		year    string
		wantErr bool
	}{
		{"1970", false}, // Unix epoch
		{"2000", false},
		{"2024", false},
		{"9999", false},  // domain maximum
		{"1969", true},   // below minimum
		{"100", true},    // far below minimum
		{"10000", true},  // above maximum
		{"999999", true}, // far above maximum
		{"0", true},
		{"-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.year, func(t *testing.T) {
			line := "0 0 1 1 * " + tt.year
			_, err := parser.Parse(line)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse(%q) error = %v, wantErr %v", line, err, tt.wantErr)
			}
		})
	}
}

// TestYearFieldConcurrent tests concurrent scans with a year field.
func TestYearFieldConcurrent(t *testing.T) {
	parser := NewParser(Year)

	x, err := parser.Parse("0 0 1 * * 2024-2030")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
				if next := x.Next(from); next.IsZero() {
					t.Error("Next returned zero")
				}
				if prev := x.Prev(from.Add(24 * time.Hour)); prev.IsZero() {
					t.Error("Prev returned zero")
				}
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
