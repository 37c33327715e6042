package partition

import (
	"testing"
	"time"

	"noisebatch/pkg/errors"
)

func pacific(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("Failed to load timezone: %v", err)
	}
	return loc
}

func TestPlanSingleDay(t *testing.T) {
	loc := pacific(t)
	start := time.Date(2026, 1, 15, 10, 0, 0, 0, loc)
	end := time.Date(2026, 1, 15, 14, 0, 0, 0, loc)

	partitions, err := Plan(start, end, loc)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if len(partitions) != 1 {
		t.Fatalf("Expected 1 partition, got %d", len(partitions))
	}
	if !partitions[0].Start.Equal(start) || !partitions[0].End.Equal(end) {
		t.Errorf("Expected partition %v..%v, got %v..%v", start, end, partitions[0].Start, partitions[0].End)
	}
}

func TestPlanTwoDays(t *testing.T) {
	loc := pacific(t)
	start := time.Date(2026, 1, 15, 22, 0, 0, 0, loc)
	end := time.Date(2026, 1, 16, 2, 0, 0, 0, loc)
	midnight := time.Date(2026, 1, 16, 0, 0, 0, 0, loc)

	partitions, err := Plan(start, end, loc)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if len(partitions) != 2 {
		t.Fatalf("Expected 2 partitions, got %d", len(partitions))
	}
	if !partitions[0].Start.Equal(start) || !partitions[0].End.Equal(midnight) {
		t.Errorf("First partition wrong: %v..%v", partitions[0].Start, partitions[0].End)
	}
	if !partitions[1].Start.Equal(midnight) || !partitions[1].End.Equal(end) {
		t.Errorf("Second partition wrong: %v..%v", partitions[1].Start, partitions[1].End)
	}
}

func TestPlanThreeDays(t *testing.T) {
	loc := pacific(t)
	start := time.Date(2026, 1, 15, 22, 0, 0, 0, loc)
	end := time.Date(2026, 1, 17, 2, 0, 0, 0, loc)
	midnight16 := time.Date(2026, 1, 16, 0, 0, 0, 0, loc)
	midnight17 := time.Date(2026, 1, 17, 0, 0, 0, 0, loc)

	partitions, err := Plan(start, end, loc)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if len(partitions) != 3 {
		t.Fatalf("Expected 3 partitions, got %d", len(partitions))
	}
	if !partitions[0].Start.Equal(start) || !partitions[0].End.Equal(midnight16) {
		t.Errorf("First partition wrong: %v..%v", partitions[0].Start, partitions[0].End)
	}
	if !partitions[1].Start.Equal(midnight16) || !partitions[1].End.Equal(midnight17) {
		t.Errorf("Middle partition wrong: %v..%v", partitions[1].Start, partitions[1].End)
	}
	if !partitions[2].Start.Equal(midnight17) || !partitions[2].End.Equal(end) {
		t.Errorf("Last partition wrong: %v..%v", partitions[2].Start, partitions[2].End)
	}
}

func TestPlanMonthBoundary(t *testing.T) {
	loc := pacific(t)
	start := time.Date(2026, 1, 31, 22, 0, 0, 0, loc)
	end := time.Date(2026, 2, 1, 2, 0, 0, 0, loc)

	partitions, err := Plan(start, end, loc)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if len(partitions) != 2 {
		t.Fatalf("Expected 2 partitions, got %d", len(partitions))
	}
	if got := partitions[0].Date(); got != "2026-01-31" {
		t.Errorf("Expected first date 2026-01-31, got %s", got)
	}
	if got := partitions[1].Date(); got != "2026-02-01" {
		t.Errorf("Expected second date 2026-02-01, got %s", got)
	}
}

func TestPlanEndAtMidnight(t *testing.T) {
	loc := pacific(t)
	start := time.Date(2026, 1, 15, 22, 0, 0, 0, loc)
	end := time.Date(2026, 1, 16, 0, 0, 0, 0, loc)

	partitions, err := Plan(start, end, loc)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	// The half-open range stops exactly at midnight, so Jan 16 gets nothing
	if len(partitions) != 1 {
		t.Fatalf("Expected 1 partition, got %d", len(partitions))
	}
	if !partitions[0].Start.Equal(start) || !partitions[0].End.Equal(end) {
		t.Errorf("Partition wrong: %v..%v", partitions[0].Start, partitions[0].End)
	}
}

func TestPlanDSTTransition(t *testing.T) {
	loc := pacific(t)
	// DST begins Mar 8 2026; the local day is 23 hours long
	start := time.Date(2026, 3, 7, 22, 0, 0, 0, loc)
	end := time.Date(2026, 3, 8, 22, 0, 0, 0, loc)

	partitions, err := Plan(start, end, loc)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if len(partitions) != 2 {
		t.Fatalf("Expected 2 partitions, got %d", len(partitions))
	}
	midnight := time.Date(2026, 3, 8, 0, 0, 0, 0, loc)
	if !partitions[0].End.Equal(midnight) || !partitions[1].Start.Equal(midnight) {
		t.Errorf("Partitions not split at local midnight: %v / %v", partitions[0].End, partitions[1].Start)
	}
}

func TestPlanInvalidRange(t *testing.T) {
	loc := pacific(t)
	at := time.Date(2026, 1, 15, 10, 0, 0, 0, loc)

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"Empty", at, at},
		{"Inverted", at, at.Add(-time.Hour)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Plan(tc.start, tc.end, loc)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.IsType(err, errors.ErrorTypeInvalidRange) {
				t.Errorf("Expected invalid_range error, got %v", err)
			}
		})
	}
}

func TestPlanCoverageProperties(t *testing.T) {
	loc := pacific(t)

	ranges := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"PartialWeek", time.Date(2026, 1, 12, 3, 30, 0, 0, loc), time.Date(2026, 1, 18, 19, 45, 0, 0, loc)},
		{"YearBoundary", time.Date(2025, 12, 31, 23, 0, 0, 0, loc), time.Date(2026, 1, 2, 1, 0, 0, 0, loc)},
		{"UTCInput", time.Date(2026, 6, 10, 5, 0, 0, 0, time.UTC), time.Date(2026, 6, 12, 5, 0, 0, 0, time.UTC)},
		{"OneMinute", time.Date(2026, 4, 1, 12, 0, 0, 0, loc), time.Date(2026, 4, 1, 12, 1, 0, 0, loc)},
	}

	for _, tc := range ranges {
		t.Run(tc.name, func(t *testing.T) {
			partitions, err := Plan(tc.start, tc.end, loc)
			if err != nil {
				t.Fatalf("Plan failed: %v", err)
			}
			if len(partitions) == 0 {
				t.Fatal("Expected at least one partition")
			}

			if !partitions[0].Start.Equal(tc.start) {
				t.Errorf("First partition does not start at range start: %v", partitions[0].Start)
			}
			if !partitions[len(partitions)-1].End.Equal(tc.end) {
				t.Errorf("Last partition does not end at range end: %v", partitions[len(partitions)-1].End)
			}

			for i, p := range partitions {
				if !p.End.After(p.Start) {
					t.Errorf("Partition %d is empty or inverted: %v..%v", i, p.Start, p.End)
				}
				if i > 0 && !partitions[i-1].End.Equal(p.Start) {
					t.Errorf("Gap or overlap between partitions %d and %d", i-1, i)
				}
				if i > 0 {
					localStart := p.Start.In(loc)
					if localStart.Hour() != 0 || localStart.Minute() != 0 || localStart.Second() != 0 {
						t.Errorf("Interior boundary %v is not a local midnight", localStart)
					}
				}
			}
		})
	}
}
