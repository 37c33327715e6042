package partition

import (
	"fmt"
	"time"

	"noisebatch/pkg/errors"
	"noisebatch/pkg/models"
)

// Plan splits the half-open interval [start, end) into day-aligned sub-ranges
// evaluated against local calendar days in loc. The returned ranges are
// contiguous, strictly ordered, and their union reconstructs [start, end)
// exactly: the first range begins at start, the last ends at end, and every
// interior boundary is a local midnight. A range confined to a single local
// day comes back as one partition equal to the input.
//
// Plan is pure: it performs no I/O and never blocks.
func Plan(start, end time.Time, loc *time.Location) ([]models.TimeRange, error) {
	if !end.After(start) {
		return nil, errors.New(errors.ErrorTypeInvalidRange,
			fmt.Sprintf("range [%s, %s) is empty or inverted",
				start.Format(time.RFC3339), end.Format(time.RFC3339)))
	}

	localStart := start.In(loc)
	localEnd := end.In(loc)

	var partitions []models.TimeRange
	cursor := localStart
	for {
		next := nextMidnight(cursor, loc)
		if !next.Before(localEnd) {
			partitions = append(partitions, models.TimeRange{Start: cursor, End: localEnd})
			return partitions, nil
		}
		partitions = append(partitions, models.TimeRange{Start: cursor, End: next})
		cursor = next
	}
}

// nextMidnight returns the first local midnight strictly after t
func nextMidnight(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, loc)
}
