package bonus

import (
	"fmt"
	"time"
)

// InvalidRangeError is returned when a date range is missing a bound or
// starts after it ends.
type InvalidRangeError struct {
	Start  time.Time
	End    time.Time
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return "invalid date range: " + e.Reason
}

func missingBound(name string, start, end time.Time) *InvalidRangeError {
	return &InvalidRangeError{Start: start, End: end, Reason: name + " is required"}
}

func invertedRange(start, end time.Time) *InvalidRangeError {
	return &InvalidRangeError{
		Start:  start,
		End:    end,
		Reason: fmt.Sprintf("start date %s is after end date %s", start.Format(DateLayout), end.Format(DateLayout)),
	}
}
