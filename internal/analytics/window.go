package analytics

import "time"

// Symbolic period tokens accepted by ResolveWindow.
const (
	PeriodHour   = "1h"
	PeriodDay    = "24h"
	PeriodWeek   = "7d"
	PeriodMonth  = "30d"
	PeriodCustom = "custom"
)

// ResolveWindow turns a symbolic period into an absolute [start, end) Unix
// interval ending at now. Unrecognized periods fall back to 24h. For
// "custom" the caller-supplied bounds are used verbatim, with no ordering
// validation; downstream consumers tolerate an empty window.
func ResolveWindow(period string, customStart, customEnd int64, now time.Time) (int64, int64) {
	end := now.Unix()

	switch period {
	case PeriodHour:
		return end - 3600, end
	case PeriodWeek:
		return end - 604800, end
	case PeriodMonth:
		return end - 2592000, end
	case PeriodCustom:
		return customStart, customEnd
	default:
		// PeriodDay and anything unrecognized
		return end - 86400, end
	}
}
