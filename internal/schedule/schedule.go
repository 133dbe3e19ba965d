// Package schedule decides when an automatic backup is due and runs the
// check on a cadence.
package schedule

import (
	"time"

	"okane/internal/core"
)

const (
	Daily   = 24 * time.Hour
	Weekly  = 7 * Daily
	Monthly = 30 * Daily
)

// Threshold returns the minimum time between exports for f. ok is false when
// f never triggers.
func Threshold(f core.Frequency) (d time.Duration, ok bool) {
	switch f {
	case core.FrequencyDaily:
		return Daily, true
	case core.FrequencyWeekly:
		return Weekly, true
	case core.FrequencyMonthly:
		return Monthly, true
	default:
		return 0, false
	}
}

// ShouldExport reports whether an export is due at now.
// A zero lastExport means no export ever happened, so any enabled frequency
// is due.
func ShouldExport(settings core.ExportSettings, now time.Time) bool {
	threshold, ok := Threshold(settings.Frequency)
	if !ok {
		return false
	}
	if settings.LastExport == 0 {
		return true
	}
	return now.Sub(settings.LastExport.Time()) >= threshold
}

// NextDue returns when the next export becomes due. ok is false when the
// frequency is off.
func NextDue(settings core.ExportSettings) (time.Time, bool) {
	threshold, ok := Threshold(settings.Frequency)
	if !ok {
		return time.Time{}, false
	}
	if settings.LastExport == 0 {
		return time.Time{}, true
	}
	return settings.LastExport.Time().Add(threshold), true
}
