// Package analytics holds the pure computation behind the wellness
// dashboard: rolling-window statistics over a resident's observation
// history, the composite risk classification, and the attention gate.
// Nothing in this package touches storage or the network.
package analytics

import (
	"time"

	"github.com/carebridge/wellness-service/internal/core/domain"
)

// Window lengths used by the dashboard metrics
const (
	ShortWindow = 7 * 24 * time.Hour
	FallWindow  = 90 * 24 * time.Hour
)

// inWindow reports whether t falls inside (anchor-window, anchor].
// Half-open on the left, closed on the right: the anchor itself is
// included, the far boundary is not.
func inWindow(t, anchor time.Time, window time.Duration) bool {
	return t.After(anchor.Add(-window)) && !t.After(anchor)
}

// meanInWindow averages the values extracted by value over observations
// inside (anchor-window, anchor]. Observations whose field is missing
// are skipped. An empty window yields 0, not an error; callers must
// treat 0 as "no data" rather than a true zero reading.
func meanInWindow(obs []*domain.ShiftObservation, anchor time.Time, window time.Duration, value func(*domain.ShiftObservation) (float64, bool)) float64 {
	var sum float64
	var n int
	for _, o := range obs {
		if !inWindow(o.Timestamp, anchor, window) {
			continue
		}
		v, ok := value(o)
		if !ok {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// delta7d is mean over (anchor-7d, anchor] minus mean over
// (anchor-14d, anchor-7d]. Both windows independently fall back to 0
// when empty, so a delta against an empty prior window equals the
// current mean verbatim. That quirk is part of the metric's contract.
func delta7d(obs []*domain.ShiftObservation, anchor time.Time, value func(*domain.ShiftObservation) (float64, bool)) float64 {
	current := meanInWindow(obs, anchor, ShortWindow, value)
	previous := meanInWindow(obs, anchor.Add(-ShortWindow), ShortWindow, value)
	return current - previous
}

func heartRateValue(o *domain.ShiftObservation) (float64, bool) {
	if o.HeartRate == nil {
		return 0, false
	}
	return float64(*o.HeartRate), true
}

func systolicValue(o *domain.ShiftObservation) (float64, bool) {
	if o.BPSystolic == nil {
		return 0, false
	}
	return float64(*o.BPSystolic), true
}

// HeartRate7dMean is the mean heart rate over the 7 days ending at
// anchor. 0 means no readings in the window.
func HeartRate7dMean(obs []*domain.ShiftObservation, anchor time.Time) float64 {
	return meanInWindow(obs, anchor, ShortWindow, heartRateValue)
}

// Systolic7dMean is the mean systolic blood pressure over the 7 days
// ending at anchor. 0 means no readings in the window.
func Systolic7dMean(obs []*domain.ShiftObservation, anchor time.Time) float64 {
	return meanInWindow(obs, anchor, ShortWindow, systolicValue)
}

// HeartRate7dDelta is the change in 7-day mean heart rate versus the
// prior 7-day window, anchored at anchor.
func HeartRate7dDelta(obs []*domain.ShiftObservation, anchor time.Time) float64 {
	return delta7d(obs, anchor, heartRateValue)
}

// Systolic7dDelta is the change in 7-day mean systolic blood pressure
// versus the prior 7-day window, anchored at anchor.
func Systolic7dDelta(obs []*domain.ShiftObservation, anchor time.Time) float64 {
	return delta7d(obs, anchor, systolicValue)
}

// FallCount90d counts observations with a fall event inside
// (anchor-90d, anchor].
func FallCount90d(obs []*domain.ShiftObservation, anchor time.Time) int {
	count := 0
	for _, o := range obs {
		if inWindow(o.Timestamp, anchor, FallWindow) && o.HasFallEvent() {
			count++
		}
	}
	return count
}

// MissedDoseRatio7d is the fraction of observations inside
// (anchor-7d, anchor] that carry a medication issue. An empty window
// yields 0, which is indistinguishable from "0% missed" -- same caveat
// as the empty-window means.
func MissedDoseRatio7d(obs []*domain.ShiftObservation, anchor time.Time) float64 {
	var total, missed int
	for _, o := range obs {
		if !inWindow(o.Timestamp, anchor, ShortWindow) {
			continue
		}
		total++
		if o.HasMedicationIssue() {
			missed++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(missed) / float64(total)
}

// FilterWindow returns the observations inside (anchor-window, anchor],
// preserving input order. The input is not assumed to be sorted.
func FilterWindow(obs []*domain.ShiftObservation, anchor time.Time, window time.Duration) []*domain.ShiftObservation {
	var out []*domain.ShiftObservation
	for _, o := range obs {
		if inWindow(o.Timestamp, anchor, window) {
			out = append(out, o)
		}
	}
	return out
}
