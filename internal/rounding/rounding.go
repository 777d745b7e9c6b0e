// Package rounding applies a project's billing granularity to tracked time.
package rounding

import (
	"time"

	"github.com/alexanderramin/worktally/internal/domain"
)

// RoundSeconds rounds seconds to a multiple of intervalMin minutes in the
// given direction. Non-positive intervals leave seconds unchanged.
func RoundSeconds(seconds, intervalMin int, dir domain.RoundingDirection) int {
	if intervalMin <= 0 || seconds <= 0 {
		return seconds
	}
	step := intervalMin * 60
	down := seconds / step * step
	if down == seconds {
		return seconds
	}
	switch dir {
	case domain.RoundDown:
		return down
	case domain.RoundNearest:
		if seconds-down >= step-(seconds-down) {
			return down + step
		}
		return down
	default:
		return down + step
	}
}

// FragmentEntry widens entry to whole time fragments of fragmentMin minutes:
// the start snaps down and the end snaps up. The recorded bounds survive in
// RealStartTime and TrueEndTime. ActiveSeconds becomes the widened span less
// PausedSeconds, never below zero.
func FragmentEntry(entry domain.TimeEntry, fragmentMin int) domain.TimeEntry {
	if fragmentMin <= 0 {
		return entry
	}
	d := time.Duration(fragmentMin) * time.Minute

	if entry.RealStartTime.IsZero() {
		entry.RealStartTime = entry.StartTime
	}
	if entry.TrueEndTime.IsZero() {
		entry.TrueEndTime = entry.EndTime
	}

	entry.StartTime = entry.StartTime.Truncate(d)
	if end := entry.EndTime.Truncate(d); end.Before(entry.EndTime) {
		entry.EndTime = end.Add(d)
	}
	entry.ActiveSeconds = max(int(entry.EndTime.Sub(entry.StartTime)/time.Second)-entry.PausedSeconds, 0)
	interval := fragmentMin
	entry.TimeFragmentsInterval = &interval
	return entry
}
