// Package reconcile fits a new time entry around the entries already
// recorded for the same project, so that tracked time is never counted twice.
package reconcile

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/google/uuid"
)

// Result is the outcome of reconciling one candidate entry.
type Result struct {
	// Produced holds the parts of the candidate not covered by any existing
	// entry, ordered by start time. It is nil when the candidate is fully
	// shadowed.
	Produced []domain.TimeEntry
	// Colliding lists the existing entries that overlap the candidate. It is
	// populated even when Produced is nil.
	Colliding []domain.TimeEntry
}

// FullyShadowed reports whether existing entries already cover the whole candidate.
func (r Result) FullyShadowed() bool {
	return r.Produced == nil
}

// Adjusted reports whether the candidate had to be cut around existing entries.
func (r Result) Adjusted() bool {
	return r.Produced != nil && len(r.Colliding) > 0
}

// newID generates identities for split entries. Swapped in tests.
var newID = uuid.NewString

type boundaryKind int

// Ends sort before starts so that back-to-back entries stay adjacent.
const (
	boundaryEnd boundaryKind = iota
	boundaryStart
)

type boundary struct {
	at          time.Time
	kind        boundaryKind
	isCandidate bool
}

// Reconcile splits candidate into the sub-intervals that no entry in existing
// covers. Neither input is modified.
//
// A candidate with start >= end is a caller bug and yields
// domain.ErrDegenerateInterval. Overlaps among the existing entries
// themselves are tolerated.
func Reconcile(existing []domain.TimeEntry, candidate domain.TimeEntry) (Result, error) {
	if !candidate.StartTime.Before(candidate.EndTime) {
		return Result{}, fmt.Errorf("reconciling time entry %s: %w", candidate.ID, domain.ErrDegenerateInterval)
	}

	var colliding []domain.TimeEntry
	for i := range existing {
		if candidate.Overlaps(&existing[i]) {
			colliding = append(colliding, existing[i])
		}
	}

	if len(colliding) == 0 {
		return Result{Produced: []domain.TimeEntry{candidate}, Colliding: []domain.TimeEntry{}}, nil
	}

	points := make([]boundary, 0, 2+2*len(colliding))
	points = append(points,
		boundary{at: candidate.StartTime, kind: boundaryStart, isCandidate: true},
		boundary{at: candidate.EndTime, kind: boundaryEnd, isCandidate: true},
	)
	for _, c := range colliding {
		points = append(points,
			boundary{at: c.StartTime, kind: boundaryStart},
			boundary{at: c.EndTime, kind: boundaryEnd},
		)
	}
	sortBoundaries(points)

	var produced []domain.TimeEntry
	candidateActive := false
	existingActive := 0

	for i := 0; i < len(points)-1; i++ {
		current, next := points[i], points[i+1]

		switch {
		case current.isCandidate && current.kind == boundaryStart:
			candidateActive = true
		case current.isCandidate && current.kind == boundaryEnd:
			candidateActive = false
		case current.kind == boundaryStart:
			existingActive++
		default:
			existingActive--
		}

		if candidateActive && existingActive == 0 && next.at.After(current.at) {
			produced = append(produced, splitFrom(candidate, current.at, next.at))
		}
	}

	return Result{Produced: produced, Colliding: colliding}, nil
}

func sortBoundaries(points []boundary) {
	sort.SliceStable(points, func(i, j int) bool {
		if !points[i].at.Equal(points[j].at) {
			return points[i].at.Before(points[j].at)
		}
		return points[i].kind < points[j].kind
	})
}

// splitFrom clones candidate onto [start, end) with a fresh identity.
func splitFrom(candidate domain.TimeEntry, start, end time.Time) domain.TimeEntry {
	part := candidate
	part.ID = newID()
	part.StartTime = start
	part.EndTime = end
	part.ActiveSeconds = roundSeconds(end.Sub(start))
	part.PayoutID = clonePtr(candidate.PayoutID)
	part.SingleCashFlowID = clonePtr(candidate.SingleCashFlowID)
	part.Memo = clonePtr(candidate.Memo)
	part.TimeFragmentsInterval = clonePtr(candidate.TimeFragmentsInterval)
	return part
}

func roundSeconds(d time.Duration) int {
	return int(math.Round(d.Seconds()))
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
