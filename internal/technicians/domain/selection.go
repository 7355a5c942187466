// Package domain holds the technician capacity and selection rules.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is derived from workload, never stored.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusBusy      Status = "BUSY"
)

// Technician is a repair technician with bounded concurrent capacity.
// AvailableFrom is the estimated time the next slot frees when the
// technician is at capacity; it is cleared on every completion.
type Technician struct {
	ID                 uuid.UUID
	Name               string
	Specialty          string
	CertificationLevel int
	Active             bool
	MaxWorkload        int
	CurrentWorkload    int
	AvgRepairHours     float64
	CompletedCount     int
	AvailableFrom      *time.Time
	UpdatedAt          time.Time
}

// DeriveStatus reports the technician's availability from their workload.
func (t Technician) DeriveStatus() Status {
	if t.CurrentWorkload >= t.MaxWorkload {
		return StatusBusy
	}
	return StatusAvailable
}

// CanTakeWork reports whether one more repair fits within capacity.
func (t Technician) CanTakeWork() bool {
	return t.CurrentWorkload < t.MaxWorkload
}

// CanAssignWork reports whether work starting at startTime can be assigned:
// the technician must be active and either have free capacity now, or be at
// capacity with a slot expected to free by startTime.
func (t Technician) CanAssignWork(startTime time.Time) bool {
	if !t.Active {
		return false
	}
	if t.CanTakeWork() {
		return true
	}
	return t.AvailableFrom != nil && !startTime.Before(*t.AvailableFrom)
}

// Matches reports whether the technician satisfies the selection criteria.
// An empty specialty matches anyone; minLevel zero means no certification
// floor.
func (t Technician) Matches(specialty string, minLevel int) bool {
	if !t.Active {
		return false
	}
	if specialty != "" && !strings.EqualFold(t.Specialty, specialty) {
		return false
	}
	return t.CertificationLevel >= minLevel
}

// RecordCompletion folds one finished repair into the completion
// statistics, keeping AvgRepairHours a running average over CompletedCount.
func (t *Technician) RecordCompletion(hours float64) {
	t.AvgRepairHours = (t.AvgRepairHours*float64(t.CompletedCount) + hours) / float64(t.CompletedCount+1)
	t.CompletedCount++
}

// SelectBest picks the technician to assign among those matching the
// specialty and certification floor with free capacity: lowest current
// workload wins, average repair hours breaks ties, id order makes the choice
// deterministic. Returns nil when nobody qualifies.
func SelectBest(candidates []Technician, specialty string, minLevel int) *Technician {
	var best *Technician
	for i := range candidates {
		t := &candidates[i]
		if !t.Matches(specialty, minLevel) || !t.CanTakeWork() {
			continue
		}
		if best == nil || betterThan(t, best) {
			best = t
		}
	}
	return best
}

func betterThan(a, b *Technician) bool {
	if a.CurrentWorkload != b.CurrentWorkload {
		return a.CurrentWorkload < b.CurrentWorkload
	}
	if a.AvgRepairHours != b.AvgRepairHours {
		return a.AvgRepairHours < b.AvgRepairHours
	}
	return a.ID.String() < b.ID.String()
}
