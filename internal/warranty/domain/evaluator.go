// Package domain provides the pure warranty-eligibility rules: policy
// condition resolution and the coverage verdict. No I/O happens here, which
// keeps verdicts deterministic for identical inputs.
package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Reason codes emitted in verdicts. Each reason line starts with its code so
// callers can match on the prefix while still showing the detail.
const (
	ReasonNoPolicyFound = "NO_POLICY_FOUND"
	ReasonTimeExceeded  = "COVERAGE_TIME_EXCEEDED"
	ReasonKmExceeded    = "COVERAGE_KM_EXCEEDED"
	ReasonWithinLimits  = "WITHIN_COVERAGE_LIMITS"
)

// Condition is one warranty policy condition for a vehicle model, valid for a
// date window. EffectiveTo nil means unbounded.
type Condition struct {
	ID            uuid.UUID
	PolicyID      uuid.UUID
	VehicleModel  string
	CoverageYears int
	CoverageKm    int
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	UpdatedAt     time.Time
}

// activeOn reports whether the condition covers the given date.
func (c Condition) activeOn(day time.Time) bool {
	if day.Before(c.EffectiveFrom) {
		return false
	}
	if c.EffectiveTo != nil && day.After(*c.EffectiveTo) {
		return false
	}
	return true
}

// VehicleSnapshot is the vehicle state the evaluator judges.
type VehicleSnapshot struct {
	Model        string
	RegisteredAt time.Time
	MileageKm    int
}

// AgeMonths returns the vehicle's age in whole months as of the given date.
func (v VehicleSnapshot) AgeMonths(asOf time.Time) int {
	if asOf.Before(v.RegisteredAt) {
		return 0
	}
	years := asOf.Year() - v.RegisteredAt.Year()
	months := int(asOf.Month()) - int(v.RegisteredAt.Month())
	total := years*12 + months
	if asOf.Day() < v.RegisteredAt.Day() {
		total--
	}
	if total < 0 {
		return 0
	}
	return total
}

// Verdict is the eligibility outcome. Reasons are ordered: time check first,
// then mileage.
type Verdict struct {
	Eligible             bool
	Reasons              []string
	AppliedCoverageYears int
	AppliedCoverageKm    int
}

// ResolveCondition picks the condition governing the vehicle model as of the
// given date: active window, exact model match, most recently updated wins
// when several qualify. Returns nil when none applies.
func ResolveCondition(conditions []Condition, model string, asOf time.Time) *Condition {
	matches := make([]Condition, 0, len(conditions))
	for _, c := range conditions {
		if c.VehicleModel == model && c.activeOn(asOf) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].UpdatedAt.After(matches[j].UpdatedAt)
	})
	winner := matches[0]
	return &winner
}

// Evaluate produces the eligibility verdict for a vehicle against a resolved
// condition. A nil condition yields NO_POLICY_FOUND.
func Evaluate(vehicle VehicleSnapshot, cond *Condition, asOf time.Time) Verdict {
	if cond == nil {
		return Verdict{
			Eligible: false,
			Reasons:  []string{ReasonNoPolicyFound},
		}
	}

	ageMonths := vehicle.AgeMonths(asOf)
	coverageMonths := cond.CoverageYears * 12

	verdict := Verdict{
		Eligible:             true,
		AppliedCoverageYears: cond.CoverageYears,
		AppliedCoverageKm:    cond.CoverageKm,
	}

	if ageMonths > coverageMonths {
		verdict.Eligible = false
		verdict.Reasons = append(verdict.Reasons, fmt.Sprintf(
			"%s: vehicle age %d months exceeds coverage of %d months",
			ReasonTimeExceeded, ageMonths, coverageMonths))
	}
	if vehicle.MileageKm > cond.CoverageKm {
		verdict.Eligible = false
		verdict.Reasons = append(verdict.Reasons, fmt.Sprintf(
			"%s: mileage %d km exceeds coverage of %d km",
			ReasonKmExceeded, vehicle.MileageKm, cond.CoverageKm))
	}
	if verdict.Eligible {
		verdict.Reasons = append(verdict.Reasons, ReasonWithinLimits)
	}
	return verdict
}
