package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func tech(name string, workload, max int, avg float64) Technician {
	return Technician{
		ID:                 uuid.New(),
		Name:               name,
		Specialty:          "BATTERY",
		CertificationLevel: 3,
		Active:             true,
		MaxWorkload:        max,
		CurrentWorkload:    workload,
		AvgRepairHours:     avg,
	}
}

func TestDeriveStatus(t *testing.T) {
	if got := tech("a", 2, 3, 0).DeriveStatus(); got != StatusAvailable {
		t.Fatalf("expected AVAILABLE, got %s", got)
	}
	if got := tech("a", 3, 3, 0).DeriveStatus(); got != StatusBusy {
		t.Fatalf("expected BUSY, got %s", got)
	}
}

func TestSelectBestPrefersLowestWorkload(t *testing.T) {
	a := tech("a", 2, 5, 1.0)
	b := tech("b", 1, 5, 9.0)
	best := SelectBest([]Technician{a, b}, "", 0)
	if best == nil || best.Name != "b" {
		t.Fatalf("expected b, got %+v", best)
	}
}

func TestSelectBestBreaksTiesOnAvgHours(t *testing.T) {
	a := tech("a", 1, 5, 4.5)
	b := tech("b", 1, 5, 2.0)
	best := SelectBest([]Technician{a, b}, "", 0)
	if best == nil || best.Name != "b" {
		t.Fatalf("expected b, got %+v", best)
	}
}

func TestSelectBestSkipsFull(t *testing.T) {
	a := tech("a", 3, 3, 1.0)
	b := tech("b", 4, 5, 8.0)
	best := SelectBest([]Technician{a, b}, "", 0)
	if best == nil || best.Name != "b" {
		t.Fatalf("expected b, got %+v", best)
	}
}

func TestSelectBestNoneAvailable(t *testing.T) {
	a := tech("a", 3, 3, 1.0)
	if best := SelectBest([]Technician{a}, "", 0); best != nil {
		t.Fatalf("expected nil, got %+v", best)
	}
}

func TestSelectBestFiltersBySpecialty(t *testing.T) {
	battery := tech("battery-free", 0, 5, 2.0)
	motor := tech("motor-loaded", 4, 5, 8.0)
	motor.Specialty = "MOTOR"

	best := SelectBest([]Technician{battery, motor}, "MOTOR", 0)
	if best == nil || best.Name != "motor-loaded" {
		t.Fatalf("expected motor-loaded, got %+v", best)
	}
}

func TestSelectBestSpecialtyIsCaseInsensitive(t *testing.T) {
	a := tech("a", 1, 5, 2.0)
	best := SelectBest([]Technician{a}, "battery", 0)
	if best == nil || best.Name != "a" {
		t.Fatalf("expected a, got %+v", best)
	}
}

func TestSelectBestEnforcesCertificationFloor(t *testing.T) {
	junior := tech("junior", 0, 5, 1.0)
	junior.CertificationLevel = 1
	senior := tech("senior", 3, 5, 6.0)
	senior.CertificationLevel = 4

	best := SelectBest([]Technician{junior, senior}, "", 3)
	if best == nil || best.Name != "senior" {
		t.Fatalf("expected senior, got %+v", best)
	}
}

func TestSelectBestSkipsInactive(t *testing.T) {
	inactive := tech("inactive", 0, 5, 1.0)
	inactive.Active = false
	active := tech("active", 2, 5, 3.0)

	best := SelectBest([]Technician{inactive, active}, "", 0)
	if best == nil || best.Name != "active" {
		t.Fatalf("expected active, got %+v", best)
	}
}

func TestCanAssignWorkAtCapacityWithFutureStart(t *testing.T) {
	now := time.Now()
	freeAt := now.Add(4 * time.Hour)
	full := tech("full", 3, 3, 4.0)
	full.AvailableFrom = &freeAt

	if full.CanAssignWork(now) {
		t.Fatal("expected no assignment at capacity for work starting now")
	}
	if !full.CanAssignWork(freeAt) {
		t.Fatal("expected assignment for work starting at the free estimate")
	}
	if !full.CanAssignWork(freeAt.Add(time.Hour)) {
		t.Fatal("expected assignment for work starting after the free estimate")
	}
}

func TestCanAssignWorkNoEstimate(t *testing.T) {
	full := tech("full", 3, 3, 0)
	if full.CanAssignWork(time.Now().Add(24 * time.Hour)) {
		t.Fatal("expected no assignment without a free estimate")
	}
}

func TestCanAssignWorkInactive(t *testing.T) {
	idle := tech("idle", 0, 5, 0)
	idle.Active = false
	if idle.CanAssignWork(time.Now()) {
		t.Fatal("expected no assignment for inactive technician")
	}
}

func TestRecordCompletionRunningAverage(t *testing.T) {
	tc := tech("a", 1, 5, 4.0)
	tc.CompletedCount = 2

	tc.RecordCompletion(10.0)

	if tc.CompletedCount != 3 {
		t.Fatalf("expected completed count 3, got %d", tc.CompletedCount)
	}
	if tc.AvgRepairHours != 6.0 {
		t.Fatalf("expected average 6.0, got %v", tc.AvgRepairHours)
	}
}

func TestRecordCompletionFirstRepair(t *testing.T) {
	tc := tech("a", 1, 5, 0)
	tc.RecordCompletion(3.5)
	if tc.CompletedCount != 1 || tc.AvgRepairHours != 3.5 {
		t.Fatalf("expected count 1 avg 3.5, got %d %v", tc.CompletedCount, tc.AvgRepairHours)
	}
}
