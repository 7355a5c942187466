package domain

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeMonths(t *testing.T) {
	cases := []struct {
		registered time.Time
		asOf       time.Time
		want       int
	}{
		{date(2023, time.January, 15), date(2023, time.January, 15), 0},
		{date(2023, time.January, 15), date(2023, time.February, 14), 0},
		{date(2023, time.January, 15), date(2023, time.February, 15), 1},
		{date(2022, time.June, 1), date(2025, time.October, 1), 40},
		{date(2025, time.June, 1), date(2024, time.June, 1), 0},
	}

	for _, tc := range cases {
		v := VehicleSnapshot{RegisteredAt: tc.registered}
		if got := v.AgeMonths(tc.asOf); got != tc.want {
			t.Fatalf("AgeMonths(%s, %s) = %d, want %d", tc.registered, tc.asOf, got, tc.want)
		}
	}
}

func TestEvaluateNoPolicyFound(t *testing.T) {
	v := VehicleSnapshot{Model: "EVX-7", RegisteredAt: date(2024, time.March, 1), MileageKm: 1000}
	verdict := Evaluate(v, nil, date(2025, time.March, 1))

	if verdict.Eligible {
		t.Fatal("verdict without a policy must be ineligible")
	}
	if len(verdict.Reasons) != 1 || verdict.Reasons[0] != ReasonNoPolicyFound {
		t.Fatalf("reasons = %v, want [%s]", verdict.Reasons, ReasonNoPolicyFound)
	}
}

// Vehicle registered 40 months ago against 36 months / 60,000 km coverage at
// 50,000 km: ineligible with a time-based exceedance.
func TestEvaluateTimeExceeded(t *testing.T) {
	asOf := date(2025, time.October, 1)
	v := VehicleSnapshot{
		Model:        "EVX-7",
		RegisteredAt: date(2022, time.June, 1), // 40 months before asOf
		MileageKm:    50000,
	}
	cond := &Condition{
		VehicleModel:  "EVX-7",
		CoverageYears: 3,
		CoverageKm:    60000,
		EffectiveFrom: date(2020, time.January, 1),
	}

	verdict := Evaluate(v, cond, asOf)

	if verdict.Eligible {
		t.Fatal("40-month-old vehicle must be ineligible under 36-month coverage")
	}
	if len(verdict.Reasons) != 1 || !strings.HasPrefix(verdict.Reasons[0], ReasonTimeExceeded) {
		t.Fatalf("reasons = %v, want single %s reason", verdict.Reasons, ReasonTimeExceeded)
	}
	if verdict.AppliedCoverageYears != 3 || verdict.AppliedCoverageKm != 60000 {
		t.Fatalf("applied coverage = %d years / %d km, want 3 / 60000",
			verdict.AppliedCoverageYears, verdict.AppliedCoverageKm)
	}
}

func TestEvaluateBothLimitsExceededOrdersTimeFirst(t *testing.T) {
	asOf := date(2025, time.October, 1)
	v := VehicleSnapshot{
		RegisteredAt: date(2021, time.January, 1),
		MileageKm:    90000,
	}
	cond := &Condition{CoverageYears: 3, CoverageKm: 60000, EffectiveFrom: date(2020, time.January, 1)}

	verdict := Evaluate(v, cond, asOf)

	if verdict.Eligible {
		t.Fatal("want ineligible")
	}
	if len(verdict.Reasons) != 2 {
		t.Fatalf("want 2 reasons, got %v", verdict.Reasons)
	}
	if !strings.HasPrefix(verdict.Reasons[0], ReasonTimeExceeded) || !strings.HasPrefix(verdict.Reasons[1], ReasonKmExceeded) {
		t.Fatalf("reason order wrong: %v", verdict.Reasons)
	}
}

func TestEvaluateEligible(t *testing.T) {
	asOf := date(2025, time.January, 1)
	v := VehicleSnapshot{RegisteredAt: date(2023, time.June, 1), MileageKm: 20000}
	cond := &Condition{CoverageYears: 3, CoverageKm: 60000, EffectiveFrom: date(2020, time.January, 1)}

	verdict := Evaluate(v, cond, asOf)

	if !verdict.Eligible {
		t.Fatalf("want eligible, reasons: %v", verdict.Reasons)
	}
	if len(verdict.Reasons) != 1 || verdict.Reasons[0] != ReasonWithinLimits {
		t.Fatalf("reasons = %v", verdict.Reasons)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	asOf := date(2025, time.October, 1)
	v := VehicleSnapshot{RegisteredAt: date(2022, time.June, 1), MileageKm: 70000}
	cond := &Condition{CoverageYears: 3, CoverageKm: 60000, EffectiveFrom: date(2020, time.January, 1)}

	first := Evaluate(v, cond, asOf)
	second := Evaluate(v, cond, asOf)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("verdicts differ: %+v vs %+v", first, second)
	}
}

func TestResolveConditionPicksActiveModelMatch(t *testing.T) {
	asOf := date(2025, time.June, 1)
	end := date(2024, time.December, 31)
	conds := []Condition{
		{ID: uuid.New(), VehicleModel: "EVX-7", CoverageYears: 2, EffectiveFrom: date(2020, time.January, 1), EffectiveTo: &end},
		{ID: uuid.New(), VehicleModel: "EVX-9", CoverageYears: 5, EffectiveFrom: date(2020, time.January, 1)},
		{ID: uuid.New(), VehicleModel: "EVX-7", CoverageYears: 3, EffectiveFrom: date(2025, time.January, 1)},
	}

	got := ResolveCondition(conds, "EVX-7", asOf)
	if got == nil || got.CoverageYears != 3 {
		t.Fatalf("ResolveCondition picked %+v, want the active EVX-7 condition", got)
	}
}

func TestResolveConditionMostRecentlyUpdatedWins(t *testing.T) {
	asOf := date(2025, time.June, 1)
	older := Condition{ID: uuid.New(), VehicleModel: "EVX-7", CoverageYears: 2,
		EffectiveFrom: date(2020, time.January, 1), UpdatedAt: date(2024, time.January, 1)}
	newer := Condition{ID: uuid.New(), VehicleModel: "EVX-7", CoverageYears: 4,
		EffectiveFrom: date(2020, time.January, 1), UpdatedAt: date(2025, time.January, 1)}

	got := ResolveCondition([]Condition{older, newer}, "EVX-7", asOf)
	if got == nil || got.ID != newer.ID {
		t.Fatalf("ResolveCondition picked %+v, want the most recently updated condition", got)
	}
}

func TestResolveConditionNoMatch(t *testing.T) {
	asOf := date(2025, time.June, 1)
	conds := []Condition{
		{VehicleModel: "EVX-9", CoverageYears: 5, EffectiveFrom: date(2020, time.January, 1)},
	}
	if got := ResolveCondition(conds, "EVX-7", asOf); got != nil {
		t.Fatalf("ResolveCondition = %+v, want nil", got)
	}
}
