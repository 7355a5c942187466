package service

import (
	"context"
	"testing"

	"evwarranty_backend/internal/workorders/repository"
	"evwarranty_backend/internal/workorders/transport"
	"evwarranty_backend/platform/apperr"
)

func TestPartsTotalCents(t *testing.T) {
	tests := []struct {
		name  string
		parts []repository.PartLine
		want  int64
	}{
		{"empty", nil, 0},
		{"single", []repository.PartLine{{Quantity: 1, UnitCents: 12_50}}, 12_50},
		{"quantity multiplies", []repository.PartLine{{Quantity: 3, UnitCents: 4_99}}, 14_97},
		{"multiple lines", []repository.PartLine{
			{Quantity: 2, UnitCents: 100_00},
			{Quantity: 1, UnitCents: 35_25},
		}, 235_25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := partsTotalCents(tt.parts); got != tt.want {
				t.Fatalf("partsTotalCents() = %d, want %d", got, tt.want)
			}
		})
	}
}

type fakePricer struct {
	prices map[string]PartPrice
}

func (f fakePricer) PriceBySKU(_ context.Context, sku string) (PartPrice, error) {
	price, ok := f.prices[sku]
	if !ok {
		return PartPrice{}, apperr.NotFound("part not found")
	}
	return price, nil
}

func TestPricePartsResolvesFromCatalog(t *testing.T) {
	svc := &Service{pricer: fakePricer{prices: map[string]PartPrice{
		"PMP-COOL-01": {Name: "coolant pump", UnitCents: 89_00},
		"BAT-CELL-12": {Name: "cell module", UnitCents: 420_00},
	}}}

	got, err := svc.priceParts(context.Background(), []transport.PartLineRequest{
		{SKU: "PMP-COOL-01", Source: repository.SourceOEM, Quantity: 1},
		{SKU: "BAT-CELL-12", Source: repository.SourceThirdParty, Quantity: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got))
	}
	if got[0].Name != "coolant pump" || got[0].UnitCents != 89_00 || got[0].Source != repository.SourceOEM {
		t.Fatalf("unexpected line: %+v", got[0])
	}
	if got[1].Quantity != 2 || got[1].UnitCents != 420_00 {
		t.Fatalf("unexpected line: %+v", got[1])
	}

	empty, err := svc.priceParts(context.Background(), nil)
	if err != nil || empty != nil {
		t.Fatalf("expected nil for empty input, got %v %v", empty, err)
	}
}

func TestPricePartsUnknownSKU(t *testing.T) {
	svc := &Service{pricer: fakePricer{prices: map[string]PartPrice{}}}

	_, err := svc.priceParts(context.Background(), []transport.PartLineRequest{
		{SKU: "NOPE-01", Source: repository.SourceOEM, Quantity: 1},
	})
	if err == nil {
		t.Fatal("expected error for unknown SKU")
	}
}
