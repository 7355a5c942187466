package service

import "testing"

func TestNormalizeSKU(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already normalized", "EV-BAT-001", "EV-BAT-001"},
		{"lowercase", "ev-bat-001", "EV-BAT-001"},
		{"spaces become hyphens", "ev bat 001", "EV-BAT-001"},
		{"strips special characters", "ev_bat@001!", "EVBAT001"},
		{"trims surrounding whitespace", "  EV-001  ", "EV-001"},
		{"trims leading and trailing hyphens", "-EV-001-", "EV-001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeSKU(tt.in); got != tt.want {
				t.Fatalf("normalizeSKU(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
