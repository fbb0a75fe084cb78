package services

import "testing"

func TestFormatMagnitude(t *testing.T) {
	tests := []struct {
		value  float64
		prefix string
		want   string
	}{
		{500, "R$", "R$ 500.00 "},
		{0, "R$", "R$ 0.00 "},
		{999.994, "R$", "R$ 999.99 "},
		{1500, "R$", "R$ 1.50 mil"},
		{999_999, "R$", "R$ 1000.00 mil"},
		{2_500_000, "R$", "R$ 2.50 Milhões"},
		{5_000_000_000, "R$", "R$ 5000.00 Milhões"},
		{9436, "", " 9.44 mil"},
	}

	for _, tt := range tests {
		if got := FormatMagnitude(tt.value, tt.prefix); got != tt.want {
			t.Errorf("FormatMagnitude(%v, %q) = %q, want %q", tt.value, tt.prefix, got, tt.want)
		}
	}
}
