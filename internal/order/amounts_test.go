package order

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		amount string
		want   int64
	}{
		{"0", 0},
		{"100.00", 10000},
		{"12.345", 1235},
		{"12.344", 1234},
		{"0.005", 1},
		{"-5.555", -556},
		{"19.99", 1999},
	}

	for _, c := range cases {
		got := ToMinorUnits(decimal.RequireFromString(c.amount))
		if got != c.want {
			t.Errorf("ToMinorUnits(%s) = %d, want %d", c.amount, got, c.want)
		}
	}
}

func TestEncodeTaxRate(t *testing.T) {
	cases := []struct {
		rate string
		want int64
	}{
		{"0", 0},
		{"0.2", 2000},
		{"0.25", 2500},
		{"0.077", 770},
		{"0.19", 1900},
	}

	for _, c := range cases {
		got := EncodeTaxRate(decimal.RequireFromString(c.rate))
		if got != c.want {
			t.Errorf("EncodeTaxRate(%s) = %d, want %d", c.rate, got, c.want)
		}
	}
}

func TestTaxFromGross(t *testing.T) {
	cases := []struct {
		total int64
		rate  int64
		want  int64
	}{
		{10000, 2000, 1667}, // 100.00 gross at 20%: net 83.33, tax 16.67
		{12000, 2000, 2000},
		{10000, 0, 0},
		{0, 2000, 0},
		{2500, 2500, 500},
	}

	for _, c := range cases {
		got := TaxFromGross(c.total, c.rate)
		if got != c.want {
			t.Errorf("TaxFromGross(%d, %d) = %d, want %d", c.total, c.rate, got, c.want)
		}
	}
}

func TestFromMinorUnits(t *testing.T) {
	got := FromMinorUnits(1999)
	if !got.Equal(decimal.RequireFromString("19.99")) {
		t.Errorf("FromMinorUnits(1999) = %s, want 19.99", got)
	}
}
