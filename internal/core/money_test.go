package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{".5", 50, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"0.001", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{".", 0, false},
		{"1000000000", MaxAmountCents, true},
		{"1000000000.01", 0, false},
		{"50000000000000000", 0, false},
		{"1e12", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{
		0:     "0.00",
		5:     "0.05",
		1234:  "12.34",
		-2050: "-20.50",
		-7:    "-0.07",
	}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).String(); got != want {
			t.Fatalf("%d: expected %q, got %q", cents, want, got)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 1999})
	if err != nil || string(b) != "19.99" {
		t.Fatalf("marshal: %s %v", b, err)
	}

	inputs := map[string]int64{
		`19.99`:   1999,
		`"19,99"`: 1999,
		`50`:      5000,
		`-3.5`:    -350,
		`0.1`:     10,
		`1e2`:     10000,
	}
	for in, want := range inputs {
		var m Money
		if err := json.Unmarshal([]byte(in), &m); err != nil {
			t.Fatalf("%s: unexpected error %v", in, err)
		}
		if m.Cents != want {
			t.Fatalf("%s: expected %d cents, got %d", in, want, m.Cents)
		}
	}

	var m Money
	if err := json.Unmarshal([]byte(`"abc"`), &m); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
}

func TestMoneyRepeatedArithmeticIsExact(t *testing.T) {
	var total Money
	step := Money{Cents: 10} // 0.10
	for i := 0; i < 1000; i++ {
		total = total.Add(step)
	}
	for i := 0; i < 999; i++ {
		total = total.Sub(step)
	}
	if total.Cents != 10 {
		t.Fatalf("expected 10 cents, got %d", total.Cents)
	}
}

func TestMaxAmountsSumWithoutOverflow(t *testing.T) {
	max, err := ParseMoney("1000000000")
	if err != nil {
		t.Fatalf("ParseMoney() error = %v", err)
	}
	var total Money
	for i := 0; i < 1000; i++ {
		total = total.Add(max)
	}
	if total.Cents != 1000*MaxAmountCents || total.Cents <= 0 {
		t.Fatalf("total = %d", total.Cents)
	}
	if err := (Money{Cents: MaxAmountCents + 1}).Validate(); err == nil {
		t.Fatal("Validate() accepted an amount above the cap")
	}
}
