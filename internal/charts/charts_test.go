package charts

import (
	"bytes"
	"errors"
	"testing"

	"budgetapp/internal/core"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestCategoryPie(t *testing.T) {
	var buf bytes.Buffer
	parts := []core.CategoryAmount{
		{Category: core.Transport, Amount: core.Money{Cents: 5000}},
		{Category: core.Alimentation, Amount: core.Money{Cents: 3000}},
	}
	if err := NewRenderer().CategoryPie(&buf, parts); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatalf("output is not a PNG")
	}
}

func TestExpenseBars(t *testing.T) {
	var buf bytes.Buffer
	expenses := []core.Expense{
		{ID: 1, Amount: core.Money{Cents: 1250}, Category: core.Loisirs},
		{ID: 2, Amount: core.Money{Cents: 800}, Category: core.Sante},
		{ID: 3, Amount: core.Money{Cents: 4000}, Category: core.Logement},
	}
	if err := NewRenderer().ExpenseBars(&buf, expenses); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatalf("output is not a PNG")
	}
}

func TestEmptyInput(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer()
	if err := r.CategoryPie(&buf, nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if err := r.ExpenseBars(&buf, nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written on error")
	}
}

func TestBarLayoutFitsCanvas(t *testing.T) {
	for _, n := range []int{1, 3, 20, 200} {
		w, s := barLayout(800, n)
		if w < 2 || s < 1 {
			t.Fatalf("n=%d: degenerate layout %d/%d", n, w, s)
		}
		if n <= 20 && n*w+(n-1)*s > 800-150 {
			t.Fatalf("n=%d: layout overflows canvas (%d/%d)", n, w, s)
		}
	}
}
