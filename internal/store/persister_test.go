package store_test

import (
	"context"
	"errors"
	"testing"

	"budgetapp/internal/core"
	"budgetapp/internal/log"
	"budgetapp/internal/store"
	"budgetapp/internal/store/memory"
)

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingStore) Set(context.Context, string, string) error         { return f.err }
func (f failingStore) Delete(context.Context, string) error              { return f.err }
func (f failingStore) Clear(context.Context) error                       { return f.err }

func TestPersisterSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	p := store.NewPersister(mem, log.Discard())

	in := core.Budget{Monthly: core.Money{Cents: 12345}}
	if err := p.Save(ctx, store.KeyBudget, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, _, _ := mem.Get(ctx, store.KeyBudget)
	if raw != `{"monthly":123.45}` {
		t.Fatalf("unexpected encoding %s", raw)
	}

	var out core.Budget
	if !p.Load(ctx, store.KeyBudget, &out) || out != in {
		t.Fatalf("unexpected load %+v", out)
	}
}

func TestPersisterLoadFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewWithData(map[string]string{
		store.KeyExpenses: `[{"id":1,"amount":"oops"}`,
		store.KeyBudget:   `{"monthly":"abc"}`,
		store.KeyUser:     `null`,
	})
	p := store.NewPersister(mem, log.Discard())

	def := []core.Expense{}
	got := store.LoadOr(ctx, p, store.KeyExpenses, def)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected default for truncated JSON, got %v", got)
	}

	b := core.Budget{Monthly: core.Money{Cents: 1}}
	if p.Load(ctx, store.KeyBudget, &b) {
		t.Fatalf("expected malformed budget to be rejected")
	}
	if b.Monthly.Cents != 1 {
		t.Fatalf("destination modified on failed load: %+v", b)
	}

	var u core.User
	if p.Load(ctx, store.KeyUser, &u) {
		t.Fatalf("null must read as absent")
	}
	if p.Load(ctx, "missing", &u) {
		t.Fatalf("missing key must read as absent")
	}
}

func TestPersisterBackendErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("backend down")
	p := store.NewPersister(failingStore{err: boom}, log.Discard())

	var b core.Budget
	if p.Load(ctx, store.KeyBudget, &b) {
		t.Fatalf("expected read failure to degrade to default")
	}
	if err := p.Save(ctx, store.KeyBudget, b); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	if err := p.Clear(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
}
