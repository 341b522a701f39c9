package ledger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"budgetapp/internal/core"
	"budgetapp/internal/log"
	"budgetapp/internal/session"
	"budgetapp/internal/store"
	"budgetapp/internal/store/memory"
)

func TestMutationsNeedAccount(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	l := New(store.NewPersister(mem, log.Discard()), log.Discard())

	if _, err := l.Add(ctx, core.ExpenseInput{Amount: "5", Category: "Autres"}); !errors.Is(err, core.ErrNoSession) {
		t.Fatalf("Add() error = %v, want ErrNoSession", err)
	}
	if err := l.SetMonthlyBudget(ctx, core.Money{Cents: 1000}); !errors.Is(err, core.ErrNoSession) {
		t.Fatalf("SetMonthlyBudget() error = %v, want ErrNoSession", err)
	}
	if _, err := l.SetMonthlyBudgetString(ctx, "10"); !errors.Is(err, core.ErrNoSession) {
		t.Fatalf("SetMonthlyBudgetString() error = %v, want ErrNoSession", err)
	}
	if _, err := l.Update(ctx, 1, core.ExpenseInput{Amount: "5", Category: "Autres"}); !errors.Is(err, core.ErrNoSession) {
		t.Fatalf("Update() error = %v, want ErrNoSession", err)
	}
	if err := l.Delete(ctx, 1); !errors.Is(err, core.ErrNoSession) {
		t.Fatalf("Delete() error = %v, want ErrNoSession", err)
	}
	if keys := mem.Keys(); len(keys) != 0 {
		t.Fatalf("store written without an account: %v", keys)
	}

	// Reads stay available and report defaults.
	if n := len(l.List(ctx)); n != 0 {
		t.Fatalf("List() = %d entries", n)
	}
	if st := l.Status(ctx); st.BudgetSet {
		t.Fatalf("Status() = %+v", st)
	}
}

// pausingStore blocks the first expenses read after it is armed until
// release is closed.
type pausingStore struct {
	store.Store
	armed   atomic.Bool
	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func (s *pausingStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := s.Store.Get(ctx, key)
	if key == store.KeyExpenses && s.armed.Load() {
		s.once.Do(func() {
			close(s.reached)
			<-s.release
		})
	}
	return v, ok, err
}

func TestLogoutWaitsForInFlightAdd(t *testing.T) {
	ctx := context.Background()
	ps := &pausingStore{
		Store:   memory.NewWithData(withAccount(nil)),
		reached: make(chan struct{}),
		release: make(chan struct{}),
	}
	p := store.NewPersister(ps, log.Discard())
	l := New(p, log.Discard())
	svc := session.NewService(p, log.Discard())

	ps.armed.Store(true)
	added := make(chan error, 1)
	go func() {
		_, err := l.Add(ctx, core.ExpenseInput{Amount: "5", Category: "Autres"})
		added <- err
	}()
	<-ps.reached

	loggedOut := make(chan error, 1)
	go func() { loggedOut <- svc.Logout(ctx) }()

	select {
	case err := <-loggedOut:
		t.Fatalf("Logout() returned (%v) while an Add was mid-write", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(ps.release)
	if err := <-added; err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := <-loggedOut; err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	for _, k := range []string{store.KeyUser, store.KeyBudget, store.KeyExpenses} {
		if _, ok, _ := ps.Store.Get(ctx, k); ok {
			t.Fatalf("%s present after logout", k)
		}
	}
	if n := len(l.List(ctx)); n != 0 {
		t.Fatalf("List() after logout = %d entries", n)
	}
}
