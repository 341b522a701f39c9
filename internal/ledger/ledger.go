// Package ledger holds the expense ledger and the monthly budget record.
//
// Every mutation is a read-modify-write of the persisted expense array under
// the persister lock, which the session service shares. Mutations need a
// stored account and fail with ErrNoSession otherwise. Reads of missing or
// corrupt data behave as an empty ledger.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"budgetapp/internal/core"
	"budgetapp/internal/log"
	"budgetapp/internal/store"
)

// AllCategories is the category filter value that matches every expense.
const AllCategories = "all"

// Observer is notified of ledger outcomes; metrics hook in here.
type Observer interface {
	LedgerEvent(op string, err error)
}

type Ledger struct {
	persist  *store.Persister
	clock    func() time.Time
	logger   *log.Logger
	observer Observer
}

type Option func(*Ledger)

// WithClock replaces time.Now for id, timestamp and default-date generation.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) { l.clock = clock }
}

// WithObserver registers an observer for ledger events.
func WithObserver(o Observer) Option {
	return func(l *Ledger) { l.observer = o }
}

func New(p *store.Persister, logger *log.Logger, opts ...Option) *Ledger {
	if logger == nil {
		logger = log.Default(log.ComponentLedger)
	}
	l := &Ledger{
		persist: p,
		clock:   time.Now,
		logger:  logger.WithComponent(log.ComponentLedger),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) load(ctx context.Context) []core.Expense {
	return store.LoadOr(ctx, l.persist, store.KeyExpenses, []core.Expense{})
}

// requireAccount fails with ErrNoSession when no account is stored. Callers
// hold the persister lock.
func (l *Ledger) requireAccount(ctx context.Context, op string) error {
	var user core.User
	if !l.persist.Load(ctx, store.KeyUser, &user) || user.Email == "" {
		l.logger.WarnContext(ctx, "Ledger change rejected, no account",
			log.FieldOperation, op, log.FieldErrorType, log.ErrorTypeAuth)
		return core.ErrNoSession
	}
	return nil
}

func (l *Ledger) save(ctx context.Context, items []core.Expense) error {
	if items == nil {
		items = []core.Expense{}
	}
	return l.persist.Save(ctx, store.KeyExpenses, items)
}

// Add validates the input, assigns a fresh id and creation timestamp and
// appends the expense.
func (l *Ledger) Add(ctx context.Context, in core.ExpenseInput) (e core.Expense, err error) {
	defer func() { l.notify(log.OpCreate, err) }()

	now := l.clock()
	e, err = in.Expense(now)
	if err != nil {
		l.logger.WarnContext(ctx, "Expense rejected",
			log.NewFields().WithOperation(log.OpCreate).WithError(err).WithErrorType(log.ErrorTypeValidation).ToSlice()...)
		return core.Expense{}, err
	}

	l.persist.Lock()
	defer l.persist.Unlock()

	if err := l.requireAccount(ctx, log.OpCreate); err != nil {
		return core.Expense{}, err
	}
	items := l.load(ctx)
	e.ID = nextID(items, now)
	e.Timestamp = now.UnixMilli()
	items = append(items, e)
	if err := l.save(ctx, items); err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}

	l.logger.InfoContext(ctx, "Expense added",
		log.NewFields().WithOperation(log.OpCreate).WithExpense(e.ID, e.Amount.Cents, e.Category.String()).ToSlice()...)
	return e, nil
}

// Update replaces amount, category, date and note of the expense with the
// given id. The id and the creation timestamp never change; an empty date
// keeps the current one.
func (l *Ledger) Update(ctx context.Context, id int64, in core.ExpenseInput) (e core.Expense, err error) {
	defer func() { l.notify(log.OpUpdate, err) }()

	l.persist.Lock()
	defer l.persist.Unlock()

	if err := l.requireAccount(ctx, log.OpUpdate); err != nil {
		return core.Expense{}, err
	}
	items := l.load(ctx)
	idx := indexOf(items, id)
	if idx < 0 {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	current := items[idx]

	e, err = in.Expense(current.Date.Time)
	if err != nil {
		return core.Expense{}, err
	}
	e.ID = current.ID
	e.Timestamp = current.Timestamp
	items[idx] = e
	if err := l.save(ctx, items); err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	l.logger.InfoContext(ctx, "Expense updated",
		log.NewFields().WithOperation(log.OpUpdate).WithExpense(e.ID, e.Amount.Cents, e.Category.String()).ToSlice()...)
	return e, nil
}

// Delete removes the expense with the given id. An unknown id leaves the
// ledger untouched and returns ErrNotFound.
func (l *Ledger) Delete(ctx context.Context, id int64) (err error) {
	defer func() { l.notify(log.OpDelete, err) }()

	l.persist.Lock()
	defer l.persist.Unlock()

	if err := l.requireAccount(ctx, log.OpDelete); err != nil {
		return err
	}
	items := l.load(ctx)
	idx := indexOf(items, id)
	if idx < 0 {
		return fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	items = append(items[:idx], items[idx+1:]...)
	if err := l.save(ctx, items); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	l.logger.InfoContext(ctx, "Expense deleted", log.FieldOperation, log.OpDelete, log.FieldExpenseID, id)
	return nil
}

// Get returns the expense with the given id.
func (l *Ledger) Get(ctx context.Context, id int64) (core.Expense, error) {
	l.persist.Lock()
	defer l.persist.Unlock()
	items := l.load(ctx)
	if idx := indexOf(items, id); idx >= 0 {
		return items[idx], nil
	}
	return core.Expense{}, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
}

// List returns the ledger in stored (insertion) order.
func (l *Ledger) List(ctx context.Context) []core.Expense {
	l.persist.Lock()
	defer l.persist.Unlock()
	return l.load(ctx)
}

// Filter returns the expenses matching search and category, newest first.
func (l *Ledger) Filter(ctx context.Context, search, category string) []core.Expense {
	return FilterExpenses(l.List(ctx), search, category)
}

// TotalSpent sums every expense in the ledger.
func (l *Ledger) TotalSpent(ctx context.Context) core.Money {
	return Total(l.List(ctx))
}

// ByCategory sums the ledger per category in first-seen order.
func (l *Ledger) ByCategory(ctx context.Context) []core.CategoryAmount {
	return Aggregate(l.List(ctx))
}

func (l *Ledger) notify(op string, err error) {
	if l.observer != nil {
		l.observer.LedgerEvent(op, err)
	}
}

// FilterExpenses keeps the expenses whose note or category contains search
// (case-insensitive) and whose category equals category, unless category is
// "all" or empty. The result is ordered by timestamp, most recent first.
func FilterExpenses(items []core.Expense, search, category string) []core.Expense {
	needle := strings.ToLower(strings.TrimSpace(search))
	category = strings.TrimSpace(category)
	matchAll := category == "" || strings.EqualFold(category, AllCategories)

	out := make([]core.Expense, 0, len(items))
	for _, e := range items {
		if !matchAll && string(e.Category) != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Note), needle) &&
			!strings.Contains(strings.ToLower(string(e.Category)), needle) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp > out[j].Timestamp
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Total sums the amounts of items.
func Total(items []core.Expense) core.Money {
	var total core.Money
	for _, e := range items {
		total = total.Add(e.Amount)
	}
	return total
}

// Aggregate sums items per category, keeping the order in which each
// category first appears.
func Aggregate(items []core.Expense) []core.CategoryAmount {
	out := []core.CategoryAmount{}
	pos := make(map[core.Category]int)
	for _, e := range items {
		i, ok := pos[e.Category]
		if !ok {
			i = len(out)
			pos[e.Category] = i
			out = append(out, core.CategoryAmount{Category: e.Category})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	return out
}

// nextID derives an id from the creation time, bumped past every existing id.
func nextID(items []core.Expense, now time.Time) int64 {
	id := now.UnixMilli()
	for _, e := range items {
		if e.ID >= id {
			id = e.ID + 1
		}
	}
	return id
}

func indexOf(items []core.Expense, id int64) int {
	for i, e := range items {
		if e.ID == id {
			return i
		}
	}
	return -1
}
