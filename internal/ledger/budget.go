package ledger

import (
	"context"
	"fmt"

	"budgetapp/internal/core"
	"budgetapp/internal/log"
	"budgetapp/internal/store"
)

// SetMonthlyBudget replaces the stored budget ceiling. It needs a stored account.
func (l *Ledger) SetMonthlyBudget(ctx context.Context, amount core.Money) (err error) {
	defer func() { l.notify(log.OpBudget, err) }()

	b := core.Budget{Monthly: amount}
	if err := b.Validate(); err != nil {
		l.logger.WarnContext(ctx, "Budget rejected",
			log.FieldAmountCents, amount.Cents, log.FieldErrorType, log.ErrorTypeValidation)
		return err
	}

	l.persist.Lock()
	defer l.persist.Unlock()
	if err := l.requireAccount(ctx, log.OpBudget); err != nil {
		return err
	}
	if err := l.persist.Save(ctx, store.KeyBudget, b); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	l.logger.InfoContext(ctx, "Monthly budget set", log.FieldAmountCents, amount.Cents)
	return nil
}

// SetMonthlyBudgetString parses a form value and sets it as the budget.
// Non-numeric and non-positive values fail with ErrInvalidAmount.
func (l *Ledger) SetMonthlyBudgetString(ctx context.Context, amount string) (core.Money, error) {
	m, err := core.ParseMoney(amount)
	if err != nil {
		l.notify(log.OpBudget, err)
		return core.Money{}, err
	}
	if err := l.SetMonthlyBudget(ctx, m); err != nil {
		return core.Money{}, err
	}
	return m, nil
}

// Budget returns the stored budget and whether one is set.
func (l *Ledger) Budget(ctx context.Context) (core.Budget, bool) {
	l.persist.Lock()
	defer l.persist.Unlock()
	return l.budget(ctx)
}

func (l *Ledger) budget(ctx context.Context) (core.Budget, bool) {
	var b core.Budget
	if !l.persist.Load(ctx, store.KeyBudget, &b) || b.Validate() != nil {
		return core.Budget{}, false
	}
	return b, true
}

// Status compares the budget with the total spent.
func (l *Ledger) Status(ctx context.Context) core.BudgetStatus {
	l.persist.Lock()
	defer l.persist.Unlock()
	b, ok := l.budget(ctx)
	return core.NewBudgetStatus(b.Monthly, ok, Total(l.load(ctx)))
}

// RemainingBudget is the budget minus the total spent; it may be negative.
func (l *Ledger) RemainingBudget(ctx context.Context) (core.Money, error) {
	st := l.Status(ctx)
	if !st.BudgetSet {
		return core.Money{}, core.ErrNoBudget
	}
	return st.Remaining, nil
}

// PercentUsed is the total spent as a percentage of the budget, unbounded above 100.
func (l *Ledger) PercentUsed(ctx context.Context) (float64, error) {
	st := l.Status(ctx)
	if !st.BudgetSet {
		return 0, core.ErrNoBudget
	}
	return st.PercentUsed, nil
}

// Overview bundles the budget status with the per-category breakdown.
func (l *Ledger) Overview(ctx context.Context) core.Overview {
	l.persist.Lock()
	defer l.persist.Unlock()
	items := l.load(ctx)
	b, ok := l.budget(ctx)
	return core.Overview{
		Status:     core.NewBudgetStatus(b.Monthly, ok, Total(items)),
		ByCategory: Aggregate(items),
		Count:      len(items),
	}
}
