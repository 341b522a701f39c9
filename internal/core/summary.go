package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Category Category `json:"category"`
	Amount   Money    `json:"amount"`
}

// BudgetStatus compares the monthly ceiling against what has been spent.
// Remaining may be negative and PercentUsed is unbounded above 100.
type BudgetStatus struct {
	Budget      Money   `json:"budget"`
	BudgetSet   bool    `json:"budgetSet"`
	Spent       Money   `json:"spent"`
	Remaining   Money   `json:"remaining"`
	PercentUsed float64 `json:"percentUsed"`
}

// Overview is the dashboard summary of the ledger.
type Overview struct {
	Status     BudgetStatus     `json:"status"`
	ByCategory []CategoryAmount `json:"byCategory"`
	Count      int              `json:"count"`
}

// NewBudgetStatus derives remaining and percentage figures from a budget and a total.
func NewBudgetStatus(budget Money, set bool, spent Money) BudgetStatus {
	st := BudgetStatus{Budget: budget, BudgetSet: set, Spent: spent}
	if !set {
		return st
	}
	st.Remaining = budget.Sub(spent)
	if budget.Cents > 0 {
		st.PercentUsed = float64(spent.Cents) * 100 / float64(budget.Cents)
	}
	return st
}
