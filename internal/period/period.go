// Package period implements the pay-period balance and rollover rules.
// Everything here is pure: callers load the budget and its current-period
// expenses, and persist whatever a rollover produced. Money is exact decimal
// arithmetic throughout; dates are UTC calendar dates.
package period

import (
	"github.com/shopspring/decimal"

	"funmoney/internal/models"
)

// ComputeBalance returns the budget's period amount minus the sum of the
// given expenses. The caller is responsible for passing only expenses stamped
// with the current period; a negative result means overspend and is not an
// error.
func ComputeBalance(periodAmount decimal.Decimal, expenses []models.Expense) decimal.Decimal {
	balance := periodAmount
	for _, e := range expenses {
		balance = balance.Sub(e.Amount)
	}
	return balance
}

// End returns the exclusive end of a period: the first day that is no longer
// part of it.
func End(start models.Date, days int) models.Date {
	return start.AddDays(days)
}

// IsElapsed reports whether the period starting at start has fully elapsed as
// of today. The period covers days calendar days, so today == start+days is
// the first eligible day.
func IsElapsed(start models.Date, days int, today models.Date) bool {
	return !today.Before(End(start, days))
}

// Result describes the outcome of a rollover evaluation.
type Result struct {
	// RolledOver is false when the period had not elapsed; nothing else is set.
	RolledOver bool
	// Savings is the archive entry to persist, or nil when the leftover was
	// zero or negative (overspend is forgiven, not recorded).
	Savings *models.Savings
	// NewPeriodStart is the day immediately after the closed period.
	NewPeriodStart models.Date
}

// Rollover closes the budget's current period if it has elapsed. It computes
// the leftover from the given current-period expenses, drafts a savings entry
// when the leftover is strictly positive, and advances the period start by
// exactly one period length. A budget left unviewed across several periods
// catches up one period per call: the caller re-invokes on the next
// activation and eligibility is re-checked each time, which also makes the
// operation idempotent once the start has advanced past today.
func Rollover(budget *models.Budget, periodExpenses []models.Expense, today models.Date) Result {
	if !IsElapsed(budget.CurrentPeriodStart, budget.PayPeriodDays, today) {
		return Result{}
	}

	result := Result{
		RolledOver:     true,
		NewPeriodStart: End(budget.CurrentPeriodStart, budget.PayPeriodDays),
	}

	leftover := ComputeBalance(budget.PayPeriodAmount, periodExpenses)
	if leftover.IsPositive() {
		result.Savings = &models.Savings{
			UserID:      budget.UserID,
			BudgetID:    budget.ID,
			Amount:      leftover,
			PeriodStart: budget.CurrentPeriodStart,
			PeriodEnd:   result.NewPeriodStart.AddDays(-1),
		}
	}

	return result
}
