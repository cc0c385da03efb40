package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"funmoney/internal/models"
	"funmoney/internal/uuid"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewUserID returns a fresh opaque user token.
func NewUserID() string {
	return uuid.New()
}

// Money parses a decimal amount, failing the test on bad input.
func Money(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad money literal %q: %v", s, err)
	}
	return d
}

// CreateTestBudget creates a 14-day budget of 200.00 starting on startDate.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, startDate models.Date) *models.Budget {
	t.Helper()
	return CreateTestBudgetWith(t, db, userID, "200.00", 14, startDate)
}

// CreateTestBudgetWith creates a budget with the given amount and period length.
func CreateTestBudgetWith(t *testing.T, db *gorm.DB, userID, amount string, periodDays int, startDate models.Date) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:             userID,
		Name:               fmt.Sprintf("Test Budget %d", nextID()),
		PayPeriodAmount:    Money(t, amount),
		PayPeriodDays:      periodDays,
		CurrentPeriodStart: startDate,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestExpense creates an expense stamped with the budget's current period.
func CreateTestExpense(t *testing.T, db *gorm.DB, budget *models.Budget, amount string) *models.Expense {
	t.Helper()
	return CreateTestExpenseOn(t, db, budget, amount, budget.CurrentPeriodStart)
}

// CreateTestExpenseOn creates an expense with an explicit spend date; the
// period stamp still comes from the budget.
func CreateTestExpenseOn(t *testing.T, db *gorm.DB, budget *models.Budget, amount string, expenseDate models.Date) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:         budget.UserID,
		BudgetID:       budget.ID,
		Amount:         Money(t, amount),
		Description:    fmt.Sprintf("Test Expense %d", nextID()),
		ExpenseDate:    expenseDate,
		PayPeriodStart: budget.CurrentPeriodStart,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestSavings creates a savings entry for the period preceding the
// budget's current one.
func CreateTestSavings(t *testing.T, db *gorm.DB, budget *models.Budget, amount string) *models.Savings {
	t.Helper()

	start := budget.CurrentPeriodStart.AddDays(-budget.PayPeriodDays)
	savings := &models.Savings{
		UserID:      budget.UserID,
		BudgetID:    budget.ID,
		Amount:      Money(t, amount),
		PeriodStart: start,
		PeriodEnd:   budget.CurrentPeriodStart.AddDays(-1),
	}
	if err := db.Create(savings).Error; err != nil {
		t.Fatalf("failed to create test savings: %v", err)
	}
	return savings
}

// Yesterday returns the UTC date one day ago; handy for un-elapsed periods.
func Yesterday() models.Date {
	return models.Today().AddDays(-1)
}

// DaysAgo returns the UTC date n days ago.
func DaysAgo(n int) models.Date {
	return models.DateOf(time.Now().AddDate(0, 0, -n))
}
