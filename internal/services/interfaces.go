package services

import (
	"github.com/shopspring/decimal"

	"funmoney/internal/models"
	"funmoney/internal/pagination"
)

// Balance is the derived view of a budget's active period.
type Balance struct {
	BudgetID     string          `json:"budget_id"`
	PeriodStart  models.Date     `json:"period_start"`
	PeriodEnd    models.Date     `json:"period_end"` // last inclusive day
	PeriodAmount decimal.Decimal `json:"period_amount"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
	Balance      decimal.Decimal `json:"balance"`
}

// RolloverOutcome reports what a rollover invocation did. RolledOver is false
// when the budget's period had not elapsed, in which case Savings is nil and
// Budget is unchanged.
type RolloverOutcome struct {
	RolledOver bool            `json:"rolled_over"`
	Budget     *models.Budget  `json:"budget"`
	Savings    *models.Savings `json:"savings,omitempty"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, name string, amount decimal.Decimal, periodDays int, startDate models.Date) (*models.Budget, error)
	GetUserBudgets(userID string) ([]models.Budget, error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudgetAmount(userID, budgetID string, amount decimal.Decimal) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBalance(userID, budgetID string) (*Balance, error)
	Rollover(userID, budgetID string, today models.Date) (*RolloverOutcome, error)
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID, budgetID string, amount decimal.Decimal, description string, expenseDate, payPeriodStart models.Date) (*models.Expense, error)
	GetPeriodExpenses(userID, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	UpdateExpense(userID, expenseID string, amount *decimal.Decimal, description string, expenseDate *models.Date) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
}

// SavingsServicer defines the contract for savings-related business logic.
type SavingsServicer interface {
	GetBudgetSavings(userID, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.Savings], error)
}
