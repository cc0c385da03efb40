package models

import "github.com/shopspring/decimal"

// Expense is a single spend event against a budget. PayPeriodStart is the
// budget's CurrentPeriodStart captured when the expense was recorded; it pins
// the expense to that historical period and never changes, even when the
// amount, description, or date are edited later.
type Expense struct {
	Base
	UserID         string          `gorm:"type:uuid;not null;index" json:"user_id"`
	BudgetID       string          `gorm:"type:uuid;not null;index" json:"budget_id"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Description    string          `gorm:"not null" json:"description"`
	ExpenseDate    Date            `gorm:"not null" json:"expense_date"`
	PayPeriodStart Date            `gorm:"not null;index" json:"pay_period_start"`
}
