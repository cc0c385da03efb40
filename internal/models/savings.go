package models

import "github.com/shopspring/decimal"

// Savings is an immutable archive of the leftover from one closed pay
// period. Rollover creates at most one per closed period and only when the
// leftover was strictly positive. PeriodStart and PeriodEnd are the inclusive
// bounds of the closed period.
type Savings struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	BudgetID    string          `gorm:"type:uuid;not null;index" json:"budget_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PeriodStart Date            `gorm:"not null" json:"period_start"`
	PeriodEnd   Date            `gorm:"not null" json:"period_end"`
}

// TableName overrides GORM's default pluralization ("savings" is already plural).
func (Savings) TableName() string { return "savings" }
