package models

import "github.com/shopspring/decimal"

// Budget is a recurring spending envelope. PayPeriodAmount is available to
// spend each PayPeriodDays-long period; CurrentPeriodStart marks the first
// day of the active period and only ever advances forward in whole-period
// jumps when a rollover closes the period.
type Budget struct {
	Base
	UserID             string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name               string          `gorm:"not null" json:"name"`
	PayPeriodAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"pay_period_amount"`
	PayPeriodDays      int             `gorm:"not null" json:"pay_period_days"`
	CurrentPeriodStart Date            `gorm:"not null" json:"current_period_start"`
}
