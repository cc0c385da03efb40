package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "funmoney/internal/errors"
	"funmoney/internal/models"
	"funmoney/internal/period"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new budget whose first period starts on startDate.
func (s *budgetService) CreateBudget(
	userID, name string,
	amount decimal.Decimal,
	periodDays int,
	startDate models.Date,
) (*models.Budget, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "pay period amount must be positive")
	}
	if periodDays <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "pay period days must be positive")
	}
	if startDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period start date is required")
	}

	budget := &models.Budget{
		UserID:             userID,
		Name:               name,
		PayPeriodAmount:    amount,
		PayPeriodDays:      periodDays,
		CurrentPeriodStart: startDate,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets returns all of the user's budgets in creation order, the
// order the client navigates them in.
func (s *budgetService) GetUserBudgets(userID string) ([]models.Budget, error) {
	var budgets []models.Budget
	err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudgetAmount changes the per-period amount. This is the only settings
// edit; period length and start are owned by creation and rollover.
func (s *budgetService) UpdateBudgetAmount(userID, budgetID string, amount decimal.Decimal) (*models.Budget, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "pay period amount must be positive")
	}

	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(budget).Update("pay_period_amount", amount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budget.PayPeriodAmount = amount
	return budget, nil
}

// DeleteBudget removes a budget and everything recorded against it. The
// dependents go first so a partial failure never leaves orphaned expenses or
// savings behind a missing budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	scoped := func() *gorm.DB {
		return s.db.Where("user_id = ? AND budget_id = ?", userID, budgetID)
	}
	if err := scoped().Delete(&models.Expense{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := scoped().Delete(&models.Savings{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBalance computes the remaining balance for the budget's active period.
func (s *budgetService) GetBalance(userID, budgetID string) (*Balance, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.periodExpenses(budget)
	if err != nil {
		return nil, err
	}

	balance := period.ComputeBalance(budget.PayPeriodAmount, expenses)
	return &Balance{
		BudgetID:     budget.ID,
		PeriodStart:  budget.CurrentPeriodStart,
		PeriodEnd:    period.End(budget.CurrentPeriodStart, budget.PayPeriodDays).AddDays(-1),
		PeriodAmount: budget.PayPeriodAmount,
		TotalSpent:   budget.PayPeriodAmount.Sub(balance),
		Balance:      balance,
	}, nil
}

// Rollover closes the budget's period if it has elapsed as of today: any
// positive leftover is archived as a savings entry and the period start
// advances by one period length. When the period has not elapsed this is a
// no-op, so callers may invoke it on every budget activation. Budgets left
// unviewed across several periods catch up one period per invocation.
func (s *budgetService) Rollover(userID, budgetID string, today models.Date) (*RolloverOutcome, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.periodExpenses(budget)
	if err != nil {
		return nil, err
	}

	result := period.Rollover(budget, expenses, today)
	if !result.RolledOver {
		return &RolloverOutcome{RolledOver: false, Budget: budget}, nil
	}

	outcome := &RolloverOutcome{RolledOver: true, Budget: budget}
	if result.Savings != nil {
		// A prior rollover may have archived this period and then failed to
		// advance the start. Each closed period is archived at most once.
		var existing int64
		err := s.db.Model(&models.Savings{}).
			Where("user_id = ? AND budget_id = ? AND period_start = ?",
				userID, budgetID, result.Savings.PeriodStart).
			Count(&existing).Error
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if existing == 0 {
			if err := s.db.Create(result.Savings).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			outcome.Savings = result.Savings
		}
	}

	err = s.db.Model(budget).
		Update("current_period_start", result.NewPeriodStart).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budget.CurrentPeriodStart = result.NewPeriodStart

	return outcome, nil
}

// periodExpenses loads the expenses stamped with the budget's current period.
func (s *budgetService) periodExpenses(budget *models.Budget) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.db.Where("user_id = ? AND budget_id = ? AND pay_period_start = ?",
		budget.UserID, budget.ID, budget.CurrentPeriodStart).
		Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}
