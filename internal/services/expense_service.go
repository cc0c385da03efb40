package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "funmoney/internal/errors"
	"funmoney/internal/models"
	"funmoney/internal/pagination"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// CreateExpense records a spend against a budget. The caller passes the
// period stamp it loaded the budget with; if the budget has rolled over in
// the meantime the stamp no longer matches and the create is rejected, so an
// expense can never be silently attributed to the wrong period.
func (s *expenseService) CreateExpense(
	userID, budgetID string,
	amount decimal.Decimal,
	description string,
	expenseDate, payPeriodStart models.Date,
) (*models.Expense, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if expenseDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense date is required")
	}

	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !payPeriodStart.Equal(budget.CurrentPeriodStart) {
		return nil, apperrors.ErrStalePeriod
	}

	expense := &models.Expense{
		UserID:         userID,
		BudgetID:       budgetID,
		Amount:         amount,
		Description:    description,
		ExpenseDate:    expenseDate,
		PayPeriodStart: payPeriodStart,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// GetPeriodExpenses returns the budget's current-period expenses, newest
// spend date first.
func (s *expenseService) GetPeriodExpenses(
	userID, budgetID string,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	base := s.db.Model(&models.Expense{}).
		Where("user_id = ? AND budget_id = ? AND pay_period_start = ?",
			userID, budgetID, budget.CurrentPeriodStart)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	err := base.Order("expense_date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateExpense edits an expense's amount, description, or date. The period
// stamp is immutable: editing never moves an expense between periods.
func (s *expenseService) UpdateExpense(
	userID, expenseID string,
	amount *decimal.Decimal,
	description string,
	expenseDate *models.Date,
) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := make(map[string]interface{})
	if amount != nil {
		if !amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
		}
		updates["amount"] = *amount
		expense.Amount = *amount
	}
	if description != "" {
		updates["description"] = description
		expense.Description = description
	}
	if expenseDate != nil {
		updates["expense_date"] = *expenseDate
		expense.ExpenseDate = *expenseDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(&expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return &expense, nil
}

// DeleteExpense removes an expense.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrExpenseNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
