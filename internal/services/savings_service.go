package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "funmoney/internal/errors"
	"funmoney/internal/models"
	"funmoney/internal/pagination"
)

// savingsService handles savings-related business logic. Savings entries are
// written only by the rollover procedure; this service is read-only.
type savingsService struct {
	db *gorm.DB
}

// NewSavingsService creates a new SavingsServicer.
func NewSavingsService(db *gorm.DB) SavingsServicer {
	return &savingsService{db: db}
}

// GetBudgetSavings returns the budget's archived savings, newest first.
func (s *savingsService) GetBudgetSavings(
	userID, budgetID string,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.Savings], error) {
	page.Defaults()

	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	base := s.db.Model(&models.Savings{}).
		Where("user_id = ? AND budget_id = ?", userID, budgetID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var savings []models.Savings
	err := base.Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&savings).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(savings, page.Page, page.PageSize, totalItems)
	return &result, nil
}
