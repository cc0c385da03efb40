package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "funmoney/internal/errors"
	"funmoney/internal/models"
	"funmoney/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	Amount     string `json:"pay_period_amount" binding:"required,money"`
	PeriodDays int    `json:"pay_period_days" binding:"required,gt=0"`
	StartDate  string `json:"current_period_start" binding:"required,dateonly"`
}

// UpdateBudgetRequest represents the request payload for a settings edit.
// Only the per-period amount is editable.
type UpdateBudgetRequest struct {
	Amount string `json:"pay_period_amount" binding:"required,money"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a new recurring pay-period budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Missing user token"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, startDate, err := parseAmountAndDate(req.Amount, req.StartDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.CreateBudget(userID, req.Name, amount, req.PeriodDays, startDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetsCreated.Inc()
	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetBudgets handles listing budgets for the requesting user.
// @Summary     List budgets
// @Description Get all budgets for the requesting user in creation order
// @Tags        budgets
// @Produce     json
// @Success     200 {object} map[string][]models.Budget "Budgets"
// @Failure     401 {object} ErrorResponse "Missing user token"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.GetUserBudgets(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// GetBudget handles fetching a single budget.
// @Summary     Get a budget
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget "Budget"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles a settings edit of the per-period amount.
// @Summary     Update a budget's period amount
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       id      path string              true "Budget ID"
// @Param       request body UpdateBudgetRequest true "New amount"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid amount"))
		return
	}

	budget, err := h.budgetService.UpdateBudgetAmount(userID, budgetID, amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a budget and its expenses and savings.
// @Summary     Delete a budget
// @Description Delete a budget; its expenses and savings entries are removed with it
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetBalance handles computing the remaining balance for the active period.
// @Summary     Get the current period balance
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     200 {object} services.Balance "Balance"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/balance [get]
func (h *BudgetHandler) GetBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	balance, err := h.budgetService.GetBalance(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// Rollover handles closing an elapsed pay period. Clients call this whenever
// a budget becomes the active selection; when the period has not elapsed the
// call is a no-op and reports rolled_over=false.
// @Summary     Roll over an elapsed pay period
// @Description Archive any positive leftover as savings and advance the period start
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     200 {object} services.RolloverOutcome "Rollover outcome"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/rollover [post]
func (h *BudgetHandler) Rollover(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	outcome, err := h.budgetService.Rollover(userID, budgetID, models.Today())
	if err != nil {
		respondWithError(c, err)
		return
	}

	if outcome.RolledOver {
		rolloversPerformed.Inc()
		if outcome.Savings != nil {
			savingsArchived.Inc()
		}
	}
	c.JSON(http.StatusOK, outcome)
}

// parseAmountAndDate converts validated request strings into domain values.
func parseAmountAndDate(amount, date string) (decimal.Decimal, models.Date, error) {
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, models.Date{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid amount")
	}
	d, err := models.ParseDate(date)
	if err != nil {
		return decimal.Decimal{}, models.Date{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date")
	}
	return a, d, nil
}
