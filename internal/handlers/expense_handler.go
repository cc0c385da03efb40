package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "funmoney/internal/errors"
	"funmoney/internal/models"
	"funmoney/internal/pagination"
	"funmoney/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the request payload for recording a spend.
// PayPeriodStart is the period stamp the client loaded the budget with; the
// server rejects the expense if the budget has since rolled over.
type CreateExpenseRequest struct {
	Amount         string `json:"amount" binding:"required,money"`
	Description    string `json:"description" binding:"required,min=1,max=200"`
	ExpenseDate    string `json:"expense_date" binding:"required,dateonly"`
	PayPeriodStart string `json:"pay_period_start" binding:"required,dateonly"`
}

// UpdateExpenseRequest represents the request payload for editing an expense.
// The period stamp is not editable.
type UpdateExpenseRequest struct {
	Amount      string `json:"amount" binding:"omitempty,money"`
	Description string `json:"description" binding:"omitempty,min=1,max=200"`
	ExpenseDate string `json:"expense_date" binding:"omitempty,dateonly"`
}

// CreateExpense handles recording a spend against a budget.
// @Summary     Record an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       id      path string               true "Budget ID"
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Stale period stamp"
// @Router      /budgets/{id}/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
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

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, expenseDate, err := parseAmountAndDate(req.Amount, req.ExpenseDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	periodStamp, err := models.ParseDate(req.PayPeriodStart)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid pay period start"))
		return
	}

	expense, err := h.expenseService.CreateExpense(userID, budgetID, amount, req.Description, expenseDate, periodStamp)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expensesCreated.Inc()
	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing the budget's current-period expenses.
// @Summary     List current-period expenses
// @Tags        expenses
// @Produce     json
// @Param       id        path  string true  "Budget ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 50, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
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

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.expenseService.GetPeriodExpenses(userID, budgetID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateExpense handles editing an expense's amount, description, or date.
// @Summary     Edit an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to change"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var amount *decimal.Decimal
	if req.Amount != "" {
		a, err := decimal.NewFromString(req.Amount)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid amount"))
			return
		}
		amount = &a
	}

	var expenseDate *models.Date
	if req.ExpenseDate != "" {
		d, err := models.ParseDate(req.ExpenseDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date"))
			return
		}
		expenseDate = &d
	}

	expense, err := h.expenseService.UpdateExpense(userID, expenseID, amount, req.Description, expenseDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles removing an expense.
// @Summary     Delete an expense
// @Tags        expenses
// @Produce     json
// @Param       id path string true "Expense ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
