package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "funmoney/internal/errors"
	"funmoney/internal/pagination"
	"funmoney/internal/services"
)

// SavingsHandler handles savings-related requests.
type SavingsHandler struct {
	savingsService services.SavingsServicer
}

// NewSavingsHandler creates a new SavingsHandler.
func NewSavingsHandler(savingsService services.SavingsServicer) *SavingsHandler {
	return &SavingsHandler{savingsService: savingsService}
}

// GetSavings handles listing a budget's archived savings entries.
// @Summary     List savings entries
// @Description Get the budget's archived period leftovers, newest first
// @Tags        savings
// @Produce     json
// @Param       id        path  string true  "Budget ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 50, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Savings] "Paginated savings"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/savings [get]
func (h *SavingsHandler) GetSavings(c *gin.Context) {
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

	result, err := h.savingsService.GetBudgetSavings(userID, budgetID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
