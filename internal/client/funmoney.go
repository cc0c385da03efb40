// Package client provides an HTTP client for the FunMoney API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Budget represents a budget returned by the API.
type Budget struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	PayPeriodAmount    string `json:"pay_period_amount"`
	PayPeriodDays      int    `json:"pay_period_days"`
	CurrentPeriodStart string `json:"current_period_start"`
}

// Expense represents an expense returned by the API.
type Expense struct {
	ID             string `json:"id"`
	BudgetID       string `json:"budget_id"`
	Amount         string `json:"amount"`
	Description    string `json:"description"`
	ExpenseDate    string `json:"expense_date"`
	PayPeriodStart string `json:"pay_period_start"`
}

// Savings represents an archived savings entry returned by the API.
type Savings struct {
	ID          string `json:"id"`
	BudgetID    string `json:"budget_id"`
	Amount      string `json:"amount"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

// Balance represents the derived balance view of a budget's active period.
type Balance struct {
	BudgetID     string `json:"budget_id"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`
	PeriodAmount string `json:"period_amount"`
	TotalSpent   string `json:"total_spent"`
	Balance      string `json:"balance"`
}

// RolloverOutcome reports what a rollover call did.
type RolloverOutcome struct {
	RolledOver bool     `json:"rolled_over"`
	Budget     *Budget  `json:"budget"`
	Savings    *Savings `json:"savings,omitempty"`
}

// Page is a paginated API response.
type Page[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// CreateBudgetRequest is the payload for creating a budget.
type CreateBudgetRequest struct {
	Name               string `json:"name"`
	PayPeriodAmount    string `json:"pay_period_amount"`
	PayPeriodDays      int    `json:"pay_period_days"`
	CurrentPeriodStart string `json:"current_period_start"`
}

// CreateExpenseRequest is the payload for logging an expense. PayPeriodStart
// must echo the budget's current period start the client last saw.
type CreateExpenseRequest struct {
	Amount         string `json:"amount"`
	Description    string `json:"description"`
	ExpenseDate    string `json:"expense_date"`
	PayPeriodStart string `json:"pay_period_start"`
}

// UpdateExpenseRequest is the payload for editing an expense. Empty fields
// are left unchanged.
type UpdateExpenseRequest struct {
	Amount      string `json:"amount,omitempty"`
	Description string `json:"description,omitempty"`
	ExpenseDate string `json:"expense_date,omitempty"`
}

// APIError is a structured error returned by the API.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s (status %d): %s", e.Code, e.StatusCode, e.Message)
}

// IsStalePeriod reports whether err is the API rejecting an expense whose
// period stamp no longer matches the budget's current period.
func IsStalePeriod(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "STALE_PERIOD"
}

// FunMoney communicates with the FunMoney API on behalf of one user.
type FunMoney struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

// NewFunMoney creates a new FunMoney API client.
func NewFunMoney(baseURL, userID string, httpClient *http.Client) *FunMoney {
	return &FunMoney{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userID:     userID,
		httpClient: httpClient,
	}
}

// CreateBudget creates a new budget.
func (c *FunMoney) CreateBudget(ctx context.Context, req CreateBudgetRequest) (*Budget, error) {
	var result struct {
		Budget *Budget `json:"budget"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/budgets", req, &result); err != nil {
		return nil, fmt.Errorf("creating budget: %w", err)
	}
	return result.Budget, nil
}

// ListBudgets fetches all of the user's budgets in creation order.
func (c *FunMoney) ListBudgets(ctx context.Context) ([]Budget, error) {
	var result struct {
		Budgets []Budget `json:"budgets"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/budgets", nil, &result); err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	return result.Budgets, nil
}

// GetBudget fetches a single budget.
func (c *FunMoney) GetBudget(ctx context.Context, budgetID string) (*Budget, error) {
	var result struct {
		Budget *Budget `json:"budget"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/budgets/"+budgetID, nil, &result); err != nil {
		return nil, fmt.Errorf("fetching budget: %w", err)
	}
	return result.Budget, nil
}

// SetBudgetAmount updates a budget's per-period amount.
func (c *FunMoney) SetBudgetAmount(ctx context.Context, budgetID, amount string) (*Budget, error) {
	body := struct {
		PayPeriodAmount string `json:"pay_period_amount"`
	}{PayPeriodAmount: amount}

	var result struct {
		Budget *Budget `json:"budget"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/v1/budgets/"+budgetID, body, &result); err != nil {
		return nil, fmt.Errorf("updating budget: %w", err)
	}
	return result.Budget, nil
}

// DeleteBudget deletes a budget together with its expenses and savings.
func (c *FunMoney) DeleteBudget(ctx context.Context, budgetID string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/v1/budgets/"+budgetID, nil, nil); err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}
	return nil
}

// GetBalance fetches the remaining balance for the budget's current period.
func (c *FunMoney) GetBalance(ctx context.Context, budgetID string) (*Balance, error) {
	var result struct {
		Balance *Balance `json:"balance"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/budgets/"+budgetID+"/balance", nil, &result); err != nil {
		return nil, fmt.Errorf("fetching balance: %w", err)
	}
	return result.Balance, nil
}

// Rollover asks the API to close the budget's period if it has elapsed.
func (c *FunMoney) Rollover(ctx context.Context, budgetID string) (*RolloverOutcome, error) {
	var result RolloverOutcome
	if err := c.do(ctx, http.MethodPost, "/api/v1/budgets/"+budgetID+"/rollover", nil, &result); err != nil {
		return nil, fmt.Errorf("rolling over budget: %w", err)
	}
	return &result, nil
}

// CreateExpense logs an expense against the budget's current period.
func (c *FunMoney) CreateExpense(ctx context.Context, budgetID string, req CreateExpenseRequest) (*Expense, error) {
	var result struct {
		Expense *Expense `json:"expense"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/budgets/"+budgetID+"/expenses", req, &result); err != nil {
		return nil, fmt.Errorf("creating expense: %w", err)
	}
	return result.Expense, nil
}

// ListExpenses fetches one page of the budget's current-period expenses.
func (c *FunMoney) ListExpenses(ctx context.Context, budgetID string, page, pageSize int) (*Page[Expense], error) {
	path := fmt.Sprintf("/api/v1/budgets/%s/expenses?page=%d&page_size=%d", budgetID, page, pageSize)
	var result Page[Expense]
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	return &result, nil
}

// UpdateExpense edits an expense's amount, description, or date.
func (c *FunMoney) UpdateExpense(ctx context.Context, expenseID string, req UpdateExpenseRequest) (*Expense, error) {
	var result struct {
		Expense *Expense `json:"expense"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/v1/expenses/"+expenseID, req, &result); err != nil {
		return nil, fmt.Errorf("updating expense: %w", err)
	}
	return result.Expense, nil
}

// DeleteExpense deletes an expense.
func (c *FunMoney) DeleteExpense(ctx context.Context, expenseID string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/v1/expenses/"+expenseID, nil, nil); err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}
	return nil
}

// ListSavings fetches one page of the budget's archived savings entries.
func (c *FunMoney) ListSavings(ctx context.Context, budgetID string, page, pageSize int) (*Page[Savings], error) {
	path := fmt.Sprintf("/api/v1/budgets/%s/savings?page=%d&page_size=%d", budgetID, page, pageSize)
	var result Page[Savings]
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, fmt.Errorf("listing savings: %w", err)
	}
	return &result, nil
}

// do performs one API request, decoding the response into out when non-nil.
func (c *FunMoney) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *strings.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = strings.NewReader(string(jsonBody))
	} else {
		reqBody = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", c.userID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error APIError `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Code == "" {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		envelope.Error.StatusCode = resp.StatusCode
		return &envelope.Error
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
