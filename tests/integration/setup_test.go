package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"funmoney/internal/handlers"
	"funmoney/internal/logger"
	"funmoney/internal/middleware"
	"funmoney/internal/models"
	"funmoney/internal/services"
	"funmoney/internal/uuid"
	"funmoney/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Budget{},
		&models.Expense{},
		&models.Savings{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	budgetService := services.NewBudgetService(db)
	expenseService := services.NewExpenseService(db)
	savingsService := services.NewSavingsService(db)

	// Handlers
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	savingsHandler := handlers.NewSavingsHandler(savingsService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identity())

	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/balance", budgetHandler.GetBalance)
	budgets.POST("/:id/rollover", budgetHandler.Rollover)
	budgets.POST("/:id/expenses", expenseHandler.CreateExpense)
	budgets.GET("/:id/expenses", expenseHandler.GetExpenses)
	budgets.GET("/:id/savings", savingsHandler.GetSavings)

	expenses := v1.Group("/expenses")
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// newUser returns a fresh opaque user token, the way a client generates one
// on first run.
func newUser() string {
	return uuid.New()
}

// createBudget creates a budget via the API and returns its ID and period start.
func (app *testApp) createBudget(t *testing.T, userID, name, amount string, days int, start string) (id, periodStart string) {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"pay_period_amount":%q,"pay_period_days":%d,"current_period_start":%q}`,
		name, amount, days, start)
	rec := app.request("POST", "/api/v1/budgets", body, userID)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	budget := result["budget"].(map[string]interface{})
	return budget["id"].(string), budget["current_period_start"].(string)
}

// addExpense logs an expense via the API, stamping it with periodStart.
func (app *testApp) addExpense(t *testing.T, userID, budgetID, amount, description, date, periodStart string) string {
	t.Helper()
	body := fmt.Sprintf(`{"amount":%q,"description":%q,"expense_date":%q,"pay_period_start":%q}`,
		amount, description, date, periodStart)
	rec := app.request("POST", "/api/v1/budgets/"+budgetID+"/expenses", body, userID)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	expense := result["expense"].(map[string]interface{})
	return expense["id"].(string)
}
