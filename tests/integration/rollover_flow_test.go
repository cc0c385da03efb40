package integration

import (
	"net/http"
	"testing"
)

func TestRolloverFlow_ArchivesLeftoverAndAdvances(t *testing.T) {
	app := setupApp(t)
	user := newUser()

	// The period started exactly one period-length ago, so it ends today.
	budgetID, periodStart := app.createBudget(t, user, "Fun Money", "200.00", 14, daysAgo(14))
	app.addExpense(t, user, budgetID, "45.50", "Lunch", daysAgo(10), periodStart)

	rec := app.request("POST", "/api/v1/budgets/"+budgetID+"/rollover", "", user)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	outcome := parseJSON(t, rec)
	if outcome["rolled_over"].(bool) != true {
		t.Fatal("expected the elapsed period to roll over")
	}

	savings := outcome["savings"].(map[string]interface{})
	assertAmount(t, savings["amount"], "154.50")
	if savings["period_start"].(string) != daysAgo(14) {
		t.Errorf("expected archived period start %s, got %v", daysAgo(14), savings["period_start"])
	}
	if savings["period_end"].(string) != daysAgo(1) {
		t.Errorf("expected archived period end %s, got %v", daysAgo(1), savings["period_end"])
	}

	budget := outcome["budget"].(map[string]interface{})
	if budget["current_period_start"].(string) != today() {
		t.Errorf("expected new period start %s, got %v", today(), budget["current_period_start"])
	}

	// The old period's expenses no longer show in the current period.
	rec = app.request("GET", "/api/v1/budgets/"+budgetID+"/expenses", "", user)
	page := parseJSON(t, rec)
	if page["total_items"].(float64) != 0 {
		t.Errorf("expected fresh period to have no expenses, got %v", page["total_items"])
	}

	// The new period has the full amount available again.
	rec = app.request("GET", "/api/v1/budgets/"+budgetID+"/balance", "", user)
	balance := parseJSON(t, rec)["balance"].(map[string]interface{})
	assertAmount(t, balance["balance"], "200.00")

	// The savings ledger lists the archived entry.
	rec = app.request("GET", "/api/v1/budgets/"+budgetID+"/savings", "", user)
	savingsPage := parseJSON(t, rec)
	if savingsPage["total_items"].(float64) != 1 {
		t.Fatalf("expected 1 savings entry, got %v", savingsPage["total_items"])
	}
}

func TestRolloverFlow_NoOpWhilePeriodActive(t *testing.T) {
	app := setupApp(t)
	user := newUser()

	budgetID, _ := app.createBudget(t, user, "Fun Money", "200.00", 14, today())

	rec := app.request("POST", "/api/v1/budgets/"+budgetID+"/rollover", "", user)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	outcome := parseJSON(t, rec)
	if outcome["rolled_over"].(bool) != false {
		t.Error("expected no rollover while the period is active")
	}

	rec = app.request("GET", "/api/v1/budgets/"+budgetID+"/savings", "", user)
	savingsPage := parseJSON(t, rec)
	if savingsPage["total_items"].(float64) != 0 {
		t.Errorf("expected no savings entries, got %v", savingsPage["total_items"])
	}
}

func TestRolloverFlow_RepeatCallIsIdempotent(t *testing.T) {
	app := setupApp(t)
	user := newUser()

	budgetID, _ := app.createBudget(t, user, "Fun Money", "200.00", 14, daysAgo(14))

	rec := app.request("POST", "/api/v1/budgets/"+budgetID+"/rollover", "", user)
	outcome := parseJSON(t, rec)
	if outcome["rolled_over"].(bool) != true {
		t.Fatal("expected first call to roll over")
	}

	rec = app.request("POST", "/api/v1/budgets/"+budgetID+"/rollover", "", user)
	outcome = parseJSON(t, rec)
	if outcome["rolled_over"].(bool) != false {
		t.Error("expected repeat call to be a no-op")
	}

	rec = app.request("GET", "/api/v1/budgets/"+budgetID+"/savings", "", user)
	savingsPage := parseJSON(t, rec)
	if savingsPage["total_items"].(float64) != 1 {
		t.Errorf("expected exactly 1 savings entry, got %v", savingsPage["total_items"])
	}
}

func TestRolloverFlow_OverspentPeriodArchivesNothing(t *testing.T) {
	app := setupApp(t)
	user := newUser()

	budgetID, periodStart := app.createBudget(t, user, "Fun Money", "50.00", 14, daysAgo(14))
	app.addExpense(t, user, budgetID, "80.00", "Concert tickets", daysAgo(10), periodStart)

	rec := app.request("POST", "/api/v1/budgets/"+budgetID+"/rollover", "", user)
	outcome := parseJSON(t, rec)
	if outcome["rolled_over"].(bool) != true {
		t.Fatal("expected the elapsed period to roll over")
	}
	if _, ok := outcome["savings"]; ok {
		t.Error("overspent period must not produce a savings entry")
	}

	// The debt is forgiven: the new period starts with the full amount.
	rec = app.request("GET", "/api/v1/budgets/"+budgetID+"/balance", "", user)
	balance := parseJSON(t, rec)["balance"].(map[string]interface{})
	assertAmount(t, balance["balance"], "50.00")
}

func TestRolloverFlow_CatchesUpOnePeriodPerCall(t *testing.T) {
	app := setupApp(t)
	user := newUser()

	// Two full 14-day periods have elapsed since the start 30 days ago.
	budgetID, _ := app.createBudget(t, user, "Fun Money", "200.00", 14, daysAgo(30))

	rec := app.request("POST", "/api/v1/budgets/"+budgetID+"/rollover", "", user)
	outcome := parseJSON(t, rec)
	if outcome["rolled_over"].(bool) != true {
		t.Fatal("expected first catch-up rollover")
	}
	budget := outcome["budget"].(map[string]interface{})
	if budget["current_period_start"].(string) != daysAgo(16) {
		t.Errorf("expected start to advance one period to %s, got %v", daysAgo(16), budget["current_period_start"])
	}

	rec = app.request("POST", "/api/v1/budgets/"+budgetID+"/rollover", "", user)
	outcome = parseJSON(t, rec)
	if outcome["rolled_over"].(bool) != true {
		t.Fatal("expected second catch-up rollover")
	}
	budget = outcome["budget"].(map[string]interface{})
	if budget["current_period_start"].(string) != daysAgo(2) {
		t.Errorf("expected start %s after second catch-up, got %v", daysAgo(2), budget["current_period_start"])
	}

	rec = app.request("POST", "/api/v1/budgets/"+budgetID+"/rollover", "", user)
	outcome = parseJSON(t, rec)
	if outcome["rolled_over"].(bool) != false {
		t.Error("expected no further rollover once the period is current")
	}

	// Each untouched period archived its full amount.
	rec = app.request("GET", "/api/v1/budgets/"+budgetID+"/savings", "", user)
	savingsPage := parseJSON(t, rec)
	if savingsPage["total_items"].(float64) != 2 {
		t.Errorf("expected 2 savings entries, got %v", savingsPage["total_items"])
	}
}
