package services

import (
	"testing"
	"time"

	"funmoney/internal/models"
	"funmoney/internal/testutil"
)

func TestCreateBudget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()

		budget, err := svc.CreateBudget(userID, "Groceries", testutil.Money(t, "200.00"), 14, models.NewDate(2024, time.January, 1))
		testutil.AssertNoError(t, err)

		if budget.ID == "" {
			t.Fatal("expected a server-assigned budget ID")
		}
		if budget.Name != "Groceries" {
			t.Errorf("expected name Groceries, got %s", budget.Name)
		}
		testutil.AssertMoney(t, budget.PayPeriodAmount, "200.00")
		if budget.PayPeriodDays != 14 {
			t.Errorf("expected 14 period days, got %d", budget.PayPeriodDays)
		}
		if !budget.CurrentPeriodStart.Equal(models.NewDate(2024, time.January, 1)) {
			t.Errorf("expected period start 2024-01-01, got %s", budget.CurrentPeriodStart)
		}
	})

	t.Run("rejects_non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		_, err := svc.CreateBudget(testutil.NewUserID(), "Bad", testutil.Money(t, "0"), 14, models.Today())
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateBudget(testutil.NewUserID(), "Bad", testutil.Money(t, "-5.00"), 14, models.Today())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_non_positive_period_days", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		_, err := svc.CreateBudget(testutil.NewUserID(), "Bad", testutil.Money(t, "100.00"), 0, models.Today())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		_, err := svc.CreateBudget(testutil.NewUserID(), "", testutil.Money(t, "100.00"), 14, models.Today())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserBudgets(t *testing.T) {
	t.Run("returns_user_budgets_only_in_creation_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user1 := testutil.NewUserID()
		user2 := testutil.NewUserID()

		first := testutil.CreateTestBudget(t, db, user1, models.Today())
		second := testutil.CreateTestBudget(t, db, user1, models.Today())
		testutil.CreateTestBudget(t, db, user2, models.Today())

		budgets, err := svc.GetUserBudgets(user1)
		testutil.AssertNoError(t, err)

		if len(budgets) != 2 {
			t.Fatalf("expected 2 budgets, got %d", len(budgets))
		}
		if budgets[0].ID != first.ID || budgets[1].ID != second.ID {
			t.Error("expected budgets in creation order")
		}
	})

	t.Run("empty_for_new_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		budgets, err := svc.GetUserBudgets(testutil.NewUserID())
		testutil.AssertNoError(t, err)
		if len(budgets) != 0 {
			t.Errorf("expected no budgets, got %d", len(budgets))
		}
	})
}

func TestGetBudgetByID(t *testing.T) {
	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		_, err := svc.GetBudgetByID(testutil.NewUserID(), testutil.NewUserID())
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("scoped_to_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		budget := testutil.CreateTestBudget(t, db, testutil.NewUserID(), models.Today())

		_, err := svc.GetBudgetByID(testutil.NewUserID(), budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestUpdateBudgetAmount(t *testing.T) {
	t.Run("updates_amount_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()
		budget := testutil.CreateTestBudget(t, db, userID, models.NewDate(2024, time.January, 1))

		updated, err := svc.UpdateBudgetAmount(userID, budget.ID, testutil.Money(t, "350.00"))
		testutil.AssertNoError(t, err)
		testutil.AssertMoney(t, updated.PayPeriodAmount, "350.00")

		reloaded, err := svc.GetBudgetByID(userID, budget.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertMoney(t, reloaded.PayPeriodAmount, "350.00")
		if reloaded.PayPeriodDays != budget.PayPeriodDays {
			t.Error("period days must not change on a settings edit")
		}
		if !reloaded.CurrentPeriodStart.Equal(budget.CurrentPeriodStart) {
			t.Error("period start must not change on a settings edit")
		}
	})

	t.Run("rejects_non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()
		budget := testutil.CreateTestBudget(t, db, userID, models.Today())

		_, err := svc.UpdateBudgetAmount(userID, budget.ID, testutil.Money(t, "0"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteBudget(t *testing.T) {
	t.Run("cascades_to_expenses_and_savings", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()
		budget := testutil.CreateTestBudget(t, db, userID, models.Today())
		testutil.CreateTestExpense(t, db, budget, "10.00")
		testutil.CreateTestExpense(t, db, budget, "20.00")
		testutil.CreateTestSavings(t, db, budget, "55.00")

		keep := testutil.CreateTestBudget(t, db, userID, models.Today())
		keptExpense := testutil.CreateTestExpense(t, db, keep, "5.00")

		testutil.AssertNoError(t, svc.DeleteBudget(userID, budget.ID))

		_, err := svc.GetBudgetByID(userID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")

		var expenseCount int64
		db.Model(&models.Expense{}).Where("budget_id = ?", budget.ID).Count(&expenseCount)
		if expenseCount != 0 {
			t.Errorf("expected expenses to be deleted, %d remain", expenseCount)
		}
		var savingsCount int64
		db.Model(&models.Savings{}).Where("budget_id = ?", budget.ID).Count(&savingsCount)
		if savingsCount != 0 {
			t.Errorf("expected savings to be deleted, %d remain", savingsCount)
		}

		var keptCount int64
		db.Model(&models.Expense{}).Where("id = ?", keptExpense.ID).Count(&keptCount)
		if keptCount != 1 {
			t.Error("expected the other budget's expense to survive")
		}
	})

	t.Run("scoped_to_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		budget := testutil.CreateTestBudget(t, db, testutil.NewUserID(), models.Today())

		err := svc.DeleteBudget(testutil.NewUserID(), budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestGetBalance(t *testing.T) {
	t.Run("subtracts_current_period_expenses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()
		budget := testutil.CreateTestBudget(t, db, userID, models.Today())
		testutil.CreateTestExpense(t, db, budget, "20.00")
		testutil.CreateTestExpense(t, db, budget, "25.50")

		balance, err := svc.GetBalance(userID, budget.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertMoney(t, balance.TotalSpent, "45.50")
		testutil.AssertMoney(t, balance.Balance, "154.50")
		if !balance.PeriodStart.Equal(budget.CurrentPeriodStart) {
			t.Errorf("period start = %s, want %s", balance.PeriodStart, budget.CurrentPeriodStart)
		}
		if want := budget.CurrentPeriodStart.AddDays(13); !balance.PeriodEnd.Equal(want) {
			t.Errorf("period end = %s, want %s", balance.PeriodEnd, want)
		}
	})

	t.Run("ignores_prior_period_expenses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()
		budget := testutil.CreateTestBudget(t, db, userID, models.Today())

		// Stamp an expense with the previous period by hand.
		old := testutil.CreateTestExpense(t, db, budget, "99.00")
		prev := budget.CurrentPeriodStart.AddDays(-budget.PayPeriodDays)
		if err := db.Model(old).Update("pay_period_start", prev).Error; err != nil {
			t.Fatalf("failed to restamp expense: %v", err)
		}

		balance, err := svc.GetBalance(userID, budget.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertMoney(t, balance.Balance, "200.00")
	})

	t.Run("overspend_goes_negative", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()
		budget := testutil.CreateTestBudgetWith(t, db, userID, "100.00", 14, models.Today())
		testutil.CreateTestExpense(t, db, budget, "130.00")

		balance, err := svc.GetBalance(userID, budget.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertMoney(t, balance.Balance, "-30.00")
	})
}

func TestRollover(t *testing.T) {
	t.Run("noop_when_period_active", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()
		budget := testutil.CreateTestBudget(t, db, userID, testutil.Yesterday())

		outcome, err := svc.Rollover(userID, budget.ID, models.Today())
		testutil.AssertNoError(t, err)

		if outcome.RolledOver {
			t.Error("expected no rollover for an active period")
		}
		if outcome.Savings != nil {
			t.Error("expected no savings entry")
		}
		if !outcome.Budget.CurrentPeriodStart.Equal(budget.CurrentPeriodStart) {
			t.Error("period start must not move")
		}
	})

	t.Run("archives_leftover_and_advances", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()
		start := testutil.DaysAgo(14)
		budget := testutil.CreateTestBudget(t, db, userID, start)
		testutil.CreateTestExpense(t, db, budget, "45.50")

		outcome, err := svc.Rollover(userID, budget.ID, models.Today())
		testutil.AssertNoError(t, err)

		if !outcome.RolledOver {
			t.Fatal("expected a rollover")
		}
		if outcome.Savings == nil {
			t.Fatal("expected a savings entry")
		}
		testutil.AssertMoney(t, outcome.Savings.Amount, "154.50")
		if !outcome.Savings.PeriodStart.Equal(start) {
			t.Errorf("savings period start = %s, want %s", outcome.Savings.PeriodStart, start)
		}
		if want := start.AddDays(13); !outcome.Savings.PeriodEnd.Equal(want) {
			t.Errorf("savings period end = %s, want %s", outcome.Savings.PeriodEnd, want)
		}
		if want := start.AddDays(14); !outcome.Budget.CurrentPeriodStart.Equal(want) {
			t.Errorf("new period start = %s, want %s", outcome.Budget.CurrentPeriodStart, want)
		}

		var count int64
		db.Model(&models.Savings{}).Where("budget_id = ?", budget.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 persisted savings entry, got %d", count)
		}
	})

	t.Run("second_call_is_noop", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()
		budget := testutil.CreateTestBudget(t, db, userID, testutil.DaysAgo(14))
		testutil.CreateTestExpense(t, db, budget, "45.50")

		first, err := svc.Rollover(userID, budget.ID, models.Today())
		testutil.AssertNoError(t, err)
		if !first.RolledOver {
			t.Fatal("expected the first call to roll over")
		}

		second, err := svc.Rollover(userID, budget.ID, models.Today())
		testutil.AssertNoError(t, err)
		if second.RolledOver {
			t.Error("expected the second call to be a no-op")
		}

		var count int64
		db.Model(&models.Savings{}).Where("budget_id = ?", budget.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected exactly 1 savings entry, got %d", count)
		}
	})

	t.Run("overspent_period_produces_no_savings", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()
		start := testutil.DaysAgo(14)
		budget := testutil.CreateTestBudgetWith(t, db, userID, "100.00", 14, start)
		testutil.CreateTestExpense(t, db, budget, "130.00")

		outcome, err := svc.Rollover(userID, budget.ID, models.Today())
		testutil.AssertNoError(t, err)

		if !outcome.RolledOver {
			t.Fatal("expected the period to advance")
		}
		if outcome.Savings != nil {
			t.Error("expected no savings entry for an overspent period")
		}
		if want := start.AddDays(14); !outcome.Budget.CurrentPeriodStart.Equal(want) {
			t.Errorf("new period start = %s, want %s", outcome.Budget.CurrentPeriodStart, want)
		}

		var count int64
		db.Model(&models.Savings{}).Where("budget_id = ?", budget.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected no savings entries, got %d", count)
		}
	})

	t.Run("catches_up_one_period_per_call", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()
		start := testutil.DaysAgo(30)
		budget := testutil.CreateTestBudget(t, db, userID, start)

		first, err := svc.Rollover(userID, budget.ID, models.Today())
		testutil.AssertNoError(t, err)
		if !first.RolledOver {
			t.Fatal("expected the first call to roll over")
		}
		if want := start.AddDays(14); !first.Budget.CurrentPeriodStart.Equal(want) {
			t.Errorf("after first call period start = %s, want %s", first.Budget.CurrentPeriodStart, want)
		}

		second, err := svc.Rollover(userID, budget.ID, models.Today())
		testutil.AssertNoError(t, err)
		if !second.RolledOver {
			t.Fatal("expected the second call to catch up the next period")
		}
		if want := start.AddDays(28); !second.Budget.CurrentPeriodStart.Equal(want) {
			t.Errorf("after second call period start = %s, want %s", second.Budget.CurrentPeriodStart, want)
		}

		// Only two full periods in 30 days; the third call waits.
		third, err := svc.Rollover(userID, budget.ID, models.Today())
		testutil.AssertNoError(t, err)
		if third.RolledOver {
			t.Error("expected the third call to be a no-op")
		}
	})

	t.Run("does_not_duplicate_existing_period_archive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()
		start := testutil.DaysAgo(14)
		budget := testutil.CreateTestBudget(t, db, userID, start)

		// Simulate an earlier rollover that archived the period but failed
		// before advancing the start.
		existing := &models.Savings{
			UserID:      userID,
			BudgetID:    budget.ID,
			Amount:      testutil.Money(t, "200.00"),
			PeriodStart: start,
			PeriodEnd:   start.AddDays(13),
		}
		if err := db.Create(existing).Error; err != nil {
			t.Fatalf("failed to seed savings: %v", err)
		}

		outcome, err := svc.Rollover(userID, budget.ID, models.Today())
		testutil.AssertNoError(t, err)
		if !outcome.RolledOver {
			t.Fatal("expected the period to advance")
		}
		if outcome.Savings != nil {
			t.Error("expected no new savings entry for an already archived period")
		}

		var count int64
		db.Model(&models.Savings{}).Where("budget_id = ?", budget.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected exactly 1 savings entry, got %d", count)
		}
	})
}
