package services_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/models"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/services"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/testutil"
)

func TestGetDashboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccountWithBalance(t, db, user.ID, decimal.NewFromInt(2000))
	accountID := account.ID
	testutil.CreateTestVirtualAccount(t, db, user.ID)

	today := testutil.MustDate(t, "2024-03-20")

	// Current-month activity.
	testutil.CreateTestIncome(t, db, user.ID, &accountID, decimal.NewFromInt(500), testutil.MustDate(t, "2024-03-05"))
	testutil.CreateTestExpense(t, db, user.ID, &accountID, decimal.NewFromInt(120), testutil.MustDate(t, "2024-03-10"))
	goal := testutil.CreateTestGoal(t, db, user.ID, decimal.NewFromInt(1000))
	testutil.CreateTestDeposit(t, db, user.ID, goal.ID, &accountID, decimal.NewFromInt(80), testutil.MustDate(t, "2024-03-12"))
	testutil.AssertNoError(t, db.Model(goal).Update("current_amount", decimal.NewFromInt(80)).Error)

	// Out of the current month: must not count.
	testutil.CreateTestIncome(t, db, user.ID, &accountID, decimal.NewFromInt(900), testutil.MustDate(t, "2024-02-05"))

	// Pending income.
	pending := testutil.CreateTestIncome(t, db, user.ID, &accountID, decimal.NewFromInt(300), testutil.MustDate(t, "2024-03-15"))
	testutil.AssertNoError(t, db.Model(pending).Updates(map[string]interface{}{
		"is_confirmed": false,
		"confirmed_at": nil,
	}).Error)

	svc := services.NewDashboardService(db)
	summary, err := svc.GetDashboard(user.ID, today)
	testutil.AssertNoError(t, err)

	if summary.Month != "Marzo" || summary.Year != 2024 {
		t.Errorf("period = %s %d, want Marzo 2024", summary.Month, summary.Year)
	}
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(500), summary.MonthlyIncome)
	// Expenses plus the account-funded deposit.
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(200), summary.MonthlyExpenses)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(300), summary.MonthlyNet)
	// Virtual account balances never count.
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(2000), summary.TotalBalance)
	if summary.PendingIncomes != 1 {
		t.Errorf("pending incomes = %d, want 1", summary.PendingIncomes)
	}

	if len(summary.SavingsProgress) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(summary.SavingsProgress))
	}
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(8), summary.SavingsProgress[0].Percentage)
}

func TestGetYearlySummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestIncome(t, db, user.ID, nil, decimal.NewFromInt(100), testutil.MustDate(t, "2024-01-15"))
	testutil.CreateTestIncome(t, db, user.ID, nil, decimal.NewFromInt(200), testutil.MustDate(t, "2024-06-15"))
	testutil.CreateTestExpense(t, db, user.ID, nil, decimal.NewFromInt(50), testutil.MustDate(t, "2024-06-20"))
	// Another year: excluded.
	testutil.CreateTestIncome(t, db, user.ID, nil, decimal.NewFromInt(999), testutil.MustDate(t, "2023-06-15"))

	svc := services.NewDashboardService(db)
	summary, err := svc.GetYearlySummary(user.ID, 2024)
	testutil.AssertNoError(t, err)

	if len(summary.Months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(summary.Months))
	}
	if summary.Months[5].Name != "Junio" {
		t.Errorf("month 6 name = %s, want Junio", summary.Months[5].Name)
	}
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(100), summary.Months[0].Income)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(200), summary.Months[5].Income)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(50), summary.Months[5].Expenses)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(150), summary.Months[5].Net)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(300), summary.TotalIncome)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(250), summary.TotalNet)
}

func TestGetChatContext(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccountWithBalance(t, db, user.ID, decimal.NewFromInt(1500))
	accountID := account.ID
	testutil.CreateTestSchedule(t, db, user.ID, 15, testutil.MustDate(t, "2024-01-10"))
	testutil.CreateTestIncome(t, db, user.ID, &accountID, decimal.NewFromInt(400), testutil.MustDate(t, "2024-03-05"))

	svc := services.NewDashboardService(db)
	ctx, err := svc.GetChatContext(user.ID, testutil.MustDate(t, "2024-03-20"))
	testutil.AssertNoError(t, err)

	if ctx.Date != "2024-03-20" {
		t.Errorf("date = %s, want 2024-03-20", ctx.Date)
	}
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(400), ctx.MonthlyIncome)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(1500), ctx.TotalBalance)
	if len(ctx.Accounts) != 1 {
		t.Errorf("expected 1 account, got %d", len(ctx.Accounts))
	}
	if len(ctx.Schedules) != 1 {
		t.Fatalf("expected 1 schedule, got %d", len(ctx.Schedules))
	}
	if ctx.Schedules[0].Type != models.ScheduleTypeFixed {
		t.Errorf("schedule type = %s, want fixed", ctx.Schedules[0].Type)
	}
}
