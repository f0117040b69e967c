package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/models"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/pagination"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/services"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/testutil"
)

func newExpenseService(db *gorm.DB) services.ExpenseServicer {
	return services.NewExpenseService(db, services.NewAccountService(db))
}

func TestCreateExpense(t *testing.T) {
	t.Run("debits the linked account immediately", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, decimal.NewFromInt(500))
		accountID := account.ID

		svc := newExpenseService(db)
		expense, err := svc.CreateExpense(user.ID, services.ExpenseFields{
			Amount:      decimal.NewFromFloat(75.50),
			ExpenseDate: testutil.MustDate(t, "2024-03-05"),
			AccountID:   &accountID,
			Description: "Supermercado",
		})
		testutil.AssertNoError(t, err)
		if expense.Currency != "GTQ" {
			t.Errorf("default currency = %s, want GTQ", expense.Currency)
		}

		var updated models.Account
		testutil.AssertNoError(t, db.First(&updated, "id = ?", account.ID).Error)
		testutil.AssertDecimalEqual(t, decimal.NewFromFloat(424.50), updated.Balance)
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		svc := newExpenseService(db)
		bogus := "119f5cd8-70ac-7cc0-8100-000000000001"
		_, err := svc.CreateExpense(user.ID, services.ExpenseFields{
			Amount:      decimal.NewFromInt(10),
			ExpenseDate: testutil.MustDate(t, "2024-03-05"),
			CategoryID:  &bogus,
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		svc := newExpenseService(db)
		_, err := svc.CreateExpense(user.ID, services.ExpenseFields{
			Amount:      decimal.Zero,
			ExpenseDate: testutil.MustDate(t, "2024-03-05"),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteExpense(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccountWithBalance(t, db, user.ID, decimal.NewFromInt(500))
	accountID := account.ID

	svc := newExpenseService(db)
	expense, err := svc.CreateExpense(user.ID, services.ExpenseFields{
		Amount:      decimal.NewFromInt(100),
		ExpenseDate: testutil.MustDate(t, "2024-03-05"),
		AccountID:   &accountID,
	})
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, svc.DeleteExpense(user.ID, expense.ID))

	// Refunded in full.
	var updated models.Account
	testutil.AssertNoError(t, db.First(&updated, "id = ?", account.ID).Error)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(500), updated.Balance)

	_, err = svc.GetExpenseByID(user.ID, expense.ID)
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
}

func TestGetUserExpenses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

	testutil.CreateTestExpense(t, db, user.ID, nil, decimal.NewFromInt(10), testutil.MustDate(t, "2024-02-01"))
	testutil.CreateTestExpense(t, db, user.ID, nil, decimal.NewFromInt(20), testutil.MustDate(t, "2024-03-01"))

	categorized := testutil.CreateTestExpense(t, db, user.ID, nil, decimal.NewFromInt(30), testutil.MustDate(t, "2024-03-10"))
	testutil.AssertNoError(t, db.Model(categorized).Update("category_id", category.ID).Error)

	svc := newExpenseService(db)

	t.Run("month window", func(t *testing.T) {
		year, month := 2024, 3
		result, err := svc.GetUserExpenses(user.ID, pagination.PageRequest{}, services.ExpenseFilter{Year: &year, Month: &month})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("total items = %d, want 2", result.TotalItems)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		categoryID := category.ID
		result, err := svc.GetUserExpenses(user.ID, pagination.PageRequest{}, services.ExpenseFilter{CategoryID: &categoryID})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Fatalf("total items = %d, want 1", result.TotalItems)
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(30), result.Data[0].Amount)
	})
}
