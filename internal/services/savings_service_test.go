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

func newSavingsService(db *gorm.DB) services.SavingsServicer {
	return services.NewSavingsService(db, services.NewAccountService(db))
}

func TestCreateGoal(t *testing.T) {
	t.Run("starts empty and incomplete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		svc := newSavingsService(db)
		goal, err := svc.CreateGoal(user.ID, "Vacaciones", decimal.NewFromInt(10000), "", nil, nil)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, decimal.Zero, goal.CurrentAmount)
		if goal.IsCompleted {
			t.Error("new goal must not be completed")
		}
		if goal.Currency != "GTQ" {
			t.Errorf("default currency = %s, want GTQ", goal.Currency)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		svc := newSavingsService(db)

		_, err := svc.CreateGoal(user.ID, "", decimal.NewFromInt(100), "", nil, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateGoal(user.ID, "Meta", decimal.Zero, "", nil, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestCreateDeposit(t *testing.T) {
	t.Run("debits the source account and advances the goal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, decimal.NewFromInt(1000))
		accountID := account.ID
		goal := testutil.CreateTestGoal(t, db, user.ID, decimal.NewFromInt(500))

		svc := newSavingsService(db)
		_, err := svc.CreateDeposit(user.ID, goal.ID, &accountID, decimal.NewFromInt(300), testutil.MustDate(t, "2024-03-01"), "")
		testutil.AssertNoError(t, err)

		var updatedAccount models.Account
		testutil.AssertNoError(t, db.First(&updatedAccount, "id = ?", account.ID).Error)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(700), updatedAccount.Balance)

		fetched, err := svc.GetGoalByID(user.ID, goal.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(300), fetched.CurrentAmount)
		if fetched.IsCompleted {
			t.Error("goal should not be completed yet")
		}

		// The second deposit crosses the target.
		_, err = svc.CreateDeposit(user.ID, goal.ID, &accountID, decimal.NewFromInt(200), testutil.MustDate(t, "2024-03-15"), "")
		testutil.AssertNoError(t, err)

		fetched, err = svc.GetGoalByID(user.ID, goal.ID)
		testutil.AssertNoError(t, err)
		if !fetched.IsCompleted {
			t.Error("goal should be completed")
		}
	})

	t.Run("deposit without a source account moves no money", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, decimal.NewFromInt(500))

		svc := newSavingsService(db)
		_, err := svc.CreateDeposit(user.ID, goal.ID, nil, decimal.NewFromInt(100), testutil.MustDate(t, "2024-03-01"), "Efectivo")
		testutil.AssertNoError(t, err)

		fetched, err := svc.GetGoalByID(user.ID, goal.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(100), fetched.CurrentAmount)
	})

	t.Run("rejects a foreign goal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, owner.ID, decimal.NewFromInt(500))

		svc := newSavingsService(db)
		_, err := svc.CreateDeposit(intruder.ID, goal.ID, nil, decimal.NewFromInt(100), testutil.MustDate(t, "2024-03-01"), "")
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}

func TestDeleteGoal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccountWithBalance(t, db, user.ID, decimal.NewFromInt(1000))
	accountID := account.ID
	goal := testutil.CreateTestGoal(t, db, user.ID, decimal.NewFromInt(500))

	svc := newSavingsService(db)
	_, err := svc.CreateDeposit(user.ID, goal.ID, &accountID, decimal.NewFromInt(200), testutil.MustDate(t, "2024-03-01"), "")
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, svc.DeleteGoal(user.ID, goal.ID))

	_, err = svc.GetGoalByID(user.ID, goal.ID)
	testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")

	// Deposit history goes with the goal; the money already moved, so the
	// account balance stays debited.
	var count int64
	db.Model(&models.SavingsDeposit{}).Where("goal_id = ?", goal.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected deposits to be removed, found %d", count)
	}
	var updated models.Account
	testutil.AssertNoError(t, db.First(&updated, "id = ?", account.ID).Error)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(800), updated.Balance)
}

func TestGetGoalDeposits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	goal := testutil.CreateTestGoal(t, db, user.ID, decimal.NewFromInt(500))
	other := testutil.CreateTestGoal(t, db, user.ID, decimal.NewFromInt(900))

	testutil.CreateTestDeposit(t, db, user.ID, goal.ID, nil, decimal.NewFromInt(50), testutil.MustDate(t, "2024-03-01"))
	testutil.CreateTestDeposit(t, db, user.ID, goal.ID, nil, decimal.NewFromInt(60), testutil.MustDate(t, "2024-03-08"))
	testutil.CreateTestDeposit(t, db, user.ID, other.ID, nil, decimal.NewFromInt(70), testutil.MustDate(t, "2024-03-09"))

	svc := newSavingsService(db)
	result, err := svc.GetGoalDeposits(user.ID, goal.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)

	if result.TotalItems != 2 {
		t.Fatalf("total items = %d, want 2", result.TotalItems)
	}
	// Newest first.
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(60), result.Data[0].Amount)
}
