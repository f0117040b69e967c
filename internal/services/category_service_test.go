package services_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/models"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/pagination"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/services"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)

	svc := services.NewCategoryService(db)
	category, err := svc.CreateCategory(user.ID, "Comida", models.CategoryTypeExpense, "🍔", "#FF5733")
	testutil.AssertNoError(t, err)
	if category.Type != models.CategoryTypeExpense {
		t.Errorf("type = %s, want expense", category.Type)
	}

	_, err = svc.CreateCategory(user.ID, "", models.CategoryTypeExpense, "", "")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestDeleteCategory(t *testing.T) {
	t.Run("refuses while expenses reference it", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		expense := testutil.CreateTestExpense(t, db, user.ID, nil, decimal.NewFromInt(10), testutil.MustDate(t, "2024-03-01"))
		testutil.AssertNoError(t, db.Model(expense).Update("category_id", category.ID).Error)

		svc := services.NewCategoryService(db)
		err := svc.DeleteCategory(user.ID, category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
	})

	t.Run("deletes an unused category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)

		svc := services.NewCategoryService(db)
		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, category.ID))

		_, err := svc.GetCategoryByID(user.ID, category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGetUserCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)
	testutil.CreateTestCategory(t, db, other.ID, models.CategoryTypeExpense)

	svc := services.NewCategoryService(db)
	result, err := svc.GetUserCategories(user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if result.TotalItems != 2 {
		t.Errorf("total items = %d, want 2", result.TotalItems)
	}
}
