package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/calendar"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/models"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/recurrence"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// MustDate parses a "YYYY-MM-DD" string or fails the test.
func MustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.ParseDate(s)
	if err != nil {
		t.Fatalf("invalid test date %q: %v", s, err)
	}
	return d
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates an active bank account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, decimal.Zero)
}

// CreateTestAccountWithBalance creates an active bank account with the given balance.
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID string, balance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Account %d", nextID()),
		Type:     models.AccountTypeBank,
		Balance:  balance,
		Currency: "GTQ",
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestVirtualAccount creates a virtual account, which statements skip.
func CreateTestVirtualAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:           userID,
		Name:             fmt.Sprintf("Test Virtual Account %d", nextID()),
		Type:             models.AccountTypeVirtual,
		Currency:         "GTQ",
		IsVirtualAccount: true,
		IsActive:         true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test virtual account: %v", err)
	}
	return account
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestSchedule creates an active fixed monthly schedule.
func CreateTestSchedule(t *testing.T, db *gorm.DB, userID string, salaryDay int, startDate time.Time) *models.SalarySchedule {
	t.Helper()

	schedule := &models.SalarySchedule{
		UserID:    userID,
		Name:      fmt.Sprintf("Test Salary %d", nextID()),
		Type:      models.ScheduleTypeFixed,
		Amount:    decimal.NewFromInt(5000),
		Currency:  "GTQ",
		Frequency: recurrence.Monthly,
		SalaryDay: salaryDay,
		StartDate: startDate,
		IsActive:  true,
	}
	if err := db.Create(schedule).Error; err != nil {
		t.Fatalf("failed to create test schedule: %v", err)
	}
	return schedule
}

// CreateTestIncome creates a confirmed income on the given date.
func CreateTestIncome(t *testing.T, db *gorm.DB, userID string, accountID *string, amount decimal.Decimal, date time.Time) *models.Income {
	t.Helper()

	now := time.Now()
	income := &models.Income{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Income %d", nextID()),
		Type:        models.IncomeTypeVariable,
		Amount:      amount,
		Currency:    "GTQ",
		IncomeDate:  date,
		AccountID:   accountID,
		Frequency:   "one-time",
		IsConfirmed: true,
		ConfirmedAt: &now,
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestExpense creates an expense on the given date.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, accountID *string, amount decimal.Decimal, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		Amount:      amount,
		Currency:    "GTQ",
		ExpenseDate: date,
		AccountID:   accountID,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestGoal creates a savings goal with the given target.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, target decimal.Decimal) *models.SavingsGoal {
	t.Helper()

	goal := &models.SavingsGoal{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		Currency:      "GTQ",
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestDeposit creates a savings deposit funded from the given account.
func CreateTestDeposit(t *testing.T, db *gorm.DB, userID, goalID string, sourceAccountID *string, amount decimal.Decimal, date time.Time) *models.SavingsDeposit {
	t.Helper()

	deposit := &models.SavingsDeposit{
		UserID:          userID,
		GoalID:          goalID,
		SourceAccountID: sourceAccountID,
		Amount:          amount,
		DepositDate:     date,
	}
	if err := db.Create(deposit).Error; err != nil {
		t.Fatalf("failed to create test deposit: %v", err)
	}
	return deposit
}
