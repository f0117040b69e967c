package services

import (
	"time"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/models"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/pagination"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/recurrence"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID, name string, accountType models.AccountType, description, currency string, initialBalance decimal.Decimal, isVirtual bool) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
	ApplyBalanceChange(tx *gorm.DB, account *models.Account, delta decimal.Decimal) error
}

// AccountUpdateFields holds the optional fields accepted by UpdateAccount.
type AccountUpdateFields struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, categoryType models.CategoryType, icon, color string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name, icon, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// ScheduleFields holds the attributes accepted when creating or updating a
// salary schedule.
type ScheduleFields struct {
	Name      string
	Type      models.ScheduleType
	Amount    decimal.Decimal
	Currency  string
	Frequency recurrence.Frequency
	SalaryDay int
	StartDate time.Time
	AccountID *string
}

// SalaryScheduleServicer defines the contract for salary schedule management.
// Create and Update recompute NextGenerationDate from the schedule anchor.
type SalaryScheduleServicer interface {
	CreateSchedule(userID string, fields ScheduleFields, today time.Time) (*models.SalarySchedule, error)
	GetUserSchedules(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SalarySchedule], error)
	GetScheduleByID(userID, scheduleID string) (*models.SalarySchedule, error)
	UpdateSchedule(userID, scheduleID string, fields ScheduleFields, today time.Time) (*models.SalarySchedule, error)
	DeactivateSchedule(userID, scheduleID string) error
}

// GenerationFailure reports a schedule whose generation pass failed. The
// batch continues past failures; callers get both the incomes that were
// produced and the schedules that were skipped.
type GenerationFailure struct {
	ScheduleID   string `json:"schedule_id"`
	ScheduleName string `json:"schedule_name"`
	Reason       string `json:"reason"`
}

// GenerationResult aggregates the outcome of one generation run.
type GenerationResult struct {
	Generated []models.Income     `json:"generated"`
	Failed    []GenerationFailure `json:"failed,omitempty"`
}

// IncomeFields holds the attributes accepted when creating a manual income.
type IncomeFields struct {
	Name        string
	Type        models.IncomeType
	Amount      decimal.Decimal
	Currency    string
	IncomeDate  time.Time
	AccountID   *string
	Description string
}

// IncomeFilter holds optional filter parameters for listing incomes.
type IncomeFilter struct {
	Year        *int
	Month       *int
	AccountID   *string
	IsConfirmed *bool
	IsSalary    *bool
}

// PeriodComparison compares one average schedule's target against the extra
// income actually recorded in the current period.
type PeriodComparison struct {
	ScheduleID   string          `json:"schedule_id"`
	ScheduleName string          `json:"schedule_name"`
	Target       decimal.Decimal `json:"target"`
	Actual       decimal.Decimal `json:"actual"`
	Difference   decimal.Decimal `json:"difference"`
	Met          bool            `json:"met"`
}

// PeriodReport is the salary-confirmation-period response.
type PeriodReport struct {
	PeriodType  string             `json:"period_type"`
	PeriodStart time.Time          `json:"period_start"`
	PeriodEnd   time.Time          `json:"period_end"`
	Comparisons []PeriodComparison `json:"comparisons"`
}

// IncomeServicer defines the contract for income management, including the
// salary generation engine and the confirmation state machine. The current
// date/time is always passed in explicitly so behavior is deterministic
// under test.
type IncomeServicer interface {
	CreateIncome(userID string, fields IncomeFields) (*models.Income, error)
	GetUserIncomes(userID string, page pagination.PageRequest, filter IncomeFilter) (*pagination.PageResponse[models.Income], error)
	GetIncomeByID(userID, incomeID string) (*models.Income, error)
	DeleteIncome(userID, incomeID string) error
	GenerateSalaryIncomes(userID string, now time.Time) (*GenerationResult, error)
	ConfirmIncome(userID, incomeID string, now time.Time) (*models.Income, error)
	SalaryConfirmationPeriod(userID, periodType string, today time.Time) (*PeriodReport, error)
}

// ExpenseFields holds the attributes accepted when creating an expense.
type ExpenseFields struct {
	Amount      decimal.Decimal
	Currency    string
	ExpenseDate time.Time
	AccountID   *string
	CategoryID  *string
	Description string
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	Year       *int
	Month      *int
	AccountID  *string
	CategoryID *string
}

// ExpenseServicer defines the contract for expense management.
type ExpenseServicer interface {
	CreateExpense(userID string, fields ExpenseFields) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
}

// SavingsServicer defines the contract for savings goals and deposits.
type SavingsServicer interface {
	CreateGoal(userID, name string, target decimal.Decimal, currency string, targetDate *time.Time, accountID *string) (*models.SavingsGoal, error)
	GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsGoal], error)
	GetGoalByID(userID, goalID string) (*models.SavingsGoal, error)
	DeleteGoal(userID, goalID string) error
	CreateDeposit(userID, goalID string, sourceAccountID *string, amount decimal.Decimal, depositDate time.Time, description string) (*models.SavingsDeposit, error)
	GetGoalDeposits(userID, goalID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsDeposit], error)
}

// StatementServicer defines the contract for the account statement builder.
// BuildStatement is read-only and side-effect-free; it is safe to run
// concurrently with itself but assumes no concurrent writes to the same
// account's transactions (no snapshot isolation).
type StatementServicer interface {
	BuildStatement(userID string, year, month *int, accountID *string, today time.Time) (*AccountStatement, error)
}

// DashboardServicer defines the read-only aggregations behind the dashboard
// and the chat-context API.
type DashboardServicer interface {
	GetDashboard(userID string, today time.Time) (*DashboardSummary, error)
	GetYearlySummary(userID string, year int) (*YearlySummary, error)
	GetChatContext(userID string, today time.Time) (*ChatContext, error)
}

// AuditServicer defines the contract for audit logging. Log never fails the
// calling request; persistence errors are logged and swallowed.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
