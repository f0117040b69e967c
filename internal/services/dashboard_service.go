package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/calendar"
	apperrors "github.com/OmarGodoy2077/AhorrAI-sub000/internal/errors"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/models"
)

// DashboardSummary is the current-month overview.
type DashboardSummary struct {
	Month           string          `json:"month"`
	Year            int             `json:"year"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	MonthlyNet      decimal.Decimal `json:"monthly_net"`
	TotalBalance    decimal.Decimal `json:"total_balance"`
	PendingIncomes  int             `json:"pending_incomes"`
	SavingsProgress []GoalProgress  `json:"savings_progress"`
}

// GoalProgress is one savings goal's progress line on the dashboard.
type GoalProgress struct {
	GoalID        string          `json:"goal_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Percentage    decimal.Decimal `json:"percentage"`
	IsCompleted   bool            `json:"is_completed"`
}

// MonthlySummary is one month's line in the yearly summary.
type MonthlySummary struct {
	Month    int             `json:"month"`
	Name     string          `json:"name"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// YearlySummary aggregates income and expenses per month of a year.
type YearlySummary struct {
	Year          int              `json:"year"`
	Months        []MonthlySummary `json:"months"`
	TotalIncome   decimal.Decimal  `json:"total_income"`
	TotalExpenses decimal.Decimal  `json:"total_expenses"`
	TotalNet      decimal.Decimal  `json:"total_net"`
}

// ChatAccount is a compact account line for the chat context.
type ChatAccount struct {
	Name     string             `json:"name"`
	Type     models.AccountType `json:"type"`
	Balance  decimal.Decimal    `json:"balance"`
	Currency string             `json:"currency"`
}

// ChatSchedule is a compact schedule line for the chat context.
type ChatSchedule struct {
	Name      string              `json:"name"`
	Type      models.ScheduleType `json:"type"`
	Amount    decimal.Decimal     `json:"amount"`
	Frequency string              `json:"frequency"`
}

// ChatContext is the compact financial snapshot handed to the chat
// assistant as grounding context.
type ChatContext struct {
	Date            string          `json:"date"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	TotalBalance    decimal.Decimal `json:"total_balance"`
	Accounts        []ChatAccount   `json:"accounts"`
	Schedules       []ChatSchedule  `json:"schedules"`
}

// dashboardService computes the read-only aggregations behind the dashboard
// and the chat-context API. Figures are computed on demand from the ledger
// tables; there is no summary cache to invalidate.
type dashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB) DashboardServicer {
	return &dashboardService{db: db}
}

// monthFigures sums confirmed income and total outflow (expenses plus
// account-funded savings deposits) for the month containing today.
func (s *dashboardService) monthFigures(userID string, today time.Time) (income, outflow decimal.Decimal, err error) {
	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var incomes []models.Income
	if err := s.db.Where("user_id = ? AND is_confirmed = ? AND income_date >= ? AND income_date < ?",
		userID, true, from, to).Find(&incomes).Error; err != nil {
		return decimal.Zero, decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var expenses []models.Expense
	if err := s.db.Where("user_id = ? AND expense_date >= ? AND expense_date < ?",
		userID, from, to).Find(&expenses).Error; err != nil {
		return decimal.Zero, decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var deposits []models.SavingsDeposit
	if err := s.db.Where("user_id = ? AND source_account_id IS NOT NULL AND deposit_date >= ? AND deposit_date < ?",
		userID, from, to).Find(&deposits).Error; err != nil {
		return decimal.Zero, decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	income = decimal.Zero
	for i := range incomes {
		income = income.Add(incomes[i].Amount)
	}
	outflow = decimal.Zero
	for i := range expenses {
		outflow = outflow.Add(expenses[i].Amount)
	}
	for i := range deposits {
		outflow = outflow.Add(deposits[i].Amount)
	}
	return income, outflow, nil
}

// totalRealBalance sums the current balances of the user's active
// non-virtual accounts.
func (s *dashboardService) totalRealBalance(userID string) (decimal.Decimal, []models.Account, error) {
	var accounts []models.Account
	if err := s.db.Where("user_id = ? AND is_active = ? AND is_virtual_account = ?",
		userID, true, false).Order("created_at").Find(&accounts).Error; err != nil {
		return decimal.Zero, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	total := decimal.Zero
	for i := range accounts {
		total = total.Add(accounts[i].Balance)
	}
	return total, accounts, nil
}

// GetDashboard builds the current-month overview.
func (s *dashboardService) GetDashboard(userID string, today time.Time) (*DashboardSummary, error) {
	today = calendar.DateOnly(today)

	income, outflow, err := s.monthFigures(userID, today)
	if err != nil {
		return nil, err
	}
	totalBalance, _, err := s.totalRealBalance(userID)
	if err != nil {
		return nil, err
	}

	var pending int64
	if err := s.db.Model(&models.Income{}).
		Where("user_id = ? AND is_confirmed = ?", userID, false).
		Count(&pending).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.SavingsGoal
	if err := s.db.Where("user_id = ?", userID).Order("created_at").Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	progress := make([]GoalProgress, 0, len(goals))
	hundred := decimal.NewFromInt(100)
	for i := range goals {
		pct := decimal.Zero
		if goals[i].TargetAmount.Sign() > 0 {
			pct = goals[i].CurrentAmount.Mul(hundred).Div(goals[i].TargetAmount).Round(2)
		}
		progress = append(progress, GoalProgress{
			GoalID:        goals[i].ID,
			Name:          goals[i].Name,
			TargetAmount:  goals[i].TargetAmount,
			CurrentAmount: goals[i].CurrentAmount,
			Percentage:    pct,
			IsCompleted:   goals[i].IsCompleted,
		})
	}

	return &DashboardSummary{
		Month:           calendar.SpanishMonthName(today.Month()),
		Year:            today.Year(),
		MonthlyIncome:   income,
		MonthlyExpenses: outflow,
		MonthlyNet:      income.Sub(outflow),
		TotalBalance:    totalBalance,
		PendingIncomes:  int(pending),
		SavingsProgress: progress,
	}, nil
}

// GetYearlySummary aggregates confirmed income and expenses per month.
func (s *dashboardService) GetYearlySummary(userID string, year int) (*YearlySummary, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var incomes []models.Income
	if err := s.db.Where("user_id = ? AND is_confirmed = ? AND income_date >= ? AND income_date < ?",
		userID, true, from, to).Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var expenses []models.Expense
	if err := s.db.Where("user_id = ? AND expense_date >= ? AND expense_date < ?",
		userID, from, to).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &YearlySummary{
		Year:          year,
		Months:        make([]MonthlySummary, 12),
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for m := 0; m < 12; m++ {
		summary.Months[m] = MonthlySummary{
			Month:    m + 1,
			Name:     calendar.SpanishMonthName(time.Month(m + 1)),
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
		}
	}
	for i := range incomes {
		m := int(calendar.DateOnly(incomes[i].IncomeDate).Month()) - 1
		summary.Months[m].Income = summary.Months[m].Income.Add(incomes[i].Amount)
		summary.TotalIncome = summary.TotalIncome.Add(incomes[i].Amount)
	}
	for i := range expenses {
		m := int(calendar.DateOnly(expenses[i].ExpenseDate).Month()) - 1
		summary.Months[m].Expenses = summary.Months[m].Expenses.Add(expenses[i].Amount)
		summary.TotalExpenses = summary.TotalExpenses.Add(expenses[i].Amount)
	}
	for m := range summary.Months {
		summary.Months[m].Net = summary.Months[m].Income.Sub(summary.Months[m].Expenses)
	}
	summary.TotalNet = summary.TotalIncome.Sub(summary.TotalExpenses)
	return summary, nil
}

// GetChatContext builds the compact snapshot handed to the chat assistant.
func (s *dashboardService) GetChatContext(userID string, today time.Time) (*ChatContext, error) {
	today = calendar.DateOnly(today)

	income, outflow, err := s.monthFigures(userID, today)
	if err != nil {
		return nil, err
	}
	totalBalance, accounts, err := s.totalRealBalance(userID)
	if err != nil {
		return nil, err
	}

	var schedules []models.SalarySchedule
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at").Find(&schedules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	ctx := &ChatContext{
		Date:            calendar.FormatDate(today),
		MonthlyIncome:   income,
		MonthlyExpenses: outflow,
		TotalBalance:    totalBalance,
		Accounts:        make([]ChatAccount, 0, len(accounts)),
		Schedules:       make([]ChatSchedule, 0, len(schedules)),
	}
	for i := range accounts {
		ctx.Accounts = append(ctx.Accounts, ChatAccount{
			Name:     accounts[i].Name,
			Type:     accounts[i].Type,
			Balance:  accounts[i].Balance,
			Currency: accounts[i].Currency,
		})
	}
	for i := range schedules {
		ctx.Schedules = append(ctx.Schedules, ChatSchedule{
			Name:      schedules[i].Name,
			Type:      schedules[i].Type,
			Amount:    schedules[i].Amount,
			Frequency: string(schedules[i].Frequency),
		})
	}
	return ctx, nil
}
