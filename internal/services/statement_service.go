package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/calendar"
	apperrors "github.com/OmarGodoy2077/AhorrAI-sub000/internal/errors"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/models"
)

// Statement entry types, in tie-break order. Same-day entries sort opening
// balance first, then incomes, expenses, and deposits, with creation time as
// the final key, so repeated requests return an identical ordering.
const (
	EntryTypeOpeningBalance = "opening_balance"
	EntryTypeIncome         = "income"
	EntryTypeExpense        = "expense"
	EntryTypeSavingsDeposit = "savings_deposit"
)

var entryTypeRank = map[string]int{
	EntryTypeOpeningBalance: 0,
	EntryTypeIncome:         1,
	EntryTypeExpense:        2,
	EntryTypeSavingsDeposit: 3,
}

// StatementEntry is one row of the reconstructed ledger. Exactly one of
// Income and Expense is non-zero except on opening-balance rows, where both
// are zero and Balance carries the derived starting balance.
type StatementEntry struct {
	Date             time.Time       `json:"date"`
	Type             string          `json:"type"`
	Description      string          `json:"description"`
	AccountID        string          `json:"account_id,omitempty"`
	AccountName      string          `json:"account_name,omitempty"`
	Income           decimal.Decimal `json:"income"`
	Expense          decimal.Decimal `json:"expense"`
	Balance          decimal.Decimal `json:"balance"`
	IsInitialBalance bool            `json:"is_initial_balance"`

	createdAt time.Time
}

// StatementSummary carries the statement's totals. FinalBalance is the
// current stored balance of the accounts in scope, which the replayed
// transaction list reconciles to.
type StatementSummary struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpense     decimal.Decimal `json:"total_expense"`
	NetChange        decimal.Decimal `json:"net_change"`
	TransactionCount int             `json:"transaction_count"`
	FinalBalance     decimal.Decimal `json:"final_balance"`
}

// StatementFilters echoes the filters the statement was built with.
type StatementFilters struct {
	Year      *int    `json:"year,omitempty"`
	Month     *int    `json:"month,omitempty"`
	AccountID *string `json:"account_id,omitempty"`
}

// AccountStatement is the full statement response.
type AccountStatement struct {
	Summary      StatementSummary `json:"summary"`
	Transactions []StatementEntry `json:"transactions"`
	Accounts     []models.Account `json:"accounts"`
	Filters      StatementFilters `json:"filters"`
}

// statementService reconstructs account statements. It is read-only and
// side-effect-free, so concurrent statement requests are safe; it assumes
// no concurrent writes to the same account's transactions while it runs
// (no snapshot isolation).
type statementService struct {
	db *gorm.DB
}

// NewStatementService creates a new StatementServicer.
func NewStatementService(db *gorm.DB) StatementServicer {
	return &statementService{db: db}
}

// BuildStatement reconstructs the chronological ledger for the user's real
// accounts over an optional year/month window. Confirmed incomes credit,
// expenses and account-funded savings deposits debit. The starting balance
// is derived backward from the current stored balance, so activity outside
// the window is absorbed into the opening balance and the window view is
// always internally consistent.
func (s *statementService) BuildStatement(userID string, year, month *int, accountID *string, today time.Time) (*AccountStatement, error) {
	today = calendar.DateOnly(today)

	accountQuery := s.db.Where("user_id = ? AND is_active = ? AND is_virtual_account = ?",
		userID, true, false)
	if accountID != nil {
		accountQuery = accountQuery.Where("id = ?", *accountID)
	}
	var accounts []models.Account
	if err := accountQuery.Order("created_at").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	statement := &AccountStatement{
		Summary: StatementSummary{
			TotalIncome:  decimal.Zero,
			TotalExpense: decimal.Zero,
			NetChange:    decimal.Zero,
			FinalBalance: decimal.Zero,
		},
		Transactions: []StatementEntry{},
		Accounts:     accounts,
		Filters:      StatementFilters{Year: year, Month: month, AccountID: accountID},
	}
	if len(accounts) == 0 {
		return statement, nil
	}

	accountsByID := make(map[string]*models.Account, len(accounts))
	for i := range accounts {
		accountsByID[accounts[i].ID] = &accounts[i]
	}

	var incomes []models.Income
	if err := s.db.Where("user_id = ? AND is_confirmed = ?", userID, true).
		Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var expenses []models.Expense
	if err := s.db.Where("user_id = ?", userID).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var deposits []models.SavingsDeposit
	if err := s.db.Where("user_id = ? AND source_account_id IS NOT NULL", userID).
		Find(&deposits).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	inScope := func(linkedAccount *string, date time.Time) bool {
		if !inWindow(date, year, month) {
			return false
		}
		if linkedAccount == nil {
			// Unassigned entries only appear in the all-accounts view.
			return accountID == nil
		}
		_, ok := accountsByID[*linkedAccount]
		return ok
	}

	var entries []StatementEntry
	for i := range incomes {
		inc := &incomes[i]
		date := calendar.DateOnly(inc.IncomeDate)
		if !inScope(inc.AccountID, date) {
			continue
		}
		entries = append(entries, StatementEntry{
			Date:        date,
			Type:        EntryTypeIncome,
			Description: inc.Name,
			Income:      inc.Amount,
			Expense:     decimal.Zero,
			createdAt:   inc.CreatedAt,
		}.withAccount(inc.AccountID, accountsByID))
	}
	for i := range expenses {
		exp := &expenses[i]
		date := calendar.DateOnly(exp.ExpenseDate)
		if !inScope(exp.AccountID, date) {
			continue
		}
		description := exp.Description
		if description == "" {
			description = "Gasto"
		}
		entries = append(entries, StatementEntry{
			Date:        date,
			Type:        EntryTypeExpense,
			Description: description,
			Income:      decimal.Zero,
			Expense:     exp.Amount,
			createdAt:   exp.CreatedAt,
		}.withAccount(exp.AccountID, accountsByID))
	}
	for i := range deposits {
		dep := &deposits[i]
		date := calendar.DateOnly(dep.DepositDate)
		if !inScope(dep.SourceAccountID, date) {
			continue
		}
		description := dep.Description
		if description == "" {
			description = "Depósito de ahorro"
		}
		entries = append(entries, StatementEntry{
			Date:        date,
			Type:        EntryTypeSavingsDeposit,
			Description: description,
			Income:      decimal.Zero,
			Expense:     dep.Amount,
			createdAt:   dep.CreatedAt,
		}.withAccount(dep.SourceAccountID, accountsByID))
	}

	// Opening-balance rows only make sense on full-year or all-time views;
	// a month window instead absorbs prior activity into the derived
	// starting balance.
	if month == nil {
		earliest := make(map[string]time.Time, len(accounts))
		for i := range entries {
			id := entries[i].AccountID
			if id == "" {
				continue
			}
			if cur, ok := earliest[id]; !ok || entries[i].Date.Before(cur) {
				earliest[id] = entries[i].Date
			}
		}
		for i := range accounts {
			account := &accounts[i]
			var openingDate time.Time
			switch {
			case !earliest[account.ID].IsZero():
				openingDate = earliest[account.ID].AddDate(0, 0, -1)
			case !account.CreatedAt.IsZero():
				openingDate = calendar.DateOnly(account.CreatedAt).AddDate(0, 0, -1)
			default:
				openingDate = today
			}
			entries = append(entries, StatementEntry{
				Date:             openingDate,
				Type:             EntryTypeOpeningBalance,
				Description:      "Saldo inicial - " + account.Name,
				AccountID:        account.ID,
				AccountName:      account.Name,
				Income:           decimal.Zero,
				Expense:          decimal.Zero,
				IsInitialBalance: true,
				createdAt:        account.CreatedAt,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		if entryTypeRank[entries[i].Type] != entryTypeRank[entries[j].Type] {
			return entryTypeRank[entries[i].Type] < entryTypeRank[entries[j].Type]
		}
		return entries[i].createdAt.Before(entries[j].createdAt)
	})

	currentBalance := decimal.Zero
	for i := range accounts {
		currentBalance = currentBalance.Add(accounts[i].Balance)
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	realCount := 0
	for i := range entries {
		if entries[i].IsInitialBalance {
			continue
		}
		totalIncome = totalIncome.Add(entries[i].Income)
		totalExpense = totalExpense.Add(entries[i].Expense)
		realCount++
	}

	// Reconcile backward from the authoritative present-day balance: the
	// window's starting balance is whatever makes the replayed list land
	// exactly on the current stored balance.
	running := currentBalance.Sub(totalIncome).Add(totalExpense)
	for i := range entries {
		if entries[i].IsInitialBalance {
			entries[i].Balance = running
			continue
		}
		running = running.Add(entries[i].Income).Sub(entries[i].Expense)
		entries[i].Balance = running
	}

	statement.Transactions = entries
	statement.Summary = StatementSummary{
		TotalIncome:      totalIncome,
		TotalExpense:     totalExpense,
		NetChange:        totalIncome.Sub(totalExpense),
		TransactionCount: realCount,
		FinalBalance:     currentBalance,
	}
	return statement, nil
}

// withAccount annotates an entry with the linked account's ID and name when
// the account is in scope.
func (e StatementEntry) withAccount(accountID *string, accounts map[string]*models.Account) StatementEntry {
	if accountID == nil {
		return e
	}
	if account, ok := accounts[*accountID]; ok {
		e.AccountID = account.ID
		e.AccountName = account.Name
	}
	return e
}

// inWindow reports whether a date falls inside the optional year/month
// filter. Dates are UTC-midnight calendar dates, so plain field comparison
// is calendar-correct.
func inWindow(date time.Time, year, month *int) bool {
	if year != nil && date.Year() != *year {
		return false
	}
	if month != nil && int(date.Month()) != *month {
		return false
	}
	return true
}
