package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/calendar"
	apperrors "github.com/OmarGodoy2077/AhorrAI-sub000/internal/errors"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/models"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/pagination"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, accountService AccountServicer) ExpenseServicer {
	return &expenseService{db: db, accountService: accountService}
}

// CreateExpense records an expense and debits the linked account.
func (s *expenseService) CreateExpense(userID string, fields ExpenseFields) (*models.Expense, error) {
	if fields.Amount.Sign() <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fields.ExpenseDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense date is required")
	}

	currency := fields.Currency
	if currency == "" {
		currency = "GTQ"
	}

	if fields.CategoryID != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *fields.CategoryID, userID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrCategoryNotFound
		}
	}

	var account *models.Account
	if fields.AccountID != nil {
		var err error
		account, err = s.accountService.GetAccountByID(userID, *fields.AccountID)
		if err != nil {
			return nil, err
		}
	}

	expense := &models.Expense{
		UserID:      userID,
		Amount:      fields.Amount,
		Currency:    currency,
		ExpenseDate: calendar.DateOnly(fields.ExpenseDate),
		AccountID:   fields.AccountID,
		CategoryID:  fields.CategoryID,
		Description: fields.Description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if account != nil {
			return s.accountService.ApplyBalanceChange(tx, account, fields.Amount.Neg())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// GetUserExpenses retrieves a paginated, filtered list of expenses.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	if from, to, ok := windowBounds(filter.Year, filter.Month); ok {
		base = base.Where("expense_date >= ? AND expense_date < ?", from, to)
	}
	if filter.AccountID != nil {
		base = base.Where("account_id = ?", *filter.AccountID)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Paginate(page)).
		Order("expense_date DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID retrieves an expense by ID for a specific user.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// DeleteExpense removes an expense and refunds the linked account.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if expense.AccountID != nil {
			account, err := s.accountService.GetAccountByID(userID, *expense.AccountID)
			switch {
			case err == nil:
				return s.accountService.ApplyBalanceChange(tx, account, expense.Amount)
			case errors.Is(err, apperrors.ErrAccountNotFound):
				return nil
			default:
				return err
			}
		}
		return nil
	})
}
