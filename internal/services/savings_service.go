package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/calendar"
	apperrors "github.com/OmarGodoy2077/AhorrAI-sub000/internal/errors"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/models"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/pagination"
)

// savingsService handles savings goals and deposits.
type savingsService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewSavingsService creates a new SavingsServicer.
func NewSavingsService(db *gorm.DB, accountService AccountServicer) SavingsServicer {
	return &savingsService{db: db, accountService: accountService}
}

// CreateGoal creates a savings goal.
func (s *savingsService) CreateGoal(userID, name string, target decimal.Decimal, currency string, targetDate *time.Time, accountID *string) (*models.SavingsGoal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if target.Sign() <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}

	if currency == "" {
		currency = "GTQ"
	}
	if accountID != nil {
		if _, err := s.accountService.GetAccountByID(userID, *accountID); err != nil {
			return nil, err
		}
	}
	if targetDate != nil {
		d := calendar.DateOnly(*targetDate)
		targetDate = &d
	}

	goal := &models.SavingsGoal{
		UserID:        userID,
		Name:          name,
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		Currency:      currency,
		TargetDate:    targetDate,
		AccountID:     accountID,
	}
	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// GetUserGoals retrieves a paginated list of savings goals for a user.
func (s *savingsService) GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsGoal], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.SavingsGoal{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.SavingsGoal
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at").Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID retrieves a savings goal by ID for a specific user.
func (s *savingsService) GetGoalByID(userID, goalID string) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// DeleteGoal removes a goal together with its deposit history. Account
// balances are left untouched; the money already moved when each deposit
// was recorded.
func (s *savingsService) DeleteGoal(userID, goalID string) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.SavingsDeposit{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(goal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// CreateDeposit records a deposit toward a goal: the source account is
// debited and the goal's progress advances in the same transaction.
func (s *savingsService) CreateDeposit(userID, goalID string, sourceAccountID *string, amount decimal.Decimal, depositDate time.Time, description string) (*models.SavingsDeposit, error) {
	if amount.Sign() <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if depositDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "deposit date is required")
	}

	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	var account *models.Account
	if sourceAccountID != nil {
		account, err = s.accountService.GetAccountByID(userID, *sourceAccountID)
		if err != nil {
			return nil, err
		}
	}

	deposit := &models.SavingsDeposit{
		UserID:          userID,
		GoalID:          goal.ID,
		SourceAccountID: sourceAccountID,
		Amount:          amount,
		DepositDate:     calendar.DateOnly(depositDate),
		Description:     description,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(deposit).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if account != nil {
			if err := s.accountService.ApplyBalanceChange(tx, account, amount.Neg()); err != nil {
				return err
			}
		}

		goal.CurrentAmount = goal.CurrentAmount.Add(amount)
		goal.IsCompleted = goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount)
		if err := tx.Model(goal).Updates(map[string]interface{}{
			"current_amount": goal.CurrentAmount,
			"is_completed":   goal.IsCompleted,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

// GetGoalDeposits retrieves a paginated list of deposits for one goal.
func (s *savingsService) GetGoalDeposits(userID, goalID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsDeposit], error) {
	if _, err := s.GetGoalByID(userID, goalID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.SavingsDeposit{}).Where("user_id = ? AND goal_id = ?", userID, goalID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var deposits []models.SavingsDeposit
	if err := base.Scopes(pagination.Paginate(page)).
		Order("deposit_date DESC").
		Find(&deposits).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(deposits, page.Page, page.PageSize, totalItems)
	return &result, nil
}
