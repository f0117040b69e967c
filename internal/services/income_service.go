package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/calendar"
	apperrors "github.com/OmarGodoy2077/AhorrAI-sub000/internal/errors"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/logger"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/models"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/pagination"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/recurrence"
)

// incomeService handles income management: manual CRUD, the salary
// generation engine, and the confirmation state machine.
type incomeService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewIncomeService creates a new IncomeServicer.
func NewIncomeService(db *gorm.DB, accountService AccountServicer) IncomeServicer {
	return &incomeService{db: db, accountService: accountService}
}

// CreateIncome creates a manual income. It starts unconfirmed; confirmation
// is what credits the linked account.
func (s *incomeService) CreateIncome(userID string, fields IncomeFields) (*models.Income, error) {
	if fields.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "income name is required")
	}
	if fields.Amount.Sign() <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fields.IncomeDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "income date is required")
	}
	switch fields.Type {
	case models.IncomeTypeFixed, models.IncomeTypeVariable, models.IncomeTypeExtra:
	default:
		return nil, apperrors.ErrInvalidIncomeType
	}

	currency := fields.Currency
	if currency == "" {
		currency = "GTQ"
	}

	if fields.AccountID != nil {
		if _, err := s.accountService.GetAccountByID(userID, *fields.AccountID); err != nil {
			return nil, err
		}
	}

	income := &models.Income{
		UserID:      userID,
		Name:        fields.Name,
		Type:        fields.Type,
		Amount:      fields.Amount,
		Currency:    currency,
		IncomeDate:  calendar.DateOnly(fields.IncomeDate),
		AccountID:   fields.AccountID,
		Description: fields.Description,
		Frequency:   "one-time",
	}

	if err := s.db.Create(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return income, nil
}

// GetUserIncomes retrieves a paginated, filtered list of incomes.
func (s *incomeService) GetUserIncomes(userID string, page pagination.PageRequest, filter IncomeFilter) (*pagination.PageResponse[models.Income], error) {
	page.Defaults()

	base := s.db.Model(&models.Income{}).Where("user_id = ?", userID)
	if from, to, ok := windowBounds(filter.Year, filter.Month); ok {
		base = base.Where("income_date >= ? AND income_date < ?", from, to)
	}
	if filter.AccountID != nil {
		base = base.Where("account_id = ?", *filter.AccountID)
	}
	if filter.IsConfirmed != nil {
		base = base.Where("is_confirmed = ?", *filter.IsConfirmed)
	}
	if filter.IsSalary != nil {
		base = base.Where("is_salary = ?", *filter.IsSalary)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var incomes []models.Income
	if err := base.Scopes(pagination.Paginate(page)).
		Order("income_date DESC").
		Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(incomes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetIncomeByID retrieves an income by ID for a specific user.
func (s *incomeService) GetIncomeByID(userID, incomeID string) (*models.Income, error) {
	var income models.Income
	if err := s.db.Where("id = ? AND user_id = ?", incomeID, userID).First(&income).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &income, nil
}

// DeleteIncome removes an income. Deleting a confirmed income reverses its
// balance credit, and deleting a confirmed salary income rewinds the owning
// schedule's recurrence pointer when the deleted pay date precedes it, so
// the occurrence can be regenerated.
func (s *incomeService) DeleteIncome(userID, incomeID string) error {
	income, err := s.GetIncomeByID(userID, incomeID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(income).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if income.IsConfirmed && income.AccountID != nil {
			account, err := s.accountService.GetAccountByID(userID, *income.AccountID)
			switch {
			case err == nil:
				if err := s.accountService.ApplyBalanceChange(tx, account, income.Amount.Neg()); err != nil {
					return err
				}
			case errors.Is(err, apperrors.ErrAccountNotFound):
				// Account deactivated since confirmation; nothing to reverse.
			default:
				return err
			}
		}

		if income.IsConfirmed && income.IsSalary {
			schedule := s.resolveSchedule(tx, income)
			if schedule == nil {
				logger.Get().Warnw("owning schedule not found, skipping rewind",
					"income_id", income.ID)
				return nil
			}
			payDate := calendar.DateOnly(income.IncomeDate)
			if schedule.NextGenerationDate == nil || payDate.Before(*schedule.NextGenerationDate) {
				if err := tx.Model(schedule).Update("next_generation_date", payDate).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
			}
		}
		return nil
	})
}

// GenerateSalaryIncomes runs the generation engine for every active fixed
// schedule of the user: all pay dates between each schedule's start and now
// that have no income yet get an unconfirmed salary income, and each
// schedule's recurrence pointer is advanced past its last occurrence. One
// schedule failing does not abort the rest of the batch.
func (s *incomeService) GenerateSalaryIncomes(userID string, now time.Time) (*GenerationResult, error) {
	today := calendar.DateOnly(now)

	var schedules []models.SalarySchedule
	if err := s.db.Where("user_id = ? AND is_active = ? AND type = ?",
		userID, true, models.ScheduleTypeFixed).
		Order("created_at").
		Find(&schedules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := &GenerationResult{Generated: []models.Income{}}
	for i := range schedules {
		schedule := &schedules[i]

		var created []models.Income
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var txErr error
			created, txErr = s.generateForSchedule(tx, schedule, today)
			return txErr
		})
		if err != nil {
			logger.Get().Errorw("salary generation failed for schedule",
				"schedule_id", schedule.ID,
				"schedule_name", schedule.Name,
				"error", err)
			result.Failed = append(result.Failed, GenerationFailure{
				ScheduleID:   schedule.ID,
				ScheduleName: schedule.Name,
				Reason:       err.Error(),
			})
			continue
		}
		result.Generated = append(result.Generated, created...)
	}

	return result, nil
}

// generateForSchedule emits the missing occurrences of one schedule inside
// the given transaction and repositions its recurrence pointer.
func (s *incomeService) generateForSchedule(tx *gorm.DB, schedule *models.SalarySchedule, today time.Time) ([]models.Income, error) {
	if !schedule.Frequency.Valid() {
		return nil, apperrors.ErrInvalidFrequency
	}

	occurrences := recurrence.OccurrencesThrough(schedule.Frequency, schedule.SalaryDay, schedule.StartDate, today)

	// One occurrence per (schedule, date): look up what already exists by
	// the explicit schedule link, or by the description marker for rows
	// created before the schedule_id column existed.
	var existing []models.Income
	if err := tx.Where("user_id = ? AND is_salary = ?", schedule.UserID, true).
		Where("schedule_id = ? OR LOWER(description) LIKE ?",
			schedule.ID, "%"+strings.ToLower(schedule.Name)+"%").
		Find(&existing).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	taken := make(map[string]bool, len(existing))
	for i := range existing {
		taken[calendar.FormatDate(calendar.DateOnly(existing[i].IncomeDate))] = true
	}

	var created []models.Income
	for _, occ := range occurrences {
		if taken[calendar.FormatDate(occ)] {
			continue
		}

		scheduleID := schedule.ID
		income := models.Income{
			UserID: schedule.UserID,
			Name: fmt.Sprintf("%s %s %d",
				schedule.Name, calendar.SpanishMonthName(occ.Month()), occ.Year()),
			Type:        models.IncomeTypeFixed,
			Amount:      schedule.Amount,
			Currency:    schedule.Currency,
			IncomeDate:  occ,
			AccountID:   schedule.AccountID,
			Description: models.GeneratedMarker(schedule.Name, string(schedule.Frequency)),
			Frequency:   "one-time",
			IsSalary:    true,
			ScheduleID:  &scheduleID,
		}
		if err := tx.Create(&income).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		created = append(created, income)
	}

	updates := map[string]interface{}{}
	if len(occurrences) > 0 {
		last := occurrences[len(occurrences)-1]
		next := recurrence.Next(schedule.Frequency, schedule.SalaryDay, last)
		schedule.LastGeneratedDate = &last
		schedule.NextGenerationDate = &next
		updates["last_generated_date"] = last
		updates["next_generation_date"] = next
	} else {
		// Nothing due yet (future start): point at the first future occurrence.
		next := recurrence.NextAfter(schedule.Frequency, schedule.SalaryDay, schedule.StartDate, today)
		schedule.NextGenerationDate = &next
		updates["next_generation_date"] = next
	}
	if err := tx.Model(schedule).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return created, nil
}

// ConfirmIncome transitions an income from pending to confirmed. The
// transition is one-way; confirming an already confirmed income returns it
// unchanged. Confirming a schedule-generated income re-anchors the owning
// schedule's next occurrence from its salary day, never from the moment
// the user happened to confirm.
func (s *incomeService) ConfirmIncome(userID, incomeID string, now time.Time) (*models.Income, error) {
	income, err := s.GetIncomeByID(userID, incomeID)
	if err != nil {
		return nil, err
	}
	if income.IsConfirmed {
		return income, nil
	}

	today := calendar.DateOnly(now)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		confirmedAt := now
		income.IsConfirmed = true
		income.ConfirmedAt = &confirmedAt
		if err := tx.Model(income).Updates(map[string]interface{}{
			"is_confirmed": true,
			"confirmed_at": confirmedAt,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if income.AccountID != nil {
			account, err := s.accountService.GetAccountByID(userID, *income.AccountID)
			switch {
			case err == nil:
				if err := s.accountService.ApplyBalanceChange(tx, account, income.Amount); err != nil {
					return err
				}
			case errors.Is(err, apperrors.ErrAccountNotFound):
				logger.Get().Warnw("income account not found, skipping balance credit",
					"income_id", income.ID, "account_id", *income.AccountID)
			default:
				return err
			}
		}

		if !income.IsSalary {
			return nil
		}

		schedule := s.resolveSchedule(tx, income)
		if schedule == nil {
			// Renamed or deactivated schedule: the income stays confirmed,
			// only the advancement is skipped.
			logger.Get().Warnw("owning schedule not found, skipping advancement",
				"income_id", income.ID)
			return nil
		}

		var next time.Time
		switch schedule.Frequency {
		case recurrence.Monthly:
			next = recurrence.NextMonthlyAfter(schedule.SalaryDay, today)
		case recurrence.Weekly:
			// Weekly schedules advance relative to the occurrence just
			// confirmed, not relative to "now".
			next = calendar.DateOnly(income.IncomeDate).AddDate(0, 0, 7)
		default:
			return nil
		}
		if err := tx.Model(schedule).Update("next_generation_date", next).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return income, nil
}

// resolveSchedule finds the active schedule that owns a salary income,
// preferring the explicit schedule_id link and falling back to the name
// embedded in the description marker. Returns nil when no active schedule
// matches.
func (s *incomeService) resolveSchedule(tx *gorm.DB, income *models.Income) *models.SalarySchedule {
	var schedule models.SalarySchedule
	if income.ScheduleID != nil {
		if err := tx.Where("id = ? AND user_id = ? AND is_active = ?",
			*income.ScheduleID, income.UserID, true).
			First(&schedule).Error; err == nil {
			return &schedule
		}
	}

	name := income.ScheduleNameFromMarker()
	if name == "" {
		return nil
	}
	if err := tx.Where("user_id = ? AND is_active = ? AND LOWER(name) = ?",
		income.UserID, true, strings.ToLower(name)).
		First(&schedule).Error; err != nil {
		return nil
	}
	return &schedule
}

// SalaryConfirmationPeriod compares each active average schedule's target
// against the extra income recorded in the current period.
func (s *incomeService) SalaryConfirmationPeriod(userID, periodType string, today time.Time) (*PeriodReport, error) {
	today = calendar.DateOnly(today)

	var start, end time.Time
	var target func(amount decimal.Decimal) decimal.Decimal
	switch periodType {
	case "monthly":
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(today.Year(), today.Month(), calendar.DaysInMonth(today.Year(), today.Month()), 0, 0, 0, 0, time.UTC)
		target = func(amount decimal.Decimal) decimal.Decimal { return amount }
	case "biweekly":
		if today.Day() <= 15 {
			start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
			end = time.Date(today.Year(), today.Month(), 15, 0, 0, 0, 0, time.UTC)
		} else {
			start = time.Date(today.Year(), today.Month(), 16, 0, 0, 0, 0, time.UTC)
			end = time.Date(today.Year(), today.Month(), calendar.DaysInMonth(today.Year(), today.Month()), 0, 0, 0, 0, time.UTC)
		}
		target = func(amount decimal.Decimal) decimal.Decimal {
			return amount.Div(decimal.NewFromInt(2))
		}
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period_type must be monthly or biweekly")
	}

	var schedules []models.SalarySchedule
	if err := s.db.Where("user_id = ? AND is_active = ? AND type = ?",
		userID, true, models.ScheduleTypeAverage).
		Order("created_at").
		Find(&schedules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var extras []models.Income
	if err := s.db.Where("user_id = ? AND type = ? AND income_date >= ? AND income_date < ?",
		userID, models.IncomeTypeExtra, start, end.AddDate(0, 0, 1)).
		Find(&extras).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	actual := decimal.Zero
	for i := range extras {
		actual = actual.Add(extras[i].Amount)
	}

	report := &PeriodReport{
		PeriodType:  periodType,
		PeriodStart: start,
		PeriodEnd:   end,
		Comparisons: []PeriodComparison{},
	}
	for i := range schedules {
		t := target(schedules[i].Amount)
		report.Comparisons = append(report.Comparisons, PeriodComparison{
			ScheduleID:   schedules[i].ID,
			ScheduleName: schedules[i].Name,
			Target:       t,
			Actual:       actual,
			Difference:   actual.Sub(t),
			Met:          actual.GreaterThanOrEqual(t),
		})
	}
	return report, nil
}

// windowBounds converts an optional year/month filter into a half-open
// [from, to) date range. Month without year is ignored.
func windowBounds(year, month *int) (time.Time, time.Time, bool) {
	if year == nil {
		return time.Time{}, time.Time{}, false
	}
	if month != nil {
		from := time.Date(*year, time.Month(*month), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0), true
	}
	from := time.Date(*year, 1, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0), true
}
