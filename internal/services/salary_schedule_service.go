package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/calendar"
	apperrors "github.com/OmarGodoy2077/AhorrAI-sub000/internal/errors"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/models"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/pagination"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/recurrence"
)

// salaryScheduleService handles salary schedule management.
type salaryScheduleService struct {
	db *gorm.DB
}

// NewSalaryScheduleService creates a new SalaryScheduleServicer.
func NewSalaryScheduleService(db *gorm.DB) SalaryScheduleServicer {
	return &salaryScheduleService{db: db}
}

func validateScheduleFields(fields ScheduleFields) error {
	if fields.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "schedule name is required")
	}
	if fields.Amount.Sign() <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fields.StartDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "start date is required")
	}

	switch fields.Type {
	case models.ScheduleTypeAverage:
		// Index-only schedules have no cadence.
		return nil
	case models.ScheduleTypeFixed:
	default:
		return apperrors.ErrInvalidScheduleType
	}

	if !fields.Frequency.Valid() {
		return apperrors.ErrInvalidFrequency
	}
	switch fields.Frequency {
	case recurrence.Monthly:
		if fields.SalaryDay < 1 || fields.SalaryDay > 31 {
			return apperrors.ErrInvalidSalaryDay
		}
	case recurrence.Weekly:
		if fields.SalaryDay < 0 || fields.SalaryDay > 6 {
			return apperrors.ErrInvalidSalaryDay
		}
	}
	return nil
}

// nextGenerationDate derives the recurrence pointer for a fixed schedule:
// the first occurrence strictly after today. Average schedules carry none.
func nextGenerationDate(schedule *models.SalarySchedule, today time.Time) *time.Time {
	if schedule.Type != models.ScheduleTypeFixed {
		return nil
	}
	next := recurrence.NextAfter(schedule.Frequency, schedule.SalaryDay, schedule.StartDate, today)
	return &next
}

// CreateSchedule creates a salary schedule and positions NextGenerationDate
// at the first future occurrence.
func (s *salaryScheduleService) CreateSchedule(userID string, fields ScheduleFields, today time.Time) (*models.SalarySchedule, error) {
	if err := validateScheduleFields(fields); err != nil {
		return nil, err
	}

	currency := fields.Currency
	if currency == "" {
		currency = "GTQ"
	}

	schedule := &models.SalarySchedule{
		UserID:    userID,
		Name:      fields.Name,
		Type:      fields.Type,
		Amount:    fields.Amount,
		Currency:  currency,
		Frequency: fields.Frequency,
		SalaryDay: fields.SalaryDay,
		StartDate: calendar.DateOnly(fields.StartDate),
		AccountID: fields.AccountID,
		IsActive:  true,
	}
	schedule.NextGenerationDate = nextGenerationDate(schedule, today)

	if err := s.db.Create(schedule).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return schedule, nil
}

// GetUserSchedules retrieves a paginated list of schedules for a user.
func (s *salaryScheduleService) GetUserSchedules(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SalarySchedule], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.SalarySchedule{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var schedules []models.SalarySchedule
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at").Find(&schedules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(schedules, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetScheduleByID retrieves a schedule by ID for a specific user.
func (s *salaryScheduleService) GetScheduleByID(userID, scheduleID string) (*models.SalarySchedule, error) {
	var schedule models.SalarySchedule
	if err := s.db.Where("id = ? AND user_id = ?", scheduleID, userID).First(&schedule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrScheduleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &schedule, nil
}

// UpdateSchedule replaces the schedule's definition and recomputes
// NextGenerationDate from the new anchor.
func (s *salaryScheduleService) UpdateSchedule(userID, scheduleID string, fields ScheduleFields, today time.Time) (*models.SalarySchedule, error) {
	schedule, err := s.GetScheduleByID(userID, scheduleID)
	if err != nil {
		return nil, err
	}
	if err := validateScheduleFields(fields); err != nil {
		return nil, err
	}

	schedule.Name = fields.Name
	schedule.Type = fields.Type
	schedule.Amount = fields.Amount
	if fields.Currency != "" {
		schedule.Currency = fields.Currency
	}
	schedule.Frequency = fields.Frequency
	schedule.SalaryDay = fields.SalaryDay
	schedule.StartDate = calendar.DateOnly(fields.StartDate)
	schedule.AccountID = fields.AccountID
	schedule.NextGenerationDate = nextGenerationDate(schedule, today)

	if err := s.db.Save(schedule).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return schedule, nil
}

// DeactivateSchedule stops generation for a schedule without deleting it,
// so already generated incomes keep their history.
func (s *salaryScheduleService) DeactivateSchedule(userID, scheduleID string) error {
	schedule, err := s.GetScheduleByID(userID, scheduleID)
	if err != nil {
		return err
	}
	if err := s.db.Model(schedule).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
