package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/calendar"
	apperrors "github.com/OmarGodoy2077/AhorrAI-sub000/internal/errors"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/models"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/pagination"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/recurrence"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/services"
)

// ScheduleHandler handles salary schedule requests.
type ScheduleHandler struct {
	scheduleService services.SalaryScheduleServicer
	auditService    services.AuditServicer
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService services.SalaryScheduleServicer, auditService services.AuditServicer) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService, auditService: auditService}
}

// ScheduleRequest represents the payload for creating or updating a salary
// schedule. Frequency and salary_day are required for fixed schedules and
// ignored for average ones.
type ScheduleRequest struct {
	Name      string          `json:"name" binding:"required,min=1,max=100"`
	Type      string          `json:"type" binding:"required,schedule_type"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Currency  string          `json:"currency" binding:"omitempty,iso4217"`
	Frequency string          `json:"frequency" binding:"omitempty,frequency"`
	SalaryDay int             `json:"salary_day"`
	StartDate string          `json:"start_date" binding:"required"`
	AccountID *string         `json:"account_id"`
}

func (r *ScheduleRequest) toFields() (services.ScheduleFields, error) {
	startDate, err := parseDate(r.StartDate)
	if err != nil {
		return services.ScheduleFields{}, err
	}
	return services.ScheduleFields{
		Name:      r.Name,
		Type:      models.ScheduleType(r.Type),
		Amount:    r.Amount,
		Currency:  r.Currency,
		Frequency: recurrence.Frequency(r.Frequency),
		SalaryDay: r.SalaryDay,
		StartDate: startDate,
		AccountID: r.AccountID,
	}, nil
}

// CreateSchedule handles the creation of a salary schedule
// @Summary     Create a salary schedule
// @Description Create a salary schedule; fixed schedules get their next generation date computed
// @Tags        salary-schedules
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ScheduleRequest true "Schedule details"
// @Success     201 {object} models.SalarySchedule "Schedule created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salary-schedules [post]
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	fields, err := req.toFields()
	if err != nil {
		respondWithError(c, err)
		return
	}

	schedule, err := h.scheduleService.CreateSchedule(userID, fields, calendar.Today())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_SCHEDULE", "salary_schedule", schedule.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "type": req.Type, "frequency": req.Frequency})

	c.JSON(http.StatusCreated, gin.H{"schedule": schedule})
}

// GetUserSchedules handles listing the user's salary schedules
// @Summary     Get salary schedules
// @Description Get a paginated list of salary schedules for the authenticated user
// @Tags        salary-schedules
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.SalarySchedule] "Paginated schedules"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salary-schedules [get]
func (h *ScheduleHandler) GetUserSchedules(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.scheduleService.GetUserSchedules(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetScheduleByID handles retrieving one salary schedule
// @Summary     Get salary schedule by ID
// @Description Get a specific salary schedule for the authenticated user
// @Tags        salary-schedules
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Schedule ID"
// @Success     200 {object} models.SalarySchedule "Schedule details"
// @Failure     400 {object} ErrorResponse "Invalid schedule ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Schedule not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salary-schedules/{id} [get]
func (h *ScheduleHandler) GetScheduleByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	scheduleID, err := getPathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	schedule, err := h.scheduleService.GetScheduleByID(userID, scheduleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

// UpdateSchedule handles updating a salary schedule
// @Summary     Update salary schedule
// @Description Update a salary schedule and recompute its next generation date
// @Tags        salary-schedules
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Schedule ID"
// @Param       request body ScheduleRequest true "Updated schedule details"
// @Success     200 {object} models.SalarySchedule "Updated schedule"
// @Failure     400 {object} ErrorResponse "Invalid input or schedule ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Schedule not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salary-schedules/{id} [put]
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	scheduleID, err := getPathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	fields, err := req.toFields()
	if err != nil {
		respondWithError(c, err)
		return
	}

	schedule, err := h.scheduleService.UpdateSchedule(userID, scheduleID, fields, calendar.Today())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SCHEDULE", "salary_schedule", scheduleID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

// DeactivateSchedule handles deactivating a salary schedule
// @Summary     Deactivate salary schedule
// @Description Stop generation for a schedule; generated incomes keep their history
// @Tags        salary-schedules
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Schedule ID"
// @Success     200 {object} map[string]string "Schedule deactivated"
// @Failure     400 {object} ErrorResponse "Invalid schedule ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Schedule not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /salary-schedules/{id} [delete]
func (h *ScheduleHandler) DeactivateSchedule(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	scheduleID, err := getPathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.scheduleService.DeactivateSchedule(userID, scheduleID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DEACTIVATE_SCHEDULE", "salary_schedule", scheduleID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Schedule deactivated"})
}
