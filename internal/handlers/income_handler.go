package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/calendar"
	apperrors "github.com/OmarGodoy2077/AhorrAI-sub000/internal/errors"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/models"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/pagination"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/services"
)

// IncomeHandler handles income-related requests, including the salary
// generation and confirmation endpoints.
type IncomeHandler struct {
	incomeService services.IncomeServicer
	auditService  services.AuditServicer
}

// NewIncomeHandler creates a new IncomeHandler.
func NewIncomeHandler(incomeService services.IncomeServicer, auditService services.AuditServicer) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService, auditService: auditService}
}

// CreateIncomeRequest represents the request payload for creating an income
type CreateIncomeRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=100"`
	Type        string          `json:"type" binding:"required,income_type"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"omitempty,iso4217"`
	IncomeDate  string          `json:"income_date" binding:"required"`
	AccountID   *string         `json:"account_id"`
	Description string          `json:"description" binding:"max=500"`
}

// IncomeListQuery represents the query parameters for listing incomes
type IncomeListQuery struct {
	pagination.PageRequest
	Year        *int    `form:"year" binding:"omitempty,min=1970,max=2200"`
	Month       *int    `form:"month" binding:"omitempty,min=1,max=12"`
	AccountID   *string `form:"account_id"`
	IsConfirmed *bool   `form:"is_confirmed"`
	IsSalary    *bool   `form:"is_salary"`
}

// PeriodQuery represents the query parameters for the confirmation period report
type PeriodQuery struct {
	PeriodType string `form:"period_type" binding:"omitempty,period_type"`
}

// CreateIncome handles the creation of a manual income
// @Summary     Create an income
// @Description Create a manual income; it starts unconfirmed
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateIncomeRequest true "Income details"
// @Success     201 {object} models.Income "Income created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes [post]
func (h *IncomeHandler) CreateIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	incomeDate, err := parseDate(req.IncomeDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.CreateIncome(userID, services.IncomeFields{
		Name:        req.Name,
		Type:        models.IncomeType(req.Type),
		Amount:      req.Amount,
		Currency:    req.Currency,
		IncomeDate:  incomeDate,
		AccountID:   req.AccountID,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_INCOME", "income", income.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "type": req.Type})

	c.JSON(http.StatusCreated, gin.H{"income": income})
}

// GetUserIncomes handles listing the user's incomes
// @Summary     Get user incomes
// @Description Get a paginated, filtered list of incomes for the authenticated user
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page         query int    false "Page number (default 1)"
// @Param       page_size    query int    false "Items per page (default 20, max 100)"
// @Param       year         query int    false "Filter by year"
// @Param       month        query int    false "Filter by month (requires year)"
// @Param       account_id   query string false "Filter by account"
// @Param       is_confirmed query bool   false "Filter by confirmation state"
// @Param       is_salary    query bool   false "Filter salary incomes"
// @Success     200 {object} pagination.PageResponse[models.Income] "Paginated incomes"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes [get]
func (h *IncomeHandler) GetUserIncomes(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query IncomeListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.incomeService.GetUserIncomes(userID, query.PageRequest, services.IncomeFilter{
		Year:        query.Year,
		Month:       query.Month,
		AccountID:   query.AccountID,
		IsConfirmed: query.IsConfirmed,
		IsSalary:    query.IsSalary,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetIncomeByID handles retrieving one income
// @Summary     Get income by ID
// @Description Get a specific income for the authenticated user
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income ID"
// @Success     200 {object} models.Income "Income details"
// @Failure     400 {object} ErrorResponse "Invalid income ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes/{id} [get]
func (h *IncomeHandler) GetIncomeByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	incomeID, err := getPathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.GetIncomeByID(userID, incomeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// DeleteIncome handles deleting an income
// @Summary     Delete income
// @Description Delete an income; confirmed incomes reverse their balance credit and rewind the owning schedule
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income ID"
// @Success     200 {object} map[string]string "Income deleted"
// @Failure     400 {object} ErrorResponse "Invalid income ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes/{id} [delete]
func (h *IncomeHandler) DeleteIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	incomeID, err := getPathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.incomeService.DeleteIncome(userID, incomeID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_INCOME", "income", incomeID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Income deleted"})
}

// GenerateSalaryIncomes runs the salary generation engine
// @Summary     Generate salary incomes
// @Description Generate pending salary incomes for every active fixed schedule up to today
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.GenerationResult "Generated incomes and per-schedule failures"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes/generate/salary-incomes [post]
func (h *IncomeHandler) GenerateSalaryIncomes(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.incomeService.GenerateSalaryIncomes(userID, calendar.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "GENERATE_SALARY_INCOMES", "income", "", c.ClientIP(),
		map[string]interface{}{"generated": len(result.Generated), "failed": len(result.Failed)})

	c.JSON(http.StatusOK, gin.H{
		"message":   "Salary income generation completed",
		"generated": result.Generated,
		"failed":    result.Failed,
	})
}

// ConfirmIncome confirms a pending income
// @Summary     Confirm income
// @Description Confirm a pending income; credits the linked account and advances the owning schedule
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income ID"
// @Success     200 {object} models.Income "Confirmed income"
// @Failure     400 {object} ErrorResponse "Invalid income ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes/{id}/confirm [post]
func (h *IncomeHandler) ConfirmIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	incomeID, err := getPathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.ConfirmIncome(userID, incomeID, calendar.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CONFIRM_INCOME", "income", incomeID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// SalaryConfirmationPeriod reports average schedule targets vs. actuals
// @Summary     Salary confirmation period report
// @Description Compare each active average schedule's target with the extra income recorded in the current period
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       period_type query string false "monthly (default) or biweekly"
// @Success     200 {object} services.PeriodReport "Period comparison report"
// @Failure     400 {object} ErrorResponse "Invalid period type"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes/salary-confirmation-period [get]
func (h *IncomeHandler) SalaryConfirmationPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query PeriodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if query.PeriodType == "" {
		query.PeriodType = "monthly"
	}

	report, err := h.incomeService.SalaryConfirmationPeriod(userID, query.PeriodType, calendar.Today())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
