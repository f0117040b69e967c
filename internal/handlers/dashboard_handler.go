package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/calendar"
	apperrors "github.com/OmarGodoy2077/AhorrAI-sub000/internal/errors"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/services"
)

// DashboardHandler handles dashboard and chat-context requests.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns the current-month overview
// @Summary     Get dashboard
// @Description Get the current-month income/expense overview with balances and savings progress
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardSummary "Dashboard summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.dashboardService.GetDashboard(userID, calendar.Today())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetYearlySummary returns per-month totals for a year
// @Summary     Get yearly summary
// @Description Get per-month income/expense/net totals for the requested year
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year query int false "Year (default: current year)"
// @Success     200 {object} services.YearlySummary "Yearly summary"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/yearly [get]
func (h *DashboardHandler) GetYearlySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year := calendar.Today().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1970 || parsed > 2200 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year"))
			return
		}
		year = parsed
	}

	summary, err := h.dashboardService.GetYearlySummary(userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetChatContext returns the compact financial snapshot for the chat assistant
// @Summary     Get chat context
// @Description Get the compact current-month snapshot handed to the chat assistant
// @Tags        chat
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.ChatContext "Chat context"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /chat/context [get]
func (h *DashboardHandler) GetChatContext(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	context, err := h.dashboardService.GetChatContext(userID, calendar.Today())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, context)
}
