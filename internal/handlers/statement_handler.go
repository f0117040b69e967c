package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/calendar"
	apperrors "github.com/OmarGodoy2077/AhorrAI-sub000/internal/errors"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/services"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/uuid"
)

// StatementHandler handles account statement requests.
type StatementHandler struct {
	statementService services.StatementServicer
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementService services.StatementServicer) *StatementHandler {
	return &StatementHandler{statementService: statementService}
}

// StatementQuery represents the query parameters for building a statement
type StatementQuery struct {
	Year      *int    `form:"year" binding:"omitempty,min=1970,max=2200"`
	Month     *int    `form:"month" binding:"omitempty,min=1,max=12"`
	AccountID *string `form:"account_id"`
}

// GetAccountStatement builds the reconstructed ledger
// @Summary     Get account statement
// @Description Build the chronological balance-annotated ledger for one or all real accounts
// @Tags        statements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year       query int    false "Filter by year"
// @Param       month      query int    false "Filter by month"
// @Param       account_id query string false "Restrict to one account"
// @Success     200 {object} services.AccountStatement "Statement with summary, transactions, accounts, and filters"
// @Failure     400 {object} ErrorResponse "Invalid filters"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /account-statements [get]
func (h *StatementHandler) GetAccountStatement(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query StatementQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if query.AccountID != nil && !uuid.IsValid(*query.AccountID) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid account_id"))
		return
	}

	statement, err := h.statementService.BuildStatement(userID,
		query.Year, query.Month, query.AccountID, calendar.Today())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, statement)
}
