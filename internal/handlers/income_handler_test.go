package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/OmarGodoy2077/AhorrAI-sub000/internal/errors"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/models"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/pagination"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/services"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/validator"
)

// --- mock services ---

type mockIncomeService struct {
	createIncomeFn             func(userID string, fields services.IncomeFields) (*models.Income, error)
	getUserIncomesFn           func(userID string, page pagination.PageRequest, filter services.IncomeFilter) (*pagination.PageResponse[models.Income], error)
	getIncomeByIDFn            func(userID, incomeID string) (*models.Income, error)
	deleteIncomeFn             func(userID, incomeID string) error
	generateSalaryIncomesFn    func(userID string, now time.Time) (*services.GenerationResult, error)
	confirmIncomeFn            func(userID, incomeID string, now time.Time) (*models.Income, error)
	salaryConfirmationPeriodFn func(userID, periodType string, today time.Time) (*services.PeriodReport, error)
}

func (m *mockIncomeService) CreateIncome(userID string, fields services.IncomeFields) (*models.Income, error) {
	if m.createIncomeFn != nil {
		return m.createIncomeFn(userID, fields)
	}
	return &models.Income{}, nil
}

func (m *mockIncomeService) GetUserIncomes(userID string, page pagination.PageRequest, filter services.IncomeFilter) (*pagination.PageResponse[models.Income], error) {
	if m.getUserIncomesFn != nil {
		return m.getUserIncomesFn(userID, page, filter)
	}
	result := pagination.NewPageResponse([]models.Income{}, 1, 20, 0)
	return &result, nil
}

func (m *mockIncomeService) GetIncomeByID(userID, incomeID string) (*models.Income, error) {
	if m.getIncomeByIDFn != nil {
		return m.getIncomeByIDFn(userID, incomeID)
	}
	return &models.Income{}, nil
}

func (m *mockIncomeService) DeleteIncome(userID, incomeID string) error {
	if m.deleteIncomeFn != nil {
		return m.deleteIncomeFn(userID, incomeID)
	}
	return nil
}

func (m *mockIncomeService) GenerateSalaryIncomes(userID string, now time.Time) (*services.GenerationResult, error) {
	if m.generateSalaryIncomesFn != nil {
		return m.generateSalaryIncomesFn(userID, now)
	}
	return &services.GenerationResult{Generated: []models.Income{}}, nil
}

func (m *mockIncomeService) ConfirmIncome(userID, incomeID string, now time.Time) (*models.Income, error) {
	if m.confirmIncomeFn != nil {
		return m.confirmIncomeFn(userID, incomeID, now)
	}
	return &models.Income{}, nil
}

func (m *mockIncomeService) SalaryConfirmationPeriod(userID, periodType string, today time.Time) (*services.PeriodReport, error) {
	if m.salaryConfirmationPeriodFn != nil {
		return m.salaryConfirmationPeriodFn(userID, periodType, today)
	}
	return &services.PeriodReport{Comparisons: []services.PeriodComparison{}}, nil
}

type mockAuditService struct{}

func (m *mockAuditService) Log(_, _, _, _, _ string, _ map[string]interface{}) {}

// --- test helpers ---

const testUserID = "11111111-1111-4111-8111-111111111111"
const testIncomeID = "22222222-2222-4222-8222-222222222222"

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func setupIncomeRouter(handler *IncomeHandler) *gin.Engine {
	r := gin.New()
	authed := r.Group("/", injectUserID(testUserID))
	authed.POST("/incomes", handler.CreateIncome)
	authed.GET("/incomes", handler.GetUserIncomes)
	authed.POST("/incomes/generate/salary-incomes", handler.GenerateSalaryIncomes)
	authed.GET("/incomes/salary-confirmation-period", handler.SalaryConfirmationPeriod)
	authed.GET("/incomes/:id", handler.GetIncomeByID)
	authed.POST("/incomes/:id/confirm", handler.ConfirmIncome)
	authed.DELETE("/incomes/:id", handler.DeleteIncome)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestIncomeHandler_CreateIncome(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		incomeSvc := &mockIncomeService{
			createIncomeFn: func(userID string, fields services.IncomeFields) (*models.Income, error) {
				if userID != testUserID {
					t.Errorf("user ID = %s, want %s", userID, testUserID)
				}
				return &models.Income{Name: fields.Name, Amount: fields.Amount}, nil
			},
		}
		handler := NewIncomeHandler(incomeSvc, &mockAuditService{})
		r := setupIncomeRouter(handler)

		rec := doRequest(r, "POST", "/incomes",
			`{"name":"Bono","type":"extra","amount":"750.50","income_date":"2024-03-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		income := result["income"].(map[string]interface{})
		if income["name"] != "Bono" {
			t.Errorf("name = %v, want Bono", income["name"])
		}
	})

	t.Run("returns 400 on unknown income type", func(t *testing.T) {
		handler := NewIncomeHandler(&mockIncomeService{}, &mockAuditService{})
		r := setupIncomeRouter(handler)

		rec := doRequest(r, "POST", "/incomes",
			`{"name":"Bono","type":"bonus","amount":"100","income_date":"2024-03-01"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		handler := NewIncomeHandler(&mockIncomeService{}, &mockAuditService{})
		r := setupIncomeRouter(handler)

		rec := doRequest(r, "POST", "/incomes",
			`{"name":"Bono","type":"extra","amount":"100","income_date":"03/01/2024"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestIncomeHandler_GenerateSalaryIncomes(t *testing.T) {
	t.Run("returns generated incomes and failures", func(t *testing.T) {
		incomeSvc := &mockIncomeService{
			generateSalaryIncomesFn: func(_ string, _ time.Time) (*services.GenerationResult, error) {
				return &services.GenerationResult{
					Generated: []models.Income{
						{Name: "Salario Enero 2024", Amount: decimal.NewFromInt(5000)},
					},
					Failed: []services.GenerationFailure{
						{ScheduleID: "broken", ScheduleName: "Roto", Reason: "unsupported frequency"},
					},
				}, nil
			},
		}
		handler := NewIncomeHandler(incomeSvc, &mockAuditService{})
		r := setupIncomeRouter(handler)

		rec := doRequest(r, "POST", "/incomes/generate/salary-incomes", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		generated := result["generated"].([]interface{})
		if len(generated) != 1 {
			t.Errorf("generated = %d, want 1", len(generated))
		}
		failed := result["failed"].([]interface{})
		if len(failed) != 1 {
			t.Errorf("failed = %d, want 1", len(failed))
		}
	})

	t.Run("static route is not captured by the id route", func(t *testing.T) {
		called := false
		incomeSvc := &mockIncomeService{
			generateSalaryIncomesFn: func(_ string, _ time.Time) (*services.GenerationResult, error) {
				called = true
				return &services.GenerationResult{Generated: []models.Income{}}, nil
			},
		}
		handler := NewIncomeHandler(incomeSvc, &mockAuditService{})
		r := setupIncomeRouter(handler)

		rec := doRequest(r, "POST", "/incomes/generate/salary-incomes", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !called {
			t.Error("generation endpoint was not invoked")
		}
	})
}

func TestIncomeHandler_ConfirmIncome(t *testing.T) {
	t.Run("returns the confirmed income", func(t *testing.T) {
		incomeSvc := &mockIncomeService{
			confirmIncomeFn: func(_, incomeID string, _ time.Time) (*models.Income, error) {
				if incomeID != testIncomeID {
					t.Errorf("income ID = %s, want %s", incomeID, testIncomeID)
				}
				now := time.Now()
				return &models.Income{IsConfirmed: true, ConfirmedAt: &now}, nil
			},
		}
		handler := NewIncomeHandler(incomeSvc, &mockAuditService{})
		r := setupIncomeRouter(handler)

		rec := doRequest(r, "POST", "/incomes/"+testIncomeID+"/confirm", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		income := result["income"].(map[string]interface{})
		if income["is_confirmed"] != true {
			t.Error("expected is_confirmed true")
		}
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		handler := NewIncomeHandler(&mockIncomeService{}, &mockAuditService{})
		r := setupIncomeRouter(handler)

		rec := doRequest(r, "POST", "/incomes/not-a-uuid/confirm", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when the income does not exist", func(t *testing.T) {
		incomeSvc := &mockIncomeService{
			confirmIncomeFn: func(_, _ string, _ time.Time) (*models.Income, error) {
				return nil, apperrors.ErrIncomeNotFound
			},
		}
		handler := NewIncomeHandler(incomeSvc, &mockAuditService{})
		r := setupIncomeRouter(handler)

		rec := doRequest(r, "POST", "/incomes/"+testIncomeID+"/confirm", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INCOME_NOT_FOUND")
	})
}

func TestIncomeHandler_SalaryConfirmationPeriod(t *testing.T) {
	t.Run("defaults to monthly", func(t *testing.T) {
		var gotPeriod string
		incomeSvc := &mockIncomeService{
			salaryConfirmationPeriodFn: func(_, periodType string, _ time.Time) (*services.PeriodReport, error) {
				gotPeriod = periodType
				return &services.PeriodReport{PeriodType: periodType, Comparisons: []services.PeriodComparison{}}, nil
			},
		}
		handler := NewIncomeHandler(incomeSvc, &mockAuditService{})
		r := setupIncomeRouter(handler)

		rec := doRequest(r, "GET", "/incomes/salary-confirmation-period", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPeriod != "monthly" {
			t.Errorf("period type = %s, want monthly", gotPeriod)
		}
	})

	t.Run("rejects unknown period types at binding", func(t *testing.T) {
		handler := NewIncomeHandler(&mockIncomeService{}, &mockAuditService{})
		r := setupIncomeRouter(handler)

		rec := doRequest(r, "GET", "/incomes/salary-confirmation-period?period_type=quarterly", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestIncomeHandler_GetUserIncomes(t *testing.T) {
	t.Run("passes the filters through", func(t *testing.T) {
		var gotFilter services.IncomeFilter
		incomeSvc := &mockIncomeService{
			getUserIncomesFn: func(_ string, _ pagination.PageRequest, filter services.IncomeFilter) (*pagination.PageResponse[models.Income], error) {
				gotFilter = filter
				result := pagination.NewPageResponse([]models.Income{}, 1, 20, 0)
				return &result, nil
			},
		}
		handler := NewIncomeHandler(incomeSvc, &mockAuditService{})
		r := setupIncomeRouter(handler)

		rec := doRequest(r, "GET", "/incomes?year=2024&month=3&is_confirmed=false", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.Year == nil || *gotFilter.Year != 2024 {
			t.Errorf("year filter = %v, want 2024", gotFilter.Year)
		}
		if gotFilter.Month == nil || *gotFilter.Month != 3 {
			t.Errorf("month filter = %v, want 3", gotFilter.Month)
		}
		if gotFilter.IsConfirmed == nil || *gotFilter.IsConfirmed {
			t.Errorf("is_confirmed filter = %v, want false", gotFilter.IsConfirmed)
		}
	})

	t.Run("returns 400 on out-of-range month", func(t *testing.T) {
		handler := NewIncomeHandler(&mockIncomeService{}, &mockAuditService{})
		r := setupIncomeRouter(handler)

		rec := doRequest(r, "GET", "/incomes?year=2024&month=13", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestIncomeHandler_Unauthorized(t *testing.T) {
	handler := NewIncomeHandler(&mockIncomeService{}, &mockAuditService{})
	r := gin.New()
	r.GET("/incomes", handler.GetUserIncomes)

	rec := doRequest(r, "GET", "/incomes", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
}
