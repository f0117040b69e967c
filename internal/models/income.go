package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// IncomeType represents the type of income
type IncomeType string

const (
	IncomeTypeFixed    IncomeType = "fixed"
	IncomeTypeVariable IncomeType = "variable"
	IncomeTypeExtra    IncomeType = "extra"
)

// GeneratedMarkerPrefix opens the description of every schedule-generated
// income. Older rows carry only this textual marker; newer rows also carry
// ScheduleID, which is the authoritative link.
const GeneratedMarkerPrefix = "Generado desde: "

// Income is a ledger credit, entered manually or generated from a salary
// schedule. Generated incomes start unconfirmed and only affect account
// balances once the user confirms them.
type Income struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string          `gorm:"not null" json:"name"`
	Type        IncomeType      `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Currency    string          `gorm:"not null;default:'GTQ'" json:"currency"`
	IncomeDate  time.Time       `gorm:"not null;index" json:"income_date"`
	AccountID   *string         `gorm:"type:uuid" json:"account_id,omitempty"`
	Description string          `json:"description"`
	Frequency   string          `gorm:"default:'one-time'" json:"frequency"`
	IsConfirmed bool            `gorm:"default:false" json:"is_confirmed"`
	ConfirmedAt *time.Time      `json:"confirmed_at,omitempty"`
	IsSalary    bool            `gorm:"default:false" json:"is_salary"`

	// ScheduleID links a generated income to its owning schedule. It
	// replaces the description-substring linkage; the marker text is kept
	// for display and as a fallback for rows created before the column
	// existed.
	ScheduleID *string `gorm:"type:uuid;index" json:"schedule_id,omitempty"`

	// Relationships
	Account  *Account        `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Schedule *SalarySchedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`
}

// GeneratedMarker builds the traceability description for an income
// generated from the named schedule.
func GeneratedMarker(scheduleName, frequency string) string {
	return fmt.Sprintf("%s%s - %s", GeneratedMarkerPrefix, scheduleName, frequency)
}

// MatchesScheduleName reports whether the income's description references
// the given schedule name (case-insensitive substring, the legacy linkage).
func (i *Income) MatchesScheduleName(name string) bool {
	if name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(i.Description), strings.ToLower(name))
}

// ScheduleNameFromMarker extracts the schedule name embedded in a generated
// income's description. Returns "" when the description carries no marker.
func (i *Income) ScheduleNameFromMarker() string {
	rest, ok := strings.CutPrefix(i.Description, GeneratedMarkerPrefix)
	if !ok {
		return ""
	}
	if idx := strings.LastIndex(rest, " - "); idx >= 0 {
		return rest[:idx]
	}
	return rest
}
