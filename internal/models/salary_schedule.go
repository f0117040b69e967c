package models

import (
	"time"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/recurrence"

	"github.com/shopspring/decimal"
)

// ScheduleType distinguishes schedules that generate pay-date incomes
// (fixed) from index-only schedules used as comparison targets (average).
type ScheduleType string

const (
	ScheduleTypeFixed   ScheduleType = "fixed"
	ScheduleTypeAverage ScheduleType = "average"
)

// SalarySchedule is a recurring salary definition. For fixed schedules
// NextGenerationDate is always derived from StartDate/SalaryDay/Frequency
// plus the advancement rules, never from "today", so pay dates stay stable
// regardless of when the user confirms.
type SalarySchedule struct {
	Base
	UserID    string               `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string               `gorm:"not null" json:"name"`
	Type      ScheduleType         `gorm:"not null" json:"type"`
	Amount    decimal.Decimal      `gorm:"type:decimal(20,4);not null" json:"amount"`
	Currency  string               `gorm:"not null;default:'GTQ'" json:"currency"`
	Frequency recurrence.Frequency `json:"frequency,omitempty"`

	// SalaryDay is a day-of-month (1-31) for monthly schedules and a
	// day-of-week (0=Sunday..6=Saturday) for weekly schedules.
	SalaryDay int       `json:"salary_day"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	AccountID *string   `gorm:"type:uuid" json:"account_id,omitempty"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`

	LastGeneratedDate  *time.Time `json:"last_generated_date,omitempty"`
	NextGenerationDate *time.Time `json:"next_generation_date,omitempty"`

	// Relationships
	Account *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Incomes []Income `gorm:"foreignKey:ScheduleID" json:"incomes,omitempty"`
}
