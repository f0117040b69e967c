package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a pure ledger debit; expenses have no recurrence.
type Expense struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Currency    string          `gorm:"not null;default:'GTQ'" json:"currency"`
	ExpenseDate time.Time       `gorm:"not null;index" json:"expense_date"`
	AccountID   *string         `gorm:"type:uuid" json:"account_id,omitempty"`
	CategoryID  *string         `gorm:"type:uuid" json:"category_id,omitempty"`
	Description string          `json:"description"`

	// Relationships
	Account  *Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
