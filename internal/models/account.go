package models

import "github.com/shopspring/decimal"

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeCash    AccountType = "cash"
	AccountTypeBank    AccountType = "bank"
	AccountTypeSavings AccountType = "savings"
	AccountTypeVirtual AccountType = "virtual"
)

// Account represents a financial account. Balance is the authoritative
// current balance, maintained as confirmed incomes, expenses, and savings
// deposits are applied.
type Account struct {
	Base
	UserID           string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name             string          `gorm:"not null" json:"name"`
	Type             AccountType     `gorm:"not null" json:"type"`
	Description      string          `json:"description"`
	Balance          decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"balance"`
	Currency         string          `gorm:"not null;default:'GTQ'" json:"currency"`
	IsVirtualAccount bool            `gorm:"default:false" json:"is_virtual_account"`
	IsActive         bool            `gorm:"default:true" json:"is_active"`

	// Relationships
	Incomes  []Income  `gorm:"foreignKey:AccountID" json:"incomes,omitempty"`
	Expenses []Expense `gorm:"foreignKey:AccountID" json:"expenses,omitempty"`
}
