package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsGoal is a savings target the user deposits toward.
type SavingsGoal struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string          `gorm:"not null" json:"name"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"current_amount"`
	Currency      string          `gorm:"not null;default:'GTQ'" json:"currency"`
	TargetDate    *time.Time      `json:"target_date,omitempty"`
	AccountID     *string         `gorm:"type:uuid" json:"account_id,omitempty"`
	IsCompleted   bool            `gorm:"default:false" json:"is_completed"`

	Deposits []SavingsDeposit `gorm:"foreignKey:GoalID" json:"deposits,omitempty"`
}

// SavingsDeposit is a transfer into a savings goal. When SourceAccountID is
// set the deposit debits that account and shows up in its statement; goals
// funded without a source account never touch real balances.
type SavingsDeposit struct {
	Base
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	GoalID          string          `gorm:"type:uuid;not null;index" json:"goal_id"`
	SourceAccountID *string         `gorm:"type:uuid" json:"source_account_id,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	DepositDate     time.Time       `gorm:"not null;index" json:"deposit_date"`
	Description     string          `json:"description"`

	// Relationships
	Goal          *SavingsGoal `gorm:"foreignKey:GoalID" json:"goal,omitempty"`
	SourceAccount *Account     `gorm:"foreignKey:SourceAccountID" json:"source_account,omitempty"`
}
