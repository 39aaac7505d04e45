package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ExpenseFixed    = "fixed"
	ExpenseVariable = "variable"
	ExpenseIncome   = "income"
	ExpenseTransfer = "transfer"

	ExpensePaid    = "paid"
	ExpensePending = "pending"
)

// Expense is a generic ledger line: manual expenses and incomes, card
// installment purchases and account transfers all land here.
type Expense struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Description string `gorm:"not null" json:"description"`
	Category    string `json:"category"`

	Type   string `gorm:"type:varchar(20);default:'variable'" json:"type"`
	Status string `gorm:"type:varchar(20);default:'paid'" json:"status"`

	AmountCentavos int64     `gorm:"not null" json:"amount_centavos"`
	PaymentDate    time.Time `gorm:"not null" json:"payment_date"`
	PaymentMethod  string    `json:"payment_method"`

	CardID    *uuid.UUID `gorm:"type:uuid;index" json:"card_id"`
	AccountID *uuid.UUID `gorm:"type:uuid;index" json:"account_id"`

	InstallmentsCurrent int `gorm:"default:1" json:"installments_current"`
	InstallmentsTotal   int `gorm:"default:1" json:"installments_total"`

	// True while this expense's amount is reflected in an account
	// balance. Guards the debit/refund so a balance moves exactly once
	// per economic event no matter how often the status flips.
	BalanceApplied bool `gorm:"default:false" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}

type CreditCard struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"not null" json:"name"`

	LimitCentavos int64 `gorm:"not null" json:"limit_centavos"`
	ClosingDay    int   `json:"closing_day"`
	DueDay        int   `json:"due_day"`
}

func (c *CreditCard) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// BankAccount keeps a running balance cache. Only the ledger engine
// mutates it; it is never recomputed from history.
type BankAccount struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"not null" json:"name"`

	BalanceCentavos int64 `gorm:"default:0" json:"balance_centavos"`
}

func (b *BankAccount) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
