// services/ledger.go
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiobela-backend/models"
)

// LedgerService records expenses, incomes, transfers and card installment
// purchases, and keeps bank account balances in step. A balance moves
// exactly once per economic event: at creation for immediate payments and
// transfers, at the pending->paid transition for deferred ones.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

type ExpenseInput struct {
	Description    string
	Category       string
	Type           string // fixed, variable, income, transfer
	Status         string // paid (default) or pending
	AmountCentavos int64
	PaymentDate    time.Time
	PaymentMethod  string
	CardID         *uuid.UUID
	AccountID      *uuid.UUID
	// When > 1 the amount is split into equal parts, remainder on the
	// first, one row per calendar month.
	InstallmentsTotal int
}

func (s *LedgerService) CreateExpense(input ExpenseInput) ([]models.Expense, error) {
	if input.Description == "" {
		return nil, NewValidationError("expense requires a description")
	}
	if input.AmountCentavos <= 0 {
		return nil, NewValidationError("expense requires a positive amount")
	}
	if input.PaymentDate.IsZero() {
		return nil, NewValidationError("expense requires a payment date")
	}
	switch input.Type {
	case models.ExpenseFixed, models.ExpenseVariable, models.ExpenseIncome, models.ExpenseTransfer:
	default:
		return nil, NewValidationError("invalid expense type %q", input.Type)
	}

	var created []models.Expense
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if input.Type == models.ExpenseTransfer {
			rows, err := s.createTransfer(tx, input)
			created = rows
			return err
		}

		status := input.Status
		if status == "" {
			status = models.ExpensePaid
		}

		if input.CardID != nil {
			if err := s.checkCardLimit(tx, *input.CardID, input.AmountCentavos); err != nil {
				return err
			}
			// Card purchases settle on the invoice, not now.
			status = models.ExpensePending
		}

		total := input.InstallmentsTotal
		if total < 1 {
			total = 1
		}

		// Immediate settlement path: single part, no card, already paid.
		settleNow := total == 1 && input.CardID == nil &&
			status == models.ExpensePaid && input.AccountID != nil

		parts := splitInstallments(input.AmountCentavos, total)
		for i, part := range parts {
			expense := models.Expense{
				Description:         input.Description,
				Category:            input.Category,
				Type:                input.Type,
				Status:              status,
				AmountCentavos:      part,
				PaymentDate:         input.PaymentDate.AddDate(0, i, 0),
				PaymentMethod:       input.PaymentMethod,
				CardID:              input.CardID,
				AccountID:           input.AccountID,
				InstallmentsCurrent: i + 1,
				InstallmentsTotal:   total,
				BalanceApplied:      settleNow,
			}
			if err := tx.Create(&expense).Error; err != nil {
				return err
			}
			created = append(created, expense)
		}

		if settleNow {
			return s.applyBalance(tx, *input.AccountID, balanceDelta(input.Type, input.AmountCentavos))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *LedgerService) createTransfer(tx *gorm.DB, input ExpenseInput) ([]models.Expense, error) {
	if input.AccountID == nil {
		return nil, NewValidationError("transfer requires a target account")
	}
	expense := models.Expense{
		Description:         input.Description,
		Category:            input.Category,
		Type:                models.ExpenseTransfer,
		Status:              models.ExpensePaid,
		AmountCentavos:      input.AmountCentavos,
		PaymentDate:         input.PaymentDate,
		PaymentMethod:       input.PaymentMethod,
		AccountID:           input.AccountID,
		InstallmentsCurrent: 1,
		InstallmentsTotal:   1,
		BalanceApplied:      true,
	}
	if err := tx.Create(&expense).Error; err != nil {
		return nil, err
	}
	if err := s.applyBalance(tx, *input.AccountID, input.AmountCentavos); err != nil {
		return nil, err
	}
	return []models.Expense{expense}, nil
}

// UpdateExpenseStatus handles the deferred settlement path. A non-paid
// expense becoming paid with an account is settled against it at that
// moment; reverting a settled expense to pending refunds the account.
// The BalanceApplied flag keeps repeated flips from moving the balance
// more than once per direction.
func (s *LedgerService) UpdateExpenseStatus(id uuid.UUID, status string, accountID *uuid.UUID) (*models.Expense, error) {
	if status != models.ExpensePaid && status != models.ExpensePending {
		return nil, NewValidationError("invalid expense status %q", status)
	}

	var expense models.Expense
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&expense, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "expense"}
			}
			return err
		}

		becamePaid := expense.Status != models.ExpensePaid && status == models.ExpensePaid
		becameUnpaid := expense.Status == models.ExpensePaid && status != models.ExpensePaid
		expense.Status = status
		if accountID != nil {
			expense.AccountID = accountID
		}

		var delta int64
		switch {
		case becamePaid && !expense.BalanceApplied && expense.AccountID != nil:
			delta = balanceDelta(expense.Type, expense.AmountCentavos)
			expense.BalanceApplied = true
		case becameUnpaid && expense.BalanceApplied && expense.AccountID != nil:
			delta = -balanceDelta(expense.Type, expense.AmountCentavos)
			expense.BalanceApplied = false
		}

		if err := tx.Save(&expense).Error; err != nil {
			return err
		}
		if delta != 0 {
			return s.applyBalance(tx, *expense.AccountID, delta)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// checkCardLimit rejects a charge that would push the card's pending
// total past its limit. A charge landing exactly on the limit passes.
func (s *LedgerService) checkCardLimit(tx *gorm.DB, cardID uuid.UUID, amount int64) error {
	var card models.CreditCard
	if err := tx.First(&card, "id = ?", cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "credit card"}
		}
		return err
	}

	var pendingTotal int64
	if err := tx.Model(&models.Expense{}).
		Where("card_id = ? AND status = ?", cardID, models.ExpensePending).
		Select("COALESCE(SUM(amount_centavos), 0)").
		Scan(&pendingTotal).Error; err != nil {
		return err
	}

	if pendingTotal+amount > card.LimitCentavos {
		available := card.LimitCentavos - pendingTotal
		if available < 0 {
			available = 0
		}
		return NewConflictError(
			"charge exceeds card limit: %d centavos available on %s",
			available, card.Name)
	}
	return nil
}

func (s *LedgerService) applyBalance(tx *gorm.DB, accountID uuid.UUID, delta int64) error {
	res := tx.Model(&models.BankAccount{}).
		Where("id = ?", accountID).
		Update("balance_centavos", gorm.Expr("balance_centavos + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Entity: "bank account"}
	}
	return nil
}

// splitInstallments divides amount into n equal floor parts, putting the
// remainder on the first so the parts sum exactly to amount.
func splitInstallments(amount int64, n int) []int64 {
	if n <= 1 {
		return []int64{amount}
	}
	part := amount / int64(n)
	parts := make([]int64, n)
	for i := range parts {
		parts[i] = part
	}
	parts[0] += amount - part*int64(n)
	return parts
}

// balanceDelta gives the signed account movement for an expense type:
// incomes and transfers credit the account, everything else debits it.
func balanceDelta(expenseType string, amount int64) int64 {
	if expenseType == models.ExpenseIncome || expenseType == models.ExpenseTransfer {
		return amount
	}
	return -amount
}
