// services/cashflow.go
package services

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"studiobela-backend/models"
)

const (
	TransactionIncome  = "receita"
	TransactionExpense = "despesa"

	TransactionRealized = "realizado"
	TransactionForecast = "previsto"
)

// Transaction is one normalized line of the unified cash-flow view.
// AmountCentavos is signed; the accumulated balance only moves on
// realized lines.
type Transaction struct {
	Date                       time.Time `json:"date"`
	Description                string    `json:"description"`
	AmountCentavos             int64     `json:"amount_centavos"`
	Type                       string    `json:"type"`
	Status                     string    `json:"status"`
	Category                   string    `json:"category"`
	Source                     string    `json:"source"`
	AccumulatedBalanceCentavos int64     `json:"accumulated_balance_centavos"`
}

// CashFlowService merges appointment revenue, ledger entries and staff
// commissions into one chronological stream with a running balance.
type CashFlowService struct {
	db *gorm.DB
}

func NewCashFlowService(db *gorm.DB) *CashFlowService {
	return &CashFlowService{db: db}
}

func (s *CashFlowService) Range(start, end time.Time) ([]Transaction, error) {
	if end.Before(start) {
		return nil, NewValidationError("end date before start date")
	}

	var transactions []Transaction

	appointments, err := s.appointmentStream(start, end)
	if err != nil {
		return nil, err
	}
	transactions = append(transactions, appointments...)

	expenses, err := s.expenseStream(start, end)
	if err != nil {
		return nil, err
	}
	transactions = append(transactions, expenses...)

	commissions, err := s.commissionStream(start, end)
	if err != nil {
		return nil, err
	}
	transactions = append(transactions, commissions...)

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.Before(transactions[j].Date)
	})

	var balance int64
	for i := range transactions {
		if transactions[i].Status == TransactionRealized {
			balance += transactions[i].AmountCentavos
		}
		transactions[i].AccumulatedBalanceCentavos = balance
	}
	return transactions, nil
}

func (s *CashFlowService) appointmentStream(start, end time.Time) ([]Transaction, error) {
	var appointments []models.Appointment
	if err := s.db.Preload("Service").Preload("Customer").
		Where("status IN ? AND start_time >= ? AND start_time <= ?",
			[]string{models.AppointmentConfirmed, models.AppointmentCompleted}, start, end).
		Find(&appointments).Error; err != nil {
		return nil, err
	}

	out := make([]Transaction, 0, len(appointments))
	for _, a := range appointments {
		status := TransactionForecast
		if a.Status == models.AppointmentCompleted {
			status = TransactionRealized
		}
		out = append(out, Transaction{
			Date:           a.StartTime,
			Description:    fmt.Sprintf("%s - %s", a.Service.Name, a.Customer.FullName),
			AmountCentavos: a.SettlementAmount(a.Service.PriceCentavos),
			Type:           TransactionIncome,
			Status:         status,
			Category:       "Serviços",
			Source:         "appointment",
		})
	}
	return out, nil
}

func (s *CashFlowService) expenseStream(start, end time.Time) ([]Transaction, error) {
	var expenses []models.Expense
	if err := s.db.
		Where("payment_date >= ? AND payment_date <= ?", start, end).
		Find(&expenses).Error; err != nil {
		return nil, err
	}

	out := make([]Transaction, 0, len(expenses))
	for _, e := range expenses {
		amount := e.AmountCentavos
		kind := TransactionExpense
		if e.Type == models.ExpenseIncome {
			kind = TransactionIncome
		} else {
			amount = -amount
		}
		status := TransactionForecast
		if e.Status == models.ExpensePaid {
			status = TransactionRealized
		}
		out = append(out, Transaction{
			Date:           e.PaymentDate,
			Description:    e.Description,
			AmountCentavos: amount,
			Type:           kind,
			Status:         status,
			Category:       e.Category,
			Source:         "expense",
		})
	}
	return out, nil
}

func (s *CashFlowService) commissionStream(start, end time.Time) ([]Transaction, error) {
	var commissions []models.StaffCommission
	if err := s.db.Preload("Staff").
		Where("status <> ? AND date >= ? AND date <= ?",
			models.CommissionCancelled, start, end).
		Find(&commissions).Error; err != nil {
		return nil, err
	}

	out := make([]Transaction, 0, len(commissions))
	for _, c := range commissions {
		status := TransactionForecast
		if c.Status == models.CommissionPaid {
			status = TransactionRealized
		}
		out = append(out, Transaction{
			Date:           c.Date,
			Description:    fmt.Sprintf("Comissão - %s", c.Staff.Name),
			AmountCentavos: -c.CommissionAmountCentavos,
			Type:           TransactionExpense,
			Status:         status,
			Category:       "Comissões",
			Source:         "commission",
		})
	}
	return out, nil
}
