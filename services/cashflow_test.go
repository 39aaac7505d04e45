package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"studiobela-backend/models"
)

func TestCashFlowMergesStreamsInDateOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewCashFlowService(db)

	location := createLocation(t, db, "Centro")
	staff := createStaff(t, db, "Ana", 40)
	service := createService(t, db, "Manicure", 45, 10000)
	customer := createCustomer(t, db, "Beatriz Lima", "5511998887766")

	day := func(d int) time.Time {
		return time.Date(2025, 3, d, 10, 0, 0, 0, time.Local)
	}

	// Day 3: completed appointment, realized income of 10000.
	require.NoError(t, db.Create(&models.Appointment{
		CustomerID: customer.ID,
		StaffID:    staff.ID,
		ServiceID:  service.ID,
		LocationID: location.ID,
		StartTime:  day(3),
		EndTime:    day(3).Add(45 * time.Minute),
		Status:     models.AppointmentCompleted,
	}).Error)

	// Day 5: confirmed appointment, forecast only.
	require.NoError(t, db.Create(&models.Appointment{
		CustomerID: customer.ID,
		StaffID:    staff.ID,
		ServiceID:  service.ID,
		LocationID: location.ID,
		StartTime:  day(5),
		EndTime:    day(5).Add(45 * time.Minute),
		Status:     models.AppointmentConfirmed,
	}).Error)

	// Day 1: paid ledger expense, realized -3000.
	require.NoError(t, db.Create(&models.Expense{
		Description:    "Material de limpeza",
		Category:       "operacional",
		Type:           models.ExpenseVariable,
		Status:         models.ExpensePaid,
		AmountCentavos: 3000,
		PaymentDate:    day(1),
	}).Error)

	// Day 4: pending commission, forecast -4000.
	require.NoError(t, db.Create(&models.StaffCommission{
		AppointmentID:            createAppointmentID(t, db, customer, staff, service, location, day(2)),
		StaffID:                  staff.ID,
		ServiceID:                service.ID,
		Date:                     day(4),
		CommissionPercentage:     40,
		CommissionAmountCentavos: 4000,
		Status:                   models.CommissionPendingPayment,
	}).Error)

	transactions, err := svc.Range(day(1).AddDate(0, 0, -1), day(5).AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, transactions, 4)

	assert.Equal(t, "expense", transactions[0].Source)
	assert.Equal(t, "appointment", transactions[1].Source)
	assert.Equal(t, "commission", transactions[2].Source)
	assert.Equal(t, "appointment", transactions[3].Source)

	for i := 1; i < len(transactions); i++ {
		assert.False(t, transactions[i].Date.Before(transactions[i-1].Date),
			"stream must be sorted by date")
	}

	// Balance: -3000 (realized expense), +10000 (completed appointment),
	// then unchanged through the two forecast lines.
	assert.Equal(t, int64(-3000), transactions[0].AccumulatedBalanceCentavos)
	assert.Equal(t, int64(7000), transactions[1].AccumulatedBalanceCentavos)
	assert.Equal(t, int64(7000), transactions[2].AccumulatedBalanceCentavos)
	assert.Equal(t, int64(7000), transactions[3].AccumulatedBalanceCentavos)

	assert.Equal(t, TransactionForecast, transactions[2].Status)
	assert.Equal(t, int64(-4000), transactions[2].AmountCentavos)
}

func TestCashFlowSigns(t *testing.T) {
	db := newTestDB(t)
	svc := NewCashFlowService(db)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

	require.NoError(t, db.Create(&models.Expense{
		Description:    "Venda de esmaltes",
		Type:           models.ExpenseIncome,
		Status:         models.ExpensePaid,
		AmountCentavos: 2500,
		PaymentDate:    date,
	}).Error)
	require.NoError(t, db.Create(&models.Expense{
		Description:    "Aluguel",
		Type:           models.ExpenseFixed,
		Status:         models.ExpensePaid,
		AmountCentavos: 30000,
		PaymentDate:    date,
	}).Error)

	transactions, err := svc.Range(date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	byDescription := map[string]Transaction{}
	for _, tr := range transactions {
		byDescription[tr.Description] = tr
	}
	assert.Equal(t, int64(2500), byDescription["Venda de esmaltes"].AmountCentavos)
	assert.Equal(t, TransactionIncome, byDescription["Venda de esmaltes"].Type)
	assert.Equal(t, int64(-30000), byDescription["Aluguel"].AmountCentavos)
	assert.Equal(t, TransactionExpense, byDescription["Aluguel"].Type)
}

func TestCashFlowExcludesCancelled(t *testing.T) {
	db := newTestDB(t)
	svc := NewCashFlowService(db)

	location := createLocation(t, db, "Centro")
	staff := createStaff(t, db, "Ana", 40)
	service := createService(t, db, "Manicure", 45, 10000)
	customer := createCustomer(t, db, "Beatriz Lima", "5511998887766")
	date := time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local)

	require.NoError(t, db.Create(&models.Appointment{
		CustomerID: customer.ID,
		StaffID:    staff.ID,
		ServiceID:  service.ID,
		LocationID: location.ID,
		StartTime:  date,
		EndTime:    date.Add(45 * time.Minute),
		Status:     models.AppointmentCancelled,
	}).Error)

	require.NoError(t, db.Create(&models.StaffCommission{
		AppointmentID:            createAppointmentID(t, db, customer, staff, service, location, date.AddDate(0, 0, 1)),
		StaffID:                  staff.ID,
		ServiceID:                service.ID,
		Date:                     date,
		CommissionPercentage:     40,
		CommissionAmountCentavos: 4000,
		Status:                   models.CommissionCancelled,
	}).Error)

	transactions, err := svc.Range(date.AddDate(0, 0, -1), date.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestCashFlowUsesFinalAmountOverListPrice(t *testing.T) {
	db := newTestDB(t)
	svc := NewCashFlowService(db)

	location := createLocation(t, db, "Centro")
	staff := createStaff(t, db, "Ana", 40)
	service := createService(t, db, "Manicure", 45, 10000)
	customer := createCustomer(t, db, "Beatriz Lima", "5511998887766")
	date := time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local)

	final := int64(8500)
	require.NoError(t, db.Create(&models.Appointment{
		CustomerID:          customer.ID,
		StaffID:             staff.ID,
		ServiceID:           service.ID,
		LocationID:          location.ID,
		StartTime:           date,
		EndTime:             date.Add(45 * time.Minute),
		Status:              models.AppointmentCompleted,
		FinalAmountCentavos: &final,
	}).Error)

	transactions, err := svc.Range(date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, int64(8500), transactions[0].AmountCentavos)
	assert.Equal(t, int64(8500), transactions[0].AccumulatedBalanceCentavos)
}

func TestCashFlowRejectsInvertedRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewCashFlowService(db)

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	_, err := svc.Range(start, start.AddDate(0, 0, -5))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

// createAppointmentID inserts a minimal appointment so commission rows can
// satisfy their unique appointment reference.
func createAppointmentID(t *testing.T, db *gorm.DB, customer models.Customer, staff models.Staff, service models.Service, location models.Location, at time.Time) uuid.UUID {
	t.Helper()
	appointment := models.Appointment{
		CustomerID: customer.ID,
		StaffID:    staff.ID,
		ServiceID:  service.ID,
		LocationID: location.ID,
		StartTime:  at,
		EndTime:    at.Add(30 * time.Minute),
		Status:     models.AppointmentCancelled,
	}
	require.NoError(t, db.Create(&appointment).Error)
	return appointment.ID
}
