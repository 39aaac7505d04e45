package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"studiobela-backend/models"
)

type settlementFixture struct {
	db       *gorm.DB
	svc      *SettlementService
	customer models.Customer
	staff    models.Staff
	service  models.Service
	location models.Location
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	db := newTestDB(t)
	return &settlementFixture{
		db:       db,
		svc:      NewSettlementService(db),
		customer: createCustomer(t, db, "Beatriz Lima", "5511998887766"),
		staff:    createStaff(t, db, "Ana", 40),
		service:  createService(t, db, "Manicure", 45, 10000),
		location: createLocation(t, db, "Centro"),
	}
}

func (f *settlementFixture) newAppointment(t *testing.T, status string, finalAmount *int64) models.Appointment {
	t.Helper()
	appointment := models.Appointment{
		CustomerID:          f.customer.ID,
		StaffID:             f.staff.ID,
		ServiceID:           f.service.ID,
		LocationID:          f.location.ID,
		StartTime:           time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local),
		EndTime:             time.Date(2025, 3, 10, 9, 45, 0, 0, time.Local),
		Status:              status,
		FinalAmountCentavos: finalAmount,
	}
	require.NoError(t, f.db.Create(&appointment).Error)
	return appointment
}

func TestSettlementAwardsPointsAndCommissionOnce(t *testing.T) {
	f := newSettlementFixture(t)
	amount := int64(15099)
	appointment := f.newAppointment(t, models.AppointmentConfirmed, &amount)

	settled, err := f.svc.CompleteAppointment(appointment.ID)
	require.NoError(t, err)
	assert.True(t, settled)

	// Second completion is a defined no-op.
	settled, err = f.svc.CompleteAppointment(appointment.ID)
	require.NoError(t, err)
	assert.False(t, settled)

	var customer models.Customer
	require.NoError(t, f.db.First(&customer, "id = ?", f.customer.ID).Error)
	assert.Equal(t, 150, customer.Points, "floor(15099/100), credited exactly once")

	var commissions []models.StaffCommission
	require.NoError(t, f.db.Find(&commissions, "appointment_id = ?", appointment.ID).Error)
	require.Len(t, commissions, 1)
	assert.Equal(t, int64(15099*40/100), commissions[0].CommissionAmountCentavos)
	assert.Equal(t, 40, commissions[0].CommissionPercentage)
	assert.Equal(t, models.CommissionPendingPayment, commissions[0].Status)
	assert.Equal(t, int64(10000), commissions[0].ServicePriceCentavos)
}

func TestSettlementFallsBackToServicePrice(t *testing.T) {
	f := newSettlementFixture(t)
	appointment := f.newAppointment(t, models.AppointmentPending, nil)

	_, err := f.svc.CompleteAppointment(appointment.ID)
	require.NoError(t, err)

	var customer models.Customer
	require.NoError(t, f.db.First(&customer, "id = ?", f.customer.ID).Error)
	assert.Equal(t, 100, customer.Points)

	var commission models.StaffCommission
	require.NoError(t, f.db.First(&commission, "appointment_id = ?", appointment.ID).Error)
	assert.Equal(t, int64(4000), commission.CommissionAmountCentavos)
}

func TestSettlementOverrideBeatsServicePrice(t *testing.T) {
	f := newSettlementFixture(t)
	amount := int64(8000) // discounted below the 10000 list price
	appointment := f.newAppointment(t, models.AppointmentConfirmed, &amount)

	_, err := f.svc.CompleteAppointment(appointment.ID)
	require.NoError(t, err)

	var customer models.Customer
	require.NoError(t, f.db.First(&customer, "id = ?", f.customer.ID).Error)
	assert.Equal(t, 80, customer.Points)
}

func TestSettlementCommissionDateKeepsLocalDay(t *testing.T) {
	f := newSettlementFixture(t)

	// A morning appointment in UTC-3 sits on the next UTC timeline day
	// slice; the commission date must still be the local calendar day.
	brt := time.FixedZone("BRT", -3*3600)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, brt)
	appointment := models.Appointment{
		CustomerID: f.customer.ID,
		StaffID:    f.staff.ID,
		ServiceID:  f.service.ID,
		LocationID: f.location.ID,
		StartTime:  start,
		EndTime:    start.Add(45 * time.Minute),
		Status:     models.AppointmentConfirmed,
	}
	require.NoError(t, f.db.Create(&appointment).Error)

	_, err := f.svc.CompleteAppointment(appointment.ID)
	require.NoError(t, err)

	var commission models.StaffCommission
	require.NoError(t, f.db.First(&commission, "appointment_id = ?", appointment.ID).Error)

	y, m, d := commission.Date.In(brt).Date()
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.March, m)
	assert.Equal(t, 10, d)
}

func TestSettlementResolvesPendingReferral(t *testing.T) {
	f := newSettlementFixture(t)
	referrer := createCustomer(t, f.db, "Marina Indica", "5511911112222")
	require.NoError(t, f.db.Create(&models.Referral{
		ReferrerCustomerID: referrer.ID,
		ReferredCustomerID: f.customer.ID,
		Status:             models.ReferralPending,
	}).Error)

	appointment := f.newAppointment(t, models.AppointmentConfirmed, nil)
	_, err := f.svc.CompleteAppointment(appointment.ID)
	require.NoError(t, err)

	var referral models.Referral
	require.NoError(t, f.db.First(&referral, "referred_customer_id = ?", f.customer.ID).Error)
	assert.Equal(t, models.ReferralCompleted, referral.Status)

	// A second completed appointment must not touch the unlocked reward.
	second := f.newAppointment(t, models.AppointmentConfirmed, nil)
	_, err = f.svc.CompleteAppointment(second.ID)
	require.NoError(t, err)

	require.NoError(t, f.db.First(&referral, "referred_customer_id = ?", f.customer.ID).Error)
	assert.Equal(t, models.ReferralCompleted, referral.Status)
}

func TestSettlementUnknownAppointment(t *testing.T) {
	f := newSettlementFixture(t)
	another := f.newAppointment(t, models.AppointmentPending, nil)
	require.NoError(t, f.db.Delete(&models.Appointment{}, "id = ?", another.ID).Error)

	_, err := f.svc.CompleteAppointment(another.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestApplyReferralReward(t *testing.T) {
	f := newSettlementFixture(t)
	referrer := createCustomer(t, f.db, "Marina Indica", "5511911112222")
	referral := models.Referral{
		ReferrerCustomerID: referrer.ID,
		ReferredCustomerID: f.customer.ID,
		Status:             models.ReferralCompleted,
	}
	require.NoError(t, f.db.Create(&referral).Error)

	updated, err := f.svc.ApplyReferralReward(referral.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReferralRewardUsed, updated.Status)
	assert.NotNil(t, updated.RewardAppliedAt)

	// reward_used is terminal; using it again is rejected.
	_, err = f.svc.ApplyReferralReward(referral.ID)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestApplyReferralRewardRequiresUnlocked(t *testing.T) {
	f := newSettlementFixture(t)
	referrer := createCustomer(t, f.db, "Marina Indica", "5511911112222")
	referral := models.Referral{
		ReferrerCustomerID: referrer.ID,
		ReferredCustomerID: f.customer.ID,
		Status:             models.ReferralPending,
	}
	require.NoError(t, f.db.Create(&referral).Error)

	_, err := f.svc.ApplyReferralReward(referral.ID)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}
