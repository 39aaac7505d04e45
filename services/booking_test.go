package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"studiobela-backend/models"
)

// recordingNotifier captures the notification sent after commit.
type recordingNotifier struct {
	sent chan BookingNotification
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(chan BookingNotification, 1)}
}

func (r *recordingNotifier) SendBookingConfirmation(n BookingNotification) error {
	r.sent <- n
	return nil
}

func (r *recordingNotifier) wait(t *testing.T) BookingNotification {
	t.Helper()
	select {
	case n := <-r.sent:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("notification never sent")
		return BookingNotification{}
	}
}

type bookingFixture struct {
	db       *gorm.DB
	svc      *BookingService
	notifier *recordingNotifier
	location models.Location
	staff    models.Staff
	services []models.Service
}

func newBookingFixture(t *testing.T) *bookingFixture {
	db := newTestDB(t)
	notifier := newRecordingNotifier()

	f := &bookingFixture{
		db:       db,
		svc:      NewBookingService(db, notifier),
		notifier: notifier,
		location: createLocation(t, db, "Centro"),
		staff:    createStaff(t, db, "Ana", 40),
	}
	f.services = []models.Service{
		createService(t, db, "Manicure", 45, 5000),
		createService(t, db, "Pedicure", 60, 7000),
		createService(t, db, "Esmaltação", 0, 3000), // falls back to 30 min
	}
	for _, s := range f.services {
		linkStaffService(t, db, f.staff, s)
	}
	return f
}

func anchorTime() time.Time {
	return time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
}

func TestBookingChainsContiguousWindows(t *testing.T) {
	f := newBookingFixture(t)

	result, err := f.svc.CreateBooking(BookingInput{
		CustomerName:  "Beatriz Lima",
		CustomerPhone: "(11) 99888-7766",
		LocationID:    &f.location.ID,
		StartTime:     anchorTime(),
		Items: []BookingItem{
			{ServiceID: f.services[0].ID, StaffID: f.staff.ID},
			{ServiceID: f.services[1].ID, StaffID: f.staff.ID},
			{ServiceID: f.services[2].ID, StaffID: f.staff.ID},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Appointments, 3)

	// 45 + 60 + 30 minute chain starting at the anchor
	expectedStarts := []time.Time{
		anchorTime(),
		anchorTime().Add(45 * time.Minute),
		anchorTime().Add(105 * time.Minute),
	}
	expectedEnds := []time.Time{
		anchorTime().Add(45 * time.Minute),
		anchorTime().Add(105 * time.Minute),
		anchorTime().Add(135 * time.Minute),
	}
	for i, a := range result.Appointments {
		assert.True(t, a.StartTime.Equal(expectedStarts[i]), "start of item %d", i)
		assert.True(t, a.EndTime.Equal(expectedEnds[i]), "end of item %d", i)
		assert.Equal(t, models.AppointmentPending, a.Status)
		assert.Equal(t, f.location.ID, a.LocationID)
	}
	assert.Equal(t, int64(15000), result.TotalCentavos)
}

func TestBookingExplicitStartBreaksChainButAdvancesCursor(t *testing.T) {
	f := newBookingFixture(t)

	explicit := anchorTime().Add(3 * time.Hour)
	result, err := f.svc.CreateBooking(BookingInput{
		CustomerName:  "Beatriz Lima",
		CustomerPhone: "11998887766",
		LocationID:    &f.location.ID,
		StartTime:     anchorTime(),
		Items: []BookingItem{
			{ServiceID: f.services[0].ID, StaffID: f.staff.ID},
			{ServiceID: f.services[1].ID, StaffID: f.staff.ID, StartTime: &explicit},
			{ServiceID: f.services[2].ID, StaffID: f.staff.ID},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Appointments, 3)

	assert.True(t, result.Appointments[1].StartTime.Equal(explicit))
	// The third item chains from the explicit item's end, not from the
	// first item's end.
	assert.True(t, result.Appointments[2].StartTime.Equal(explicit.Add(60*time.Minute)))
}

func TestBookingCapabilityMismatchCreatesNothing(t *testing.T) {
	f := newBookingFixture(t)
	outsider := createStaff(t, f.db, "Carla", 30) // no service links

	_, err := f.svc.CreateBooking(BookingInput{
		CustomerName:  "Beatriz Lima",
		CustomerPhone: "11998887766",
		LocationID:    &f.location.ID,
		StartTime:     anchorTime(),
		Items: []BookingItem{
			{ServiceID: f.services[0].ID, StaffID: f.staff.ID},
			{ServiceID: f.services[1].ID, StaffID: outsider.ID},
		},
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var count int64
	f.db.Model(&models.Appointment{}).Count(&count)
	assert.Zero(t, count, "a failed booking must leave no appointment rows")
}

func TestBookingResolvesCustomerByPhoneSuffix(t *testing.T) {
	f := newBookingFixture(t)
	existing := createCustomer(t, f.db, "Beatriz Lima", "5511998887766")

	// Same number without the country code, with formatting noise.
	result, err := f.svc.CreateBooking(BookingInput{
		CustomerName:  "Outra Grafia",
		CustomerPhone: "(11) 99888-7766",
		LocationID:    &f.location.ID,
		StartTime:     anchorTime(),
		Items:         []BookingItem{{ServiceID: f.services[0].ID, StaffID: f.staff.ID}},
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, result.Customer.ID)
	assert.False(t, result.CustomerCreated)

	var count int64
	f.db.Model(&models.Customer{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBookingCreatesNewCustomerFlaggedTrulyNew(t *testing.T) {
	f := newBookingFixture(t)

	result, err := f.svc.CreateBooking(BookingInput{
		CustomerName:  "Beatriz Lima",
		CustomerPhone: "+55 (11) 99888-7766",
		LocationID:    &f.location.ID,
		StartTime:     anchorTime(),
		Items:         []BookingItem{{ServiceID: f.services[0].ID, StaffID: f.staff.ID}},
	})
	require.NoError(t, err)
	assert.True(t, result.CustomerCreated)
	assert.True(t, result.Customer.IsTrulyNew)
	assert.Equal(t, "5511998887766", result.Customer.Whatsapp)
}

func TestBookingRequiresIdentity(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.CreateBooking(BookingInput{
		LocationID: &f.location.ID,
		StartTime:  anchorTime(),
		Items:      []BookingItem{{ServiceID: f.services[0].ID, StaffID: f.staff.ID}},
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestBookingLocationFallsBackToStaffShift(t *testing.T) {
	f := newBookingFixture(t)
	shiftLocation := createLocation(t, f.db, "Zona Sul")
	require.NoError(t, f.db.Create(&models.StaffShift{
		StaffID:    f.staff.ID,
		LocationID: shiftLocation.ID,
		Weekday:    1,
		StartTime:  "09:00",
		EndTime:    "18:00",
	}).Error)

	result, err := f.svc.CreateBooking(BookingInput{
		CustomerName:  "Beatriz Lima",
		CustomerPhone: "11998887766",
		StartTime:     anchorTime(),
		Items:         []BookingItem{{ServiceID: f.services[0].ID, StaffID: f.staff.ID}},
	})
	require.NoError(t, err)
	assert.Equal(t, shiftLocation.ID, result.Appointments[0].LocationID)
}

func TestBookingLocationFallsBackToAnyLocation(t *testing.T) {
	f := newBookingFixture(t)

	// Staff has no shift; the fixture's one location should be picked up.
	result, err := f.svc.CreateBooking(BookingInput{
		CustomerName:  "Beatriz Lima",
		CustomerPhone: "11998887766",
		StartTime:     anchorTime(),
		Items:         []BookingItem{{ServiceID: f.services[0].ID, StaffID: f.staff.ID}},
	})
	require.NoError(t, err)
	assert.Equal(t, f.location.ID, result.Appointments[0].LocationID)
}

func TestBookingFailsWithoutAnyLocation(t *testing.T) {
	f := newBookingFixture(t)
	require.NoError(t, f.db.Where("1 = 1").Delete(&models.Location{}).Error)

	_, err := f.svc.CreateBooking(BookingInput{
		CustomerName:  "Beatriz Lima",
		CustomerPhone: "11998887766",
		StartTime:     anchorTime(),
		Items:         []BookingItem{{ServiceID: f.services[0].ID, StaffID: f.staff.ID}},
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestBookingReferralCapturedOnlyForNewCustomer(t *testing.T) {
	f := newBookingFixture(t)
	referrer := createCustomer(t, f.db, "Marina Indica", "5511911112222")

	result, err := f.svc.CreateBooking(BookingInput{
		CustomerName:  "Beatriz Lima",
		CustomerPhone: "11998887766",
		ReferrerPhone: "(11) 91111-2222",
		LocationID:    &f.location.ID,
		StartTime:     anchorTime(),
		Items:         []BookingItem{{ServiceID: f.services[0].ID, StaffID: f.staff.ID}},
	})
	require.NoError(t, err)
	require.True(t, result.CustomerCreated)

	var referral models.Referral
	require.NoError(t, f.db.First(&referral, "referred_customer_id = ?", result.Customer.ID).Error)
	assert.Equal(t, referrer.ID, referral.ReferrerCustomerID)
	assert.Equal(t, models.ReferralPending, referral.Status)

	// Booking again for the now-known customer must not create a second
	// referral even with a referrer phone supplied.
	_, err = f.svc.CreateBooking(BookingInput{
		CustomerPhone: "11998887766",
		CustomerName:  "Beatriz Lima",
		ReferrerPhone: "11911112222",
		LocationID:    &f.location.ID,
		StartTime:     anchorTime().Add(24 * time.Hour),
		Items:         []BookingItem{{ServiceID: f.services[0].ID, StaffID: f.staff.ID}},
	})
	require.NoError(t, err)

	var count int64
	f.db.Model(&models.Referral{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBookingUnresolvedReferrerIsIgnored(t *testing.T) {
	f := newBookingFixture(t)

	result, err := f.svc.CreateBooking(BookingInput{
		CustomerName:  "Beatriz Lima",
		CustomerPhone: "11998887766",
		ReferrerPhone: "11900000000", // nobody has this number
		LocationID:    &f.location.ID,
		StartTime:     anchorTime(),
		Items:         []BookingItem{{ServiceID: f.services[0].ID, StaffID: f.staff.ID}},
	})
	require.NoError(t, err)
	require.True(t, result.CustomerCreated)

	var count int64
	f.db.Model(&models.Referral{}).Count(&count)
	assert.Zero(t, count)
}

func TestBookingNotificationCarriesTotalAndSignal(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.CreateBooking(BookingInput{
		CustomerName:  "Beatriz Lima",
		CustomerPhone: "11998887766",
		LocationID:    &f.location.ID,
		StartTime:     anchorTime(),
		Items: []BookingItem{
			{ServiceID: f.services[0].ID, StaffID: f.staff.ID},
			{ServiceID: f.services[1].ID, StaffID: f.staff.ID},
		},
	})
	require.NoError(t, err)

	n := f.notifier.wait(t)
	assert.Equal(t, int64(12000), n.TotalCentavos)
	assert.Equal(t, int64(1200), n.SignalCentavos)
	assert.Len(t, n.ServiceLines, 2)
	assert.Equal(t, "10/03/2025", n.Date)
}
