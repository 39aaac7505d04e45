package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"studiobela-backend/models"
)

// newTestDB opens a fresh in-memory database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Customer{},
		&models.Staff{},
		&models.StaffService{},
		&models.StaffShift{},
		&models.Service{},
		&models.Location{},
		&models.Appointment{},
		&models.Referral{},
		&models.StaffCommission{},
		&models.Expense{},
		&models.CreditCard{},
		&models.BankAccount{},
	))
	return db
}

func createLocation(t *testing.T, db *gorm.DB, name string) models.Location {
	t.Helper()
	location := models.Location{Name: name, Slug: name + "-" + uuid.NewString()[:8]}
	require.NoError(t, db.Create(&location).Error)
	return location
}

func createStaff(t *testing.T, db *gorm.DB, name string, commissionPct int) models.Staff {
	t.Helper()
	staff := models.Staff{Name: name, Active: true, DefaultCommissionPercentage: commissionPct}
	require.NoError(t, db.Create(&staff).Error)
	return staff
}

func createService(t *testing.T, db *gorm.DB, name string, durationMin int, priceCentavos int64) models.Service {
	t.Helper()
	service := models.Service{
		Name:               name,
		DefaultDurationMin: durationMin,
		PriceCentavos:      priceCentavos,
		Active:             true,
	}
	require.NoError(t, db.Create(&service).Error)
	return service
}

func linkStaffService(t *testing.T, db *gorm.DB, staff models.Staff, service models.Service) {
	t.Helper()
	require.NoError(t, db.Create(&models.StaffService{
		StaffID:   staff.ID,
		ServiceID: service.ID,
	}).Error)
}

func createCustomer(t *testing.T, db *gorm.DB, name, phone string) models.Customer {
	t.Helper()
	customer := models.Customer{FullName: name, Whatsapp: phone}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}
