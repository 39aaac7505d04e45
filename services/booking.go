// services/booking.go
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiobela-backend/models"
	"studiobela-backend/utils"
)

const defaultServiceDurationMin = 30

// BookingItem is one service in a chained booking request. When StartTime
// is nil the item starts where the previous one ended.
type BookingItem struct {
	ServiceID uuid.UUID
	StaffID   uuid.UUID
	StartTime *time.Time
}

type BookingInput struct {
	// Either CustomerID or CustomerName+CustomerPhone must be supplied.
	CustomerID    *uuid.UUID
	CustomerName  string
	CustomerPhone string

	// Phone of the customer who referred this one. Only honoured when the
	// booking creates a brand-new customer; resolution failures never
	// block the booking.
	ReferrerPhone string

	LocationID *uuid.UUID
	StartTime  time.Time
	Notes      string
	Items      []BookingItem
}

type BookingResult struct {
	Customer        models.Customer
	CustomerCreated bool
	Appointments    []models.Appointment
	TotalCentavos   int64
}

// BookingService turns a chained-service request into a consistent set of
// appointment rows, all created in one transaction.
type BookingService struct {
	db       *gorm.DB
	notifier BookingNotifier
}

func NewBookingService(db *gorm.DB, notifier BookingNotifier) *BookingService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &BookingService{db: db, notifier: notifier}
}

func (s *BookingService) CreateBooking(input BookingInput) (*BookingResult, error) {
	if len(input.Items) == 0 {
		return nil, NewValidationError("booking requires at least one service")
	}
	if input.StartTime.IsZero() {
		return nil, NewValidationError("booking requires a start time")
	}

	result := &BookingResult{}
	var serviceLines []string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		customer, created, err := s.resolveCustomer(tx, input)
		if err != nil {
			return err
		}
		result.Customer = *customer
		result.CustomerCreated = created

		locationID, err := s.resolveLocation(tx, input)
		if err != nil {
			return err
		}

		cursor := input.StartTime
		for _, item := range input.Items {
			var service models.Service
			if err := tx.First(&service, "id = ?", item.ServiceID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Entity: "service"}
				}
				return err
			}

			var staff models.Staff
			if err := tx.First(&staff, "id = ?", item.StaffID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Entity: "staff"}
				}
				return err
			}

			var capable int64
			if err := tx.Model(&models.StaffService{}).
				Where("staff_id = ? AND service_id = ?", staff.ID, service.ID).
				Count(&capable).Error; err != nil {
				return err
			}
			if capable == 0 {
				return NewValidationError("%s does not perform %s", staff.Name, service.Name)
			}

			start := cursor
			if item.StartTime != nil {
				start = *item.StartTime
			}
			duration := service.DefaultDurationMin
			if duration <= 0 {
				duration = defaultServiceDurationMin
			}
			end := start.Add(time.Duration(duration) * time.Minute)
			// The cursor always advances to the latest end so un-anchored
			// items keep chaining after an explicit override.
			cursor = end

			appointment := models.Appointment{
				CustomerID: customer.ID,
				StaffID:    staff.ID,
				ServiceID:  service.ID,
				LocationID: locationID,
				StartTime:  start,
				EndTime:    end,
				Status:     models.AppointmentPending,
				Notes:      input.Notes,
			}
			if err := tx.Create(&appointment).Error; err != nil {
				return err
			}

			result.Appointments = append(result.Appointments, appointment)
			result.TotalCentavos += service.PriceCentavos
			serviceLines = append(serviceLines, fmt.Sprintf("%s - %s com %s",
				start.Format("15:04"), service.Name, staff.Name))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.CustomerCreated && input.ReferrerPhone != "" {
		s.captureReferral(result.Customer, input.ReferrerPhone)
	}

	s.notifyBooking(input.StartTime, result, serviceLines)

	return result, nil
}

// resolveCustomer finds the customer by id or by phone, creating one when
// the phone is unknown.
func (s *BookingService) resolveCustomer(tx *gorm.DB, input BookingInput) (*models.Customer, bool, error) {
	if input.CustomerID != nil {
		var customer models.Customer
		if err := tx.First(&customer, "id = ?", *input.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, &NotFoundError{Entity: "customer"}
			}
			return nil, false, err
		}
		return &customer, false, nil
	}

	if input.CustomerPhone == "" {
		return nil, false, NewValidationError("booking requires a customer id or a phone number")
	}

	existing, err := findCustomerByPhone(tx, input.CustomerPhone)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	if input.CustomerName == "" {
		return nil, false, NewValidationError("booking for a new customer requires a name")
	}

	customer := models.Customer{
		FullName:   input.CustomerName,
		Whatsapp:   utils.NormalizePhone(input.CustomerPhone),
		IsTrulyNew: true,
	}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, false, err
	}
	return &customer, true, nil
}

// resolveLocation falls back from the explicit location to the first
// item's staff shift, then to any known location.
func (s *BookingService) resolveLocation(tx *gorm.DB, input BookingInput) (uuid.UUID, error) {
	if input.LocationID != nil {
		var location models.Location
		if err := tx.First(&location, "id = ?", *input.LocationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, &NotFoundError{Entity: "location"}
			}
			return uuid.Nil, err
		}
		return location.ID, nil
	}

	var shift models.StaffShift
	err := tx.Where("staff_id = ?", input.Items[0].StaffID).
		Order("weekday").First(&shift).Error
	if err == nil {
		return shift.LocationID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}

	var location models.Location
	if err := tx.First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, NewValidationError("no location available for this booking")
		}
		return uuid.Nil, err
	}
	return location.ID, nil
}

// captureReferral records who brought the new customer in. Best-effort:
// everything here is logged and swallowed.
func (s *BookingService) captureReferral(customer models.Customer, referrerPhone string) {
	referrer, err := findCustomerByPhone(s.db, referrerPhone)
	if err != nil {
		log.Printf("referral lookup failed for %s: %v", referrerPhone, err)
		return
	}
	if referrer == nil || referrer.ID == customer.ID {
		return
	}

	var existing int64
	if err := s.db.Model(&models.Referral{}).
		Where("referred_customer_id = ?", customer.ID).
		Count(&existing).Error; err != nil {
		log.Printf("referral check failed for customer %s: %v", customer.ID, err)
		return
	}
	if existing > 0 {
		return
	}

	referral := models.Referral{
		ReferrerCustomerID: referrer.ID,
		ReferredCustomerID: customer.ID,
		Status:             models.ReferralPending,
	}
	if err := s.db.Create(&referral).Error; err != nil {
		log.Printf("failed to record referral for customer %s: %v", customer.ID, err)
	}
}

// notifyBooking fires the confirmation webhook without blocking the
// request. Delivery failures are logged, never surfaced.
func (s *BookingService) notifyBooking(anchor time.Time, result *BookingResult, serviceLines []string) {
	notification := BookingNotification{
		CustomerName:   result.Customer.FullName,
		CustomerPhone:  result.Customer.Whatsapp,
		Date:           anchor.Format("02/01/2006"),
		Time:           anchor.Format("15:04"),
		ServiceLines:   serviceLines,
		TotalCentavos:  result.TotalCentavos,
		SignalCentavos: result.TotalCentavos / 10,
	}
	go func() {
		if err := s.notifier.SendBookingConfirmation(notification); err != nil {
			log.Printf("booking notification failed for %s: %v",
				notification.CustomerPhone, err)
		}
	}()
}

// findCustomerByPhone matches a customer by the trailing digits of the
// phone number, tolerating country-code and formatting variance.
func findCustomerByPhone(db *gorm.DB, phone string) (*models.Customer, error) {
	key := utils.PhoneMatchKey(phone)
	if key == "" {
		return nil, nil
	}

	like := key
	if len(like) > 8 {
		like = like[len(like)-8:]
	}

	var candidates []models.Customer
	if err := db.Where("whatsapp LIKE ?", "%"+like).Find(&candidates).Error; err != nil {
		return nil, err
	}
	for i := range candidates {
		if utils.SamePhone(candidates[i].Whatsapp, phone) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}
