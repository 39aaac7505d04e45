package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customer_id"`
	StaffID    uuid.UUID `gorm:"type:uuid;index;not null" json:"staff_id"`
	ServiceID  uuid.UUID `gorm:"type:uuid;index;not null" json:"service_id"`
	LocationID uuid.UUID `gorm:"type:uuid;index;not null" json:"location_id"`

	// Half-open interval: [StartTime, EndTime)
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Notes  string `json:"notes"`

	PaymentMethod    string `json:"payment_method"`
	DiscountCentavos int64  `gorm:"default:0" json:"discount_centavos"`
	// Authoritative settlement amount. When nil the service price applies.
	FinalAmountCentavos *int64 `json:"final_amount_centavos"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
	Staff    Staff    `gorm:"foreignKey:StaffID" json:"-"`
	Service  Service  `gorm:"foreignKey:ServiceID" json:"-"`
	Location Location `gorm:"foreignKey:LocationID" json:"-"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// SettlementAmount is the amount points and commission are derived from.
func (a *Appointment) SettlementAmount(servicePrice int64) int64 {
	if a.FinalAmountCentavos != nil {
		return *a.FinalAmountCentavos
	}
	return servicePrice
}
