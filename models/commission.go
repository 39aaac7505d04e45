package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CommissionPendingPayment = "pendente_pagamento"
	CommissionPaid           = "pago"
	CommissionCancelled      = "cancelado"
)

// StaffCommission is upserted by settlement, at most one row per
// appointment. The amount is stored as computed, never re-derived on read.
type StaffCommission struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	AppointmentID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"appointment_id"`
	StaffID       uuid.UUID `gorm:"type:uuid;index;not null" json:"staff_id"`
	ServiceID     uuid.UUID `gorm:"type:uuid;index;not null" json:"service_id"`

	Date time.Time `gorm:"not null" json:"date"`

	ServicePriceCentavos     int64 `json:"service_price_centavos"`
	CommissionPercentage     int   `json:"commission_percentage"`
	CommissionAmountCentavos int64 `json:"commission_amount_centavos"`

	Status      string     `gorm:"type:varchar(30);default:'pendente_pagamento'" json:"status"`
	PaymentDate *time.Time `json:"payment_date"`
	Notes       string     `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Staff   Staff   `gorm:"foreignKey:StaffID" json:"-"`
	Service Service `gorm:"foreignKey:ServiceID" json:"-"`
}

func (sc *StaffCommission) BeforeCreate(tx *gorm.DB) (err error) {
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	return
}
