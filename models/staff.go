package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Staff struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"not null" json:"name"`
	Role string    `json:"role"`

	// Deactivation is a flag, never a delete: completed appointments and
	// commissions must stay attributable.
	Active bool `gorm:"default:true" json:"active"`

	DefaultCommissionPercentage int `gorm:"default:0" json:"default_commission_percentage"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Staff) TableName() string { return "staff" }

func (s *Staff) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// StaffService declares that a staff member is able to perform a service.
type StaffService struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StaffID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_staff_service,priority:1;not null" json:"staff_id"`
	ServiceID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_staff_service,priority:2;not null" json:"service_id"`

	Staff   Staff   `gorm:"foreignKey:StaffID" json:"-"`
	Service Service `gorm:"foreignKey:ServiceID" json:"-"`
}

func (ss *StaffService) BeforeCreate(tx *gorm.DB) (err error) {
	if ss.ID == uuid.Nil {
		ss.ID = uuid.New()
	}
	return
}

// StaffShift declares a staff member's working presence at a location.
type StaffShift struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StaffID    uuid.UUID `gorm:"type:uuid;index;not null" json:"staff_id"`
	LocationID uuid.UUID `gorm:"type:uuid;index;not null" json:"location_id"`

	Weekday   int    `gorm:"not null" json:"weekday"` // 1 = Monday .. 7 = Sunday
	StartTime string `gorm:"type:varchar(5)" json:"start_time"`
	EndTime   string `gorm:"type:varchar(5)" json:"end_time"`

	Staff    Staff    `gorm:"foreignKey:StaffID" json:"-"`
	Location Location `gorm:"foreignKey:LocationID" json:"-"`
}

func (s *StaffShift) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
