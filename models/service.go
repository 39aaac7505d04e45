package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Category    string    `gorm:"default:'General'" json:"category"`
	Description string    `json:"description"`

	DefaultDurationMin int   `json:"default_duration_min"` // minutes
	PriceCentavos      int64 `gorm:"not null" json:"price_centavos"`

	Active bool `gorm:"default:true" json:"active"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
