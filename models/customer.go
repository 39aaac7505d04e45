package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	FullName string `gorm:"not null" json:"full_name"`
	// Digits-only phone number, used as the booking identity key.
	Whatsapp  string     `gorm:"uniqueIndex;not null" json:"whatsapp"`
	Email     string     `json:"email"`
	BirthDate *time.Time `json:"birth_date"`

	Points         int  `gorm:"default:0" json:"points"`
	PreviousVisits int  `gorm:"default:0" json:"previous_visits"`
	IsTrulyNew     bool `gorm:"default:false" json:"is_truly_new"`

	Notes string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
