package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Location struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Slug           string    `gorm:"uniqueIndex;not null" json:"slug"`
	Address        string    `json:"address"`
	ReferencePoint string    `json:"reference_point"`
}

func (l *Location) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
