package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Referral states advance strictly forward:
// pending -> completed -> reward_used.
const (
	ReferralPending    = "pending"
	ReferralCompleted  = "completed"
	ReferralRewardUsed = "reward_used"
)

type Referral struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	ReferrerCustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"referrer_customer_id"`
	// One referral per referred customer, ever.
	ReferredCustomerID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"referred_customer_id"`

	Status          string     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	RewardAppliedAt *time.Time `json:"reward_applied_at"`

	CreatedAt time.Time `json:"created_at"`

	ReferrerCustomer Customer `gorm:"foreignKey:ReferrerCustomerID" json:"-"`
	ReferredCustomer Customer `gorm:"foreignKey:ReferredCustomerID" json:"-"`
}

func (r *Referral) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
