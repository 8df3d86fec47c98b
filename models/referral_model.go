package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Referral records which user brought in which account at registration time.
type Referral struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReferrerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"referrerId"`
	ReferredUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"referredUserId"`
	Code           string    `gorm:"size:10;not null" json:"code"`

	Referrer     *User `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	ReferredUser *User `gorm:"foreignKey:ReferredUserID" json:"referredUser,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
