package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	KycStatusPending  = "pending"
	KycStatusApproved = "approved"
	KycStatusRejected = "rejected"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"fullName"`
	Email    string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password string    `gorm:"not null" json:"-"`

	Balance               decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"balance"`
	ReferralWalletBalance decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"referralWalletBalance"`
	ReferralCount         int             `gorm:"not null;default:0" json:"referralCount"`
	ReferralCode          string          `gorm:"size:10;not null;uniqueIndex" json:"referralCode"`
	ReferredBy            *string         `gorm:"size:64" json:"referredBy"`

	KycStatus  string `gorm:"size:20;not null;default:'pending'" json:"kycStatus"`
	IsVerified bool   `gorm:"not null;default:false" json:"isVerified"`
	IsAdmin    bool   `gorm:"not null;default:false" json:"isAdmin"`
	IsBanned   bool   `gorm:"not null;default:false" json:"isBanned"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.KycStatus == "" {
		u.KycStatus = KycStatusPending
	}
	return nil
}
