package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusRejected  = "rejected"
)

type Order struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"userId"`
	PhoneNumberID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"phoneNumberId"`
	Status           string          `gorm:"size:20;not null;default:'pending'" json:"status"`
	TotalAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"totalAmount"`
	PaymentMethod    string          `gorm:"size:50" json:"paymentMethod"`
	IsReferralReward bool            `gorm:"not null;default:false" json:"isReferralReward"`
	Code             *string         `gorm:"size:255" json:"code"`

	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PhoneNumber *PhoneNumber `gorm:"foreignKey:PhoneNumberID" json:"phoneNumber,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
