package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusRejected  = "rejected"
)

// Payment is a manually verified transfer. Without an OrderID it is a balance top-up.
type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"userId"`
	OrderID   *uuid.UUID      `gorm:"type:uuid;index" json:"orderId"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method    string          `gorm:"size:50;not null" json:"method"`
	Status    string          `gorm:"size:20;not null;default:'pending'" json:"status"`
	Reference *string         `gorm:"size:255" json:"reference"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
