package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PhoneNumber is one unit of stock. IsAvailable is only ever cleared by a purchase.
type PhoneNumber struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Number      string          `gorm:"size:32;not null;uniqueIndex" json:"number"`
	Country     string          `gorm:"size:64;not null;index" json:"country"`
	Service     string          `gorm:"size:32;not null;default:'whatsapp'" json:"service"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	IsAvailable bool            `gorm:"not null;index" json:"isAvailable"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *PhoneNumber) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
