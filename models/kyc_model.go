package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Kyc struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	FullName         string    `gorm:"size:255;not null" json:"fullName"`
	DocumentType     string    `gorm:"size:50;not null" json:"documentType"`
	DocumentNumber   string    `gorm:"size:100;not null" json:"documentNumber"`
	DocumentFrontURL string    `gorm:"size:500;not null" json:"documentFrontUrl"`
	DocumentBackURL  *string   `gorm:"size:500" json:"documentBackUrl"`
	SelfieURL        *string   `gorm:"size:500" json:"selfieUrl"`
	Status           string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	AdminNotes       *string   `gorm:"type:text" json:"adminNotes"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Kyc) TableName() string { return "kyc" }

func (k *Kyc) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}
