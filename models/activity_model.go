package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity rows are write-once.
type Activity struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"userId"`
	Action    string     `gorm:"size:255;not null" json:"action"`
	Status    string     `gorm:"size:50;not null" json:"status"`
	Details   *string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time  `gorm:"index" json:"createdAt"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
