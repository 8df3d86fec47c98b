package services

import (
	"fmt"

	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityPublisher, when set, receives every activity after its transaction commits.
var ActivityPublisher func(models.Activity)

func appendActivity(tx *gorm.DB, userID *uuid.UUID, action, status string, details *string) (models.Activity, error) {
	activity := models.Activity{
		UserID:  userID,
		Action:  action,
		Status:  status,
		Details: details,
	}
	if err := tx.Create(&activity).Error; err != nil {
		return models.Activity{}, fmt.Errorf("append activity: %w", err)
	}
	return activity, nil
}

func publishActivities(activities ...models.Activity) {
	if ActivityPublisher == nil {
		return
	}
	for _, a := range activities {
		if a.ID == uuid.Nil {
			continue
		}
		ActivityPublisher(a)
	}
}

// ListActivities returns activities newest first. A nil userID lists every user's.
func ListActivities(db *gorm.DB, userID *uuid.UUID, limit, offset int) ([]models.Activity, int64, error) {
	filter := func(q *gorm.DB) *gorm.DB {
		if userID != nil {
			return q.Where("user_id = ?", *userID)
		}
		return q
	}

	var total int64
	if err := filter(db.Model(&models.Activity{})).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count activities: %w", err)
	}

	var activities []models.Activity
	if err := filter(db.Model(&models.Activity{})).Order("created_at desc").Limit(limit).Offset(offset).Find(&activities).Error; err != nil {
		return nil, 0, fmt.Errorf("list activities: %w", err)
	}
	return activities, total, nil
}

func strPtr(s string) *string { return &s }
