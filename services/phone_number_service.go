package services

import (
	"fmt"
	"strings"

	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogFilter struct {
	Country string
	Service string
}

// ListAvailablePhoneNumbers returns the purchasable catalogue, cheapest first.
func ListAvailablePhoneNumbers(db *gorm.DB, f CatalogFilter) ([]models.PhoneNumber, error) {
	q := db.Where("is_available = ?", true)
	if f.Country != "" {
		q = q.Where("LOWER(country) = ?", strings.ToLower(f.Country))
	}
	if f.Service != "" {
		q = q.Where("LOWER(service) = ?", strings.ToLower(f.Service))
	}
	var numbers []models.PhoneNumber
	if err := q.Order("price asc, created_at asc").Find(&numbers).Error; err != nil {
		return nil, fmt.Errorf("list phone numbers: %w", err)
	}
	return numbers, nil
}

func GetPhoneNumber(db *gorm.DB, id uuid.UUID) (*models.PhoneNumber, error) {
	var number models.PhoneNumber
	if err := db.First(&number, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "phone number")
	}
	return &number, nil
}

// ListAllPhoneNumbers is the admin inventory view, sold stock included.
func ListAllPhoneNumbers(db *gorm.DB) ([]models.PhoneNumber, error) {
	var numbers []models.PhoneNumber
	if err := db.Order("created_at desc").Find(&numbers).Error; err != nil {
		return nil, fmt.Errorf("list phone numbers: %w", err)
	}
	return numbers, nil
}

type PhoneNumberInput struct {
	Number  string          `json:"number" validate:"required,min=5,max=32"`
	Country string          `json:"country" validate:"required,max=64"`
	Service string          `json:"service" validate:"omitempty,max=32"`
	Price   decimal.Decimal `json:"price" validate:"gte=0"`
}

func CreatePhoneNumber(db *gorm.DB, adminID uuid.UUID, in PhoneNumberInput) (*models.PhoneNumber, error) {
	if err := validate.Struct(in); err != nil {
		return nil, newError(KindValidation, "%s", err.Error())
	}
	if in.Price.IsNegative() {
		return nil, newError(KindValidation, "price must not be negative")
	}
	if err := checkMoney("price", in.Price); err != nil {
		return nil, err
	}
	if in.Service == "" {
		in.Service = "whatsapp"
	}

	number := models.PhoneNumber{
		Number:      strings.TrimSpace(in.Number),
		Country:     strings.TrimSpace(in.Country),
		Service:     strings.ToLower(in.Service),
		Price:       in.Price.Round(2),
		IsAvailable: true,
	}
	var activity models.Activity
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.PhoneNumber{}).Where("number = ?", number.Number).Count(&existing).Error; err != nil {
			return fmt.Errorf("check phone number: %w", err)
		}
		if existing > 0 {
			return newError(KindConflict, "phone number %s already listed", number.Number)
		}
		if err := tx.Create(&number).Error; err != nil {
			return fmt.Errorf("create phone number: %w", err)
		}
		var err error
		activity, err = appendActivity(tx, &adminID,
			fmt.Sprintf("Listed %s number %s", number.Country, number.Number), "Completed", nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	publishActivities(activity)
	return &number, nil
}

type PhoneNumberUpdate struct {
	Country     *string          `json:"country" validate:"omitempty,min=1,max=64"`
	Service     *string          `json:"service" validate:"omitempty,min=1,max=32"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	IsAvailable *bool            `json:"isAvailable"`
}

func UpdatePhoneNumber(db *gorm.DB, adminID, id uuid.UUID, upd PhoneNumberUpdate) (*models.PhoneNumber, error) {
	if err := validate.Struct(upd); err != nil {
		return nil, newError(KindValidation, "%s", err.Error())
	}
	if upd.Price != nil {
		if upd.Price.IsNegative() {
			return nil, newError(KindValidation, "price must not be negative")
		}
		if err := checkMoney("price", *upd.Price); err != nil {
			return nil, err
		}
	}
	updates := map[string]interface{}{}
	if upd.Country != nil {
		updates["country"] = strings.TrimSpace(*upd.Country)
	}
	if upd.Service != nil {
		updates["service"] = strings.ToLower(*upd.Service)
	}
	if upd.Price != nil {
		updates["price"] = upd.Price.Round(2)
	}
	if upd.IsAvailable != nil {
		updates["is_available"] = *upd.IsAvailable
	}
	if len(updates) == 0 {
		return nil, newError(KindValidation, "nothing to update")
	}

	var number models.PhoneNumber
	var activity models.Activity
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&number, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "phone number")
		}
		if err := tx.Model(&number).Updates(updates).Error; err != nil {
			return fmt.Errorf("update phone number: %w", err)
		}
		if err := tx.First(&number, "id = ?", id).Error; err != nil {
			return fmt.Errorf("reload phone number: %w", err)
		}
		var err error
		activity, err = appendActivity(tx, &adminID,
			fmt.Sprintf("Edited number %s", number.Number), "Completed", nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	publishActivities(activity)
	return &number, nil
}

// DeletePhoneNumber removes unsold stock. Numbers referenced by an order stay.
func DeletePhoneNumber(db *gorm.DB, adminID, id uuid.UUID) error {
	var activity models.Activity
	err := db.Transaction(func(tx *gorm.DB) error {
		var number models.PhoneNumber
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&number, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "phone number")
		}
		var orders int64
		if err := tx.Model(&models.Order{}).Where("phone_number_id = ?", id).Count(&orders).Error; err != nil {
			return fmt.Errorf("count orders: %w", err)
		}
		if orders > 0 {
			return newError(KindConflict, "phone number %s has orders and cannot be deleted", number.Number)
		}
		if err := tx.Delete(&number).Error; err != nil {
			return fmt.Errorf("delete phone number: %w", err)
		}
		var err error
		activity, err = appendActivity(tx, &adminID,
			fmt.Sprintf("Removed number %s", number.Number), "Completed", nil)
		return err
	})
	if err != nil {
		return err
	}
	publishActivities(activity)
	return nil
}
