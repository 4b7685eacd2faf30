package config

import (
	"log"

	"gorm.io/gorm"

	"ecothreads/internal/adapters/persistence/models"
	"ecothreads/internal/core/domain"
	"ecothreads/internal/pkg/password"
)

// SeedDatabase populates the database with initial development data
func SeedDatabase(db *gorm.DB, config *Config) error {
	if !config.IsDev() {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Seed skipped: users already exist")
		return nil
	}

	hashed, err := password.Hash("password123")
	if err != nil {
		return err
	}

	users := []models.User{
		{
			Name:      "Alice Nguyen",
			Email:     "alice@example.com",
			Phone:     "0811111111",
			Password:  hashed,
			EcoPoints: 100,
		},
		{
			Name:      "Bob Tran",
			Email:     "bob@example.com",
			Phone:     "0822222222",
			Password:  hashed,
			EcoPoints: 50,
		},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	cost := func(v int) *int { return &v }
	items := []models.ClothingItem{
		{
			UserID:        users[0].ID,
			Title:         "Denim Jacket",
			Description:   "Lightly worn denim jacket",
			Category:      "Jackets",
			Size:          "M",
			ItemCondition: "Good",
			Cost:          cost(30),
			ItemStatus:    domain.ItemAvailable,
		},
		{
			UserID:        users[1].ID,
			Title:         "Wool Sweater",
			Description:   "Warm winter sweater",
			Category:      "Sweaters",
			Size:          "L",
			ItemCondition: "Like New",
			Cost:          cost(45),
			ItemStatus:    domain.ItemAvailable,
		},
	}
	if err := db.Create(&items).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d users and %d items", len(users), len(items))
	return nil
}
