package main

import (
	"log"

	"gorm.io/gorm"

	"photo-booking-server/models"
	"photo-booking-server/utils"
)

// seedPackages ensures a demo photographer and a starter catalog exist so a
// fresh deployment is immediately usable.
func seedPackages(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Package{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword("change-me-please")
	if err != nil {
		return err
	}

	photographer := models.User{
		Role:         models.RolePhotographer,
		FullName:     "Studio Demo",
		Email:        "studio@photobooking.example",
		PasswordHash: hash,
		HourlyRate:   150,
	}
	if err := db.Where(models.User{Email: photographer.Email}).FirstOrCreate(&photographer).Error; err != nil {
		return err
	}

	packages := []models.Package{
		{
			PhotographerID: photographer.ID,
			Title:          "Essentials",
			Description:    "Half-day coverage for intimate events",
			BasePrice:      1000,
			DurationHours:  4,
			Deliverables:   []string{"200+ edited photos", "Online gallery", "Print release"},
			IsActive:       true,
		},
		{
			PhotographerID: photographer.ID,
			Title:          "Signature",
			Description:    "Full-day coverage with a second shooter",
			BasePrice:      2400,
			DurationHours:  8,
			Deliverables:   []string{"500+ edited photos", "Second shooter", "Online gallery", "Print release", "Engagement session"},
			IsActive:       true,
		},
		{
			PhotographerID: photographer.ID,
			Title:          "Heirloom",
			Description:    "Everything in Signature plus albums and film",
			BasePrice:      4200,
			DurationHours:  10,
			Deliverables:   []string{"800+ edited photos", "Second shooter", "Fine-art album", "Highlight film", "Online gallery", "Print release"},
			IsActive:       true,
		},
	}

	if err := db.Create(&packages).Error; err != nil {
		return err
	}

	log.Printf("🌱 Seeded %d starter packages", len(packages))
	return nil
}
