package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"photo-booking-server/models"
	"photo-booking-server/services"
)

// RegisterPackageRoutes registers the public package catalog and quoting
// endpoints.
func RegisterPackageRoutes(rg *gin.RouterGroup, db *gorm.DB, pricing *services.PricingService) {
	rg.GET("", func(c *gin.Context) {
		var packages []models.Package
		if err := db.Where("is_active = ?", true).Preload("Photographer").Order("base_price ASC").Find(&packages).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load packages"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": packages})
	})

	rg.GET("/:id", func(c *gin.Context) {
		pkg, ok := loadPackage(c, db)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": pkg})
	})

	// Quote pricing for a package against a prospective event date.
	// Ephemeral: nothing is persisted.
	rg.GET("/:id/quote", func(c *gin.Context) {
		pkg, ok := loadPackage(c, db)
		if !ok {
			return
		}

		eventDate, err := time.Parse("2006-01-02", c.Query("event_date"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "event_date must be in YYYY-MM-DD format"})
			return
		}

		quote, err := pricing.Quote(eventDate, pkg.BasePrice)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": quote})
	})
}

func loadPackage(c *gin.Context, db *gorm.DB) (*models.Package, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid package id"})
		return nil, false
	}

	var pkg models.Package
	if err := db.Where("is_active = ?", true).Preload("Photographer").First(&pkg, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Package not found"})
		return nil, false
	}
	return &pkg, true
}
