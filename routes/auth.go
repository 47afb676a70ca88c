package routes

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"photo-booking-server/config"
	"photo-booking-server/models"
	"photo-booking-server/utils"
)

// RegisterAuthRoutes registers signup, signin and profile endpoints
func RegisterAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, authRequired gin.HandlerFunc) {
	rg.POST("/signup", func(c *gin.Context) {
		var req models.SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		var existing models.User
		if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "An account with this email already exists"})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to check existing accounts"})
			return
		}

		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to hash password"})
			return
		}

		user := models.User{
			Role:         models.UserRole(req.Role),
			FullName:     req.FullName,
			Email:        req.Email,
			Phone:        req.Phone,
			PasswordHash: hash,
			HourlyRate:   req.HourlyRate,
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create account"})
			return
		}

		log.Printf("👤 New %s account: %s", user.Role, user.Email)
		issueTokens(c, db, cfg, &user, http.StatusCreated)
	})

	rg.POST("/signin", func(c *gin.Context) {
		var req models.SigninRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
			return
		}
		if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
			return
		}

		issueTokens(c, db, cfg, &user, http.StatusOK)
	})

	rg.GET("/me", authRequired, func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Account not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
	})
}

func issueTokens(c *gin.Context, db *gorm.DB, cfg *config.Config, user *models.User, status int) {
	accessToken, err := utils.GenerateToken(cfg, user.ID, string(user.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate token"})
		return
	}

	refreshString, err := utils.GenerateRefreshTokenString()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate refresh token"})
		return
	}

	refresh := models.RefreshToken{
		Token:     refreshString,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour),
	}
	if err := db.Create(&refresh).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to store refresh token"})
		return
	}

	c.JSON(status, gin.H{
		"success":       true,
		"data":          user,
		"access_token":  accessToken,
		"refresh_token": refreshString,
		"token_type":    "Bearer",
	})
}
