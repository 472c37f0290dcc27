package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kiyohan/StarHack/db"
	"github.com/kiyohan/StarHack/middleware"
	"github.com/kiyohan/StarHack/models"
	"github.com/kiyohan/StarHack/utils"
	"go.uber.org/zap"
)

func Register(c *gin.Context) {
	var input struct {
		Username string `json:"username" validate:"required,min=3"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if err := middleware.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	if err := db.DB.Where("email = ? OR username = ?", input.Email, input.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user := models.User{
		Username:          input.Username,
		Email:             input.Email,
		PasswordHash:      hashedPassword,
		Role:              models.RoleUser,
		PreferredMental:   "Meditation",
		PreferredPhysical: "Jogging",
	}

	if err := db.DB.Create(&user).Error; err != nil {
		utils.Logger.Error("register_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	tokenString, err := utils.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	utils.Logger.Info("user_registered", zap.Uint("user_id", user.ID))

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   tokenString,
		"user":    user,
	})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := utils.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user,
	})
}

func Profile(c *gin.Context) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	currentUser := userInterface.(models.User)

	var user models.User
	if err := db.DB.Preload("Rewards").Preload("TaskStamps").First(&user, currentUser.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdatePreferences sets the user's default mental and physical activities.
func UpdatePreferences(c *gin.Context) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	currentUser := userInterface.(models.User)

	var input struct {
		PreferredMental   string `json:"preferred_mental" validate:"required"`
		PreferredPhysical string `json:"preferred_physical" validate:"required"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if err := middleware.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select one mental and one physical task"})
		return
	}

	// Preferences must name activities of the matching category.
	var mental models.Activity
	if err := db.DB.Where("name = ? AND type = ?", input.PreferredMental, models.CategoryMental).First(&mental).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown mental activity"})
		return
	}
	var physical models.Activity
	if err := db.DB.Where("name = ? AND type = ?", input.PreferredPhysical, models.CategoryPhysical).First(&physical).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown physical activity"})
		return
	}

	currentUser.PreferredMental = input.PreferredMental
	currentUser.PreferredPhysical = input.PreferredPhysical

	if err := db.DB.Model(&models.User{}).Where("id = ?", currentUser.ID).Updates(map[string]interface{}{
		"preferred_mental":   input.PreferredMental,
		"preferred_physical": input.PreferredPhysical,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}

	middleware.InvalidateUserCache(currentUser.ID)

	c.JSON(http.StatusOK, currentUser)
}
