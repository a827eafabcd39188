package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ryadom-food/restaurant-backend/models"
	"github.com/ryadom-food/restaurant-backend/utils"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// Login verifies credentials and issues an access/refresh token pair.
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	access, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	refresh, err := utils.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("login: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":         access,
		"refresh_token": refresh,
		"user_role":     user.Role,
	})
}

// Logout exists for API symmetry; tokens are stateless and expire on
// their own.
func (ac *AuthController) Logout(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// Refresh exchanges a valid refresh token for a new pair.
func (ac *AuthController) Refresh(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	claims, err := utils.ParseToken(input.RefreshToken)
	if err != nil || claims.TokenType != utils.TokenTypeRefresh {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid refresh token"))
		return
	}

	// The user may have been deleted or demoted since the token was issued.
	var user models.User
	if err := ac.DB.First(&user, claims.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user no longer exists"))
		return
	}

	access, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	refresh, err := utils.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Token refreshed", gin.H{
		"token":         access,
		"refresh_token": refresh,
	})
}

// Me returns the authenticated user's profile.
func (ac *AuthController) Me(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile", user)
}

// Check is a lightweight token validity probe.
func (ac *AuthController) Check(c *gin.Context) {
	role, _ := c.Get("role")
	utils.RespondJSON(c, http.StatusOK, "Token valid", gin.H{"role": role})
}
