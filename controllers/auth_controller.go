package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ricebook-backend/config"
	"ricebook-backend/middleware"
	"ricebook-backend/models"
	"ricebook-backend/utils"
)

// sessionDuration is how long an issued session token stays valid.
const sessionDuration = 72 * time.Hour

// AuthController handles registration, login and logout. Sessions are JWTs
// carried in an httpOnly cookie; logout revokes the token via the blacklist.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register creates an account together with its profile row. All profile
// fields are required up front, matching the registration form.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required,min=2,max=64"`
		Password string `json:"password" binding:"required,min=3"`
		Email    string `json:"email" binding:"required"`
		DOB      string `json:"dob" binding:"required"`
		Phone    string `json:"phone" binding:"required"`
		Zipcode  string `json:"zipcode" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "fill out all required information")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if !validUsername(req.Username) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username may only contain letters, digits and '-'")
		return
	}

	ip := ctx.ClientIP()
	if utils.RegistrationIsBanned(ip) {
		utils.Error(ctx, http.StatusTooManyRequests, 42920, "registration temporarily blocked, try again later")
		return
	}
	if !utils.RegistrationCooldownTry(ip) {
		utils.Error(ctx, http.StatusTooManyRequests, 42910, "too many attempts, slow down")
		return
	}
	if !utils.RegistrationDailyLimitCheck(ip) {
		utils.Error(ctx, http.StatusTooManyRequests, 42921, "daily registration limit reached")
		return
	}

	var existing models.User
	if err := a.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		RegisterIP:   ip,
	}

	// The user row and its profile land together or not at all
	err = a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.Profile{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
			DOB:      strings.TrimSpace(req.DOB),
			Phone:    strings.TrimSpace(req.Phone),
			Zipcode:  strings.TrimSpace(req.Zipcode),
			Headline: models.DefaultHeadline,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create user")
		fails := utils.RegistrationFailRecord(ip)
		if fails >= config.Get().RegisterFailedMaxPerIPPerHour {
			utils.RegistrationBan(ip)
		}
		return
	}

	utils.RegistrationDailyIncrement(ip)

	token, err := utils.GenerateToken(user.ID, user.Username, sessionDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}
	setAuthCookie(ctx, token)

	utils.Success(ctx, gin.H{
		"username": user.Username,
		"result":   "success",
		"token":    token,
	})
}

// Login verifies credentials and starts a session.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "username and password are required")
		return
	}

	var user models.User
	if err := a.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, sessionDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}
	setAuthCookie(ctx, token)

	utils.Success(ctx, gin.H{
		"username": user.Username,
		"result":   "success",
		"token":    token,
	})
}

// Logout revokes the session token until its natural expiration and clears
// the cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := middleware.TokenFromRequest(ctx)
	if token == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "you are not logged in")
		return
	}

	expiresAt := time.Now().Add(sessionDuration)
	if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)
	clearAuthCookie(ctx)

	utils.Success(ctx, gin.H{"result": "success"})
}

// Me returns the authenticated user together with their profile.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	var profile models.Profile
	if err := a.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40411, "profile not found")
		return
	}

	utils.Success(ctx, gin.H{"user": user, "profile": profile})
}

func setAuthCookie(ctx *gin.Context, token string) {
	cfg := config.Get()
	ctx.SetCookie(middleware.AuthCookieName, token, int(sessionDuration.Seconds()), "/", cfg.CookieDomain, cfg.CookieSecure, true)
}

func clearAuthCookie(ctx *gin.Context) {
	cfg := config.Get()
	ctx.SetCookie(middleware.AuthCookieName, "", -1, "/", cfg.CookieDomain, cfg.CookieSecure, true)
}

// validUsername allows letters, digits and '-'.
func validUsername(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '-' {
			continue
		}
		return false
	}
	return true
}
