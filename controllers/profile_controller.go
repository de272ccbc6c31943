package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ricebook-backend/config"
	"ricebook-backend/models"
	"ricebook-backend/utils"
)

const headlineCachePrefix = "cache:headline:"

// ProfileController serves the per-field profile endpoints. Each field has a
// GET addressed by an optional username (defaulting to the caller) and, where
// the field is editable, a PUT that only ever touches the caller's own row.
type ProfileController struct {
	db *gorm.DB
}

// NewProfileController creates a ProfileController.
func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{db: db}
}

// targetUsername resolves the :user path parameter, falling back to the
// logged-in user when absent.
func (p *ProfileController) targetUsername(ctx *gin.Context) (string, bool) {
	if user := ctx.Param("user"); user != "" {
		return user, true
	}
	return getUsername(ctx)
}

func (p *ProfileController) loadProfile(ctx *gin.Context, username string) (*models.Profile, bool) {
	var profile models.Profile
	if err := p.db.Where("username = ?", username).First(&profile).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40411, "user not found")
		return nil, false
	}
	return &profile, true
}

func (p *ProfileController) getField(ctx *gin.Context, pick func(*models.Profile) gin.H) {
	username, ok := p.targetUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	profile, ok := p.loadProfile(ctx, username)
	if !ok {
		return
	}
	payload := pick(profile)
	payload["username"] = profile.Username
	utils.Success(ctx, payload)
}

func (p *ProfileController) putField(ctx *gin.Context, apply func(*models.Profile, string), value string, respond func(*models.Profile) gin.H) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	profile, ok := p.loadProfile(ctx, username)
	if !ok {
		return
	}
	apply(profile, value)
	if err := p.db.Save(profile).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to update profile")
		return
	}
	payload := respond(profile)
	payload["username"] = profile.Username
	utils.Success(ctx, payload)
}

// GetHeadline returns a user's headline, served from cache when warm.
func (p *ProfileController) GetHeadline(ctx *gin.Context) {
	username, ok := p.targetUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if b, ok := utils.CacheGetBytes(headlineCachePrefix + username); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}
	profile, ok := p.loadProfile(ctx, username)
	if !ok {
		return
	}
	payload := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{
		"username": profile.Username,
		"headline": profile.Headline,
	}}
	utils.CacheSetJSON(headlineCachePrefix+username, payload, 5*time.Minute)
	ctx.JSON(http.StatusOK, payload)
}

// UpdateHeadline sets the caller's headline.
func (p *ProfileController) UpdateHeadline(ctx *gin.Context) {
	var req struct {
		Headline string `json:"headline" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "headline is required")
		return
	}
	p.putField(ctx, func(pr *models.Profile, v string) {
		pr.Headline = v
		utils.InvalidateByPrefix(headlineCachePrefix + pr.Username)
	}, utils.Sanitize(req.Headline), func(pr *models.Profile) gin.H {
		return gin.H{"headline": pr.Headline}
	})
}

// GetEmail returns a user's email address.
func (p *ProfileController) GetEmail(ctx *gin.Context) {
	p.getField(ctx, func(pr *models.Profile) gin.H { return gin.H{"email": pr.Email} })
}

// UpdateEmail sets the caller's email address.
func (p *ProfileController) UpdateEmail(ctx *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "email is required")
		return
	}
	p.putField(ctx, func(pr *models.Profile, v string) { pr.Email = v }, strings.TrimSpace(req.Email), func(pr *models.Profile) gin.H {
		return gin.H{"email": pr.Email}
	})
}

// GetZipcode returns a user's zipcode.
func (p *ProfileController) GetZipcode(ctx *gin.Context) {
	p.getField(ctx, func(pr *models.Profile) gin.H { return gin.H{"zipcode": pr.Zipcode} })
}

// UpdateZipcode sets the caller's zipcode.
func (p *ProfileController) UpdateZipcode(ctx *gin.Context) {
	var req struct {
		Zipcode string `json:"zipcode" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40033, "zipcode is required")
		return
	}
	p.putField(ctx, func(pr *models.Profile, v string) { pr.Zipcode = v }, strings.TrimSpace(req.Zipcode), func(pr *models.Profile) gin.H {
		return gin.H{"zipcode": pr.Zipcode}
	})
}

// GetPhone returns a user's phone number.
func (p *ProfileController) GetPhone(ctx *gin.Context) {
	p.getField(ctx, func(pr *models.Profile) gin.H { return gin.H{"phone": pr.Phone} })
}

// UpdatePhone sets the caller's phone number.
func (p *ProfileController) UpdatePhone(ctx *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40034, "phone is required")
		return
	}
	p.putField(ctx, func(pr *models.Profile, v string) { pr.Phone = v }, strings.TrimSpace(req.Phone), func(pr *models.Profile) gin.H {
		return gin.H{"phone": pr.Phone}
	})
}

// GetDOB returns a user's date of birth. Birth dates are immutable, so there
// is no matching PUT.
func (p *ProfileController) GetDOB(ctx *gin.Context) {
	p.getField(ctx, func(pr *models.Profile) gin.H { return gin.H{"dob": pr.DOB} })
}

// GetAvatar returns a user's avatar URL.
func (p *ProfileController) GetAvatar(ctx *gin.Context) {
	p.getField(ctx, func(pr *models.Profile) gin.H { return gin.H{"avatar": pr.AvatarURL} })
}

// UpdateAvatar sets the caller's avatar, either from a JSON body carrying an
// external URL or from a multipart upload. A replaced local upload is queued
// for the background cleaner instead of being deleted inline.
func (p *ProfileController) UpdateAvatar(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	profile, ok := p.loadProfile(ctx, username)
	if !ok {
		return
	}

	var avatarURL string
	if isMultipart(ctx) {
		userID, _ := getUserID(ctx)
		url, _, err := saveUploadedFile(ctx, "avatar", "avatars", userID)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40035, "failed to store avatar")
			return
		}
		avatarURL = url
	} else {
		var req struct {
			Avatar string `json:"avatar" binding:"required"`
		}
		if err := ctx.ShouldBindJSON(&req); err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40035, "avatar is required")
			return
		}
		avatarURL = strings.TrimSpace(req.Avatar)
	}

	old := profile.AvatarURL
	profile.AvatarURL = avatarURL
	if err := p.db.Save(profile).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to update avatar")
		return
	}

	// Only locally stored uploads get cleaned up; external URLs are left alone
	if old != "" && old != avatarURL && strings.HasPrefix(old, "/static/uploads/") {
		ttl := time.Duration(config.Get().UploadOrphanTTLMinutes) * time.Minute
		_ = p.db.Create(&models.UploadedFile{
			FilePath: "." + old,
			URL:      old,
			ExpireAt: time.Now().Add(ttl),
		}).Error
	}

	utils.Success(ctx, gin.H{"username": profile.Username, "avatar": profile.AvatarURL})
}

// UpdatePassword replaces the caller's password hash.
func (p *ProfileController) UpdatePassword(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Password string `json:"password" binding:"required,min=3"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40036, "password is required")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	var user models.User
	if err := p.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	user.PasswordHash = hash
	if err := p.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to update password")
		return
	}

	utils.Success(ctx, gin.H{"username": user.Username, "result": "success"})
}
