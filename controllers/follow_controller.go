package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ricebook-backend/models"
	"ricebook-backend/utils"
)

// FollowController manages the directed follow graph backing the feed.
type FollowController struct {
	db *gorm.DB
}

// NewFollowController creates a FollowController.
func NewFollowController(db *gorm.DB) *FollowController {
	return &FollowController{db: db}
}

func (f *FollowController) userByName(username string) (*models.User, error) {
	var user models.User
	if err := f.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (f *FollowController) followingNames(user *models.User) ([]string, error) {
	var followed []models.User
	if err := f.db.Model(user).Association("Following").Find(&followed); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(followed))
	for _, u := range followed {
		names = append(names, u.Username)
	}
	return names, nil
}

// GetFollowing lists the usernames a user follows. The :user parameter is
// optional and defaults to the caller.
func (f *FollowController) GetFollowing(ctx *gin.Context) {
	username := ctx.Param("user")
	if username == "" {
		var ok bool
		if username, ok = getUsername(ctx); !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
			return
		}
	}

	user, err := f.userByName(username)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	names, err := f.followingNames(user)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load following list")
		return
	}

	utils.Success(ctx, gin.H{"username": username, "following": names})
}

// Follow adds the named user to the caller's following list and returns the
// updated list.
func (f *FollowController) Follow(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	target := ctx.Param("user")
	if target == username {
		utils.Error(ctx, http.StatusBadRequest, 40040, "you cannot follow yourself")
		return
	}

	me, err := f.userByName(username)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	other, err := f.userByName(target)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40412, "user to follow not found")
		return
	}

	if err := f.db.Model(me).Association("Following").Append(other); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to follow user")
		return
	}

	names, err := f.followingNames(me)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load following list")
		return
	}
	utils.Success(ctx, gin.H{"username": username, "following": names})
}

// Unfollow removes the named user from the caller's following list and
// returns the updated list.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	target := ctx.Param("user")

	me, err := f.userByName(username)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	other, err := f.userByName(target)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40412, "user to unfollow not found")
		return
	}

	names, err := f.followingNames(me)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load following list")
		return
	}
	found := false
	for _, n := range names {
		if n == other.Username {
			found = true
			break
		}
	}
	if !found {
		utils.Error(ctx, http.StatusBadRequest, 40041, "you are not following this user")
		return
	}

	if err := f.db.Model(me).Association("Following").Delete(other); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to unfollow user")
		return
	}

	updated := make([]string, 0, len(names)-1)
	for _, n := range names {
		if n != other.Username {
			updated = append(updated, n)
		}
	}
	utils.Success(ctx, gin.H{"username": username, "following": updated})
}
