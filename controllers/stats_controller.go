package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ricebook-backend/models"
	"ricebook-backend/utils"
)

// StatsController reports aggregate site numbers for the admin dashboard.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a StatsController.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// Overview returns user, article and comment totals plus today's page views.
func (s *StatsController) Overview(ctx *gin.Context) {
	var userCount int64
	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load stats")
		return
	}

	var articleCount int64
	if err := s.db.Model(&models.Article{}).Count(&articleCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load stats")
		return
	}

	// Comments live inside the article rows, so counting them means decoding
	// each document. Totals stay small enough that a scan is acceptable here.
	var articles []models.Article
	if err := s.db.Select("comments").Find(&articles).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load stats")
		return
	}
	var commentCount int64
	for i := range articles {
		if comments, err := articles[i].CommentList(); err == nil {
			commentCount += int64(len(comments))
		}
	}

	now := time.Now().In(time.Local)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var todayViews int64
	s.db.Model(&models.PageView{}).
		Where("date = ?", midnight).
		Select("COALESCE(SUM(count), 0)").
		Scan(&todayViews)

	utils.Success(ctx, gin.H{
		"users":       userCount,
		"articles":    articleCount,
		"comments":    commentCount,
		"views_today": todayViews,
	})
}
