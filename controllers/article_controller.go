package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ricebook-backend/models"
	"ricebook-backend/store"
	"ricebook-backend/utils"
)

const articleCachePrefix = "cache:articles:"

// ArticleController exposes the article feed over HTTP. All mutations go
// through the store, which owns id assignment and ownership checks.
type ArticleController struct {
	db    *gorm.DB
	store *store.ArticleStore
}

// NewArticleController creates an ArticleController.
func NewArticleController(db *gorm.DB) *ArticleController {
	return &ArticleController{db: db, store: store.New(db)}
}

// articleView is the wire shape of an article with its comments inlined.
type articleView struct {
	ID       int64            `json:"id"`
	Author   string           `json:"author"`
	Text     string           `json:"text"`
	Image    string           `json:"image,omitempty"`
	Date     time.Time        `json:"date"`
	Comments []models.Comment `json:"comments"`
}

func toView(a *models.Article) articleView {
	comments, err := a.CommentList()
	if err != nil {
		comments = []models.Comment{}
	}
	return articleView{
		ID:       a.SeqID,
		Author:   a.Author,
		Text:     a.Text,
		Image:    a.Image,
		Date:     a.CreatedAt,
		Comments: comments,
	}
}

// CreateArticle posts a new article for the logged-in user. Accepts either a
// JSON body with text and an optional image URL, or a multipart form with an
// image file upload.
func (a *ArticleController) CreateArticle(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var text, image string
	if isMultipart(ctx) {
		text = ctx.PostForm("text")
		if _, _, err := ctx.Request.FormFile("image"); err == nil {
			userID, _ := getUserID(ctx)
			url, _, err := saveUploadedFile(ctx, "image", "articles", userID)
			if err != nil {
				utils.Error(ctx, http.StatusBadRequest, 40030, "failed to store image")
				return
			}
			image = url
		}
	} else {
		var req struct {
			Text  string `json:"text"`
			Image string `json:"image"`
		}
		if err := ctx.ShouldBindJSON(&req); err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request body")
			return
		}
		text = req.Text
		image = req.Image
	}

	article, err := a.store.CreateArticle(ctx.Request.Context(), username, utils.Sanitize(text), image)
	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(articleCachePrefix)

	utils.Success(ctx, gin.H{"articles": []articleView{toView(article)}})
}

// GetArticles lists articles. Without a parameter it returns the whole feed,
// newest first; with one it returns the article with that id or all articles
// by that author.
func (a *ArticleController) GetArticles(ctx *gin.Context) {
	filter := ctx.Param("id")

	// The unfiltered feed is the hot path, serve it from cache when possible
	if filter == "" {
		if b, ok := utils.CacheGetBytes(articleCachePrefix + "all"); ok {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
			return
		}
	}

	articles, err := a.store.ListArticles(ctx.Request.Context(), filter)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to list articles")
		return
	}

	views := make([]articleView, 0, len(articles))
	for i := range articles {
		views = append(views, toView(&articles[i]))
	}

	payload := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"articles": views}}
	if filter == "" {
		utils.CacheSetJSON(articleCachePrefix+"all", payload, 30*time.Second)
	}
	ctx.JSON(http.StatusOK, payload)
}

// UpdateArticle mutates an article or one of its comments. The commentId
// field picks the mode: absent edits the article text, -1 appends a comment,
// any other value edits that comment.
func (a *ArticleController) UpdateArticle(ctx *gin.Context) {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	articleID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid article id")
		return
	}

	var req struct {
		Text      string `json:"text" binding:"required"`
		CommentID *int64 `json:"commentId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "text is required")
		return
	}

	article, err := a.store.UpdateArticle(ctx.Request.Context(), articleID, principal, utils.Sanitize(req.Text), req.CommentID)
	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(articleCachePrefix)

	utils.Success(ctx, gin.H{"articles": []articleView{toView(article)}})
}

// respondStoreError maps store sentinels onto HTTP statuses and business codes.
func respondStoreError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrEmptyText):
		utils.Error(ctx, http.StatusBadRequest, 40021, "text must not be empty")
	case errors.Is(err, store.ErrArticleNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, "article not found")
	case errors.Is(err, store.ErrCommentNotFound):
		utils.Error(ctx, http.StatusNotFound, 40402, "comment not found")
	case store.IsAuthorization(err):
		utils.Error(ctx, http.StatusForbidden, 40301, "you do not own this resource")
	case errors.Is(err, store.ErrConflict):
		utils.Error(ctx, http.StatusConflict, 40902, "concurrent update, please retry")
	default:
		utils.Sugar.Errorf("article store error: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "internal error")
	}
}
