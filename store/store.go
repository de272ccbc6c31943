package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ricebook-backend/models"
)

const (
	// articleCounter names the shared durable sequence for article ids.
	articleCounter = "article"

	// NewCommentID is the sentinel comment id meaning "append a new comment"
	// on update requests.
	NewCommentID int64 = -1

	// updateRetries bounds how often a versioned write is retried after
	// losing a race with another writer.
	updateRetries = 3
)

// Principal identifies the acting user of a request: the stable numeric id
// plus the display name. It is passed explicitly into every mutation, never
// read from ambient state.
type Principal struct {
	ID       uint
	Username string
}

// ArticleStore creates articles, assigns sequential ids to articles and to
// comments within an article, and applies ownership-checked text mutations.
//
// Articles keep their comments embedded as a JSON document, so every comment
// mutation is a whole-row read-modify-write. Concurrent writers are handled
// with an optimistic version stamp: the write only lands if the version read
// is still current, otherwise the cycle is retried.
type ArticleStore struct {
	db *gorm.DB

	// retries bounds the optimistic write loop; every failed attempt means
	// another writer committed in between.
	retries int
}

// New returns an ArticleStore backed by the given database handle.
func New(db *gorm.DB) *ArticleStore {
	return &ArticleStore{db: db, retries: updateRetries}
}

// CreateArticle persists a new article authored by the given display name.
// The article id comes from the shared counter; if persisting the row fails
// after the counter moved, that id is skipped for good.
func (s *ArticleStore) CreateArticle(ctx context.Context, author, text, image string) (*models.Article, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	seq, err := s.nextSeq(ctx, articleCounter)
	if err != nil {
		return nil, err
	}

	article := models.Article{
		SeqID:    seq,
		Author:   author,
		Text:     text,
		Image:    image,
		Comments: "[]",
	}
	if err := s.db.WithContext(ctx).Create(&article).Error; err != nil {
		return nil, fmt.Errorf("persist article %d: %w", seq, err)
	}
	return &article, nil
}

// UpdateArticle applies a text mutation to an article or one of its comments.
//
// commentID selects the mode: nil edits the article's own text (owner only),
// NewCommentID appends a fresh comment (any principal), any other value
// edits that existing comment (comment owner only).
//
// Editing the article text needs the stored author display name resolved
// back to an account id before it can be compared with the principal; a
// failed resolution is an authorization failure. Comments already store the
// author id, so their check is a plain comparison.
func (s *ArticleStore) UpdateArticle(ctx context.Context, articleID int64, p Principal, text string, commentID *int64) (*models.Article, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	for attempt := 0; attempt < s.retries; attempt++ {
		article, err := s.getBySeq(ctx, articleID)
		if err != nil {
			return nil, err
		}
		if err := s.applyMutation(ctx, article, p, text, commentID); err != nil {
			return nil, err
		}
		err = s.writeVersioned(ctx, article)
		if err == nil {
			return article, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}
	}
	return nil, ErrConflict
}

// ListArticles returns articles matching the filter: empty means all
// (newest first), a numeric filter matches the sequential id exactly, any
// other string matches the author display name exactly. An empty result is
// not an error.
func (s *ArticleStore) ListArticles(ctx context.Context, filter string) ([]models.Article, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if filter != "" {
		if id, err := strconv.ParseInt(filter, 10, 64); err == nil {
			query = query.Where("seq_id = ?", id)
		} else {
			query = query.Where("author = ?", filter)
		}
	}

	var articles []models.Article
	if err := query.Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

func (s *ArticleStore) applyMutation(ctx context.Context, article *models.Article, p Principal, text string, commentID *int64) error {
	switch {
	case commentID == nil:
		ownerID, err := s.resolveAuthor(ctx, article.Author)
		if err != nil {
			return err
		}
		if ownerID != p.ID {
			return ErrNotOwner
		}
		article.Text = text
		return nil

	case *commentID == NewCommentID:
		// Appending does not require article ownership, only a principal.
		comments, err := article.CommentList()
		if err != nil {
			return fmt.Errorf("decode comments of article %d: %w", article.SeqID, err)
		}
		var maxID int64
		for _, c := range comments {
			if c.ID > maxID {
				maxID = c.ID
			}
		}
		comments = append(comments, models.Comment{
			ID:        maxID + 1,
			AuthorID:  p.ID,
			Body:      text,
			CreatedAt: time.Now(),
		})
		return article.SetComments(comments)

	default:
		comments, err := article.CommentList()
		if err != nil {
			return fmt.Errorf("decode comments of article %d: %w", article.SeqID, err)
		}
		for i := range comments {
			if comments[i].ID == *commentID {
				if comments[i].AuthorID != p.ID {
					return ErrNotOwner
				}
				comments[i].Body = text
				return article.SetComments(comments)
			}
		}
		return ErrCommentNotFound
	}
}

// resolveAuthor maps an article's stored display name to the stable account
// id. Articles predate the identity-keyed comment model and keep a display
// name, so ownership checks pay this extra lookup.
func (s *ArticleStore) resolveAuthor(ctx context.Context, username string) (uint, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUnknownAuthor
		}
		return 0, fmt.Errorf("resolve author %q: %w", username, err)
	}
	return user.ID, nil
}

func (s *ArticleStore) getBySeq(ctx context.Context, seqID int64) (*models.Article, error) {
	var article models.Article
	if err := s.db.WithContext(ctx).Where("seq_id = ?", seqID).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("load article %d: %w", seqID, err)
	}
	return &article, nil
}

// writeVersioned persists the mutated article only if its version is still
// the one we read. Zero rows affected means another writer got there first.
func (s *ArticleStore) writeVersioned(ctx context.Context, article *models.Article) error {
	res := s.db.WithContext(ctx).Model(&models.Article{}).
		Where("id = ? AND version = ?", article.ID, article.Version).
		Updates(map[string]interface{}{
			"text":       article.Text,
			"comments":   article.Comments,
			"version":    article.Version + 1,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("write article %d: %w", article.SeqID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	article.Version++
	return nil
}

// nextSeq bumps the named counter and returns the fresh value. The upsert
// takes the row lock for the rest of the transaction, so concurrent callers
// serialize on the counter row and never see the same value.
func (s *ArticleStore) nextSeq(ctx context.Context, name string) (int64, error) {
	var seq int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"seq": gorm.Expr("seq + 1")}),
		}).Create(&models.Counter{Name: name, Seq: 1}).Error; err != nil {
			return err
		}
		var counter models.Counter
		if err := tx.Where("name = ?", name).First(&counter).Error; err != nil {
			return err
		}
		seq = counter.Seq
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("increment %s counter: %w", name, err)
	}
	return seq, nil
}
