package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/argeoalecha/hayahai-web-sub001/internal/model"
	"github.com/argeoalecha/hayahai-web-sub001/internal/util"

	"gorm.io/gorm"
)

// Referential failures surfaced by Create. Both map to a generic
// not-found at the API boundary.
var (
	ErrPostNotFound   = errors.New("post not found")
	ErrParentNotFound = errors.New("parent comment not found")
)

// CommentFilter scopes listing and counting queries. Soft-deleted rows
// are always excluded.
type CommentFilter struct {
	PostID       string
	TopLevelOnly bool   // parent_id IS NULL
	Approved     *bool  // nil = any approval state
	AuthorID     string // optional
	Page         int    // 1-based
	Limit        int
	SortBy       string // created_at | updated_at
	SortOrder    string // asc | desc
}

// CommentPatch is a partial update. Only content and approval may change
// after creation; associations and authorship are immutable.
type CommentPatch struct {
	Content  *string
	Approved *bool
}

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(id string) (*model.Comment, error)
	FindMany(filter CommentFilter) ([]*model.Comment, error)
	Count(filter CommentFilter) (int64, error)
	FindRepliesByParentIDs(parentIDs []string, capPerParent int) (map[string][]*model.Comment, error)
	Update(id string, patch CommentPatch) (*model.Comment, error)
	SoftDelete(id string) error
	CountByPostID(postID string, approvedOnly bool) (int64, error)
}

type commentRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	commentCachePrefix       = "comment:"
	commentByPostCachePrefix = "comment:post:"
	commentCountCachePrefix  = "comment:count:"
	commentCacheExpiration   = 15 * time.Minute
)

func NewCommentRepository(db *gorm.DB, redis *util.RedisClient) CommentRepository {
	return &commentRepository{
		db:    db,
		redis: redis,
	}
}

// Create inserts a comment after checking its references. The post check,
// parent check and insert run in one transaction so they observe a
// consistent snapshot.
func (r *commentRepository) Create(comment *model.Comment) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Select("id").Where("id = ?", comment.PostID).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		// Parent must be an approved, non-deleted comment on the same post
		if comment.ParentID != nil && *comment.ParentID != "" {
			var parent model.Comment
			err := tx.Select("id").
				Where("id = ? AND post_id = ? AND approved = ?", *comment.ParentID, comment.PostID, true).
				First(&parent).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrParentNotFound
				}
				return err
			}
		}

		return tx.Create(comment).Error
	})
	if err != nil {
		return err
	}

	// Invalidate caches
	if r.redis != nil {
		r.invalidatePostCache(comment.PostID)
	}

	return nil
}

// FindByID finds a comment by ID, including soft-deleted exclusion
func (r *commentRepository) FindByID(id string) (*model.Comment, error) {
	// Try cache first
	if r.redis != nil {
		cached, err := r.getFromCache(commentCachePrefix + id)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var comment model.Comment
	err := r.db.Preload("Author").Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		r.cacheComment(&comment)
	}

	return &comment, nil
}

// FindMany returns one page of comments matching the filter
func (r *commentRepository) FindMany(filter CommentFilter) ([]*model.Comment, error) {
	// Try cache first
	cacheKey := commentByPostCachePrefix + filter.cacheKey()
	if r.redis != nil {
		cached, err := r.getListFromCache(cacheKey)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	offset := (filter.Page - 1) * filter.Limit

	var comments []*model.Comment
	err := r.applyFilter(r.db, filter).
		Preload("Author").
		Order(filter.orderClause()).
		Limit(filter.Limit).Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		r.cacheCommentList(cacheKey, comments)
	}

	return comments, nil
}

// Count counts comments matching the filter, ignoring pagination
func (r *commentRepository) Count(filter CommentFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db, filter).Model(&model.Comment{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// FindRepliesByParentIDs fetches approved, non-deleted replies for a batch
// of parents in a single query, oldest first, capped per parent. One call
// per assembled tree level keeps store round-trips bounded by maxDepth.
func (r *commentRepository) FindRepliesByParentIDs(parentIDs []string, capPerParent int) (map[string][]*model.Comment, error) {
	grouped := make(map[string][]*model.Comment)
	if len(parentIDs) == 0 {
		return grouped, nil
	}

	var replies []*model.Comment
	err := r.db.Preload("Author").
		Where("parent_id IN ? AND approved = ?", parentIDs, true).
		Order("created_at ASC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}

	for _, reply := range replies {
		if reply.ParentID == nil {
			continue
		}
		if capPerParent > 0 && len(grouped[*reply.ParentID]) >= capPerParent {
			continue
		}
		grouped[*reply.ParentID] = append(grouped[*reply.ParentID], reply)
	}

	return grouped, nil
}

// Update applies a partial update restricted to content and approval
func (r *commentRepository) Update(id string, patch CommentPatch) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.Approved != nil {
		updates["approved"] = *patch.Approved
	}
	if len(updates) > 0 {
		if err := r.db.Model(&comment).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	// Invalidate caches
	if r.redis != nil {
		r.invalidateCommentCache(comment.ID)
		r.invalidatePostCache(comment.PostID)
	}

	return &comment, nil
}

// SoftDelete marks a comment deleted without removing the row
func (r *commentRepository) SoftDelete(id string) error {
	var comment model.Comment
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return err
	}

	if err := r.db.Delete(&comment).Error; err != nil {
		return err
	}

	// Invalidate caches
	if r.redis != nil {
		r.invalidateCommentCache(id)
		r.invalidatePostCache(comment.PostID)
	}

	return nil
}

// CountByPostID counts comments on a post
func (r *commentRepository) CountByPostID(postID string, approvedOnly bool) (int64, error) {
	// Try cache first
	cacheKey := fmt.Sprintf("%spost:%s:%t", commentCountCachePrefix, postID, approvedOnly)
	if r.redis != nil {
		cached, err := r.redis.Get(cacheKey)
		if err == nil {
			var count int64
			if _, err := fmt.Sscanf(cached, "%d", &count); err == nil {
				return count, nil
			}
		}
	}

	query := r.db.Model(&model.Comment{}).Where("post_id = ?", postID)
	if approvedOnly {
		query = query.Where("approved = ?", true)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	// Cache the count
	if r.redis != nil {
		r.redis.Set(cacheKey, fmt.Sprintf("%d", count), commentCacheExpiration)
	}

	return count, nil
}

func (r *commentRepository) applyFilter(db *gorm.DB, filter CommentFilter) *gorm.DB {
	query := db.Where("post_id = ?", filter.PostID)
	if filter.TopLevelOnly {
		query = query.Where("parent_id IS NULL")
	}
	if filter.Approved != nil {
		query = query.Where("approved = ?", *filter.Approved)
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	return query
}

func (f CommentFilter) orderClause() string {
	sortBy := f.SortBy
	switch sortBy {
	case "created_at", "updated_at":
	default:
		sortBy = "created_at"
	}
	order := strings.ToUpper(f.SortOrder)
	if order != "ASC" {
		order = "DESC"
	}
	return sortBy + " " + order
}

func (f CommentFilter) cacheKey() string {
	approved := "any"
	if f.Approved != nil {
		approved = fmt.Sprintf("%t", *f.Approved)
	}
	return fmt.Sprintf("%s:%t:%s:%s:%d:%d:%s:%s",
		f.PostID, f.TopLevelOnly, approved, f.AuthorID, f.Page, f.Limit, f.SortBy, f.SortOrder)
}

// Cache helpers
func (r *commentRepository) cacheComment(comment *model.Comment) {
	if r.redis == nil {
		return
	}

	commentJSON, err := json.Marshal(comment)
	if err != nil {
		return
	}

	r.redis.Set(commentCachePrefix+comment.ID, string(commentJSON), commentCacheExpiration)
}

func (r *commentRepository) cacheCommentList(key string, comments []*model.Comment) {
	if r.redis == nil {
		return
	}

	commentsJSON, err := json.Marshal(comments)
	if err != nil {
		return
	}

	r.redis.Set(key, string(commentsJSON), commentCacheExpiration)
}

func (r *commentRepository) getFromCache(key string) (*model.Comment, error) {
	if r.redis == nil {
		return nil, fmt.Errorf("redis not available")
	}

	cached, err := r.redis.Get(key)
	if err != nil {
		return nil, err
	}

	var comment model.Comment
	if err := json.Unmarshal([]byte(cached), &comment); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepository) getListFromCache(key string) ([]*model.Comment, error) {
	if r.redis == nil {
		return nil, fmt.Errorf("redis not available")
	}

	cached, err := r.redis.Get(key)
	if err != nil {
		return nil, err
	}

	var comments []*model.Comment
	if err := json.Unmarshal([]byte(cached), &comments); err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *commentRepository) invalidateCommentCache(id string) {
	if r.redis == nil {
		return
	}
	r.redis.Delete(commentCachePrefix + id)
}

func (r *commentRepository) invalidatePostCache(postID string) {
	if r.redis == nil {
		return
	}
	r.redis.DeletePattern(commentByPostCachePrefix + postID + ":*")
	r.redis.DeletePattern(commentCountCachePrefix + "post:" + postID + ":*")
}
