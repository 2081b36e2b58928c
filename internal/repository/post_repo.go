package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/argeoalecha/hayahai-web-sub001/internal/model"
	"github.com/argeoalecha/hayahai-web-sub001/internal/util"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(post *model.Post) error
	FindByID(id string) (*model.Post, error)
	FindBySlug(slug string) (*model.Post, error)
	Update(post *model.Post) error
	Delete(id string) error
}

type postRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	postCachePrefix     = "post:"
	postSlugCachePrefix = "post:slug:"
	postCacheExpiration = 15 * time.Minute
)

func NewPostRepository(db *gorm.DB, redis *util.RedisClient) PostRepository {
	return &postRepository{
		db:    db,
		redis: redis,
	}
}

// Create creates a new post
func (r *postRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

// FindByID finds a post by ID
func (r *postRepository) FindByID(id string) (*model.Post, error) {
	// Try cache first
	if r.redis != nil {
		cached, err := r.getFromCache(postCachePrefix + id)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var post model.Post
	err := r.db.Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}

	// Cache the result
	r.cachePost(postCachePrefix+post.ID, &post)

	return &post, nil
}

// FindBySlug finds a post by its slug
func (r *postRepository) FindBySlug(slug string) (*model.Post, error) {
	// Try cache first
	if r.redis != nil {
		cached, err := r.getFromCache(postSlugCachePrefix + slug)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var post model.Post
	err := r.db.Where("slug = ?", slug).First(&post).Error
	if err != nil {
		return nil, err
	}

	// Cache the result
	r.cachePost(postSlugCachePrefix+post.Slug, &post)

	return &post, nil
}

// Update updates a post and invalidates cache
func (r *postRepository) Update(post *model.Post) error {
	if err := r.db.Save(post).Error; err != nil {
		return err
	}

	r.invalidatePostCache(post)

	return nil
}

// Delete deletes a post (soft delete) and invalidates cache
func (r *postRepository) Delete(id string) error {
	var post model.Post
	if err := r.db.Where("id = ?", id).First(&post).Error; err != nil {
		return err
	}

	if err := r.db.Delete(&post).Error; err != nil {
		return err
	}

	r.invalidatePostCache(&post)

	return nil
}

// Cache helpers
func (r *postRepository) cachePost(key string, post *model.Post) {
	if r.redis == nil {
		return
	}

	postJSON, err := json.Marshal(post)
	if err != nil {
		return
	}

	r.redis.Set(key, string(postJSON), postCacheExpiration)
}

func (r *postRepository) getFromCache(key string) (*model.Post, error) {
	if r.redis == nil {
		return nil, fmt.Errorf("redis not available")
	}

	cached, err := r.redis.Get(key)
	if err != nil {
		return nil, err
	}

	var post model.Post
	if err := json.Unmarshal([]byte(cached), &post); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepository) invalidatePostCache(post *model.Post) {
	if r.redis == nil {
		return
	}
	r.redis.Delete(postCachePrefix + post.ID)
	r.redis.Delete(postSlugCachePrefix + post.Slug)
}
