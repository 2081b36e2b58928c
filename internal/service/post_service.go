package service

import (
	"errors"
	"log"
	"strings"

	"github.com/argeoalecha/hayahai-web-sub001/internal/model"
	"github.com/argeoalecha/hayahai-web-sub001/internal/repository"

	"gorm.io/gorm"
)

type PostService interface {
	CreatePost(identity *Identity, req CreatePostRequest) (*model.Post, error)
	GetPostBySlug(identity *Identity, slug string) (*model.Post, error)
	SetPublished(identity *Identity, postID string, published bool) (*model.Post, error)
	DeletePost(identity *Identity, postID string) error
}

type CreatePostRequest struct {
	Slug      string `json:"slug" binding:"required,max=255"`
	Title     string `json:"title" binding:"required,max=255"`
	Published bool   `json:"published"`
}

type postService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

// CreatePost creates a post. Posts are managed by admins; the comment
// engine only ever reads them.
func (s *postService) CreatePost(identity *Identity, req CreatePostRequest) (*model.Post, error) {
	if identity == nil {
		return nil, ErrUnauthorized
	}
	if !identity.IsModerator() {
		return nil, ErrForbidden
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if _, err := s.postRepo.FindBySlug(slug); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to look up post slug %s: %v", slug, err)
		return nil, ErrInternal
	}

	post := &model.Post{
		AuthorID:  identity.UserID,
		Slug:      slug,
		Title:     strings.TrimSpace(req.Title),
		Published: req.Published,
	}

	if err := s.postRepo.Create(post); err != nil {
		log.Printf("Failed to create post %s: %v", slug, err)
		return nil, ErrInternal
	}

	return post, nil
}

// GetPostBySlug returns a post. Unpublished posts are visible to
// moderators only; everyone else gets a generic not-found.
func (s *postService) GetPostBySlug(identity *Identity, slug string) (*model.Post, error) {
	post, err := s.postRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("Failed to get post %s: %v", slug, err)
		return nil, ErrInternal
	}

	if !post.Published && !identity.IsModerator() {
		return nil, ErrNotFound
	}

	return post, nil
}

// SetPublished flips the published flag on a post
func (s *postService) SetPublished(identity *Identity, postID string, published bool) (*model.Post, error) {
	if identity == nil {
		return nil, ErrUnauthorized
	}
	if !identity.IsModerator() {
		return nil, ErrForbidden
	}

	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("Failed to get post %s: %v", postID, err)
		return nil, ErrInternal
	}

	post.Published = published
	if err := s.postRepo.Update(post); err != nil {
		log.Printf("Failed to update post %s: %v", postID, err)
		return nil, ErrInternal
	}

	return post, nil
}

// DeletePost soft-deletes a post
func (s *postService) DeletePost(identity *Identity, postID string) error {
	if identity == nil {
		return ErrUnauthorized
	}
	if !identity.IsModerator() {
		return ErrForbidden
	}

	if err := s.postRepo.Delete(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		log.Printf("Failed to delete post %s: %v", postID, err)
		return ErrInternal
	}

	return nil
}
