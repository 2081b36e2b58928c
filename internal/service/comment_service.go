package service

import (
	"errors"
	"log"

	"github.com/argeoalecha/hayahai-web-sub001/internal/model"
	"github.com/argeoalecha/hayahai-web-sub001/internal/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	CreateComment(identity *Identity, postID string, req CreateCommentRequest, prov Provenance) (*model.Comment, error)
	ListComments(identity *Identity, postID string, opts ListOptions) (*CommentList, error)
	GetComment(identity *Identity, commentID string) (*model.Comment, error)
	GetCommentCount(identity *Identity, postID string) (int64, error)
}

// Provenance is request metadata stored with a comment but never exposed
// on public reads.
type Provenance struct {
	IPAddress string
	UserAgent string
}

// CommentList is one assembled page of a comment thread
type CommentList struct {
	Comments   []*model.Comment `json:"comments"`
	Pagination Pagination       `json:"pagination"`
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	assembler   *ThreadAssembler
	audit       AuditService
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	audit AuditService,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		assembler:   NewThreadAssembler(commentRepo),
		audit:       audit,
	}
}

// CreateComment validates input and creates a comment or reply. Registered
// authors are auto-approved; anonymous comments start unapproved and stay
// invisible to the public until moderation approves them.
func (s *commentService) CreateComment(identity *Identity, postID string, req CreateCommentRequest, prov Provenance) (*model.Comment, error) {
	post, err := s.findPost(postID)
	if err != nil {
		return nil, err
	}

	// Unpublished posts reject all comment creation regardless of role,
	// and their existence is not revealed
	if !post.Published {
		return nil, ErrNotFound
	}

	comment, verr := ValidateCreateComment(req, identity)
	if verr != nil {
		return nil, verr
	}

	comment.PostID = postID
	comment.Approved = identity != nil
	if prov.IPAddress != "" {
		comment.IPAddress = &prov.IPAddress
	}
	if prov.UserAgent != "" {
		comment.UserAgent = &prov.UserAgent
	}

	if err := s.commentRepo.Create(comment); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) || errors.Is(err, repository.ErrParentNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("Failed to create comment on post %s: %v", postID, err)
		return nil, ErrInternal
	}

	s.audit.Record(AuditEvent{
		UserID:     comment.AuthorID,
		Action:     model.AuditActionCommentCreate,
		Resource:   "comment",
		ResourceID: comment.ID,
		Detail: map[string]interface{}{
			"post_id":  comment.PostID,
			"approved": comment.Approved,
		},
		IPAddress: prov.IPAddress,
	})

	return comment, nil
}

// ListComments returns one page of top-level comments with assembled reply
// trees and a pagination envelope.
func (s *commentService) ListComments(identity *Identity, postID string, opts ListOptions) (*CommentList, error) {
	post, err := s.findPost(postID)
	if err != nil {
		return nil, err
	}

	// Unpublished posts are visible to moderators only; everyone else gets
	// a generic not-found
	if !post.Published && !identity.IsModerator() {
		return nil, ErrNotFound
	}

	// Callers without a moderator role never see unapproved comments,
	// whatever they asked for
	if !identity.IsModerator() {
		approved := true
		opts.Approved = &approved
	}

	filter := repository.CommentFilter{
		PostID:       postID,
		TopLevelOnly: true,
		Approved:     opts.Approved,
		Page:         opts.Page,
		Limit:        opts.Limit,
		SortBy:       opts.SortBy,
		SortOrder:    opts.SortOrder,
	}

	// Page and total are two independent reads; a small skew under
	// concurrent writes is accepted
	comments, err := s.commentRepo.FindMany(filter)
	if err != nil {
		log.Printf("Failed to list comments for post %s: %v", postID, err)
		return nil, ErrInternal
	}

	total, err := s.commentRepo.Count(filter)
	if err != nil {
		log.Printf("Failed to count comments for post %s: %v", postID, err)
		return nil, ErrInternal
	}

	if err := s.assembler.Assemble(comments, opts); err != nil {
		log.Printf("Failed to assemble replies for post %s: %v", postID, err)
		return nil, ErrInternal
	}

	return &CommentList{
		Comments:   comments,
		Pagination: NewPagination(opts.Page, opts.Limit, total),
	}, nil
}

// GetComment returns a single comment. Comments on unpublished posts are
// visible to moderators only; unapproved comments are visible only to their
// registered author and to moderators.
func (s *commentService) GetComment(identity *Identity, commentID string) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("Failed to get comment %s: %v", commentID, err)
		return nil, ErrInternal
	}

	// The same visibility gate as the listing: unpublishing a post hides
	// its comments, including previously approved ones
	post, err := s.findPost(comment.PostID)
	if err != nil {
		return nil, err
	}
	if !post.Published && !identity.IsModerator() {
		return nil, ErrNotFound
	}

	if !comment.Approved && !s.canSeeUnapproved(identity, comment) {
		return nil, ErrNotFound
	}

	return comment, nil
}

// GetCommentCount returns the approved comment count for a post
func (s *commentService) GetCommentCount(identity *Identity, postID string) (int64, error) {
	post, err := s.findPost(postID)
	if err != nil {
		return 0, err
	}
	if !post.Published && !identity.IsModerator() {
		return 0, ErrNotFound
	}

	count, err := s.commentRepo.CountByPostID(postID, true)
	if err != nil {
		log.Printf("Failed to count comments for post %s: %v", postID, err)
		return 0, ErrInternal
	}
	return count, nil
}

func (s *commentService) findPost(postID string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("Failed to look up post %s: %v", postID, err)
		return nil, ErrInternal
	}
	return post, nil
}

func (s *commentService) canSeeUnapproved(identity *Identity, comment *model.Comment) bool {
	if identity.IsModerator() {
		return true
	}
	return identity != nil && comment.AuthorID != nil && *comment.AuthorID == identity.UserID
}
