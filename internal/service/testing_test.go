package service

import (
	"sort"
	"time"

	"github.com/argeoalecha/hayahai-web-sub001/internal/model"
	"github.com/argeoalecha/hayahai-web-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory fakes implementing the repository ports, so service behavior is
// tested without a database.

type memPostRepo struct {
	posts map[string]*model.Post
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: make(map[string]*model.Post)}
}

func (r *memPostRepo) Create(post *model.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	r.posts[post.ID] = post
	return nil
}

func (r *memPostRepo) FindByID(id string) (*model.Post, error) {
	post, ok := r.posts[id]
	if !ok || post.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	return post, nil
}

func (r *memPostRepo) FindBySlug(slug string) (*model.Post, error) {
	for _, post := range r.posts {
		if post.Slug == slug && !post.DeletedAt.Valid {
			return post, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memPostRepo) Update(post *model.Post) error {
	r.posts[post.ID] = post
	return nil
}

func (r *memPostRepo) Delete(id string) error {
	post, ok := r.posts[id]
	if !ok || post.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	post.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

type memCommentRepo struct {
	posts    *memPostRepo
	comments map[string]*model.Comment
	clock    time.Time
}

func newMemCommentRepo(posts *memPostRepo) *memCommentRepo {
	return &memCommentRepo{
		posts:    posts,
		comments: make(map[string]*model.Comment),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memCommentRepo) Create(comment *model.Comment) error {
	if _, err := r.posts.FindByID(comment.PostID); err != nil {
		return repository.ErrPostNotFound
	}

	if comment.ParentID != nil && *comment.ParentID != "" {
		parent, ok := r.comments[*comment.ParentID]
		if !ok || parent.DeletedAt.Valid || !parent.Approved || parent.PostID != comment.PostID {
			return repository.ErrParentNotFound
		}
	}

	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	r.clock = r.clock.Add(time.Second)
	comment.CreatedAt = r.clock
	comment.UpdatedAt = r.clock
	r.comments[comment.ID] = comment
	return nil
}

func (r *memCommentRepo) FindByID(id string) (*model.Comment, error) {
	comment, ok := r.comments[id]
	if !ok || comment.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	return comment, nil
}

func (r *memCommentRepo) matches(comment *model.Comment, filter repository.CommentFilter) bool {
	if comment.DeletedAt.Valid || comment.PostID != filter.PostID {
		return false
	}
	if filter.TopLevelOnly && comment.ParentID != nil {
		return false
	}
	if filter.Approved != nil && comment.Approved != *filter.Approved {
		return false
	}
	if filter.AuthorID != "" && (comment.AuthorID == nil || *comment.AuthorID != filter.AuthorID) {
		return false
	}
	return true
}

func (r *memCommentRepo) FindMany(filter repository.CommentFilter) ([]*model.Comment, error) {
	var matched []*model.Comment
	for _, comment := range r.comments {
		if r.matches(comment, filter) {
			matched = append(matched, comment)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		ta, tb := a.CreatedAt, b.CreatedAt
		if filter.SortBy == "updated_at" {
			ta, tb = a.UpdatedAt, b.UpdatedAt
		}
		if filter.SortOrder == "asc" {
			return ta.Before(tb)
		}
		return tb.Before(ta)
	})

	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *memCommentRepo) Count(filter repository.CommentFilter) (int64, error) {
	var count int64
	for _, comment := range r.comments {
		if r.matches(comment, filter) {
			count++
		}
	}
	return count, nil
}

func (r *memCommentRepo) FindRepliesByParentIDs(parentIDs []string, capPerParent int) (map[string][]*model.Comment, error) {
	wanted := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = true
	}

	var replies []*model.Comment
	for _, comment := range r.comments {
		if comment.DeletedAt.Valid || !comment.Approved || comment.ParentID == nil {
			continue
		}
		if wanted[*comment.ParentID] {
			replies = append(replies, comment)
		}
	}

	sort.Slice(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})

	grouped := make(map[string][]*model.Comment)
	for _, reply := range replies {
		if capPerParent > 0 && len(grouped[*reply.ParentID]) >= capPerParent {
			continue
		}
		grouped[*reply.ParentID] = append(grouped[*reply.ParentID], reply)
	}
	return grouped, nil
}

func (r *memCommentRepo) Update(id string, patch repository.CommentPatch) (*model.Comment, error) {
	comment, ok := r.comments[id]
	if !ok || comment.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	if patch.Content != nil {
		comment.Content = *patch.Content
	}
	if patch.Approved != nil {
		comment.Approved = *patch.Approved
	}
	r.clock = r.clock.Add(time.Second)
	comment.UpdatedAt = r.clock
	return comment, nil
}

func (r *memCommentRepo) SoftDelete(id string) error {
	comment, ok := r.comments[id]
	if !ok || comment.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	comment.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (r *memCommentRepo) CountByPostID(postID string, approvedOnly bool) (int64, error) {
	var count int64
	for _, comment := range r.comments {
		if comment.DeletedAt.Valid || comment.PostID != postID {
			continue
		}
		if approvedOnly && !comment.Approved {
			continue
		}
		count++
	}
	return count, nil
}

// recordingAudit captures audit events synchronously for assertions
type recordingAudit struct {
	events []AuditEvent
}

func (a *recordingAudit) Record(event AuditEvent) {
	a.events = append(a.events, event)
}

func (a *recordingAudit) GetTrail(resource, resourceID string, page, limit int) ([]*model.AuditLog, error) {
	return nil, nil
}

func (a *recordingAudit) GetRecent(page, limit int) ([]*model.AuditLog, error) {
	return nil, nil
}

// Common fixtures

func publishedPost(posts *memPostRepo) *model.Post {
	post := &model.Post{Slug: "hello-world", Title: "Hello World", Published: true, AuthorID: uuid.New().String()}
	posts.Create(post)
	return post
}

func unpublishedPost(posts *memPostRepo) *model.Post {
	post := &model.Post{Slug: "draft", Title: "Draft", Published: false, AuthorID: uuid.New().String()}
	posts.Create(post)
	return post
}

func registeredIdentity() *Identity {
	return &Identity{UserID: uuid.New().String(), Email: "user@example.com", Role: model.RoleUser}
}

func adminIdentity() *Identity {
	return &Identity{UserID: uuid.New().String(), Email: "admin@example.com", Role: model.RoleAdmin}
}
