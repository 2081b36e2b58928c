package service

import (
	"github.com/argeoalecha/hayahai-web-sub001/internal/model"
	"github.com/argeoalecha/hayahai-web-sub001/internal/repository"
)

// replyCap bounds how many replies are attached per parent. Replies are
// flat-capped, not paginated.
const replyCap = 50

// Pagination is the envelope returned with every listing
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// NewPagination computes the envelope for one page of results
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   pages,
		HasNext: int64(page*limit) < total,
		HasPrev: page > 1,
	}
}

// ThreadAssembler builds reply trees under a page of top-level comments.
// Reply levels are fetched one batched query at a time and nested until
// maxDepth levels below the top-level page are materialized. Chains deeper
// than maxDepth exist in storage but are never assembled.
type ThreadAssembler struct {
	commentRepo repository.CommentRepository
}

func NewThreadAssembler(commentRepo repository.CommentRepository) *ThreadAssembler {
	return &ThreadAssembler{commentRepo: commentRepo}
}

// Assemble attaches approved, non-deleted replies (oldest first) to the
// given top-level comments, in place. When includeReplies is false no reply
// query runs at all.
func (a *ThreadAssembler) Assemble(roots []*model.Comment, opts ListOptions) error {
	if !opts.IncludeReplies || len(roots) == 0 {
		return nil
	}

	level := roots
	for depth := 0; depth < opts.MaxDepth; depth++ {
		ids := make([]string, 0, len(level))
		byID := make(map[string]*model.Comment, len(level))
		for _, comment := range level {
			ids = append(ids, comment.ID)
			byID[comment.ID] = comment
		}

		replies, err := a.commentRepo.FindRepliesByParentIDs(ids, replyCap)
		if err != nil {
			return err
		}

		var next []*model.Comment
		for _, id := range ids {
			children := replies[id]
			if len(children) == 0 {
				continue
			}
			byID[id].Replies = children
			next = append(next, children...)
		}

		if len(next) == 0 {
			break
		}
		level = next
	}

	return nil
}
