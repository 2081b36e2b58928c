package service

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/argeoalecha/hayahai-web-sub001/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

const (
	maxContentLength     = 1000
	maxAuthorNameLength  = 50
	maxAuthorEmailLength = 255
	maxAuthorURLLength   = 200

	defaultPage     = 1
	defaultLimit    = 20
	maxLimit        = 100
	defaultMaxDepth = 3
	maxMaxDepth     = 5
)

type CreateCommentRequest struct {
	Content     string  `json:"content"`
	ParentID    *string `json:"parent_id,omitempty"`
	AuthorName  string  `json:"author_name,omitempty"`
	AuthorEmail string  `json:"author_email,omitempty"`
	AuthorURL   string  `json:"author_url,omitempty"`
}

// ValidateCreateComment normalizes raw input into a comment creation record.
// Every violated field is reported, not just the first one. Parent existence
// is the store's job; only the id format is checked here.
func ValidateCreateComment(req CreateCommentRequest, identity *Identity) (*model.Comment, *ValidationError) {
	verr := &ValidationError{}
	comment := &model.Comment{}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		verr.add("content", "content is required")
	} else if utf8.RuneCountInString(content) > maxContentLength {
		verr.add("content", "content must be at most 1000 characters")
	} else {
		comment.Content = content
	}

	if identity != nil {
		userID := identity.UserID
		comment.AuthorID = &userID
	} else {
		name := strings.TrimSpace(req.AuthorName)
		if name == "" {
			verr.add("author_name", "author_name is required for anonymous comments")
		} else if utf8.RuneCountInString(name) > maxAuthorNameLength {
			verr.add("author_name", "author_name must be at most 50 characters")
		} else {
			comment.AuthorName = &name
		}

		email := strings.ToLower(strings.TrimSpace(req.AuthorEmail))
		if email == "" {
			verr.add("author_email", "author_email is required for anonymous comments")
		} else if len(email) > maxAuthorEmailLength || validate.Var(email, "email") != nil {
			verr.add("author_email", "author_email must be a valid email address")
		} else {
			comment.AuthorEmail = &email
		}
	}

	if authorURL := strings.TrimSpace(req.AuthorURL); authorURL != "" {
		if len(authorURL) > maxAuthorURLLength || validate.Var(authorURL, "url") != nil {
			verr.add("author_url", "author_url must be a well-formed URL of at most 200 characters")
		} else {
			comment.AuthorURL = &authorURL
		}
	}

	if req.ParentID != nil && *req.ParentID != "" {
		if _, err := uuid.Parse(*req.ParentID); err != nil {
			verr.add("parent_id", "parent_id must be a valid UUID")
		} else {
			comment.ParentID = req.ParentID
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return comment, nil
}

// ListQuery is the raw filter/pagination input of the read path
type ListQuery struct {
	Page           string
	Limit          string
	SortBy         string
	SortOrder      string
	MaxDepth       string
	IncludeReplies string
	Approved       string
}

// ListOptions is the normalized filter applied to listings
type ListOptions struct {
	Page           int
	Limit          int
	SortBy         string
	SortOrder      string
	MaxDepth       int
	IncludeReplies bool
	Approved       *bool // nil = any approval state
}

// NormalizeListOptions validates and defaults filter parameters.
// Out-of-range numbers are clamped; invalid enum values are rejected.
func NormalizeListOptions(query ListQuery) (ListOptions, *ValidationError) {
	verr := &ValidationError{}

	opts := ListOptions{
		Page:           clampInt(query.Page, defaultPage, 1, 0),
		Limit:          clampInt(query.Limit, defaultLimit, 1, maxLimit),
		MaxDepth:       clampInt(query.MaxDepth, defaultMaxDepth, 1, maxMaxDepth),
		IncludeReplies: true,
	}

	switch query.SortBy {
	case "", "created_at", "createdAt":
		opts.SortBy = "created_at"
	case "updated_at", "updatedAt":
		opts.SortBy = "updated_at"
	default:
		verr.add("sortBy", "sortBy must be one of created_at, updated_at")
	}

	switch strings.ToLower(query.SortOrder) {
	case "", "desc":
		opts.SortOrder = "desc"
	case "asc":
		opts.SortOrder = "asc"
	default:
		verr.add("sortOrder", "sortOrder must be asc or desc")
	}

	switch strings.ToLower(query.IncludeReplies) {
	case "", "true", "1":
		opts.IncludeReplies = true
	case "false", "0":
		opts.IncludeReplies = false
	default:
		verr.add("includeReplies", "includeReplies must be a boolean")
	}

	// Tri-state: unspecified defaults to approved-only. The comment service
	// forces approved-only again for callers without a moderator role.
	switch strings.ToLower(query.Approved) {
	case "", "true":
		approved := true
		opts.Approved = &approved
	case "false":
		approved := false
		opts.Approved = &approved
	case "all":
		opts.Approved = nil
	default:
		verr.add("approved", "approved must be true, false or all")
	}

	if len(verr.Fields) > 0 {
		return opts, verr
	}
	return opts, nil
}

// ValidateModerationRequest checks a batch moderation request
func ValidateModerationRequest(req ModerationRequest) *ValidationError {
	verr := &ValidationError{}

	if len(req.IDs) < 1 {
		verr.add("ids", "ids must contain at least 1 comment id")
	} else if len(req.IDs) > maxModerationBatch {
		verr.add("ids", "ids must contain at most 100 comment ids")
	}

	switch req.Action {
	case ActionApprove, ActionReject, ActionDelete:
	default:
		verr.add("action", "action must be one of approve, reject, delete")
	}

	if utf8.RuneCountInString(req.Reason) > maxReasonLength {
		verr.add("reason", "reason must be at most 500 characters")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// clampInt parses a numeric query parameter, falling back to a default and
// clamping to [min, max]. max <= 0 means unbounded above.
func clampInt(raw string, fallback, min, max int) int {
	value := fallback
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			value = n
		}
	}
	if value < min {
		value = min
	}
	if max > 0 && value > max {
		value = max
	}
	return value
}
