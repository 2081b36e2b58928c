package app

import (
	"fmt"
	"net/http"

	"github.com/argeoalecha/hayahai-web-sub001/internal/middleware"
	"github.com/argeoalecha/hayahai-web-sub001/internal/service"
	"github.com/argeoalecha/hayahai-web-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// ListComments handles listing top-level comments with bounded reply trees
// GET /api/v1/posts/:id/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	postID := c.Param("id")
	if postID == "" {
		util.BadRequest(c, "Post ID is required")
		return
	}

	opts, verr := service.NormalizeListOptions(service.ListQuery{
		Page:           c.Query("page"),
		Limit:          c.Query("limit"),
		SortBy:         c.Query("sortBy"),
		SortOrder:      c.Query("sortOrder"),
		MaxDepth:       c.Query("maxDepth"),
		IncludeReplies: c.Query("includeReplies"),
		Approved:       c.Query("approved"),
	})
	if verr != nil {
		handleServiceError(c, verr)
		return
	}

	identity := middleware.IdentityFromContext(c)

	list, err := h.commentService.ListComments(identity, postID, opts)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// Comment pages are public and short-lived; stale responses may be
	// served while revalidating
	c.Header("Cache-Control", "public, max-age=30, stale-while-revalidate=60")

	util.SuccessResponse(c, http.StatusOK, "Comments retrieved successfully", list)
}

// CreateComment handles creation of a comment or reply
// POST /api/v1/posts/:id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID := c.Param("id")
	if postID == "" {
		util.BadRequest(c, "Post ID is required")
		return
	}

	var req service.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	identity := middleware.IdentityFromContext(c)
	prov := service.Provenance{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}

	comment, err := h.commentService.CreateComment(identity, postID, req, prov)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/v1/comments/%s", comment.ID))
	util.SuccessResponse(c, http.StatusCreated, "Comment created successfully", gin.H{"comment": comment})
}

// GetComment handles getting a comment by ID
// GET /api/v1/comments/:id
func (h *CommentHandler) GetComment(c *gin.Context) {
	commentID := c.Param("id")
	if commentID == "" {
		util.BadRequest(c, "Comment ID is required")
		return
	}

	identity := middleware.IdentityFromContext(c)

	comment, err := h.commentService.GetComment(identity, commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Comment retrieved successfully", gin.H{"comment": comment})
}

// GetCommentCount handles getting the approved comment count for a post
// GET /api/v1/posts/:id/comments/count
func (h *CommentHandler) GetCommentCount(c *gin.Context) {
	postID := c.Param("id")
	if postID == "" {
		util.BadRequest(c, "Post ID is required")
		return
	}

	identity := middleware.IdentityFromContext(c)

	count, err := h.commentService.GetCommentCount(identity, postID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Comment count retrieved successfully", gin.H{"count": count})
}
