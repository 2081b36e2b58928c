package app

import (
	"net/http"

	"github.com/argeoalecha/hayahai-web-sub001/internal/middleware"
	"github.com/argeoalecha/hayahai-web-sub001/internal/service"
	"github.com/argeoalecha/hayahai-web-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	moderationService service.ModerationService
	commentService    service.CommentService
}

func NewModerationHandler(moderationService service.ModerationService, commentService service.CommentService) *ModerationHandler {
	return &ModerationHandler{
		moderationService: moderationService,
		commentService:    commentService,
	}
}

// BatchModerate handles batch approve/reject/delete of comments
// POST /api/v1/admin/comments/batch
func (h *ModerationHandler) BatchModerate(c *gin.Context) {
	var req service.ModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	identity := middleware.IdentityFromContext(c)

	results, err := h.moderationService.Moderate(identity, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Moderation batch processed", gin.H{"results": results})
}

// ListQueue handles the moderation queue listing for a post. Unlike the
// public listing, the approved filter is honored as requested.
// GET /api/v1/admin/posts/:id/comments
func (h *ModerationHandler) ListQueue(c *gin.Context) {
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
		IncludeReplies: c.DefaultQuery("includeReplies", "false"),
		Approved:       c.DefaultQuery("approved", "all"),
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

	util.SuccessResponse(c, http.StatusOK, "Moderation queue retrieved successfully", list)
}
