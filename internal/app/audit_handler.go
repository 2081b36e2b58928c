package app

import (
	"net/http"
	"strconv"

	"github.com/argeoalecha/hayahai-web-sub001/internal/service"
	"github.com/argeoalecha/hayahai-web-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// ListRecent handles the global audit feed, newest first
// GET /api/v1/admin/audit
func (h *AuditHandler) ListRecent(c *gin.Context) {
	page, limit := auditPageParams(c)

	entries, err := h.auditService.GetRecent(page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Audit entries retrieved successfully", gin.H{"entries": entries})
}

// GetCommentTrail handles the audit trail of a single comment
// GET /api/v1/admin/comments/:id/audit
func (h *AuditHandler) GetCommentTrail(c *gin.Context) {
	commentID := c.Param("id")
	if commentID == "" {
		util.BadRequest(c, "Comment ID is required")
		return
	}

	page, limit := auditPageParams(c)

	entries, err := h.auditService.GetTrail("comment", commentID, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Audit trail retrieved successfully", gin.H{"entries": entries})
}

func auditPageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}
