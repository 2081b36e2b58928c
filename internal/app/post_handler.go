package app

import (
	"net/http"

	"github.com/argeoalecha/hayahai-web-sub001/internal/middleware"
	"github.com/argeoalecha/hayahai-web-sub001/internal/service"
	"github.com/argeoalecha/hayahai-web-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService service.PostService
}

func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// GetPostBySlug handles getting a post by slug
// GET /api/v1/posts/slug/:slug
func (h *PostHandler) GetPostBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		util.BadRequest(c, "Post slug is required")
		return
	}

	identity := middleware.IdentityFromContext(c)

	post, err := h.postService.GetPostBySlug(identity, slug)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Post retrieved successfully", gin.H{"post": post})
}

// CreatePost handles post creation (admin only)
// POST /api/v1/admin/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req service.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	identity := middleware.IdentityFromContext(c)

	post, err := h.postService.CreatePost(identity, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Post created successfully", gin.H{"post": post})
}

// SetPublished handles publishing or unpublishing a post (admin only)
// PUT /api/v1/admin/posts/:id/published
func (h *PostHandler) SetPublished(c *gin.Context) {
	postID := c.Param("id")
	if postID == "" {
		util.BadRequest(c, "Post ID is required")
		return
	}

	var req struct {
		Published bool `json:"published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	identity := middleware.IdentityFromContext(c)

	post, err := h.postService.SetPublished(identity, postID, req.Published)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Post updated successfully", gin.H{"post": post})
}

// DeletePost handles post deletion (admin only)
// DELETE /api/v1/admin/posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID := c.Param("id")
	if postID == "" {
		util.BadRequest(c, "Post ID is required")
		return
	}

	identity := middleware.IdentityFromContext(c)

	if err := h.postService.DeletePost(identity, postID); err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Post deleted successfully", nil)
}
