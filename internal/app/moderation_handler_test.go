package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/argeoalecha/hayahai-web-sub001/internal/middleware"
	"github.com/argeoalecha/hayahai-web-sub001/internal/model"
	"github.com/argeoalecha/hayahai-web-sub001/internal/service"
	"github.com/argeoalecha/hayahai-web-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModerationService struct {
	results  []service.ModerationResult
	err      error
	gotActor *service.Identity
	gotReq   service.ModerationRequest
}

func (s *stubModerationService) Moderate(actor *service.Identity, req service.ModerationRequest) ([]service.ModerationResult, error) {
	s.gotActor = actor
	s.gotReq = req
	return s.results, s.err
}

// asRole injects an authenticated identity the way the auth middleware does
func asRole(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("email", "mod@example.com")
		c.Set("role", role)
		c.Next()
	}
}

func moderationRouter(stub *stubModerationService, comments *stubCommentService, identity gin.HandlerFunc) *gin.Engine {
	handler := NewModerationHandler(stub, comments)
	router := gin.New()
	admin := router.Group("/api/v1/admin")
	if identity != nil {
		admin.Use(identity)
	}
	admin.Use(middleware.RequireModerator())
	admin.POST("/comments/batch", handler.BatchModerate)
	admin.GET("/posts/:id/comments", handler.ListQueue)
	return router
}

func TestBatchModerateReturnsPerIDResults(t *testing.T) {
	stub := &stubModerationService{results: []service.ModerationResult{
		{ID: "a", Success: true},
		{ID: "b", Error: "comment not found"},
	}}
	router := moderationRouter(stub, &stubCommentService{}, asRole("mod-1", model.RoleAdmin))

	body := `{"ids":["a","b"],"action":"approve","reason":"looks fine"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/comments/batch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	results, ok := data["results"].([]interface{})
	require.True(t, ok)
	assert.Len(t, results, 2)

	require.NotNil(t, stub.gotActor)
	assert.Equal(t, "mod-1", stub.gotActor.UserID)
	assert.Equal(t, service.ActionApprove, stub.gotReq.Action)
}

func TestBatchModerateForbiddenForPlainUsers(t *testing.T) {
	stub := &stubModerationService{}
	router := moderationRouter(stub, &stubCommentService{}, asRole("u-1", model.RoleUser))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/comments/batch", strings.NewReader(`{"ids":["a"],"action":"approve"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, util.CodeForbidden, resp.Code)
	assert.Nil(t, stub.gotActor)
}

func TestBatchModerateUnauthenticated(t *testing.T) {
	stub := &stubModerationService{}
	router := moderationRouter(stub, &stubCommentService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/comments/batch", strings.NewReader(`{"ids":["a"],"action":"approve"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListQueueDefaultsToAllStatesWithoutReplies(t *testing.T) {
	comments := &stubCommentService{list: &service.CommentList{
		Comments:   []*model.Comment{},
		Pagination: service.NewPagination(1, 20, 0),
	}}
	router := moderationRouter(&stubModerationService{}, comments, asRole("mod-1", model.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/posts/p-1/comments", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, comments.gotOpts.Approved)
	assert.False(t, comments.gotOpts.IncludeReplies)
}
