package service

import (
	"testing"

	"github.com/argeoalecha/hayahai-web-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type moderationFixture struct {
	posts    *memPostRepo
	comments *memCommentRepo
	audit    *recordingAudit
	svc      ModerationService
}

func newModerationFixture() *moderationFixture {
	posts := newMemPostRepo()
	comments := newMemCommentRepo(posts)
	audit := &recordingAudit{}
	return &moderationFixture{
		posts:    posts,
		comments: comments,
		audit:    audit,
		svc:      NewModerationService(comments, audit),
	}
}

func (f *moderationFixture) seedPending(t *testing.T, n int) []string {
	t.Helper()
	post := publishedPost(f.posts)

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name, email := "Ana", "ana@x.com"
		comment := &model.Comment{PostID: post.ID, AuthorName: &name, AuthorEmail: &email, Content: "pending"}
		require.NoError(t, f.comments.Create(comment))
		ids = append(ids, comment.ID)
	}
	return ids
}

func TestModerateRequiresAuthentication(t *testing.T) {
	f := newModerationFixture()

	_, err := f.svc.Moderate(nil, ModerationRequest{IDs: []string{"a"}, Action: ActionApprove})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.Moderate(registeredIdentity(), ModerationRequest{IDs: []string{"a"}, Action: ActionApprove})
	assert.ErrorIs(t, err, ErrForbidden)

	assert.Empty(t, f.audit.events)
}

func TestModerateApprovesBatchWithPartialFailure(t *testing.T) {
	f := newModerationFixture()
	ids := f.seedPending(t, 2)
	missing := uuid.New().String()
	batch := []string{ids[0], missing, ids[1]}

	results, err := f.svc.Moderate(adminIdentity(), ModerationRequest{IDs: batch, Action: ActionApprove})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Equal(t, "comment not found", results[1].Error)
	assert.True(t, results[2].Success)

	for _, id := range ids {
		comment, err := f.comments.FindByID(id)
		require.NoError(t, err)
		assert.True(t, comment.Approved)
	}

	// One audit record per batch, not per id
	require.Len(t, f.audit.events, 1)
	assert.Equal(t, model.AuditActionCommentApprove, f.audit.events[0].Action)
	assert.Equal(t, batch, f.audit.events[0].Detail["ids"])
}

func TestModerateRejectUndoesApproval(t *testing.T) {
	f := newModerationFixture()
	ids := f.seedPending(t, 1)

	_, err := f.svc.Moderate(adminIdentity(), ModerationRequest{IDs: ids, Action: ActionApprove})
	require.NoError(t, err)

	results, err := f.svc.Moderate(adminIdentity(), ModerationRequest{IDs: ids, Action: ActionReject, Reason: "spam"})
	require.NoError(t, err)
	require.True(t, results[0].Success)

	comment, err := f.comments.FindByID(ids[0])
	require.NoError(t, err)
	assert.False(t, comment.Approved)

	assert.Equal(t, "spam", f.audit.events[1].Detail["reason"])
}

func TestModerateDeleteIsTerminal(t *testing.T) {
	f := newModerationFixture()
	ids := f.seedPending(t, 1)

	results, err := f.svc.Moderate(adminIdentity(), ModerationRequest{IDs: ids, Action: ActionDelete})
	require.NoError(t, err)
	require.True(t, results[0].Success)

	// A deleted comment can no longer be approved or deleted again
	results, err = f.svc.Moderate(adminIdentity(), ModerationRequest{IDs: ids, Action: ActionApprove})
	require.NoError(t, err)
	assert.Equal(t, "comment not found", results[0].Error)

	results, err = f.svc.Moderate(adminIdentity(), ModerationRequest{IDs: ids, Action: ActionDelete})
	require.NoError(t, err)
	assert.Equal(t, "comment not found", results[0].Error)
}

func TestModerateRejectsInvalidBatch(t *testing.T) {
	f := newModerationFixture()

	_, err := f.svc.Moderate(adminIdentity(), ModerationRequest{Action: ActionApprove})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = f.svc.Moderate(adminIdentity(), ModerationRequest{IDs: []string{"a"}, Action: "purge"})
	require.ErrorAs(t, err, &verr)

	assert.Empty(t, f.audit.events)
}
