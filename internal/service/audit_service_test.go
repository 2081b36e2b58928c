package service

import (
	"testing"

	"github.com/argeoalecha/hayahai-web-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAuditRepo struct {
	entries   []*model.AuditLog
	gotLimit  int
	gotOffset int
}

func (r *memAuditRepo) Create(entry *model.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memAuditRepo) FindByResourceID(resource, resourceID string, limit, offset int) ([]*model.AuditLog, error) {
	r.gotLimit, r.gotOffset = limit, offset

	var matched []*model.AuditLog
	for _, entry := range r.entries {
		if entry.Resource == resource && entry.ResourceID != nil && *entry.ResourceID == resourceID {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func (r *memAuditRepo) FindRecent(limit, offset int) ([]*model.AuditLog, error) {
	r.gotLimit, r.gotOffset = limit, offset
	return r.entries, nil
}

func TestGetTrailScopesToResource(t *testing.T) {
	repo := &memAuditRepo{}
	svc := NewAuditService(repo, nil)

	commentID := uuid.New().String()
	otherID := uuid.New().String()
	require.NoError(t, repo.Create(&model.AuditLog{Resource: "comment", ResourceID: &commentID, Action: model.AuditActionCommentCreate}))
	require.NoError(t, repo.Create(&model.AuditLog{Resource: "comment", ResourceID: &commentID, Action: model.AuditActionCommentApprove}))
	require.NoError(t, repo.Create(&model.AuditLog{Resource: "comment", ResourceID: &otherID, Action: model.AuditActionCommentCreate}))
	require.NoError(t, repo.Create(&model.AuditLog{Resource: "comment", Action: model.AuditActionCommentApprove})) // batch entry

	entries, err := svc.GetTrail("comment", commentID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 20, repo.gotLimit)
	assert.Equal(t, 0, repo.gotOffset)
}

func TestAuditReadsClampPaging(t *testing.T) {
	repo := &memAuditRepo{}
	svc := NewAuditService(repo, nil)

	_, err := svc.GetRecent(0, 500)
	require.NoError(t, err)
	assert.Equal(t, 100, repo.gotLimit)
	assert.Equal(t, 0, repo.gotOffset)

	_, err = svc.GetRecent(3, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.gotLimit)
	assert.Equal(t, 20, repo.gotOffset)

	_, err = svc.GetTrail("comment", uuid.New().String(), -1, -1)
	require.NoError(t, err)
	assert.Equal(t, 20, repo.gotLimit)
	assert.Equal(t, 0, repo.gotOffset)
}
