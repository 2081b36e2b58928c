package service

import (
	"errors"
	"log"

	"github.com/argeoalecha/hayahai-web-sub001/internal/model"
	"github.com/argeoalecha/hayahai-web-sub001/internal/repository"

	"gorm.io/gorm"
)

// Moderation actions
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionDelete  = "delete"
)

const (
	maxModerationBatch = 100
	maxReasonLength    = 500
)

// ModerationRequest is a batch action over comment ids
type ModerationRequest struct {
	IDs    []string `json:"ids"`
	Action string   `json:"action"`
	Reason string   `json:"reason,omitempty"`
}

// ModerationResult is the outcome for a single id within a batch
type ModerationResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type ModerationService interface {
	Moderate(actor *Identity, req ModerationRequest) ([]ModerationResult, error)
}

type moderationService struct {
	commentRepo repository.CommentRepository
	audit       AuditService
}

func NewModerationService(commentRepo repository.CommentRepository, audit AuditService) ModerationService {
	return &moderationService{
		commentRepo: commentRepo,
		audit:       audit,
	}
}

// Moderate applies approve, reject or soft-delete to a batch of comments.
// Each id is an independent unit of work: one failing id never aborts the
// rest, and callers must not assume all-or-nothing semantics.
func (s *moderationService) Moderate(actor *Identity, req ModerationRequest) ([]ModerationResult, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if !actor.IsModerator() {
		return nil, ErrForbidden
	}

	if verr := ValidateModerationRequest(req); verr != nil {
		return nil, verr
	}

	results := make([]ModerationResult, 0, len(req.IDs))
	for _, id := range req.IDs {
		results = append(results, s.moderateOne(id, req.Action))
	}

	actorID := actor.UserID
	s.audit.Record(AuditEvent{
		UserID:   &actorID,
		Action:   auditActionFor(req.Action),
		Resource: "comment",
		Detail: map[string]interface{}{
			"ids":    req.IDs,
			"reason": req.Reason,
		},
	})

	return results, nil
}

func (s *moderationService) moderateOne(id, action string) ModerationResult {
	var err error
	switch action {
	case ActionApprove:
		approved := true
		_, err = s.commentRepo.Update(id, repository.CommentPatch{Approved: &approved})
	case ActionReject:
		approved := false
		_, err = s.commentRepo.Update(id, repository.CommentPatch{Approved: &approved})
	case ActionDelete:
		err = s.commentRepo.SoftDelete(id)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ModerationResult{ID: id, Error: "comment not found"}
		}
		log.Printf("Failed to %s comment %s: %v", action, id, err)
		return ModerationResult{ID: id, Error: "internal error"}
	}

	return ModerationResult{ID: id, Success: true}
}

func auditActionFor(action string) string {
	switch action {
	case ActionApprove:
		return model.AuditActionCommentApprove
	case ActionReject:
		return model.AuditActionCommentReject
	default:
		return model.AuditActionCommentDelete
	}
}
