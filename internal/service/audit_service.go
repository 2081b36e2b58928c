package service

import (
	"encoding/json"
	"log"

	"github.com/argeoalecha/hayahai-web-sub001/internal/model"
	"github.com/argeoalecha/hayahai-web-sub001/internal/repository"
	"github.com/argeoalecha/hayahai-web-sub001/internal/util"
)

const (
	AuditExchange   = "audit_exchange"
	AuditQueueName  = "audit_queue"
	AuditRoutingKey = "audit"
)

// AuditEvent describes an action taken against a resource
type AuditEvent struct {
	UserID     *string
	Action     string
	Resource   string
	ResourceID string
	Detail     map[string]interface{}
	IPAddress  string
}

// AuditService records audit events and serves the admin audit trail.
// Recording is best-effort and at-most-once: it never blocks the caller and
// its failures are logged, never propagated. Reads go straight to the store.
type AuditService interface {
	Record(event AuditEvent)
	GetTrail(resource, resourceID string, page, limit int) ([]*model.AuditLog, error)
	GetRecent(page, limit int) ([]*model.AuditLog, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
	rabbitMQ  *util.RabbitMQClient
}

func NewAuditService(auditRepo repository.AuditRepository, rabbitMQ *util.RabbitMQClient) AuditService {
	if rabbitMQ != nil {
		if err := rabbitMQ.DeclareExchangeAndQueue(AuditExchange, AuditQueueName, AuditRoutingKey); err != nil {
			log.Printf("Failed to declare audit exchange: %v", err)
		}
	}

	return &auditService{
		auditRepo: auditRepo,
		rabbitMQ:  rabbitMQ,
	}
}

// Record publishes an audit event asynchronously. When RabbitMQ is
// unavailable it degrades to a direct database write, still best-effort.
func (s *auditService) Record(event AuditEvent) {
	entry := &model.AuditLog{
		UserID:   event.UserID,
		Action:   event.Action,
		Resource: event.Resource,
	}
	// Batch actions span many resources and carry no single resource id;
	// an empty id must not reach the uuid column
	if event.ResourceID != "" {
		id := event.ResourceID
		entry.ResourceID = &id
	}
	if event.IPAddress != "" {
		ip := event.IPAddress
		entry.IPAddress = &ip
	}
	if err := entry.SetDetail(event.Detail); err != nil {
		log.Printf("Failed to encode audit detail: %v", err)
	}

	go func() {
		if s.rabbitMQ != nil {
			msg, err := json.Marshal(entry)
			if err == nil {
				if err := s.rabbitMQ.Publish(AuditExchange, AuditRoutingKey, msg); err == nil {
					return
				}
				log.Printf("Failed to publish audit event to RabbitMQ: %v", err)
			}
		}

		if err := s.auditRepo.Create(entry); err != nil {
			log.Printf("Failed to record audit entry: %v", err)
		}
	}()
}

// GetTrail returns the audit trail of a single resource, newest first
func (s *auditService) GetTrail(resource, resourceID string, page, limit int) ([]*model.AuditLog, error) {
	page, limit = normalizeAuditPage(page, limit)

	entries, err := s.auditRepo.FindByResourceID(resource, resourceID, limit, (page-1)*limit)
	if err != nil {
		log.Printf("Failed to read audit trail for %s %s: %v", resource, resourceID, err)
		return nil, ErrInternal
	}
	return entries, nil
}

// GetRecent returns the most recent audit entries across all resources
func (s *auditService) GetRecent(page, limit int) ([]*model.AuditLog, error) {
	page, limit = normalizeAuditPage(page, limit)

	entries, err := s.auditRepo.FindRecent(limit, (page-1)*limit)
	if err != nil {
		log.Printf("Failed to read recent audit entries: %v", err)
		return nil, ErrInternal
	}
	return entries, nil
}

func normalizeAuditPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
