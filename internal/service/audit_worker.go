package service

import (
	"encoding/json"
	"log"

	"github.com/argeoalecha/hayahai-web-sub001/internal/model"
	"github.com/argeoalecha/hayahai-web-sub001/internal/repository"
	"github.com/argeoalecha/hayahai-web-sub001/internal/util"
)

// AuditWorker consumes audit events from RabbitMQ and persists them
type AuditWorker struct {
	auditRepo repository.AuditRepository
	rabbitMQ  *util.RabbitMQClient
	stopChan  chan bool
}

func NewAuditWorker(auditRepo repository.AuditRepository, rabbitMQ *util.RabbitMQClient) *AuditWorker {
	return &AuditWorker{
		auditRepo: auditRepo,
		rabbitMQ:  rabbitMQ,
		stopChan:  make(chan bool),
	}
}

// Start begins consuming audit messages from RabbitMQ
func (w *AuditWorker) Start() error {
	if w.rabbitMQ == nil {
		return nil // RabbitMQ not available, worker will not start
	}

	if err := w.rabbitMQ.DeclareExchangeAndQueue(AuditExchange, AuditQueueName, AuditRoutingKey); err != nil {
		return err
	}

	msgs, err := w.rabbitMQ.Consume(AuditQueueName)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-w.stopChan:
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}

				var entry model.AuditLog
				if err := json.Unmarshal(d.Body, &entry); err != nil {
					log.Printf("Failed to decode audit message: %v", err)
					d.Nack(false, false)
					continue
				}

				if err := w.auditRepo.Create(&entry); err != nil {
					log.Printf("Failed to persist audit entry: %v", err)
					d.Nack(false, false)
					continue
				}

				d.Ack(false)
			}
		}
	}()

	return nil
}

// Stop stops the worker
func (w *AuditWorker) Stop() {
	close(w.stopChan)
}
