package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/insured-person-service/internal/events"
)

// NotificationService records domain events for audit purposes. Emails
// whose failure is user-facing are sent synchronously by the services
// themselves; this layer only observes.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPersonRegistered, n.handleEvent)
	n.dispatcher.Subscribe(events.EventPersonUpdated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventPersonDeleted, n.handleEvent)
	n.dispatcher.Subscribe(events.EventPasswordChanged, n.handleEvent)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handleEvent)
	n.dispatcher.Subscribe(events.EventPasswordResetCompleted, n.handleEvent)
}

func (n *NotificationService) handleEvent(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("policy_number", event.PolicyNumber),
		zap.Any("payload", event.Payload))
	return nil
}
