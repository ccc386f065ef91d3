package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-photostudio-be/internal/model"
	"ai-photostudio-be/internal/pkg/logger"
	"ai-photostudio-be/internal/repository"
	"ai-photostudio-be/pkg/events"
	pktNats "ai-photostudio-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects carry the stream prefix.
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	title, message, ok := s.renderNotification(typeCode, event.Payload())
	if !ok {
		return nil
	}

	uidStr, _ := event.Payload()["user_id"].(string)
	userID, err := uuid.Parse(uidStr)
	if err != nil {
		s.logger.Warn("NotificationService", fmt.Sprintf("Event %s has no valid user_id", typeCode), nil)
		return nil
	}

	metaJSON, _ := json.Marshal(event.Payload())
	notif := model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		TypeCode:  typeCode,
		Title:     title,
		Message:   message,
		Metadata:  datatypes.JSON(metaJSON),
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateNotification(ctx, &notif); err != nil {
		s.logger.Error("NotificationService", "Failed to save notification", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return err // NATS will redeliver
	}

	if s.delivery != nil {
		s.delivery.Send(userID, notif)
	}
	return nil
}

func (s *NotificationService) renderNotification(typeCode string, payload map[string]interface{}) (title, message string, ok bool) {
	switch typeCode {
	case events.TypeTopupSettled:
		amount, _ := payload["amount"].(string)
		return "Topup successful",
			fmt.Sprintf("Your wallet topup of Rs %s has been credited.", amount),
			true
	case events.TypeGenerationCompleted:
		resolution, _ := payload["resolution"].(string)
		return "Image ready",
			fmt.Sprintf("Your %s product photo has been generated.", resolution),
			true
	case events.TypeLowBalance:
		balance, _ := payload["balance"].(string)
		return "Low wallet balance",
			fmt.Sprintf("Your balance is down to Rs %s. Top up to keep generating.", balance),
			true
	case events.TypeUserRegistered:
		return "Welcome!",
			"Your account is ready. Top up your wallet to start generating product photos.",
			true
	default:
		return "", "", false
	}
}

// GetNotifications fetches notifications for a user.
func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

// GetUnreadCount fetches unread count.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// MarkAsRead marks a notification as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a user.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
