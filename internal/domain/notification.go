package domain

import (
	"context"
	"time"
)

type NotificationType string

const (
	NotificationReward       NotificationType = "reward"
	NotificationFollow       NotificationType = "follow"
	NotificationSubscription NotificationType = "subscription"
	NotificationRaid         NotificationType = "raid"
	NotificationGeneric      NotificationType = "generic"
)

type Notification struct {
	ID        int64
	Type      NotificationType
	Platform  Platform
	Username  string
	Amount    float64
	Message   string
	Metadata  map[string]string
	CreatedAt time.Time
}

type NotificationRepository interface {
	SaveNotification(ctx context.Context, notification *Notification) (*Notification, error)
	ListNotifications(ctx context.Context, limit int) ([]*Notification, error)
}
