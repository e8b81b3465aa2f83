package repository

import (
	"context"

	"society-console/internal/models"
)

// CollectionSource 仪表盘所需的全部集合（上游只读）
type CollectionSource interface {
	ListWings(ctx context.Context) ([]models.Wing, error)
	ListOwners(ctx context.Context) ([]models.Owner, error)
	ListRentals(ctx context.Context) ([]models.Rental, error)
	ListMaintenance(ctx context.Context) ([]models.MaintenanceDetail, error)
	ListExpenses(ctx context.Context) ([]models.Expense, error)
	ListActivityPayments(ctx context.Context) ([]models.ActivityPayment, error)
	ListActivityExpenses(ctx context.Context) ([]models.ActivityExpense, error)
	ListMeetings(ctx context.Context) ([]models.Meeting, error)
}

// NotificationSource 通知读取与已读标记（已读状态的持久化在上游）
type NotificationSource interface {
	ListNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID string, notificationID int64) error
	MarkNotificationsRead(ctx context.Context, userID string, notificationIDs []int64) error
}

// Source 两者的组合
type Source interface {
	CollectionSource
	NotificationSource
}
