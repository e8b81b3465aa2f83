package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"society-console/internal/notification"
	"society-console/internal/repository"
	"society-console/internal/scheduler"
	"society-console/internal/scope"
	"society-console/internal/security"

	"go.uber.org/zap"
)

var (
	// ErrNotificationNotFound 通知不存在或对当前查看者不可见
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrForbidden 角色不具备该能力
	ErrForbidden = errors.New("forbidden")
)

// NotificationState 通知面板状态
type NotificationState struct {
	Items       []notification.Item `json:"items"`
	UnreadCount int                 `json:"unread_count"`
	Available   bool                `json:"available"`
	Stale       bool                `json:"stale"`
	LastError   string              `json:"last_error,omitempty"`
	RefreshedAt time.Time           `json:"refreshed_at"`
}

// NotificationView 单个查看者的通知：30 秒轮询，已读标记乐观更新
type NotificationView struct {
	source repository.NotificationSource
	feed   *notification.Feed
	logger *zap.Logger

	mu          sync.Mutex
	viewer      security.Context
	gen         uint64
	available   bool
	stale       bool
	lastError   string
	refreshedAt time.Time

	sched *scheduler.Scheduler

	readyOnce sync.Once
	ready     chan struct{}
}

func NewNotificationView(viewer security.Context, src repository.NotificationSource, interval time.Duration, logger *zap.Logger) *NotificationView {
	v := &NotificationView{
		source: src,
		feed:   notification.NewFeed(),
		logger: logger.With(zap.String("user_id", viewer.UserID), zap.String("view", "notifications")),
		viewer: viewer,
		ready:  make(chan struct{}),
	}
	v.sched = scheduler.New("notifications:"+viewer.UserID, interval, v.runCycle, v.logger)
	return v
}

func (v *NotificationView) Mount(ctx context.Context) { v.sched.Start(ctx) }

func (v *NotificationView) Unmount() { v.sched.Stop() }

func (v *NotificationView) Refresh() { v.sched.Trigger() }

func (v *NotificationView) Ready() <-chan struct{} { return v.ready }

// SetViewer 可见范围变化：清空旧列表并立即重新拉取
func (v *NotificationView) SetViewer(viewer security.Context) {
	v.mu.Lock()
	if v.viewer.Same(viewer) {
		v.mu.Unlock()
		return
	}
	v.viewer = viewer
	v.gen++
	v.available = false
	v.feed.Replace(nil)
	v.mu.Unlock()

	v.sched.Restart()
}

func (v *NotificationView) Viewer() security.Context {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewer
}

// State 当前通知与未读计数
func (v *NotificationView) State() NotificationState {
	v.mu.Lock()
	defer v.mu.Unlock()
	items, unread := v.feed.Snapshot()
	return NotificationState{
		Items:       items,
		UnreadCount: unread,
		Available:   v.available,
		Stale:       v.stale,
		LastError:   v.lastError,
		RefreshedAt: v.refreshedAt,
	}
}

// UnreadCount 未读计数
func (v *NotificationView) UnreadCount() int {
	return v.feed.UnreadCount()
}

// MarkRead 标记一条通知已读：本地先生效，上游失败时回滚。
// 已读的通知直接返回成功，不调用上游。
func (v *NotificationView) MarkRead(ctx context.Context, id int64) error {
	viewer := v.Viewer()
	if !viewer.Can(security.CapMarkNotifications) {
		return ErrForbidden
	}

	tr, ok := v.feed.MarkOne(id)
	if !ok {
		if _, found := v.feed.StateOf(id); !found {
			return ErrNotificationNotFound
		}
		return nil
	}

	if err := v.source.MarkNotificationRead(ctx, viewer.UserID, id); err != nil {
		v.feed.Revert(tr)
		v.logger.Warn("Mark read failed, reverted",
			zap.Int64("notification_id", id),
			zap.Error(err),
		)
		return fmt.Errorf("mark notification %d read: %w", id, err)
	}
	v.feed.Commit(tr)
	return nil
}

// MarkAllRead 全部标记已读，返回本次变化的条数
func (v *NotificationView) MarkAllRead(ctx context.Context) (int, error) {
	viewer := v.Viewer()
	if !viewer.Can(security.CapMarkNotifications) {
		return 0, ErrForbidden
	}

	tr := v.feed.MarkAll()
	if tr.Empty() {
		return 0, nil
	}

	if err := v.source.MarkNotificationsRead(ctx, viewer.UserID, tr.IDs()); err != nil {
		v.feed.Revert(tr)
		v.logger.Warn("Mark all read failed, reverted",
			zap.Int("count", len(tr.IDs())),
			zap.Error(err),
		)
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	v.feed.Commit(tr)
	return len(tr.IDs()), nil
}

func (v *NotificationView) runCycle(ctx context.Context) error {
	v.mu.Lock()
	viewer, gen := v.viewer, v.gen
	v.mu.Unlock()

	list, err := v.source.ListNotifications(ctx, viewer.UserID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if ctx.Err() != nil || gen != v.gen {
		return ctx.Err()
	}
	defer v.markReady()

	if err != nil {
		v.stale = v.available
		v.lastError = err.Error()
		return fmt.Errorf("list notifications: %w", err)
	}

	v.feed.Replace(scope.FilterNotifications(viewer, list))
	v.available = true
	v.stale = false
	v.lastError = ""
	v.refreshedAt = time.Now()
	return nil
}

func (v *NotificationView) markReady() {
	v.readyOnce.Do(func() { close(v.ready) })
}
