package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"society-console/internal/aggregator"
	"society-console/internal/repository"
	"society-console/internal/security"

	"go.uber.org/zap"
)

// Target 手动刷新目标
type Target string

const (
	TargetDashboard     Target = "dashboard"
	TargetNotifications Target = "notifications"
	TargetAll           Target = "all"
)

// ParseTarget 未知值按 all 处理
func ParseTarget(raw string) Target {
	switch Target(raw) {
	case TargetDashboard, TargetNotifications:
		return Target(raw)
	default:
		return TargetAll
	}
}

// RegistryConfig 会话注册表配置
type RegistryConfig struct {
	DashboardInterval    time.Duration
	NotificationInterval time.Duration
	// IdleTTL 多久没有请求的会话被卸载
	IdleTTL time.Duration
	// JanitorInterval 清理任务间隔
	JanitorInterval time.Duration
}

// Session 一个查看者挂载的仪表盘与通知视图
type Session struct {
	Dashboard     *DashboardView
	Notifications *NotificationView
	lastSeen      atomic.Int64
}

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

// LastSeen 最近一次被访问的时间
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

func (s *Session) unmount() {
	s.Dashboard.Unmount()
	s.Notifications.Unmount()
}

// Registry 每个用户一个会话；空闲会话由后台任务卸载
type Registry struct {
	cfg           RegistryConfig
	collections   repository.CollectionSource
	notifications repository.NotificationSource
	cache         *aggregator.CacheManager
	logger        *zap.Logger
	now           func() time.Time

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	sessions map[string]*Session

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewRegistry cache 可以为 nil
func NewRegistry(cfg RegistryConfig, collections repository.CollectionSource, notifications repository.NotificationSource, cache *aggregator.CacheManager, logger *zap.Logger) *Registry {
	if cfg.DashboardInterval <= 0 {
		cfg.DashboardInterval = 5 * time.Minute
	}
	if cfg.NotificationInterval <= 0 {
		cfg.NotificationInterval = 30 * time.Second
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.JanitorInterval <= 0 {
		cfg.JanitorInterval = time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		cfg:           cfg,
		collections:   collections,
		notifications: notifications,
		cache:         cache,
		logger:        logger,
		now:           time.Now,
		ctx:           ctx,
		cancel:        cancel,
		sessions:      make(map[string]*Session),
		stopCh:        make(chan struct{}),
	}
}

// Start 启动空闲会话清理任务；会话的刷新循环挂在 parent 之下
func (r *Registry) Start(parent context.Context) {
	r.mu.Lock()
	r.cancel()
	r.ctx, r.cancel = context.WithCancel(parent)
	r.mu.Unlock()

	r.wg.Add(1)
	go r.janitor()
	r.logger.Info("Session registry started",
		zap.Duration("idle_ttl", r.cfg.IdleTTL),
		zap.Duration("janitor_interval", r.cfg.JanitorInterval),
	)
}

// Acquire 获取（必要时挂载）查看者会话；上下文变化时作废进行中的周期
func (r *Registry) Acquire(viewer security.Context) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[viewer.UserID]; ok {
		s.touch(r.now())
		s.Dashboard.SetViewer(viewer)
		s.Notifications.SetViewer(viewer)
		return s
	}

	s := &Session{
		Dashboard:     NewDashboardView(viewer, r.collections, r.cache, r.cfg.DashboardInterval, r.logger),
		Notifications: NewNotificationView(viewer, r.notifications, r.cfg.NotificationInterval, r.logger),
	}
	s.touch(r.now())
	s.Dashboard.Mount(r.ctx)
	s.Notifications.Mount(r.ctx)
	r.sessions[viewer.UserID] = s

	r.logger.Info("Mounted viewer session",
		zap.String("user_id", viewer.UserID),
		zap.String("role", string(viewer.Role)),
		zap.Stringer("wing_id", viewer.WingID),
	)
	return s
}

// Lookup 不挂载、不刷新访问时间
func (r *Registry) Lookup(userID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	return s, ok
}

// Release 卸载查看者会话
func (r *Registry) Release(userID string) bool {
	r.mu.Lock()
	s, ok := r.sessions[userID]
	delete(r.sessions, userID)
	r.mu.Unlock()

	if ok {
		s.unmount()
	}
	return ok
}

// Len 已挂载会话数
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Refresh 触发手动刷新；userID 为空时作用于所有会话。返回触发的会话数
func (r *Registry) Refresh(userID string, target Target) int {
	r.mu.Lock()
	var targets []*Session
	if userID == "" {
		for _, s := range r.sessions {
			targets = append(targets, s)
		}
	} else if s, ok := r.sessions[userID]; ok {
		targets = append(targets, s)
	}
	r.mu.Unlock()

	for _, s := range targets {
		if target == TargetDashboard || target == TargetAll {
			s.Dashboard.Refresh()
		}
		if target == TargetNotifications || target == TargetAll {
			s.Notifications.Refresh()
		}
	}
	return len(targets)
}

// Sweep 卸载空闲超过 IdleTTL 的会话，返回卸载数量
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.cfg.IdleTTL)

	r.mu.Lock()
	var idle []*Session
	for userID, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, userID)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.unmount()
	}
	return len(idle)
}

// Stop 停止清理任务并卸载全部会话
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		r.wg.Wait()

		r.mu.Lock()
		sessions := r.sessions
		r.sessions = make(map[string]*Session)
		r.cancel()
		r.mu.Unlock()

		for _, s := range sessions {
			s.unmount()
		}
		r.logger.Info("Session registry stopped", zap.Int("unmounted", len(sessions)))
	})
}

func (r *Registry) janitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.JanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Info("Unmounted idle sessions", zap.Int("count", n))
			}
		}
	}
}
