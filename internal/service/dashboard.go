package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"society-console/internal/aggregator"
	"society-console/internal/models"
	"society-console/internal/repository"
	"society-console/internal/scheduler"
	"society-console/internal/scope"
	"society-console/internal/security"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DashboardSnapshot 一次成功周期的结果，发布后只读
type DashboardSnapshot struct {
	CycleID     string                 `json:"cycle_id"`
	Viewer      security.Context       `json:"-"`
	Stats       models.StatsSnapshot   `json:"stats"`
	Collections scope.Collections      `json:"-"`
	WingReport  *aggregator.WingReport `json:"-"`
	RefreshedAt time.Time              `json:"refreshed_at"`
	// FromCache 启动时由缓存预填充，尚未经过本进程的周期
	FromCache bool `json:"from_cache"`
}

// DashboardState 对外可见状态。
// Available=false 表示还没有任何快照（统计不可用，区别于全 0 数据）；
// Stale=true 表示展示的是旧快照（最近一次周期失败或来自缓存）。
type DashboardState struct {
	Snapshot    *DashboardSnapshot `json:"snapshot"`
	Available   bool               `json:"available"`
	Stale       bool               `json:"stale"`
	LastError   string             `json:"last_error,omitempty"`
	LastAttempt time.Time          `json:"last_attempt"`
}

// DashboardView 单个查看者的仪表盘：周期性抓取 -> 作用域 -> 汇总 -> 原子发布
type DashboardView struct {
	source repository.CollectionSource
	cache  *aggregator.CacheManager
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	viewer security.Context
	gen    uint64

	state atomic.Pointer[DashboardState]
	sched *scheduler.Scheduler

	readyOnce sync.Once
	ready     chan struct{}
}

// NewDashboardView cache 可以为 nil
func NewDashboardView(viewer security.Context, src repository.CollectionSource, cache *aggregator.CacheManager, interval time.Duration, logger *zap.Logger) *DashboardView {
	v := &DashboardView{
		source: src,
		cache:  cache,
		logger: logger.With(zap.String("user_id", viewer.UserID), zap.String("view", "dashboard")),
		now:    time.Now,
		viewer: viewer,
		ready:  make(chan struct{}),
	}
	v.sched = scheduler.New("dashboard:"+viewer.UserID, interval, v.runCycle, v.logger)
	return v
}

// Mount 预填充缓存（如有）并启动刷新
func (v *DashboardView) Mount(ctx context.Context) {
	v.seedFromCache(ctx)
	v.sched.Start(ctx)
}

// Unmount 停止刷新并取消进行中的周期
func (v *DashboardView) Unmount() {
	v.sched.Stop()
}

// Refresh 手动刷新；已有周期在执行时合并
func (v *DashboardView) Refresh() {
	v.sched.Trigger()
}

// SetViewer 查看者上下文变化时作废进行中的周期并立即重新计算
func (v *DashboardView) SetViewer(viewer security.Context) {
	v.mu.Lock()
	if v.viewer.Same(viewer) {
		v.mu.Unlock()
		return
	}
	v.viewer = viewer
	v.gen++
	// 旧快照属于上一个查看者的作用域，不能继续展示
	v.state.Store(&DashboardState{})
	v.mu.Unlock()

	v.logger.Info("Viewer context changed, superseding dashboard cycle",
		zap.String("role", string(viewer.Role)),
		zap.Stringer("wing_id", viewer.WingID),
	)
	v.sched.Restart()
}

func (v *DashboardView) Viewer() security.Context {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewer
}

// State 当前状态（值拷贝）
func (v *DashboardView) State() DashboardState {
	if p := v.state.Load(); p != nil {
		return *p
	}
	return DashboardState{}
}

// Ready 首个周期结束（成功或失败）后关闭
func (v *DashboardView) Ready() <-chan struct{} {
	return v.ready
}

func (v *DashboardView) markReady() {
	v.readyOnce.Do(func() { close(v.ready) })
}

func (v *DashboardView) snapshotGen() (security.Context, uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewer, v.gen
}

// publish 在同一把锁下校验代次并发布，被取代的周期结果直接丢弃
func (v *DashboardView) publish(ctx context.Context, gen uint64, next *DashboardState) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if ctx.Err() != nil || gen != v.gen {
		return false
	}
	v.state.Store(next)
	return true
}

func (v *DashboardView) runCycle(ctx context.Context) error {
	viewer, gen := v.snapshotGen()
	cycleID := uuid.NewString()
	start := v.now()

	raw, err := FetchCollections(ctx, v.source, v.logger)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return ctx.Err()
		}
		// 只保留同一查看者的旧快照
		prev := v.State().Snapshot
		if prev != nil && !prev.Viewer.Same(viewer) {
			prev = nil
		}
		failed := &DashboardState{
			Snapshot:    prev,
			Available:   prev != nil,
			Stale:       prev != nil,
			LastError:   err.Error(),
			LastAttempt: start,
		}
		if v.publish(ctx, gen, failed) {
			v.markReady()
			v.logger.Warn("Dashboard cycle failed, keeping previous snapshot",
				zap.String("cycle_id", cycleID),
				zap.Bool("has_previous", prev != nil),
				zap.Error(err),
			)
		}
		return err
	}

	scoped := scope.Apply(viewer, raw)
	snap := &DashboardSnapshot{
		CycleID:     cycleID,
		Viewer:      viewer,
		Stats:       aggregator.ComputeStats(scoped),
		Collections: scoped,
		RefreshedAt: v.now(),
	}
	if viewer.Can(security.CapViewWingReport) {
		report := aggregator.BuildWingReport(scoped)
		snap.WingReport = &report
	}

	if !v.publish(ctx, gen, &DashboardState{Snapshot: snap, Available: true, LastAttempt: start}) {
		v.logger.Debug("Discarding superseded dashboard cycle", zap.String("cycle_id", cycleID))
		return ctx.Err()
	}
	v.markReady()

	v.logger.Info("Dashboard cycle completed",
		zap.String("cycle_id", cycleID),
		zap.Int("owners", snap.Stats.TotalOwners),
		zap.Stringer("collected", snap.Stats.TotalMaintenanceCollected),
		zap.Float64("collection_rate_percent", snap.Stats.CollectionRatePercent),
		zap.Duration("duration", time.Since(start)),
	)

	if v.cache != nil {
		entry := aggregator.CachedStats{Viewer: viewer, CycleID: cycleID, Stats: snap.Stats, RefreshedAt: snap.RefreshedAt}
		if err := v.cache.StoreStats(ctx, entry); err != nil {
			v.logger.Warn("Failed to cache dashboard stats", zap.Error(err))
		}
	}
	return nil
}

func (v *DashboardView) seedFromCache(ctx context.Context) {
	if v.cache == nil {
		return
	}
	viewer, gen := v.snapshotGen()
	cached, err := v.cache.LoadStats(ctx, viewer)
	if err != nil {
		if !errors.Is(err, aggregator.ErrCacheMiss) {
			v.logger.Warn("Failed to load cached dashboard stats", zap.Error(err))
		}
		return
	}
	v.publish(ctx, gen, &DashboardState{
		Snapshot: &DashboardSnapshot{
			CycleID:     cached.CycleID,
			Viewer:      viewer,
			Stats:       cached.Stats,
			RefreshedAt: cached.RefreshedAt,
			FromCache:   true,
		},
		Available: true,
		Stale:     true,
	})
}
