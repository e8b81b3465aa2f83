// Package scheduler 周期性刷新：启动即执行一次，之后按固定间隔执行。
// 同一调度器的周期串行执行，不会重叠；每个周期拥有独立的可取消 context。
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Job 一个刷新周期。ctx 被取消表示周期已被取代或调度器已停止，
// Job 应尽快返回并丢弃结果。
type Job func(ctx context.Context) error

// Stats 运行计数
type Stats struct {
	Runs      uint64
	Failures  uint64
	Cancelled uint64
	Coalesced uint64
}

// Scheduler 单个查看者视图的刷新调度器
type Scheduler struct {
	name     string
	interval time.Duration
	job      Job
	logger   *zap.Logger

	triggerCh chan struct{}
	stopCh    chan struct{}
	wg        sync.WaitGroup

	mu          sync.Mutex
	started     bool
	stopped     bool
	cycleCancel context.CancelFunc

	running   atomic.Bool
	runs      atomic.Uint64
	failures  atomic.Uint64
	cancelled atomic.Uint64
	coalesced atomic.Uint64
}

// New 创建调度器；interval <= 0 时只执行启动时的一次和手动触发
func New(name string, interval time.Duration, job Job, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		name:      name,
		interval:  interval,
		job:       job,
		logger:    logger,
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start 启动调度循环（重复调用无效）
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true

	s.wg.Add(1)
	go s.loop(ctx)
}

// Trigger 请求一次手动刷新；周期进行中时合并为一次排队执行
func (s *Scheduler) Trigger() {
	select {
	case s.triggerCh <- struct{}{}:
	default:
		s.coalesced.Add(1)
	}
}

// Restart 取消进行中的周期（其结果将被丢弃）并排队一次新的周期
func (s *Scheduler) Restart() {
	s.mu.Lock()
	if s.cycleCancel != nil {
		s.cycleCancel()
	}
	s.mu.Unlock()
	s.Trigger()
}

// Stop 取消进行中的周期并等待循环退出；可重复调用
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		s.wg.Wait()
		return
	}
	s.stopped = true
	if s.cycleCancel != nil {
		s.cycleCancel()
	}
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

// Running 当前是否有周期在执行
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Stats 返回运行计数
func (s *Scheduler) Stats() Stats {
	return Stats{
		Runs:      s.runs.Load(),
		Failures:  s.failures.Load(),
		Cancelled: s.cancelled.Load(),
		Coalesced: s.coalesced.Load(),
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	s.logger.Debug("Scheduler started",
		zap.String("scheduler", s.name),
		zap.Duration("interval", s.interval),
	)

	// 首次立即执行
	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-tick:
			s.runCycle(ctx)
		case <-s.triggerCh:
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(parent context.Context) {
	s.mu.Lock()
	if s.stopped || parent.Err() != nil {
		s.mu.Unlock()
		return
	}
	cycleCtx, cancel := context.WithCancel(parent)
	s.cycleCancel = cancel
	s.mu.Unlock()

	s.running.Store(true)
	start := time.Now()
	err := s.job(cycleCtx)
	s.running.Store(false)

	// 周期是否被取消要在 cancel() 之前判断
	superseded := cycleCtx.Err() != nil

	s.mu.Lock()
	s.cycleCancel = nil
	s.mu.Unlock()
	cancel()

	s.runs.Add(1)
	switch {
	case superseded || errors.Is(err, context.Canceled):
		s.cancelled.Add(1)
		s.logger.Debug("Scheduler cycle cancelled",
			zap.String("scheduler", s.name),
			zap.Duration("duration", time.Since(start)),
		)
	case err != nil:
		s.failures.Add(1)
		s.logger.Warn("Scheduler cycle failed",
			zap.String("scheduler", s.name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
	default:
		s.logger.Debug("Scheduler cycle completed",
			zap.String("scheduler", s.name),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
