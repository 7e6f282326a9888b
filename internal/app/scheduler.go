package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionStore - хранилище сессий мастеров, которое умеет вычищать простаивающие записи
type SessionStore interface {
	EvictIdle(ttl time.Duration) int
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sessions SessionStore
	ttl      time.Duration
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewScheduler создаёт новый планировщик. Сессии проверяются раз в минуту
// или чаще, если ttl меньше двух минут.
func NewScheduler(sessions SessionStore, ttl time.Duration, logger *zap.Logger) *Scheduler {
	interval := time.Minute
	if ttl/2 < interval {
		interval = ttl / 2
	}
	if interval <= 0 {
		interval = time.Second
	}

	return &Scheduler{
		sessions: sessions,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Duration("session_ttl", s.ttl),
		zap.Duration("interval", s.interval))

	go s.runSessionSweepTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runSessionSweepTask периодически удаляет брошенные сессии мастеров
func (s *Scheduler) runSessionSweepTask(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			s.logger.Info("Session sweep task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Session sweep task cancelled")
			return
		}
	}
}

func (s *Scheduler) sweep() {
	if evicted := s.sessions.EvictIdle(s.ttl); evicted > 0 {
		s.logger.Info("Evicted idle wizard sessions", zap.Int("count", evicted))
	}
}
