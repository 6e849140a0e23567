package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/assist-by/pricecleaner/internal/logger"
)

// Task는 스케줄러가 실행할 작업을 정의하는 인터페이스입니다
type Task interface {
	Execute(ctx context.Context) error
}

// Scheduler는 interval 경계마다 작업을 실행하는 스케줄러입니다
type Scheduler struct {
	interval time.Duration
	task     Task
	log      *logger.Entry
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewScheduler는 새로운 스케줄러를 생성합니다
func NewScheduler(interval time.Duration, task Task, log *logger.Entry) *Scheduler {
	if log == nil {
		log = logger.Discard()
	}
	return &Scheduler{
		interval: interval,
		task:     task,
		log:      log.WithComponent("scheduler"),
		stopCh:   make(chan struct{}),
	}
}

// nextWait는 다음 interval 경계까지 남은 시간을 계산합니다
func (s *Scheduler) nextWait(now time.Time) time.Duration {
	nextRun := now.Truncate(s.interval).Add(s.interval)

	s.log.Infof("다음 실행까지 %v 대기 (다음 실행: %s)",
		nextRun.Sub(now).Round(time.Second),
		nextRun.Format("15:04:05"))

	return nextRun.Sub(now)
}

// Start는 스케줄러를 시작합니다. ctx가 끝나거나 Stop이 호출될 때까지 블록됩니다.
func (s *Scheduler) Start(ctx context.Context) error {
	timer := time.NewTimer(s.nextWait(time.Now()))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-s.stopCh:
			return nil

		case <-timer.C:
			if err := s.task.Execute(ctx); err != nil {
				// 에러가 발생해도 계속 실행
				s.log.WithError(err).Error("작업 실행 실패")
			}

			timer.Reset(s.nextWait(time.Now()))
		}
	}
}

// Stop은 스케줄러를 중지합니다. 여러 번 호출해도 안전합니다.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}
