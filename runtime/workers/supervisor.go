// Package workers holds the long-running loops of the relay: group fan-out,
// cross-node relay and presence heartbeat, all run under a Supervisor.
package workers

import (
	"chat-relay/contract"
	"chat-relay/errors"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Supervisor owns the lifetime of the relay workers:
// Run each worker in its own goroutine
// Recover panics and turn them into ErrWorkerPanic
// Restart a failed worker after restartInterval
// Stop everything when the parent context or Stop cancels
// Wait for every goroutine through the WaitGroup
type Supervisor struct {
	Cancel          context.CancelFunc // Cancels the supervised context
	wg              *sync.WaitGroup    // One entry per running worker
	log             *slog.Logger
	workers         []contract.Worker
	restartInterval time.Duration // Pause between a crash and the restart
}

func NewSupervisor(log *slog.Logger, restartInterval time.Duration) *Supervisor {
	return &Supervisor{wg: &sync.WaitGroup{}, log: log, restartInterval: restartInterval}
}

// Run starts every registered worker and blocks until all of them returned.
//
//	// The parent (main) canceling stops the workers.
//	// Stop cancels only the supervised context, the parent stays alive.
func (s *Supervisor) Run(ctx context.Context) {
	// 1. Local cancellation tied to the parent ctx
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.Cancel = cancel
	// Released when Run returns, even if Stop was never called
	defer s.Cancel()

	// 2. One supervised goroutine per worker, then wait for all of them

	for _, worker := range s.workers {
		s.Start(supervisedCtx, worker)
	}
	s.wg.Wait()
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Start runs a worker under supervision.
// The worker runs in a dedicated goroutine. A panic in its Run method is
// recovered and reported as ErrWorkerPanic, an error return is logged, and in
// both cases the worker is started again after restartInterval.
// A nil return means the worker is done and it is not restarted.
// A failure in one worker never stops the supervisor or the other workers.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	workerName := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()

		for {
			if ctx.Err() != nil {
				s.log.Info(fmt.Sprintf("Stopping : %s", workerName))
				return
			}

			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
					}
				}()
				// Only this call is retried after a crash,
				// the supervision loop around it keeps running
				return worker.Run(ctx)
			}()

			if err == nil {
				// Terminated properly, never restart !
				s.log.Info(fmt.Sprintf("Worker finished : %s", workerName))
				return
			}

			if ctx.Err() != nil {
				s.log.Info("Worker stopped (context canceled)", "name", workerName)
				return
			}

			s.log.Warn("Worker crashed, restarting", "name", workerName, "error", err)
			select {
			case <-ctx.Done():
				// Context canceled: stop now, skip the restart delay
				return
			case <-time.After(s.restartInterval):
				// Delay elapsed with the context still alive, restart the worker
			}
		}
	}()
}

// Stop cancels the supervised context so every worker sees ctx.Done.
// Run returns once all of them have finished.
func (s *Supervisor) Stop() {
	if s.Cancel != nil {
		s.Cancel()
	}
}
