package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Task represents a unit of work to be processed by the worker pool
type Task func(ctx context.Context) error

// Pool runs submitted tasks on a fixed number of goroutines.
type Pool struct {
	workerCount int
	taskQueue   chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closed      bool
	closeMux    sync.Mutex
	log         *zap.Logger
}

// NewPool creates a pool bound to ctx; cancelling ctx stops the workers.
func NewPool(ctx context.Context, workerCount int, log *zap.Logger) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	poolCtx, cancel := context.WithCancel(ctx)
	return &Pool{
		workerCount: workerCount,
		taskQueue:   make(chan Task, workerCount*2),
		ctx:         poolCtx,
		cancel:      cancel,
		log:         log,
	}
}

// Start launches worker goroutines
func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Submit queues a task. It returns false if the pool is shutting down.
func (p *Pool) Submit(task Task) bool {
	select {
	case p.taskQueue <- task:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// Wait closes the queue and blocks until all queued tasks complete
func (p *Pool) Wait() {
	p.closeMux.Lock()
	if !p.closed {
		close(p.taskQueue)
		p.closed = true
	}
	p.closeMux.Unlock()

	p.wg.Wait()
	p.cancel()
}

// Shutdown cancels all workers and waits for completion
func (p *Pool) Shutdown() {
	p.cancel()
	p.Wait()
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for task := range p.taskQueue {
		select {
		case <-p.ctx.Done():
			p.log.Debug("worker stopping, context cancelled", zap.Int("worker", id))
			return
		default:
		}

		if err := task(p.ctx); err != nil {
			p.log.Warn("task failed", zap.Int("worker", id), zap.Error(err))
		}
	}
}
