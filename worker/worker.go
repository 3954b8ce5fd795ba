package worker

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/coastersim/oerror"
	"github.com/sirupsen/logrus"
)

// Pool runs CPU intensive jobs, such as building scenes, on a fixed set of goroutines. A job that
// panics is reported to sentry and does not take its worker down.
type Pool struct {
	queue  chan func()
	jobs   sync.WaitGroup
	done   sync.WaitGroup
	failed atomic.Int64
	once   sync.Once
}

// New starts a pool of n workers. Zero or less starts one worker per CPU.
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	p := &Pool{queue: make(chan func(), n)}
	p.done.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.done.Done()
	for f := range p.queue {
		p.run(f)
	}
}

func (p *Pool) run(f func()) {
	defer p.jobs.Done()
	defer func() {
		if err := recover(); err != nil {
			p.failed.Add(1)
			logrus.Errorf("worker job crashed: %v", err)

			hub := sentry.CurrentHub().Clone()
			hub.Recover(oerror.New("worker job crashed: %v", err))
			hub.Flush(time.Second * 5)
		}
	}()
	f()
}

// Submit queues f, blocking while every worker is busy and the queue is full. It must not be called
// after Close.
func (p *Pool) Submit(f func()) {
	p.jobs.Add(1)
	p.queue <- f
}

// Wait blocks until every submitted job has finished and returns how many of them panicked.
func (p *Pool) Wait() int {
	p.jobs.Wait()
	return int(p.failed.Load())
}

// Close stops the workers once the queued jobs have run.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.queue)
	})
	p.done.Wait()
}
