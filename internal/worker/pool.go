package worker

import (
	"context"
	"sort"
	"sync"
)

// Job is one unit of work. Seq is the job's position in submission order.
type Job interface {
	Seq() int
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job
type Result interface {
	Seq() int
	GetError() error
}

// Pool runs jobs on a fixed number of goroutines
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    chan Result
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a pool whose jobs observe ctx. Cancelling ctx stops the
// workers the same way Shutdown does.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2),
		results:    make(chan Result, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It returns false when the pool was shut down first.
// Submit blocks while the queue is full, so callers that submit more jobs than
// the pool buffers before calling Wait should use Run instead.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- job:
		return true
	}
}

// Wait closes the queue, waits for the workers and returns every result
// ordered by Seq, regardless of completion order.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)

	go func() {
		p.wg.Wait()
		p.closeResults()
		p.cancelFunc()
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}

	return sortBySeq(results)
}

// Shutdown stops the pool without draining queued jobs
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}

// Run is the submit-all-then-wait pattern: it runs jobs on a fresh pool of
// the given size and returns their results in submission order.
func Run(ctx context.Context, workers int, jobs []Job) []Result {
	if len(jobs) == 0 {
		return nil
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	pool := NewPool(ctx, workers)
	pool.Start()
	go func() {
		for _, job := range jobs {
			if !pool.Submit(job) {
				return
			}
		}
	}()
	return pool.waitFor(len(jobs))
}

// waitFor collects exactly n results, or fewer if the context ends first
func (p *Pool) waitFor(n int) []Result {
	results := make([]Result, 0, n)
	for len(results) < n {
		select {
		case r := <-p.results:
			results = append(results, r)
		case <-p.ctx.Done():
			p.Shutdown()
			for r := range p.results {
				results = append(results, r)
			}
			return sortBySeq(results)
		}
	}
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
	return sortBySeq(results)
}

func sortBySeq(results []Result) []Result {
	sort.Slice(results, func(i, j int) bool {
		return results[i].Seq() < results[j].Seq()
	})
	return results
}
