// Package worker provides the bounded worker pool used for parallel
// paragraph transformation and the rate limiter used for outbound HTTP.
package worker

import "sync"

// Job is a unit of work. Jobs must be independent: a job may read only
// its own inputs and produce only its own result, which is what makes
// parallel transformation safe without locking.
type Job interface {
	Execute() Result
}

// Result is the outcome of a job
type Result interface {
	GetError() error
}

// Pool executes jobs on a fixed number of workers. Submission and result
// consumption run concurrently: callers submit from one goroutine while
// ranging over Results from another, so a corpus with many paragraphs
// never backs up in channel buffers.
type Pool struct {
	workers  int
	jobQueue chan Job
	results  chan Result
	wg       sync.WaitGroup
}

// NewPool creates a pool with the given worker count
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, workers*2),
		results:  make(chan Result, workers*2),
	}
}

// Start launches the workers. Results is closed once Close has been
// called and every submitted job has finished.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for job := range p.jobQueue {
		p.results <- job.Execute()
	}
}

// Submit queues a job for execution. Blocks when the queue is full, which
// bounds memory regardless of corpus size.
func (p *Pool) Submit(job Job) {
	p.jobQueue <- job
}

// Close signals that no more jobs will be submitted
func (p *Pool) Close() {
	close(p.jobQueue)
}

// Results returns the channel of job outcomes. Completion order, not
// submission order; callers that need input order carry an index in the
// result.
func (p *Pool) Results() <-chan Result {
	return p.results
}
