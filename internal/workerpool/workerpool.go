// Package workerpool provides a generic bounded worker pool. Workers send every
// result to a single results channel, so the caller owns aggregation in one
// collector goroutine and workers never share mutable state.
package workerpool

import (
	"runtime"
	"sync"
)

// MaxWorkers caps the pool size when no explicit worker count is given.
const MaxWorkers = 32

// DefaultWorkers returns the worker count used when none is configured.
func DefaultWorkers() int {
	return min(runtime.NumCPU(), MaxWorkers)
}

// Pool distributes jobs across a fixed number of workers and collects their
// results.
type Pool[Job any, Result any] struct {
	numWorkers int
	jobs       chan Job
	results    chan Result
	wg         sync.WaitGroup
}

// New creates a pool. If numWorkers is 0 or negative, DefaultWorkers is used.
// When numJobs is known and smaller than numWorkers, the pool shrinks to match.
// Channels are buffered to numJobs so Submit does not block for known batches.
func New[Job any, Result any](numWorkers, numJobs int) *Pool[Job, Result] {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers()
	}
	if numJobs > 0 {
		numWorkers = min(numWorkers, numJobs)
	}
	if numJobs < 0 {
		numJobs = 0
	}

	return &Pool[Job, Result]{
		numWorkers: numWorkers,
		jobs:       make(chan Job, numJobs),
		results:    make(chan Result, numJobs),
	}
}

// Workers returns the number of workers the pool starts.
func (p *Pool[Job, Result]) Workers() int {
	return p.numWorkers
}

// Start launches the workers. workerFn is called once per job.
func (p *Pool[Job, Result]) Start(workerFn func(Job) Result) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.results <- workerFn(job)
			}
		}()
	}
}

// Submit queues a job.
func (p *Pool[Job, Result]) Submit(job Job) {
	p.jobs <- job
}

// Close stops accepting jobs. The results channel is closed once every worker
// has finished.
func (p *Pool[Job, Result]) Close() {
	close(p.jobs)
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

// Results returns the channel that receives every worker result.
func (p *Pool[Job, Result]) Results() <-chan Result {
	return p.results
}
