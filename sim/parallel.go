package sim

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum work-item count worth fanning out to
// the pool. Below this, a single thread beats the goroutine overhead.
const parallelThreshold = 256

// chunk is a half-open index range handed to one worker.
type chunk struct {
	lo, hi int
}

// workerPool is a persistent pool of goroutines for the data-parallel
// tick phases. All items within a dispatch are independent computations
// over read-only buffers writing disjoint output slots, so the pool does
// no locking beyond the channel handoff; Run does not return until every
// chunk is done, which gives the tick its lock-step barrier.
type workerPool struct {
	numWorkers int

	workChan chan chunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool

	// job is the function workers currently execute. It is written
	// before any chunk is dispatched and read only after a chunk is
	// received, so the channel send orders the accesses.
	job func(lo, hi int)
}

func newWorkerPool() *workerPool {
	return &workerPool{numWorkers: runtime.GOMAXPROCS(0)}
}

// start launches the persistent workers.
func (p *workerPool) start() {
	if p.running {
		return
	}
	p.workChan = make(chan chunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *workerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case c, ok := <-p.workChan:
			if !ok {
				return
			}
			p.job(c.lo, c.hi)
			p.doneChan <- struct{}{}
		}
	}
}

// Run partitions [0, n) across the workers and blocks until every chunk
// has completed. Small batches run inline.
func (p *workerPool) Run(n int, job func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if n < parallelThreshold || p.numWorkers < 2 {
		job(0, n)
		return
	}
	if !p.running {
		p.start()
	}
	p.job = job

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		lo := w * chunkSize
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		p.workChan <- chunk{lo: lo, hi: hi}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
