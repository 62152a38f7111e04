// Package parallel runs queued work on a fixed set of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

type (
	// WorkerFunc queues one unit of work.
	WorkerFunc func(func())
	// WaitFunc blocks until all queued work has run. Passing done also
	// stops the workers, after which the pool takes no further work.
	WaitFunc func(done bool)
	// CancelFunc stops the workers once the queue drains. Safe to call
	// more than once.
	CancelFunc func()
)

// Pool spreads image decoding and scaling over numWorkers goroutines.
// A pool of one runs work inline in Do, which keeps single-threaded
// runs deterministic and free of channel overhead.
type Pool struct {
	wg     sync.WaitGroup
	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc
}

func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Do: func(f func()) {
			f()
		},
		Wait:   func(bool) {},
		Cancel: func() {},
	}

	if numWorkers > 1 {
		workChan := make(chan func(), numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for f := range workChan {
					f()
				}
			})
		}

		pool.Do = func(f func()) {
			workChan <- f
		}

		pool.Wait = func(done bool) {
			if done {
				pool.Cancel()
			}
			pool.wg.Wait()
		}
		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
	}

	return pool
}
