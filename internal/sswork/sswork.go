// Public domain.

// Package sswork runs independent jobs on a pool of goroutines and
// collects results in submission order.
package sswork

import (
	"context"
	"runtime"
)

type result[T any] struct {
	v   T
	err error
}

type job[T any] struct {
	i   int
	rch chan result[T]
}

// Run calls fn(i) for i in [0,n) and returns the results indexed by i.
//
// Up to GOMAXPROCS workers run at once.  The first error in job order,
// or cancellation of ctx, stops dispatch of further jobs and is returned.
// Jobs already running are allowed to finish.
func Run[T any](ctx context.Context, n int, fn func(i int) (T, error)) ([]T, error) {
	// prCh keeps result channels in submission order.  it is buffered so
	// a fast worker can drop off a result without waiting for workers
	// ahead of it.  the buffer must be at least maxWorkers.
	maxWorkers := runtime.GOMAXPROCS(0)
	prCh := make(chan chan result[T], maxWorkers*2)
	jobCh := make(chan job[T])
	done := make(chan struct{})
	defer close(done)

	// dispatcher.  each job carries a return channel that works like a
	// ticket for picking up its result.  the ticket is queued for
	// collection once a worker has taken the job.
	go func() {
		defer close(prCh)
		defer close(jobCh)
		for i := 0; i < n; i++ {
			rch := make(chan result[T], 1)
			select {
			case jobCh <- job[T]{i, rch}:
			case <-done:
				return
			case <-ctx.Done():
				return
			}
			select {
			case prCh <- rch:
			case <-done:
				return
			}
		}
	}()

	// workers are started only as jobs call for them.  there may be more
	// cores than jobs.
	go func() {
		for w := 0; w < maxWorkers; w++ {
			j, ok := <-jobCh
			if !ok {
				return
			}
			go work(fn, j, jobCh)
		}
	}()

	res := make([]T, 0, n)
	for rch := range prCh {
		select {
		case r := <-rch:
			if r.err != nil {
				return nil, r.err
			}
			res = append(res, r.v)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if len(res) < n {
		// dispatcher stopped on cancellation
		return nil, ctx.Err()
	}
	return res, nil
}

func work[T any](fn func(int) (T, error), j job[T], jobCh <-chan job[T]) {
	for {
		v, err := fn(j.i)
		j.rch <- result[T]{v, err}
		var ok bool
		if j, ok = <-jobCh; !ok {
			return
		}
	}
}
