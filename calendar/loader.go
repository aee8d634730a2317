/*
loader.go - In-flight fetch supersession

PURPOSE:
  Serializes calendar fetches per worker. Starting a fetch for a worker
  cancels any fetch still running for that worker, so only the most recent
  request ever delivers. A superseded fetch delivers nothing; a failed
  fetch delivers an empty hours map (allocation degrades gracefully, it
  never blocks on calendar data).
*/
package calendar

import (
	"context"
	"sync"

	"github.com/bracket2code/salary-engine/payroll"
)

// Fetcher is the fetch dependency of Loader. *Client implements it.
type Fetcher interface {
	WorkedHours(ctx context.Context, workerID string, period Period) (payroll.CalendarHours, error)
}

// Loader starts and supersedes calendar fetches. Safe for concurrent use.
type Loader struct {
	fetcher Fetcher

	mu       sync.Mutex
	inflight map[string]*flight
	wg       sync.WaitGroup
}

// flight identifies one running fetch; its pointer doubles as the
// supersession token.
type flight struct {
	cancel context.CancelFunc
}

// NewLoader returns a Loader on top of a Fetcher.
func NewLoader(fetcher Fetcher) *Loader {
	return &Loader{
		fetcher:  fetcher,
		inflight: make(map[string]*flight),
	}
}

// Load starts a fetch for (workerID, period), cancelling any in-flight
// fetch for the same worker. deliver is invoked exactly once unless the
// fetch is superseded or the parent context ends first; it receives the
// period the data belongs to so stale arrivals are discardable by the
// caller as well.
func (l *Loader) Load(ctx context.Context, workerID string, period Period, deliver func(Period, payroll.CalendarHours)) {
	fetchCtx, cancel := context.WithCancel(ctx)
	f := &flight{cancel: cancel}

	l.mu.Lock()
	if prev, ok := l.inflight[workerID]; ok {
		prev.cancel()
	}
	l.inflight[workerID] = f
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer l.release(workerID, f)

		hours, err := l.fetcher.WorkedHours(fetchCtx, workerID, period)
		if fetchCtx.Err() != nil {
			return // superseded or shut down: deliver nothing
		}
		if err != nil {
			hours = payroll.CalendarHours{}
		}
		deliver(period, hours)
	}()
}

// release forgets the in-flight entry, but only if it still belongs to
// this fetch (a newer fetch may have replaced it already).
func (l *Loader) release(workerID string, f *flight) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f.cancel()
	if l.inflight[workerID] == f {
		delete(l.inflight, workerID)
	}
}

// Stop cancels every in-flight fetch and waits for the goroutines.
func (l *Loader) Stop() {
	l.mu.Lock()
	for _, f := range l.inflight {
		f.cancel()
	}
	l.inflight = make(map[string]*flight)
	l.mu.Unlock()
	l.wg.Wait()
}
