package check

import (
	"context"
	"sync"
)

// Runner serializes echo checks over a single modem and remembers the
// most recent outcome for status reporting.
type Runner struct {
	runMu   sync.Mutex
	session *Session
	modem   Modem

	lastMu sync.RWMutex
	last   *Result
}

func NewRunner(session *Session, m Modem) *Runner {
	return &Runner{session: session, modem: m}
}

// Check runs one echo check. Concurrent callers queue up; the modem
// handles one exchange at a time.
func (r *Runner) Check(ctx context.Context) Result {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	res := r.session.Run(ctx, r.modem)

	r.lastMu.Lock()
	r.last = &res
	r.lastMu.Unlock()

	return res
}

// Last returns the most recent result, if any check has completed yet.
func (r *Runner) Last() (Result, bool) {
	r.lastMu.RLock()
	defer r.lastMu.RUnlock()
	if r.last == nil {
		return Result{}, false
	}
	return *r.last, true
}
