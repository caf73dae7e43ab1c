package reconcile

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// passGuard serializes passes per table. Only one pass per key runs at a time;
// callers arriving while it runs wait for it and share its result.
type passGuard struct {
	sf      singleflight.Group
	mu      sync.Mutex
	running map[string]struct{}
}

// globalGuard is the process-wide guard used by ReconcileTable.
var globalGuard = &passGuard{
	running: make(map[string]struct{}),
}

func guardKey(table string, opts Options) string {
	if opts.DryRun {
		return table + "|dry-run"
	}
	return table
}

func (g *passGuard) do(key string, fn func() (*Plan, error)) (*Plan, bool, error) {
	result, err, shared := g.sf.Do(key, func() (interface{}, error) {
		g.mu.Lock()
		g.running[key] = struct{}{}
		g.mu.Unlock()

		defer func() {
			g.mu.Lock()
			delete(g.running, key)
			g.mu.Unlock()
		}()

		return fn()
	})

	plan, _ := result.(*Plan)
	return plan, shared, err
}

// inFlight reports whether a non-dry-run pass over table is currently running.
func inFlight(table string) bool {
	globalGuard.mu.Lock()
	defer globalGuard.mu.Unlock()
	_, ok := globalGuard.running[table]
	return ok
}
