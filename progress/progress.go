package progress

import (
	"sync"
	"time"

	"github.com/viant/btuid/internal/clock"
)

// Delta represents an incremental counter change emitted by the allocator or
// the snapshot loop.
type Delta struct {
	Issued           int
	DepthAdvances    int
	Snapshots        int
	SnapshotFailures int
}

// Progress keeps aggregated counters for one allocator.  It is safe for
// concurrent use.
type Progress struct {
	// Identification, informative only.
	InstanceID string
	StartedAt  time.Time

	// Counters, modified via Update().
	Issued           int
	DepthAdvances    int
	Snapshots        int
	SnapshotFailures int
	LastSnapshotAt   time.Time

	sync.Mutex
	onChange func(Progress)
}

// New creates a tracker for the given allocator instance.
func New(instanceID string) *Progress {
	return &Progress{InstanceID: instanceID, StartedAt: clock.Now()}
}

// Update applies the supplied delta to the tracker.  It is safe to call from
// multiple goroutines.  If an onChange callback has been registered it will be
// invoked with a copy of the updated tracker outside the critical section so
// that the callback can perform slow operations without blocking allocation.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.Lock()

	p.Issued += d.Issued
	p.DepthAdvances += d.DepthAdvances
	p.Snapshots += d.Snapshots
	p.SnapshotFailures += d.SnapshotFailures
	if d.Snapshots > 0 {
		p.LastSnapshotAt = clock.Now()
	}

	snapshot := p.copyLocked()
	cb := p.onChange

	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copyLocked()
}

// OnChange registers a callback that is invoked after every successful
// Update.  Passing nil disables the callback.  Only one callback can be
// active; subsequent calls overwrite the previous value.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

func (p *Progress) copyLocked() Progress {
	return Progress{
		InstanceID:       p.InstanceID,
		StartedAt:        p.StartedAt,
		Issued:           p.Issued,
		DepthAdvances:    p.DepthAdvances,
		Snapshots:        p.Snapshots,
		SnapshotFailures: p.SnapshotFailures,
		LastSnapshotAt:   p.LastSnapshotAt,
	}
}
