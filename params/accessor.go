package params

import "sync/atomic"

// Accessor is the pull interface the renderer reads the current parameters
// through. It is called at most once per frame.
type Accessor interface {
	Snapshot() ParameterSet
}

// AccessorFunc adapts a plain function to the Accessor interface.
type AccessorFunc func() ParameterSet

func (f AccessorFunc) Snapshot() ParameterSet {
	return f()
}

// Static always returns the same parameter set.
type Static ParameterSet

func (s Static) Snapshot() ParameterSet {
	return ParameterSet(s)
}

// Live holds a parameter set that can be replaced from any goroutine while
// the renderer keeps pulling consistent snapshots. The zero value holds
// Defaults().
type Live struct {
	current atomic.Pointer[ParameterSet]
}

// NewLive creates a Live accessor seeded with initial.
func NewLive(initial ParameterSet) *Live {
	l := &Live{}
	l.Store(initial)
	return l
}

// Snapshot returns a copy of the current parameter set.
func (l *Live) Snapshot() ParameterSet {
	if p := l.current.Load(); p != nil {
		return *p
	}
	return Defaults()
}

// Store replaces the current parameter set.
func (l *Live) Store(p ParameterSet) {
	l.current.Store(&p)
}

// Update applies fn to a copy of the current set and stores the result.
// Concurrent updates are retried so none of them is lost.
func (l *Live) Update(fn func(*ParameterSet)) ParameterSet {
	for {
		old := l.current.Load()
		next := Defaults()
		if old != nil {
			next = *old
		}
		fn(&next)
		if l.current.CompareAndSwap(old, &next) {
			return next
		}
	}
}
