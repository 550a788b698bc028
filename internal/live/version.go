package live

import "sync/atomic"

// Version is the decoration invalidation signal: a monotonically
// increasing counter bumped whenever the mapping table is rebuilt, so
// decorators discard their replacement handles even when neither text
// nor selection changed.
type Version struct {
	n atomic.Int64
}

// Bump increments the counter and returns the new value.
func (v *Version) Bump() int64 {
	return v.n.Add(1)
}

// Current returns the latest value.
func (v *Version) Current() int64 {
	return v.n.Load()
}
