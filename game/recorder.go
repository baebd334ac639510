package game

// NodeRecorder receives a notification each time a strategy examines a
// position it has not seen before.
type NodeRecorder interface {
	RecordNodeExplored()
}

// NopRecorder discards notifications.
type NopRecorder struct{}

// RecordNodeExplored does nothing.
func (NopRecorder) RecordNodeExplored() {}

// NodeCounter counts notifications. It is not safe for concurrent use.
type NodeCounter struct {
	count int
}

// RecordNodeExplored increments the counter.
func (c *NodeCounter) RecordNodeExplored() {
	c.count++
}

// Count returns the number of notifications since the last reset.
func (c *NodeCounter) Count() int {
	return c.count
}

// Reset sets the counter back to zero.
func (c *NodeCounter) Reset() {
	c.count = 0
}

// Tee fans a notification out to every recorder.
type Tee []NodeRecorder

// RecordNodeExplored forwards to each non-nil recorder.
func (t Tee) RecordNodeExplored() {
	for _, r := range t {
		if r != nil {
			r.RecordNodeExplored()
		}
	}
}

// RecorderOrNop returns r, or a NopRecorder when r is nil.
func RecorderOrNop(r NodeRecorder) NodeRecorder {
	if r == nil {
		return NopRecorder{}
	}
	return r
}
