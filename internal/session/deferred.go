package session

import "time"

// TaskID identifies a scheduled deferred task.
type TaskID uint64

// Task is a scheduled callback the host must arm with a timer and hand back
// through Fire once Delay has elapsed.
type Task struct {
	ID    TaskID
	Delay time.Duration
}

// Deferred is a cancellable queue of delayed callbacks. It does no timing
// itself: the host event loop arms each task and calls Fire, so callbacks
// always run on the controller's goroutine. Cancelled or unknown IDs are
// ignored by Fire.
type Deferred struct {
	next    TaskID
	pending map[TaskID]func()
	armed   []Task
}

// NewDeferred creates an empty queue.
func NewDeferred() *Deferred {
	return &Deferred{pending: make(map[TaskID]func())}
}

// Schedule registers fn to run after delay and returns its ID.
func (d *Deferred) Schedule(delay time.Duration, fn func()) TaskID {
	d.next++
	id := d.next
	d.pending[id] = fn
	d.armed = append(d.armed, Task{ID: id, Delay: delay})
	return id
}

// Cancel drops a pending task. Zero and stale IDs are no-ops.
func (d *Deferred) Cancel(id TaskID) {
	delete(d.pending, id)
}

// CancelAll drops every pending task.
func (d *Deferred) CancelAll() {
	clear(d.pending)
	d.armed = nil
}

// Fire runs the task if it is still pending. Reports whether it ran.
func (d *Deferred) Fire(id TaskID) bool {
	fn, ok := d.pending[id]
	if !ok {
		return false
	}
	delete(d.pending, id)
	fn()
	return true
}

// Take returns tasks scheduled since the last call, for the host to arm.
// Tasks cancelled before being taken are left out.
func (d *Deferred) Take() []Task {
	var out []Task
	for _, t := range d.armed {
		if _, ok := d.pending[t.ID]; ok {
			out = append(out, t)
		}
	}
	d.armed = nil
	return out
}

// Pending returns the number of tasks that have not fired or been cancelled.
func (d *Deferred) Pending() int { return len(d.pending) }
