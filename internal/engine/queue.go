package engine

import (
	"sort"
	"sync"
)

// task is a deferred callback bound to a tick.
type task struct {
	due int64
	seq int64
	fn  func()
}

// taskQueue holds deferred tasks ordered by (due, seq).
//
// Thread-safety is provided so other goroutines can post work while the tick
// loop drains. In practice most scheduling happens from tasks on the loop
// goroutine itself.
type taskQueue struct {
	mu     sync.Mutex
	tasks  []task
	seq    int64
	closed bool
	signal chan struct{} // Signals task availability (buffered, size 1)
}

func newTaskQueue() *taskQueue {
	return &taskQueue{
		tasks:  make([]task, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Schedule adds fn to run at tick due.
// Returns false if the queue is closed.
func (q *taskQueue) Schedule(due int64, fn func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.seq++
	t := task{due: due, seq: q.seq, fn: fn}

	// Insert after every task with due <= t.due to keep FIFO among equals.
	i := sort.Search(len(q.tasks), func(i int) bool { return q.tasks[i].due > due })
	q.tasks = append(q.tasks, task{})
	copy(q.tasks[i+1:], q.tasks[i:])
	q.tasks[i] = t

	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TakeDue removes and returns every task due at or before tick.
func (q *taskQueue) TakeDue(tick int64) []task {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := sort.Search(len(q.tasks), func(i int) bool { return q.tasks[i].due > tick })
	if n == 0 {
		return nil
	}

	due := make([]task, n)
	copy(due, q.tasks[:n])

	// Nil out moved slots so the closures can be collected.
	kept := copy(q.tasks, q.tasks[n:])
	for i := kept; i < len(q.tasks); i++ {
		q.tasks[i] = task{}
	}
	q.tasks = q.tasks[:kept]

	return due
}

// Len returns the number of pending tasks.
func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Wait returns a channel that signals when tasks may be available.
func (q *taskQueue) Wait() <-chan struct{} {
	return q.signal
}

// Close rejects further scheduling and wakes waiters.
func (q *taskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
