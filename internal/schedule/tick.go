// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

// Package schedule provides the run-after-current-interaction primitive:
// tasks deferred during an event run at the next tick boundary, never
// inside the triggering event.
package schedule

import "sync"

// TickQueue collects deferred tasks and runs them when the host drains it
// at a tick boundary. Tasks enqueued while a drain is running go to the
// following tick. The mutex only guards the queue handoff; tasks
// themselves run on the draining goroutine (the game thread).
type TickQueue struct {
	mu    sync.Mutex
	tasks []func()
}

// NewTickQueue creates an empty queue.
func NewTickQueue() *TickQueue {
	return &TickQueue{}
}

// Defer enqueues fn for the next tick.
func (q *TickQueue) Defer(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, fn)
}

// Drain runs all tasks queued before this call, in order, and returns how
// many ran.
func (q *TickQueue) Drain() int {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

// Pending returns the number of queued tasks.
func (q *TickQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
