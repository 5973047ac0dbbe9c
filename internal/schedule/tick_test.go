// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickQueue(t *testing.T) {
	t.Run("runs tasks in order", func(t *testing.T) {
		q := NewTickQueue()
		var order []int
		q.Defer(func() { order = append(order, 1) })
		q.Defer(func() { order = append(order, 2) })
		q.Defer(func() { order = append(order, 3) })

		ran := q.Drain()

		assert.Equal(t, 3, ran)
		assert.Equal(t, []int{1, 2, 3}, order)
		assert.Equal(t, 0, q.Pending())
	})

	t.Run("tasks deferred during drain run next tick", func(t *testing.T) {
		q := NewTickQueue()
		var ran []string
		q.Defer(func() {
			ran = append(ran, "first")
			q.Defer(func() { ran = append(ran, "second") })
		})

		assert.Equal(t, 1, q.Drain())
		assert.Equal(t, []string{"first"}, ran)
		assert.Equal(t, 1, q.Pending())

		assert.Equal(t, 1, q.Drain())
		assert.Equal(t, []string{"first", "second"}, ran)
	})

	t.Run("drain of empty queue is a no-op", func(t *testing.T) {
		q := NewTickQueue()
		assert.Equal(t, 0, q.Drain())
	})
}
