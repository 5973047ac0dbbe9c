// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package intent

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultMessageCapacity bounds the total queued messages across all
// players.
const DefaultMessageCapacity = 1000

// MessageIntentsConfig configures the message-intent cache.
type MessageIntentsConfig struct {
	// Capacity is the total entry bound across all players.
	// Defaults to DefaultMessageCapacity if zero.
	Capacity int
}

// messageList is one player's pending notifications with its last write
// time, used for eviction ordering.
type messageList struct {
	messages  []string
	lastWrite time.Time
}

// MessageIntents queues notifications for players who are not currently
// reachable. Appends never overwrite; Drain removes and returns a player's
// whole list. When the total entry count exceeds the capacity, entries are
// evicted from the least-recently-written player first. Safe for
// concurrent use.
type MessageIntents struct {
	mu       sync.Mutex
	lists    map[ulid.ULID]*messageList
	total    int
	capacity int

	// Metrics gauge for queued entries (nil if no registry provided)
	entryGauge prometheus.Gauge

	now func() time.Time
}

// NewMessageIntents creates a message-intent cache.
func NewMessageIntents(cfg MessageIntentsConfig) *MessageIntents {
	return newMessageIntents(cfg, nil)
}

// NewMessageIntentsWithRegistry creates a message-intent cache and
// registers an entry-count gauge with the provided Prometheus registry.
func NewMessageIntentsWithRegistry(cfg MessageIntentsConfig, reg prometheus.Registerer) *MessageIntents {
	return newMessageIntents(cfg, reg)
}

func newMessageIntents(cfg MessageIntentsConfig, reg prometheus.Registerer) *MessageIntents {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultMessageCapacity
	}

	m := &MessageIntents{
		lists:    map[ulid.ULID]*messageList{},
		capacity: capacity,
		now:      time.Now,
	}

	if reg != nil {
		m.entryGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signplot_message_intents",
			Help: "Number of queued pending-delivery messages",
		})
		reg.MustRegister(m.entryGauge)
	}

	return m
}

// Append queues a message for a player, evicting the least-recently-written
// entries if the total bound is exceeded.
func (m *MessageIntents) Append(player ulid.ULID, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list, ok := m.lists[player]
	if !ok {
		list = &messageList{}
		m.lists[player] = list
	}
	list.messages = append(list.messages, message)
	list.lastWrite = m.now()
	m.total++

	m.evictOverflow(player)
	m.updateGauge()
}

// Get returns the player's queued messages without removing them. The
// second return distinguishes absence from an empty list.
func (m *MessageIntents) Get(player ulid.ULID) ([]string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := m.lists[player]
	if !ok {
		return nil, false
	}
	out := make([]string, len(list.messages))
	copy(out, list.messages)
	return out, true
}

// Drain removes and returns the player's entire queue.
func (m *MessageIntents) Drain(player ulid.ULID) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := m.lists[player]
	if !ok {
		return nil
	}
	delete(m.lists, player)
	m.total -= len(list.messages)
	m.updateGauge()
	return list.messages
}

// Remove drops the player's queue without returning it.
func (m *MessageIntents) Remove(player ulid.ULID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if list, ok := m.lists[player]; ok {
		m.total -= len(list.messages)
		delete(m.lists, player)
		m.updateGauge()
	}
}

// Len returns the total queued entry count.
func (m *MessageIntents) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// evictOverflow drops entries, oldest-written player first, until the
// total fits the capacity. The player that just wrote is spared so a
// fresh append is never its own victim.
func (m *MessageIntents) evictOverflow(justWrote ulid.ULID) {
	for m.total > m.capacity {
		var victim ulid.ULID
		var victimList *messageList
		for player, list := range m.lists {
			if player == justWrote && len(m.lists) > 1 {
				continue
			}
			if victimList == nil || list.lastWrite.Before(victimList.lastWrite) {
				victim = player
				victimList = list
			}
		}
		if victimList == nil {
			return
		}
		if len(victimList.messages) <= m.total-m.capacity {
			m.total -= len(victimList.messages)
			delete(m.lists, victim)
			continue
		}
		drop := m.total - m.capacity
		victimList.messages = victimList.messages[drop:]
		m.total -= drop
	}
}

func (m *MessageIntents) updateGauge() {
	if m.entryGauge != nil {
		m.entryGauge.Set(float64(m.total))
	}
}
