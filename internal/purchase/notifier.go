// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package purchase

import (
	"sync"

	"github.com/oklog/ulid/v2"
)

// MemoryNotifier is an in-process Notifier that records delivered
// messages. It stands in for the host's player messaging in tests and
// standalone mode.
type MemoryNotifier struct {
	mu        sync.Mutex
	names     map[ulid.ULID]string
	reachable map[ulid.ULID]bool
	delivered map[ulid.ULID][]string
}

// NewMemoryNotifier creates an empty notifier.
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{
		names:     map[ulid.ULID]string{},
		reachable: map[ulid.ULID]bool{},
		delivered: map[ulid.ULID][]string{},
	}
}

// AddPlayer registers a player's display name and reachability.
func (n *MemoryNotifier) AddPlayer(player ulid.ULID, name string, reachable bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.names[player] = name
	n.reachable[player] = reachable
}

// SetReachable flips a player's reachability.
func (n *MemoryNotifier) SetReachable(player ulid.ULID, reachable bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reachable[player] = reachable
}

// Delivered returns the messages delivered to a player.
func (n *MemoryNotifier) Delivered(player ulid.ULID) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.delivered[player]))
	copy(out, n.delivered[player])
	return out
}

// IsReachable implements Notifier.
func (n *MemoryNotifier) IsReachable(player ulid.ULID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reachable[player]
}

// Message implements Notifier.
func (n *MemoryNotifier) Message(player ulid.ULID, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delivered[player] = append(n.delivered[player], message)
}

// Name implements Notifier.
func (n *MemoryNotifier) Name(player ulid.ULID) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if name, ok := n.names[player]; ok {
		return name
	}
	return player.String()
}
