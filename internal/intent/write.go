// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

// Package intent holds the short-lived per-player coordination caches that
// bridge a command and its follow-up physical interaction. Entries are
// ephemeral signals, not source-of-truth state; everything here is lost on
// restart by design.
package intent

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/signplot/signplot/internal/world"
)

// Default write-intent cache values.
const (
	// DefaultWriteTTL is how long a write intent survives without being
	// consumed. The window only needs to cover one follow-up interaction.
	DefaultWriteTTL = 10 * time.Second

	// DefaultSweepInterval is the interval at which the background
	// goroutine removes expired intents.
	DefaultSweepInterval = time.Second
)

// WriteIntentsConfig configures the write-intent cache.
type WriteIntentsConfig struct {
	// TTL is the entry lifetime, measured from the last Set.
	// Defaults to DefaultWriteTTL if zero.
	TTL time.Duration

	// SweepInterval is the background cleanup interval.
	// Defaults to DefaultSweepInterval if zero.
	SweepInterval time.Duration
}

// writeEntry is a pending sign write with its expiry deadline.
type writeEntry struct {
	lines     [world.SignLines]string
	expiresAt time.Time
}

// WriteIntents caches, per player, the four lines they intend to write
// onto the next sign they interact with. One value per player; Set
// overwrites. Safe for concurrent use.
//
// A background goroutine sweeps expired entries. Call Close() to stop it.
// Get applies the deadline itself, so an entry past its TTL misses even
// before the sweeper runs; expiry is monotonic.
type WriteIntents struct {
	mu      sync.Mutex
	entries map[ulid.ULID]writeEntry
	ttl     time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup

	// Metrics gauge for live entries (nil if no registry provided)
	entryGauge prometheus.Gauge

	now func() time.Time
}

// NewWriteIntents creates a write-intent cache and starts its sweeper.
// Call Close() to stop it.
func NewWriteIntents(cfg WriteIntentsConfig) *WriteIntents {
	return newWriteIntents(cfg, nil)
}

// NewWriteIntentsWithRegistry creates a write-intent cache and registers an
// entry-count gauge with the provided Prometheus registry.
// Call Close() to stop the sweeper.
func NewWriteIntentsWithRegistry(cfg WriteIntentsConfig, reg prometheus.Registerer) *WriteIntents {
	return newWriteIntents(cfg, reg)
}

func newWriteIntents(cfg WriteIntentsConfig, reg prometheus.Registerer) *WriteIntents {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultWriteTTL
	}
	sweep := cfg.SweepInterval
	if sweep <= 0 {
		sweep = DefaultSweepInterval
	}

	w := &WriteIntents{
		entries:  map[ulid.ULID]writeEntry{},
		ttl:      ttl,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}

	if reg != nil {
		w.entryGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signplot_write_intents",
			Help: "Number of live write intents",
		})
		reg.MustRegister(w.entryGauge)
	}

	w.wg.Add(1)
	go w.sweepLoop(sweep)
	return w
}

// Set stores the player's pending sign lines, replacing any previous
// intent and restarting the TTL.
func (w *WriteIntents) Set(player ulid.ULID, lines [world.SignLines]string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries[player] = writeEntry{lines: lines, expiresAt: w.now().Add(w.ttl)}
	w.updateGauge()
}

// Get returns the player's pending lines. The second return distinguishes
// absence (or expiry) from an intent of empty lines.
func (w *WriteIntents) Get(player ulid.ULID) ([world.SignLines]string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[player]
	if !ok || !w.now().Before(e.expiresAt) {
		return [world.SignLines]string{}, false
	}
	return e.lines, true
}

// Remove deletes the player's intent, typically on consumption.
func (w *WriteIntents) Remove(player ulid.ULID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.entries, player)
	w.updateGauge()
}

// Close stops the background sweeper and waits for it to exit.
func (w *WriteIntents) Close() {
	close(w.stopChan)
	w.wg.Wait()
}

func (w *WriteIntents) sweepLoop(interval time.Duration) {
	defer w.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stopChan:
			return
		}
	}
}

func (w *WriteIntents) sweep() {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := w.now()
	for player, e := range w.entries {
		if !now.Before(e.expiresAt) {
			delete(w.entries, player)
		}
	}
	w.updateGauge()
}

func (w *WriteIntents) updateGauge() {
	if w.entryGauge != nil {
		w.entryGauge.Set(float64(len(w.entries)))
	}
}
