package clock

import (
	"sync"

	"agentarium/internal/domain/sim"
)

// statsWindow keeps the most recent N per-tick snapshots, oldest evicted.
type statsWindow struct {
	mu      sync.RWMutex
	entries []sim.SimulationStats
	cap     int
}

func newStatsWindow(capacity int) *statsWindow {
	if capacity <= 0 {
		capacity = 100
	}
	return &statsWindow{cap: capacity}
}

func (w *statsWindow) Append(s sim.SimulationStats) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, s)
	if len(w.entries) > w.cap {
		w.entries = w.entries[len(w.entries)-w.cap:]
	}
}

func (w *statsWindow) Snapshot() []sim.SimulationStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]sim.SimulationStats, len(w.entries))
	copy(out, w.entries)
	return out
}

func (w *statsWindow) Latest() (sim.SimulationStats, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if len(w.entries) == 0 {
		return sim.SimulationStats{}, false
	}
	return w.entries[len(w.entries)-1], true
}
