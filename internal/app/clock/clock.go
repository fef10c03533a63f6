package clock

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"agentarium/internal/app/behavior"
	"agentarium/internal/app/journal"
	"agentarium/internal/app/ledger"
	"agentarium/internal/app/ports"
	"agentarium/internal/domain/sim"
)

const (
	DefaultInterval     = 10 * time.Second
	defaultMaintenance  = 10
	defaultStatsWindow  = 100
	defaultEventChance  = 0.2
	defaultRetention    = 7 * 24 * time.Hour
	defaultPruneCeiling = 3
)

// Clock owns the tick loop: it fans each tick out across the registered
// agents, runs system maintenance every tenth tick, injects the occasional
// world event, and publishes aggregate statistics.
type Clock struct {
	Engine     *behavior.Engine
	Ledger     *ledger.Service
	Journal    *journal.Service
	States     ports.AgentStateRepository
	ClockState ports.ClockStateRepository
	Events     ports.EventPublisher
	Log        *slog.Logger

	Interval          time.Duration
	MaintenanceEvery  int
	StatsWindowSize   int
	RandomEventChance float64
	MemoryRetention   time.Duration

	Now  func() time.Time
	Rand func() float64

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	agents    map[string]struct{}
	tickCount int64
	stats     *statsWindow
	restored  bool
}

func (c *Clock) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Clock) randf() float64 {
	if c.Rand != nil {
		return c.Rand()
	}
	return rand.Float64()
}

func (c *Clock) log() *slog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return slog.Default()
}

func (c *Clock) interval() time.Duration {
	if c.Interval > 0 {
		return c.Interval
	}
	return DefaultInterval
}

func (c *Clock) maintenanceEvery() int {
	if c.MaintenanceEvery > 0 {
		return c.MaintenanceEvery
	}
	return defaultMaintenance
}

func (c *Clock) eventChance() float64 {
	if c.RandomEventChance > 0 {
		return c.RandomEventChance
	}
	return defaultEventChance
}

func (c *Clock) window() *statsWindow {
	if c.stats == nil {
		c.stats = newStatsWindow(c.StatsWindowSize)
	}
	return c.stats
}

func (c *Clock) publish(name string, payload map[string]any) {
	if c.Events == nil {
		return
	}
	c.Events.Publish(ports.Event{Name: name, At: c.now(), Payload: payload})
}

// RegisterAgent adds an agent to the active set, initializing it on first
// sight. Idempotent.
func (c *Clock) RegisterAgent(ctx context.Context, agentID, name string) error {
	if _, err := c.Engine.Initialize(ctx, agentID, name); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.agents == nil {
		c.agents = map[string]struct{}{}
	}
	c.agents[agentID] = struct{}{}
	return nil
}

// UnregisterAgent drops the agent from the active set and marks its state
// offline; nothing is deleted. Idempotent.
func (c *Clock) UnregisterAgent(ctx context.Context, agentID string) error {
	c.mu.Lock()
	_, registered := c.agents[agentID]
	delete(c.agents, agentID)
	c.mu.Unlock()
	if !registered {
		return nil
	}

	state, err := c.States.GetByAgentID(ctx, agentID)
	if err != nil {
		return err
	}
	state.Status = sim.StatusOffline
	state.UpdatedAt = c.now()
	return c.States.SaveWithVersion(ctx, state, state.Version)
}

func (c *Clock) registered() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.agents))
	for id := range c.agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Running reports whether the tick loop is active.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// TickCount returns the number of completed ticks.
func (c *Clock) TickCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickCount
}

// Stats returns a copy of the rolling stats window, oldest first.
func (c *Clock) Stats() []sim.SimulationStats {
	return c.window().Snapshot()
}

// Start begins the periodic tick loop. Calling Start on a running clock is
// a no-op.
func (c *Clock) Start(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.restoreCheckpoint(ctx)
	loopCtx, cancel := context.WithCancel(ctx)
	c.running = true
	c.cancel = cancel
	c.done = make(chan struct{})
	done := c.done
	interval := c.interval()
	c.mu.Unlock()

	c.publish(ports.EventSimulationStart, map[string]any{"interval_ms": interval.Milliseconds()})
	c.log().Info("simulation started", "interval", interval)

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				c.Tick(loopCtx)
			}
		}
	}()
}

// Stop cancels the tick loop and waits for any in-flight tick to finish,
// so ledger state is consistent for a later maintenance pass. Idempotent.
func (c *Clock) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	cancel := c.cancel
	done := c.done
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	cancel()
	<-done
	c.publish(ports.EventSimulationStop, map[string]any{"tick_count": c.TickCount()})
	c.log().Info("simulation stopped", "tick", c.TickCount())
}

// SetInterval changes the tick interval, restarting the loop if running.
func (c *Clock) SetInterval(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.Interval = d
	running := c.running
	c.mu.Unlock()
	if running {
		c.Stop()
		c.Start(ctx)
	}
}

func (c *Clock) restoreCheckpoint(ctx context.Context) {
	if c.ClockState == nil || c.restored {
		return
	}
	c.restored = true
	tick, found, err := c.ClockState.Get(ctx)
	if err != nil {
		c.log().Warn("clock checkpoint unavailable", "err", err)
		return
	}
	if found && tick > c.tickCount {
		c.tickCount = tick
	}
}

// Tick processes one simulation time step: every registered agent steps
// concurrently, maintenance runs on schedule behind a barrier, then stats
// are collected and published.
func (c *Clock) Tick(ctx context.Context) {
	c.mu.Lock()
	c.tickCount++
	tick := c.tickCount
	c.mu.Unlock()

	ids := c.registered()

	// Per-agent steps are independent units of concurrency; the tick only
	// completes once all of them finish, which also serves as the barrier
	// in front of maintenance.
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(agentID string) {
			defer wg.Done()
			if _, err := c.Engine.Step(ctx, agentID); err != nil {
				c.log().Warn("agent step failed", "agent", agentID, "tick", tick, "err", err)
			}
		}(id)
	}
	wg.Wait()

	if tick%int64(c.maintenanceEvery()) == 0 {
		c.maintain(ctx, ids)
	}

	if len(ids) > 0 {
		stats := c.collectStats(ctx, tick, ids)
		c.window().Append(stats)
		c.publish(ports.EventSimulationStats, map[string]any{"stats": stats})
	}

	if c.ClockState != nil {
		if err := c.ClockState.Save(ctx, tick); err != nil {
			c.log().Warn("clock checkpoint save failed", "err", err)
		}
	}
	c.publish(ports.EventSimulationTick, map[string]any{
		"tick":          tick,
		"active_agents": len(ids),
	})
}

// maintain runs the system-wide ledger passes. Store failures are logged
// and the rest of the pass is skipped; the next scheduled tick retries.
func (c *Clock) maintain(ctx context.Context, ids []string) {
	if err := c.Ledger.RedistributeCompute(ctx); err != nil {
		c.log().Warn("compute redistribution failed, skipping maintenance", "err", err)
		return
	}
	if err := c.Ledger.Decay(ctx); err != nil {
		c.log().Warn("resource decay failed", "err", err)
		return
	}
	retention := c.MemoryRetention
	if retention == 0 {
		retention = defaultRetention
	}
	if pruned, err := c.Journal.Prune(ctx, retention, defaultPruneCeiling); err != nil {
		c.log().Warn("memory prune failed", "err", err)
	} else if pruned > 0 {
		c.log().Info("pruned stale memories", "count", pruned)
	}
	if c.randf() < c.eventChance() {
		c.injectRandomEvent(ctx, ids)
	}
}

func (c *Clock) collectStats(ctx context.Context, tick int64, ids []string) sim.SimulationStats {
	stats := sim.SimulationStats{
		TickCount:    tick,
		ActiveAgents: len(ids),
		Timestamp:    c.now(),
	}
	for _, id := range ids {
		alloc, err := c.Ledger.Get(ctx, id)
		if err != nil {
			c.log().Warn("stats read failed", "agent", id, "err", err)
			continue
		}
		stats.TotalEnergy += alloc.EnergyPoints
		stats.TotalAttention += alloc.AttentionCredits
	}
	if len(ids) > 0 {
		stats.AverageEnergy = stats.TotalEnergy / float64(len(ids))
		stats.AverageAttention = stats.TotalAttention / float64(len(ids))
	}
	return stats
}
