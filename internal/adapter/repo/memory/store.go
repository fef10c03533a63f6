package memory

import (
	"sync"

	"agentarium/internal/domain/sim"
)

// Store backs every in-memory repository. One instance per simulation, so
// test fixtures and parallel simulations stay isolated.
type Store struct {
	mu           sync.RWMutex
	states       map[string]sim.AgentState
	allocations  map[string]sim.ResourceAllocation
	transactions []sim.Transaction
	memories     map[string][]sim.Memory
	clockTick    int64
	clockSet     bool
}

func NewStore() *Store {
	return &Store{
		states:      make(map[string]sim.AgentState),
		allocations: make(map[string]sim.ResourceAllocation),
		memories:    make(map[string][]sim.Memory),
	}
}

// SeedAllocation installs an allocation row directly, bypassing the ledger.
func (s *Store) SeedAllocation(alloc sim.ResourceAllocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allocations[alloc.AgentID] = alloc
}

// SeedState installs an agent state directly.
func (s *Store) SeedState(state sim.AgentState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.AgentID] = state
}
