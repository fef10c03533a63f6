package memory

import (
	"context"
	"sort"

	"agentarium/internal/app/ports"
	"agentarium/internal/domain/sim"
)

type AllocationRepo struct {
	store *Store
}

func NewAllocationRepo(store *Store) AllocationRepo {
	return AllocationRepo{store: store}
}

func (r AllocationRepo) Get(_ context.Context, agentID string) (sim.ResourceAllocation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	alloc, ok := r.store.allocations[agentID]
	if !ok {
		return sim.ResourceAllocation{}, ports.ErrNotFound
	}
	return alloc, nil
}

func (r AllocationRepo) Save(_ context.Context, alloc sim.ResourceAllocation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.allocations[alloc.AgentID] = alloc
	return nil
}

func (r AllocationRepo) ListAll(_ context.Context) ([]sim.ResourceAllocation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]sim.ResourceAllocation, 0, len(r.store.allocations))
	for _, a := range r.store.allocations {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AgentID < out[j].AgentID })
	return out, nil
}
