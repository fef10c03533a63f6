package memory

import (
	"context"
	"sort"

	"agentarium/internal/app/ports"
	"agentarium/internal/domain/sim"
)

type AgentStateRepo struct {
	store *Store
}

func NewAgentStateRepo(store *Store) AgentStateRepo {
	return AgentStateRepo{store: store}
}

func (r AgentStateRepo) GetByAgentID(_ context.Context, agentID string) (sim.AgentState, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	state, ok := r.store.states[agentID]
	if !ok {
		return sim.AgentState{}, ports.ErrNotFound
	}
	return state, nil
}

func (r AgentStateRepo) SaveWithVersion(_ context.Context, state sim.AgentState, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.states[state.AgentID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		state.Version = 1
		r.store.states[state.AgentID] = state
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	state.Version = expectedVersion + 1
	r.store.states[state.AgentID] = state
	return nil
}

func (r AgentStateRepo) ListAgentIDs(_ context.Context) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	ids := make([]string, 0, len(r.store.states))
	for id := range r.store.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
