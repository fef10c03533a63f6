package memory

import (
	"context"
	"sort"
	"time"

	"agentarium/internal/app/ports"
	"agentarium/internal/domain/sim"
)

type MemoryRepo struct {
	store *Store
}

func NewMemoryRepo(store *Store) MemoryRepo {
	return MemoryRepo{store: store}
}

func (r MemoryRepo) Save(_ context.Context, m sim.Memory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	list := r.store.memories[m.AgentID]
	for i := range list {
		if list[i].ID == m.ID {
			list[i] = m
			return nil
		}
	}
	r.store.memories[m.AgentID] = append(list, m)
	return nil
}

func (r MemoryRepo) Query(_ context.Context, agentID string, q ports.MemoryQuery) ([]sim.Memory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []sim.Memory{}
	for _, m := range r.store.memories[agentID] {
		if !matches(m, q) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func matches(m sim.Memory, q ports.MemoryQuery) bool {
	if q.Type != "" && m.Type != q.Type {
		return false
	}
	if q.MinImportance > 0 && m.Importance < q.MinImportance {
		return false
	}
	if !q.Since.IsZero() && m.Timestamp.Before(q.Since) {
		return false
	}
	for _, tag := range q.Tags {
		if !m.HasTag(tag) {
			return false
		}
	}
	return true
}

func (r MemoryRepo) FindRelationship(_ context.Context, agentID, targetID string) (sim.Memory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, m := range r.store.memories[agentID] {
		if m.Type == sim.MemoryRelationship && m.Relationship != nil && m.Relationship.TargetID == targetID {
			return m, nil
		}
	}
	return sim.Memory{}, ports.ErrNotFound
}

func (r MemoryRepo) PruneOlderThan(_ context.Context, cutoff time.Time, maxImportance int) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var removed int64
	for agentID, list := range r.store.memories {
		kept := list[:0]
		for _, m := range list {
			stale := m.Type != sim.MemoryRelationship &&
				m.Timestamp.Before(cutoff) &&
				m.Importance <= maxImportance
			if stale {
				removed++
				continue
			}
			kept = append(kept, m)
		}
		r.store.memories[agentID] = kept
	}
	return removed, nil
}
