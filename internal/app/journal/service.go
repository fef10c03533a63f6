package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agentarium/internal/app/ports"
	"agentarium/internal/domain/sim"

	"github.com/google/uuid"
)

// NoSignificantMemories is the fixed digest returned when nothing clears
// the importance bar.
const NoSignificantMemories = "No significant memories."

const summarizeMinImportance = 6

// Service persists each agent's journal: typed, importance-scored memories
// and the pairwise relationship records layered on top of them.
type Service struct {
	Memories ports.MemoryRepository
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Store assigns an id and timestamp, fills defaults, and persists the
// memory, returning the new id.
func (s *Service) Store(ctx context.Context, agentID string, m sim.Memory) (string, error) {
	if agentID == "" {
		return "", fmt.Errorf("store memory: empty agent id")
	}
	m.AgentID = agentID
	m.ID = uuid.NewString()
	m.ApplyDefaults(s.now())
	if err := s.Memories.Save(ctx, m); err != nil {
		return "", fmt.Errorf("store memory for %s: %w", agentID, err)
	}
	return m.ID, nil
}

// Query returns memories matching every supplied filter, newest first.
func (s *Service) Query(ctx context.Context, agentID string, q ports.MemoryQuery) ([]sim.Memory, error) {
	return s.Memories.Query(ctx, agentID, q)
}

// UpsertRelationship merges changes into the existing relationship memory
// for (agentID, targetID), creating a seeded record when none exists yet.
func (s *Service) UpsertRelationship(ctx context.Context, agentID, targetID string, patch sim.RelationshipPatch) (sim.Relationship, error) {
	if targetID == "" {
		return sim.Relationship{}, fmt.Errorf("upsert relationship: empty target id")
	}
	now := s.now()

	m, err := s.Memories.FindRelationship(ctx, agentID, targetID)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			return sim.Relationship{}, err
		}
		rel := sim.NewRelationship(targetID, now)
		rel.Merge(patch, now)
		m = sim.Memory{
			ID:           uuid.NewString(),
			AgentID:      agentID,
			Type:         sim.MemoryRelationship,
			Content:      "relationship with " + targetID,
			Importance:   6,
			Timestamp:    now,
			Tags:         []string{"relationship", targetID},
			Relationship: &rel,
		}
		if err := s.Memories.Save(ctx, m); err != nil {
			return sim.Relationship{}, err
		}
		return rel, nil
	}

	if m.Relationship == nil {
		rel := sim.NewRelationship(targetID, now)
		m.Relationship = &rel
	}
	m.Relationship.Merge(patch, now)
	m.Timestamp = now
	if err := s.Memories.Save(ctx, m); err != nil {
		return sim.Relationship{}, err
	}
	return *m.Relationship, nil
}

// Summarize builds a human-readable digest of what matters: relationships,
// the five most recent significant events, and the three most recent
// reflections. Only memories with importance >= 6 qualify.
func (s *Service) Summarize(ctx context.Context, agentID string) (string, error) {
	significant, err := s.Memories.Query(ctx, agentID, ports.MemoryQuery{MinImportance: summarizeMinImportance})
	if err != nil {
		return "", err
	}
	if len(significant) == 0 {
		return NoSignificantMemories, nil
	}

	var relationships, events, reflections []sim.Memory
	for _, m := range significant {
		switch m.Type {
		case sim.MemoryRelationship:
			relationships = append(relationships, m)
		case sim.MemoryReflection:
			if len(reflections) < 3 {
				reflections = append(reflections, m)
			}
		default:
			if len(events) < 5 {
				events = append(events, m)
			}
		}
	}

	var b strings.Builder
	if len(relationships) > 0 {
		b.WriteString("Relationships:\n")
		for _, m := range relationships {
			r := m.Relationship
			if r == nil {
				continue
			}
			fmt.Fprintf(&b, "- %s (sentiment %d, trust %d)\n", r.TargetID, r.Sentiment, r.Trust)
		}
	}
	if len(events) > 0 {
		b.WriteString("Recent events:\n")
		for _, m := range events {
			fmt.Fprintf(&b, "- %s\n", m.Content)
		}
	}
	if len(reflections) > 0 {
		b.WriteString("Recent reflections:\n")
		for _, m := range reflections {
			fmt.Fprintf(&b, "- %s\n", m.Content)
		}
	}
	if b.Len() == 0 {
		return NoSignificantMemories, nil
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Prune archives stale low-importance memories; relationship records are
// never pruned. Returns the number of memories removed.
func (s *Service) Prune(ctx context.Context, retention time.Duration, maxImportance int) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-retention)
	return s.Memories.PruneOlderThan(ctx, cutoff, maxImportance)
}
