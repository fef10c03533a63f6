package ports

import (
	"context"
	"time"

	"agentarium/internal/domain/sim"
)

type AgentStateRepository interface {
	GetByAgentID(ctx context.Context, agentID string) (sim.AgentState, error)
	// SaveWithVersion persists state iff the stored row still carries
	// expectedVersion; expectedVersion 0 means insert. ErrConflict on mismatch.
	SaveWithVersion(ctx context.Context, state sim.AgentState, expectedVersion int64) error
	ListAgentIDs(ctx context.Context) ([]string, error)
}

type AllocationRepository interface {
	Get(ctx context.Context, agentID string) (sim.ResourceAllocation, error)
	Save(ctx context.Context, alloc sim.ResourceAllocation) error
	ListAll(ctx context.Context) ([]sim.ResourceAllocation, error)
}

type TransactionRepository interface {
	Append(ctx context.Context, tx sim.Transaction) error
	// ListByAgentID returns the agent's transactions as sender or receiver,
	// newest first, truncated to limit when limit > 0.
	ListByAgentID(ctx context.Context, agentID string, limit int) ([]sim.Transaction, error)
}

// MemoryQuery filters a memory lookup; zero values mean "no filter".
type MemoryQuery struct {
	Limit         int
	Type          sim.MemoryType
	MinImportance int
	Tags          []string
	Since         time.Time
}

type MemoryRepository interface {
	// Save inserts the memory, or updates it in place when a row with the
	// same id already exists (relationship memories are mutated this way).
	Save(ctx context.Context, m sim.Memory) error
	// Query returns memories matching every supplied filter, newest first.
	Query(ctx context.Context, agentID string, q MemoryQuery) ([]sim.Memory, error)
	// FindRelationship locates the relationship memory for (agentID, targetID).
	FindRelationship(ctx context.Context, agentID, targetID string) (sim.Memory, error)
	// PruneOlderThan deletes non-relationship memories older than cutoff with
	// importance at or below maxImportance, returning the number removed.
	PruneOlderThan(ctx context.Context, cutoff time.Time, maxImportance int) (int64, error)
}

// ClockStateRepository checkpoints the tick counter so a restarted
// simulation resumes where it left off.
type ClockStateRepository interface {
	Get(ctx context.Context) (tick int64, found bool, err error)
	Save(ctx context.Context, tick int64) error
}
