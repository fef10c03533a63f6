package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"agentarium/internal/app/ports"
	"agentarium/internal/domain/sim"

	"github.com/google/uuid"
)

var ErrInvalidAmount = errors.New("amount must be positive")

// Defaults seed a lazily created allocation row.
type Defaults struct {
	EnergyPoints     float64
	AttentionCredits float64
}

var DefaultAllocation = Defaults{EnergyPoints: 100, AttentionCredits: 50}

const (
	energyDecayRate    = 0.05
	attentionDecayRate = 0.10
)

// Service is the per-agent resource accounting subsystem. Every mutation of
// a single agent's row is serialized behind that agent's mutex; system-wide
// passes (Redistribute, Decay) take the write half of the global lock so
// they never overlap per-agent traffic.
type Service struct {
	Allocations  ports.AllocationRepository
	Transactions ports.TransactionRepository
	TxManager    ports.TxManager
	Defaults     Defaults
	Now          func() time.Time

	mu      sync.RWMutex
	agentMu map[string]*sync.Mutex
	initMu  sync.Mutex
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) defaults() Defaults {
	if s.Defaults == (Defaults{}) {
		return DefaultAllocation
	}
	return s.Defaults
}

func (s *Service) lockFor(agentID string) *sync.Mutex {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.agentMu == nil {
		s.agentMu = map[string]*sync.Mutex{}
	}
	m, ok := s.agentMu[agentID]
	if !ok {
		m = &sync.Mutex{}
		s.agentMu[agentID] = m
	}
	return m
}

func (s *Service) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.TxManager == nil {
		return fn(ctx)
	}
	return s.TxManager.RunInTx(ctx, fn)
}

// Initialize creates the agent's allocation row if absent. Idempotent: an
// existing row is returned untouched.
func (s *Service) Initialize(ctx context.Context, agentID string) (sim.ResourceAllocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mu := s.lockFor(agentID)
	mu.Lock()
	defer mu.Unlock()
	return s.getOrCreate(ctx, agentID)
}

func (s *Service) getOrCreate(ctx context.Context, agentID string) (sim.ResourceAllocation, error) {
	alloc, err := s.Allocations.Get(ctx, agentID)
	if err == nil {
		return alloc, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return sim.ResourceAllocation{}, err
	}
	d := s.defaults()
	alloc = sim.ResourceAllocation{
		AgentID:          agentID,
		EnergyPoints:     d.EnergyPoints,
		AttentionCredits: d.AttentionCredits,
		LastUpdated:      s.now(),
	}
	if err := s.Allocations.Save(ctx, alloc); err != nil {
		return sim.ResourceAllocation{}, fmt.Errorf("init allocation for %s: %w", agentID, err)
	}
	return alloc, nil
}

// Get returns the agent's allocation, lazily initializing on miss.
func (s *Service) Get(ctx context.Context, agentID string) (sim.ResourceAllocation, error) {
	return s.Initialize(ctx, agentID)
}

// Update merges a partial patch into the agent's row and stamps LastUpdated.
func (s *Service) Update(ctx context.Context, agentID string, patch sim.AllocationPatch) (sim.ResourceAllocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mu := s.lockFor(agentID)
	mu.Lock()
	defer mu.Unlock()

	alloc, err := s.getOrCreate(ctx, agentID)
	if err != nil {
		return sim.ResourceAllocation{}, err
	}
	alloc.Merge(patch, s.now())
	if err := s.Allocations.Save(ctx, alloc); err != nil {
		return sim.ResourceAllocation{}, err
	}
	return alloc, nil
}

// Consume debits energy. Returns false without mutating anything when the
// balance is short; running out of energy is steady-state, not an error.
func (s *Service) Consume(ctx context.Context, agentID string, amount float64, reason string) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	mu := s.lockFor(agentID)
	mu.Lock()
	defer mu.Unlock()

	alloc, err := s.getOrCreate(ctx, agentID)
	if err != nil {
		return false, err
	}
	if alloc.EnergyPoints < amount {
		return false, nil
	}

	ok := false
	err = s.runInTx(ctx, func(txCtx context.Context) error {
		alloc.EnergyPoints -= amount
		alloc.LastUpdated = s.now()
		if err := s.Allocations.Save(txCtx, alloc); err != nil {
			return err
		}
		if err := s.record(txCtx, agentID, sim.SystemAgentID, sim.ResourceEnergy, amount, reason); err != nil {
			return err
		}
		ok = true
		return nil
	})
	return ok, err
}

// Earn credits attention from the system; it always succeeds.
func (s *Service) Earn(ctx context.Context, agentID string, amount float64, reason string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	mu := s.lockFor(agentID)
	mu.Lock()
	defer mu.Unlock()

	alloc, err := s.getOrCreate(ctx, agentID)
	if err != nil {
		return err
	}
	return s.runInTx(ctx, func(txCtx context.Context) error {
		alloc.AttentionCredits += amount
		alloc.LastUpdated = s.now()
		if err := s.Allocations.Save(txCtx, alloc); err != nil {
			return err
		}
		return s.record(txCtx, sim.SystemAgentID, agentID, sim.ResourceAttention, amount, reason)
	})
}

// Transfer moves energy or attention between two agents as one logical
// operation: either both sides settle or neither does. Compute shares are
// derived by redistribution and cannot be traded directly.
func (s *Service) Transfer(ctx context.Context, fromID, toID string, resource sim.ResourceType, amount float64, reason string) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}
	if resource != sim.ResourceEnergy && resource != sim.ResourceAttention {
		return false, ports.ErrUnsupportedResource
	}
	if fromID == toID {
		return false, ErrInvalidAmount
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Both rows are locked in id order so concurrent opposite-direction
	// transfers cannot deadlock.
	pair := []string{fromID, toID}
	sort.Strings(pair)
	for _, id := range pair {
		mu := s.lockFor(id)
		mu.Lock()
		defer mu.Unlock()
	}

	from, err := s.getOrCreate(ctx, fromID)
	if err != nil {
		return false, err
	}
	to, err := s.getOrCreate(ctx, toID)
	if err != nil {
		return false, err
	}

	switch resource {
	case sim.ResourceEnergy:
		if from.EnergyPoints < amount {
			return false, nil
		}
		from.EnergyPoints -= amount
		to.EnergyPoints += amount
	case sim.ResourceAttention:
		if from.AttentionCredits < amount {
			return false, nil
		}
		from.AttentionCredits -= amount
		to.AttentionCredits += amount
	}

	now := s.now()
	from.LastUpdated = now
	to.LastUpdated = now

	ok := false
	err = s.runInTx(ctx, func(txCtx context.Context) error {
		if err := s.Allocations.Save(txCtx, from); err != nil {
			return err
		}
		if err := s.Allocations.Save(txCtx, to); err != nil {
			return err
		}
		if err := s.record(txCtx, fromID, toID, resource, amount, reason); err != nil {
			return err
		}
		ok = true
		return nil
	})
	return ok, err
}

// RedistributeCompute reassigns compute shares proportionally to attention.
// With zero total attention every agent gets an equal slice. The last agent
// absorbs the rounding residual so the shares always sum to 100.
func (s *Service) RedistributeCompute(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	allocs, err := s.Allocations.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(allocs) == 0 {
		return nil
	}

	total := 0.0
	for _, a := range allocs {
		total += a.AttentionCredits
	}

	now := s.now()
	assigned := 0.0
	for i := range allocs {
		var share float64
		if total <= 0 {
			share = 100.0 / float64(len(allocs))
		} else {
			share = allocs[i].AttentionCredits / total * 100.0
		}
		if i == len(allocs)-1 {
			share = 100.0 - assigned
		}
		assigned += share
		allocs[i].ComputeAllocation = share
		allocs[i].LastUpdated = now
	}

	return s.runInTx(ctx, func(txCtx context.Context) error {
		for _, a := range allocs {
			if err := s.Allocations.Save(txCtx, a); err != nil {
				return err
			}
		}
		return nil
	})
}

// Decay applies entropy to every agent: 5% of energy and 10% of attention
// per pass, never driving a balance below zero.
func (s *Service) Decay(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	allocs, err := s.Allocations.ListAll(ctx)
	if err != nil {
		return err
	}
	now := s.now()
	return s.runInTx(ctx, func(txCtx context.Context) error {
		for _, a := range allocs {
			a.EnergyPoints -= a.EnergyPoints * energyDecayRate
			a.AttentionCredits -= a.AttentionCredits * attentionDecayRate
			if a.EnergyPoints < 0 {
				a.EnergyPoints = 0
			}
			if a.AttentionCredits < 0 {
				a.AttentionCredits = 0
			}
			a.LastUpdated = now
			if err := s.Allocations.Save(txCtx, a); err != nil {
				return err
			}
		}
		return nil
	})
}

// History returns the agent's most recent transactions, newest first.
func (s *Service) History(ctx context.Context, agentID string, limit int) ([]sim.Transaction, error) {
	return s.Transactions.ListByAgentID(ctx, agentID, limit)
}

func (s *Service) record(ctx context.Context, fromID, toID string, resource sim.ResourceType, amount float64, reason string) error {
	return s.Transactions.Append(ctx, sim.Transaction{
		ID:           uuid.NewString(),
		FromAgentID:  fromID,
		ToAgentID:    toID,
		ResourceType: resource,
		Amount:       amount,
		Reason:       reason,
		Timestamp:    s.now(),
	})
}
