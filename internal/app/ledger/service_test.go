package ledger

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	memrepo "agentarium/internal/adapter/repo/memory"
	"agentarium/internal/app/ports"
	"agentarium/internal/domain/sim"
)

func newService(store *memrepo.Store) *Service {
	return &Service{
		Allocations:  memrepo.NewAllocationRepo(store),
		Transactions: memrepo.NewTransactionRepo(store),
		TxManager:    memrepo.TxManager{},
		Now:          func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func TestService_InitializeIsIdempotent(t *testing.T) {
	store := memrepo.NewStore()
	svc := newService(store)

	first, err := svc.Initialize(context.Background(), "agent-1")
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if first.EnergyPoints != 100 || first.AttentionCredits != 50 {
		t.Fatalf("unexpected defaults: %+v", first)
	}

	store.SeedAllocation(sim.ResourceAllocation{AgentID: "agent-1", EnergyPoints: 42, AttentionCredits: 7})
	again, err := svc.Initialize(context.Background(), "agent-1")
	if err != nil {
		t.Fatalf("re-initialize: %v", err)
	}
	if again.EnergyPoints != 42 {
		t.Fatalf("initialize overwrote existing row: %+v", again)
	}
}

func TestService_GetLazilyInitializes(t *testing.T) {
	svc := newService(memrepo.NewStore())
	alloc, err := svc.Get(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if alloc.AgentID != "fresh" || alloc.EnergyPoints != 100 {
		t.Fatalf("lazy init failed: %+v", alloc)
	}
}

func TestService_ConsumeInsufficientLeavesBalanceUntouched(t *testing.T) {
	store := memrepo.NewStore()
	store.SeedAllocation(sim.ResourceAllocation{AgentID: "agent-1", EnergyPoints: 5})
	svc := newService(store)

	ok, err := svc.Consume(context.Background(), "agent-1", 10, "test")
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if ok {
		t.Fatal("expected consume to fail on insufficient energy")
	}
	alloc, _ := svc.Get(context.Background(), "agent-1")
	if alloc.EnergyPoints != 5 {
		t.Fatalf("balance mutated on failed consume: %v", alloc.EnergyPoints)
	}
	txs, _ := svc.History(context.Background(), "agent-1", 0)
	if len(txs) != 0 {
		t.Fatalf("expected no transactions, got %d", len(txs))
	}
}

func TestService_ConsumeRecordsTransaction(t *testing.T) {
	store := memrepo.NewStore()
	store.SeedAllocation(sim.ResourceAllocation{AgentID: "agent-1", EnergyPoints: 30})
	svc := newService(store)

	ok, err := svc.Consume(context.Background(), "agent-1", 10, "action:think")
	if err != nil || !ok {
		t.Fatalf("consume: ok=%v err=%v", ok, err)
	}
	alloc, _ := svc.Get(context.Background(), "agent-1")
	if alloc.EnergyPoints != 20 {
		t.Fatalf("expected 20 energy, got %v", alloc.EnergyPoints)
	}
	txs, _ := svc.History(context.Background(), "agent-1", 0)
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if txs[0].FromAgentID != "agent-1" || txs[0].Reason != "action:think" || txs[0].ResourceType != sim.ResourceEnergy {
		t.Fatalf("unexpected transaction: %+v", txs[0])
	}
}

func TestService_EarnCreditsAttentionFromSystem(t *testing.T) {
	svc := newService(memrepo.NewStore())
	if err := svc.Earn(context.Background(), "agent-1", 15, "reward"); err != nil {
		t.Fatalf("earn: %v", err)
	}
	alloc, _ := svc.Get(context.Background(), "agent-1")
	if alloc.AttentionCredits != 65 {
		t.Fatalf("expected 65 attention, got %v", alloc.AttentionCredits)
	}
	txs, _ := svc.History(context.Background(), "agent-1", 0)
	if len(txs) != 1 || txs[0].FromAgentID != sim.SystemAgentID {
		t.Fatalf("expected system-origin transaction, got %+v", txs)
	}
}

func TestService_TransferConservesTotal(t *testing.T) {
	store := memrepo.NewStore()
	store.SeedAllocation(sim.ResourceAllocation{AgentID: "a", EnergyPoints: 60})
	store.SeedAllocation(sim.ResourceAllocation{AgentID: "b", EnergyPoints: 10})
	svc := newService(store)

	ok, err := svc.Transfer(context.Background(), "a", "b", sim.ResourceEnergy, 25, "gift")
	if err != nil || !ok {
		t.Fatalf("transfer: ok=%v err=%v", ok, err)
	}
	a, _ := svc.Get(context.Background(), "a")
	b, _ := svc.Get(context.Background(), "b")
	if a.EnergyPoints != 35 || b.EnergyPoints != 35 {
		t.Fatalf("unexpected balances: a=%v b=%v", a.EnergyPoints, b.EnergyPoints)
	}
	if a.EnergyPoints+b.EnergyPoints != 70 {
		t.Fatalf("transfer did not conserve total: %v", a.EnergyPoints+b.EnergyPoints)
	}
}

func TestService_TransferInsufficientFailsCleanly(t *testing.T) {
	store := memrepo.NewStore()
	store.SeedAllocation(sim.ResourceAllocation{AgentID: "a", EnergyPoints: 5})
	store.SeedAllocation(sim.ResourceAllocation{AgentID: "b", EnergyPoints: 0})
	svc := newService(store)

	ok, err := svc.Transfer(context.Background(), "a", "b", sim.ResourceEnergy, 10, "test")
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if ok {
		t.Fatal("expected transfer to fail")
	}
	a, _ := svc.Get(context.Background(), "a")
	b, _ := svc.Get(context.Background(), "b")
	if a.EnergyPoints != 5 || b.EnergyPoints != 0 {
		t.Fatalf("balances changed on failed transfer: a=%v b=%v", a.EnergyPoints, b.EnergyPoints)
	}
}

func TestService_TransferRejectsComputeAndBadAmounts(t *testing.T) {
	svc := newService(memrepo.NewStore())
	if _, err := svc.Transfer(context.Background(), "a", "b", sim.ResourceCompute, 10, "test"); !errors.Is(err, ports.ErrUnsupportedResource) {
		t.Fatalf("expected ErrUnsupportedResource, got %v", err)
	}
	if _, err := svc.Transfer(context.Background(), "a", "b", sim.ResourceEnergy, 0, "test"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.Transfer(context.Background(), "a", "b", sim.ResourceEnergy, -3, "test"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}
}

func TestService_RedistributeComputeSumsToHundred(t *testing.T) {
	store := memrepo.NewStore()
	store.SeedAllocation(sim.ResourceAllocation{AgentID: "a", AttentionCredits: 30})
	store.SeedAllocation(sim.ResourceAllocation{AgentID: "b", AttentionCredits: 50})
	store.SeedAllocation(sim.ResourceAllocation{AgentID: "c", AttentionCredits: 20})
	svc := newService(store)

	if err := svc.RedistributeCompute(context.Background()); err != nil {
		t.Fatalf("redistribute: %v", err)
	}
	allocs, _ := svc.Allocations.ListAll(context.Background())
	total := 0.0
	for _, a := range allocs {
		total += a.ComputeAllocation
	}
	if math.Abs(total-100) > 1e-6 {
		t.Fatalf("compute shares sum to %v, want 100", total)
	}
	a, _ := svc.Get(context.Background(), "a")
	if math.Abs(a.ComputeAllocation-30) > 1e-6 {
		t.Fatalf("expected 30%% share for a, got %v", a.ComputeAllocation)
	}
}

func TestService_RedistributeComputeSplitsEquallyOnZeroAttention(t *testing.T) {
	store := memrepo.NewStore()
	store.SeedAllocation(sim.ResourceAllocation{AgentID: "a"})
	store.SeedAllocation(sim.ResourceAllocation{AgentID: "b"})
	store.SeedAllocation(sim.ResourceAllocation{AgentID: "c"})
	svc := newService(store)

	if err := svc.RedistributeCompute(context.Background()); err != nil {
		t.Fatalf("redistribute: %v", err)
	}
	allocs, _ := svc.Allocations.ListAll(context.Background())
	total := 0.0
	for _, a := range allocs {
		if math.Abs(a.ComputeAllocation-100.0/3) > 1e-6 {
			t.Fatalf("expected equal split, got %v for %s", a.ComputeAllocation, a.AgentID)
		}
		total += a.ComputeAllocation
	}
	if math.Abs(total-100) > 1e-6 {
		t.Fatalf("equal split sums to %v", total)
	}
}

func TestService_DecayNeverGoesNegative(t *testing.T) {
	store := memrepo.NewStore()
	store.SeedAllocation(sim.ResourceAllocation{AgentID: "a", EnergyPoints: 100, AttentionCredits: 50})
	store.SeedAllocation(sim.ResourceAllocation{AgentID: "b", EnergyPoints: 0, AttentionCredits: 0})
	svc := newService(store)

	if err := svc.Decay(context.Background()); err != nil {
		t.Fatalf("decay: %v", err)
	}
	a, _ := svc.Get(context.Background(), "a")
	if math.Abs(a.EnergyPoints-95) > 1e-6 || math.Abs(a.AttentionCredits-45) > 1e-6 {
		t.Fatalf("unexpected decay result: %+v", a)
	}
	b, _ := svc.Get(context.Background(), "b")
	if b.EnergyPoints < 0 || b.AttentionCredits < 0 {
		t.Fatalf("decay drove balances negative: %+v", b)
	}
}

func TestService_HistoryNewestFirstWithLimit(t *testing.T) {
	store := memrepo.NewStore()
	store.SeedAllocation(sim.ResourceAllocation{AgentID: "a", EnergyPoints: 100})
	svc := newService(store)

	for i := 0; i < 3; i++ {
		if _, err := svc.Consume(context.Background(), "a", 1, "tick"); err != nil {
			t.Fatalf("consume %d: %v", i, err)
		}
	}
	if err := svc.Earn(context.Background(), "a", 5, "latest"); err != nil {
		t.Fatalf("earn: %v", err)
	}

	txs, err := svc.History(context.Background(), "a", 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].Reason != "latest" {
		t.Fatalf("expected newest first, got %+v", txs[0])
	}
}
