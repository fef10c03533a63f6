package memory

import (
	"context"

	"agentarium/internal/domain/sim"
)

type TransactionRepo struct {
	store *Store
}

func NewTransactionRepo(store *Store) TransactionRepo {
	return TransactionRepo{store: store}
}

func (r TransactionRepo) Append(_ context.Context, tx sim.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.transactions = append(r.store.transactions, tx)
	return nil
}

func (r TransactionRepo) ListByAgentID(_ context.Context, agentID string, limit int) ([]sim.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []sim.Transaction{}
	// Append order is chronological; walk backwards for newest-first.
	for i := len(r.store.transactions) - 1; i >= 0; i-- {
		tx := r.store.transactions[i]
		if tx.FromAgentID != agentID && tx.ToAgentID != agentID {
			continue
		}
		out = append(out, tx)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
