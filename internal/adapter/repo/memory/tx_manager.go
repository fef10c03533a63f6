package memory

import "context"

// TxManager satisfies ports.TxManager without real transaction semantics;
// the in-memory store serializes through its own mutex.
type TxManager struct{}

func (TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
