package memory

import "context"

type ClockStateRepo struct {
	store *Store
}

func NewClockStateRepo(store *Store) ClockStateRepo {
	return ClockStateRepo{store: store}
}

func (r ClockStateRepo) Get(_ context.Context) (int64, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.clockTick, r.store.clockSet, nil
}

func (r ClockStateRepo) Save(_ context.Context, tick int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.clockTick = tick
	r.store.clockSet = true
	return nil
}
