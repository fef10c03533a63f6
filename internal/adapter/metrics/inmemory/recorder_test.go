package inmemory

import (
	"testing"

	"agentarium/internal/domain/sim"
)

func TestRecorder_Snapshot(t *testing.T) {
	r := NewRecorder()

	r.RecordStep(sim.ActionSpeak)
	r.RecordStep(sim.ActionSpeak)
	r.RecordStep(sim.ActionThink)
	r.RecordStarved()
	r.RecordDream()
	r.RecordOracleFailure()
	r.RecordStepError()

	snap := r.Snapshot()
	if snap.StepTotal != 3 || snap.Starved != 1 || snap.Dreams != 1 || snap.OracleFailures != 1 || snap.StepErrors != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.ByAction["speak"] != 2 || snap.ByAction["think"] != 1 {
		t.Fatalf("unexpected per-action counts: %+v", snap.ByAction)
	}

	// The snapshot is a copy; mutating it must not leak back.
	snap.ByAction["speak"] = 99
	if r.Snapshot().ByAction["speak"] != 2 {
		t.Fatal("snapshot shares internal state")
	}
}
