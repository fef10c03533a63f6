package inmemory

import (
	"sync"

	"agentarium/internal/domain/sim"
)

type Snapshot struct {
	StepTotal      uint64            `json:"step_total"`
	Starved        uint64            `json:"starved"`
	Dreams         uint64            `json:"dreams"`
	OracleFailures uint64            `json:"oracle_failures"`
	StepErrors     uint64            `json:"step_errors"`
	ByAction       map[string]uint64 `json:"by_action"`
}

// Recorder counts behavior-step outcomes for the ops KPI endpoint.
type Recorder struct {
	mu             sync.Mutex
	steps          uint64
	starved        uint64
	dreams         uint64
	oracleFailures uint64
	stepErrors     uint64
	byAction       map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{byAction: map[string]uint64{}}
}

func (r *Recorder) RecordStep(action sim.ActionType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps++
	r.byAction[string(action)]++
}

func (r *Recorder) RecordStarved() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starved++
}

func (r *Recorder) RecordDream() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dreams++
}

func (r *Recorder) RecordOracleFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.oracleFailures++
}

func (r *Recorder) RecordStepError() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stepErrors++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := Snapshot{
		StepTotal:      r.steps,
		Starved:        r.starved,
		Dreams:         r.dreams,
		OracleFailures: r.oracleFailures,
		StepErrors:     r.stepErrors,
		ByAction:       make(map[string]uint64, len(r.byAction)),
	}
	for k, v := range r.byAction {
		out.ByAction[k] = v
	}
	return out
}
