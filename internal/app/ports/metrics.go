package ports

import "agentarium/internal/domain/sim"

type StepMetrics interface {
	RecordStep(action sim.ActionType)
	RecordStarved()
	RecordDream()
	RecordOracleFailure()
	RecordStepError()
}
