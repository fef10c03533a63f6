package gormrepo

import (
	"context"
	"errors"

	"agentarium/internal/adapter/repo/gorm/model"
	"agentarium/internal/app/ports"
	"agentarium/internal/domain/sim"

	"gorm.io/gorm"
)

type AgentStateRepo struct {
	db *gorm.DB
}

func NewAgentStateRepo(db *gorm.DB) AgentStateRepo {
	return AgentStateRepo{db: db}
}

func (r AgentStateRepo) GetByAgentID(ctx context.Context, agentID string) (sim.AgentState, error) {
	var m model.AgentState
	if err := dbFromCtx(ctx, r.db).Where("agent_id = ?", agentID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sim.AgentState{}, ports.ErrNotFound
		}
		return sim.AgentState{}, err
	}
	return stateFromRow(m), nil
}

func (r AgentStateRepo) SaveWithVersion(ctx context.Context, state sim.AgentState, expectedVersion int64) error {
	db := dbFromCtx(ctx, r.db)
	row := stateToRow(state)
	row.Version = expectedVersion + 1

	if expectedVersion == 0 {
		return db.Create(&row).Error
	}

	res := db.Model(&model.AgentState{}).
		Where("agent_id = ? AND version = ?", state.AgentID, expectedVersion).
		Updates(map[string]any{
			"name":             row.Name,
			"energy":           row.Energy,
			"attention":        row.Attention,
			"mood":             row.Mood,
			"location":         row.Location,
			"status":           row.Status,
			"last_action":      row.LastAction,
			"last_action_time": row.LastActionTime,
			"version":          row.Version,
			"updated_at":       row.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r AgentStateRepo) ListAgentIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := dbFromCtx(ctx, r.db).
		Model(&model.AgentState{}).
		Order("agent_id ASC").
		Pluck("agent_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func stateFromRow(m model.AgentState) sim.AgentState {
	return sim.AgentState{
		AgentID:        m.AgentID,
		Name:           m.Name,
		Energy:         int(m.Energy),
		Attention:      int(m.Attention),
		Mood:           m.Mood,
		Location:       m.Location,
		Status:         sim.AgentStatus(m.Status),
		LastAction:     m.LastAction,
		LastActionTime: m.LastActionTime,
		Version:        m.Version,
		UpdatedAt:      m.UpdatedAt,
	}
}

func stateToRow(s sim.AgentState) model.AgentState {
	return model.AgentState{
		AgentID:        s.AgentID,
		Name:           s.Name,
		Energy:         int32(s.Energy),
		Attention:      int32(s.Attention),
		Mood:           s.Mood,
		Location:       s.Location,
		Status:         string(s.Status),
		LastAction:     s.LastAction,
		LastActionTime: s.LastActionTime,
		UpdatedAt:      s.UpdatedAt,
	}
}
