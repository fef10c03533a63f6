package gormrepo

import (
	"context"
	"errors"

	"agentarium/internal/adapter/repo/gorm/model"
	"agentarium/internal/app/ports"
	"agentarium/internal/domain/sim"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AllocationRepo struct {
	db *gorm.DB
}

func NewAllocationRepo(db *gorm.DB) AllocationRepo {
	return AllocationRepo{db: db}
}

func (r AllocationRepo) Get(ctx context.Context, agentID string) (sim.ResourceAllocation, error) {
	var m model.ResourceAllocation
	if err := dbFromCtx(ctx, r.db).Where("agent_id = ?", agentID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sim.ResourceAllocation{}, ports.ErrNotFound
		}
		return sim.ResourceAllocation{}, err
	}
	return allocationFromRow(m), nil
}

func (r AllocationRepo) Save(ctx context.Context, alloc sim.ResourceAllocation) error {
	row := model.ResourceAllocation{
		AgentID:           alloc.AgentID,
		EnergyPoints:      alloc.EnergyPoints,
		AttentionCredits:  alloc.AttentionCredits,
		ComputeAllocation: alloc.ComputeAllocation,
		LastUpdated:       alloc.LastUpdated,
	}
	return dbFromCtx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "agent_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"energy_points", "attention_credits", "compute_allocation", "last_updated"}),
	}).Create(&row).Error
}

func (r AllocationRepo) ListAll(ctx context.Context) ([]sim.ResourceAllocation, error) {
	var rows []model.ResourceAllocation
	if err := dbFromCtx(ctx, r.db).Order("agent_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]sim.ResourceAllocation, 0, len(rows))
	for _, m := range rows {
		out = append(out, allocationFromRow(m))
	}
	return out, nil
}

func allocationFromRow(m model.ResourceAllocation) sim.ResourceAllocation {
	return sim.ResourceAllocation{
		AgentID:           m.AgentID,
		EnergyPoints:      m.EnergyPoints,
		AttentionCredits:  m.AttentionCredits,
		ComputeAllocation: m.ComputeAllocation,
		LastUpdated:       m.LastUpdated,
	}
}
