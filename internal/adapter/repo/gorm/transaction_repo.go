package gormrepo

import (
	"context"

	"agentarium/internal/adapter/repo/gorm/model"
	"agentarium/internal/domain/sim"

	"gorm.io/gorm"
)

type TransactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepo {
	return TransactionRepo{db: db}
}

func (r TransactionRepo) Append(ctx context.Context, tx sim.Transaction) error {
	row := model.Transaction{
		ID:           tx.ID,
		FromAgentID:  tx.FromAgentID,
		ToAgentID:    tx.ToAgentID,
		ResourceType: string(tx.ResourceType),
		Amount:       tx.Amount,
		Reason:       tx.Reason,
		Timestamp:    tx.Timestamp,
	}
	return dbFromCtx(ctx, r.db).Create(&row).Error
}

func (r TransactionRepo) ListByAgentID(ctx context.Context, agentID string, limit int) ([]sim.Transaction, error) {
	var rows []model.Transaction
	q := dbFromCtx(ctx, r.db).
		Where("from_agent_id = ? OR to_agent_id = ?", agentID, agentID).
		Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]sim.Transaction, 0, len(rows))
	for _, m := range rows {
		out = append(out, sim.Transaction{
			ID:           m.ID,
			FromAgentID:  m.FromAgentID,
			ToAgentID:    m.ToAgentID,
			ResourceType: sim.ResourceType(m.ResourceType),
			Amount:       m.Amount,
			Reason:       m.Reason,
			Timestamp:    m.Timestamp,
		})
	}
	return out, nil
}
