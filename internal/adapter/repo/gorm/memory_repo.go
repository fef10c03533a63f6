package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"agentarium/internal/adapter/repo/gorm/model"
	"agentarium/internal/app/ports"
	"agentarium/internal/domain/sim"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemoryRepo struct {
	db *gorm.DB
}

func NewMemoryRepo(db *gorm.DB) MemoryRepo {
	return MemoryRepo{db: db}
}

func (r MemoryRepo) Save(ctx context.Context, m sim.Memory) error {
	row, err := memoryToRow(m)
	if err != nil {
		return err
	}
	return dbFromCtx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "emotional_tone", "importance", "timestamp", "tags", "relationship"}),
	}).Create(&row).Error
}

func (r MemoryRepo) Query(ctx context.Context, agentID string, q ports.MemoryQuery) ([]sim.Memory, error) {
	db := dbFromCtx(ctx, r.db).Where("agent_id = ?", agentID)
	if q.Type != "" {
		db = db.Where("type = ?", string(q.Type))
	}
	if q.MinImportance > 0 {
		db = db.Where("importance >= ?", q.MinImportance)
	}
	if !q.Since.IsZero() {
		db = db.Where("timestamp >= ?", q.Since)
	}
	for _, tag := range q.Tags {
		db = db.Where("tags @> ?", mustJSON([]string{tag}))
	}
	db = db.Order("timestamp DESC")
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	var rows []model.Memory
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]sim.Memory, 0, len(rows))
	for _, row := range rows {
		m, err := memoryFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r MemoryRepo) FindRelationship(ctx context.Context, agentID, targetID string) (sim.Memory, error) {
	var row model.Memory
	err := dbFromCtx(ctx, r.db).
		Where("agent_id = ? AND type = ? AND target_id = ?", agentID, string(sim.MemoryRelationship), targetID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sim.Memory{}, ports.ErrNotFound
		}
		return sim.Memory{}, err
	}
	return memoryFromRow(row)
}

func (r MemoryRepo) PruneOlderThan(ctx context.Context, cutoff time.Time, maxImportance int) (int64, error) {
	res := dbFromCtx(ctx, r.db).
		Where("type <> ? AND timestamp < ? AND importance <= ?", string(sim.MemoryRelationship), cutoff, maxImportance).
		Delete(&model.Memory{})
	return res.RowsAffected, res.Error
}

func memoryToRow(m sim.Memory) (model.Memory, error) {
	row := model.Memory{
		ID:            m.ID,
		AgentID:       m.AgentID,
		Type:          string(m.Type),
		Content:       m.Content,
		EmotionalTone: m.EmotionalTone,
		Importance:    int32(m.Importance),
		Timestamp:     m.Timestamp,
	}
	if len(m.Tags) > 0 {
		b, err := json.Marshal(m.Tags)
		if err != nil {
			return model.Memory{}, err
		}
		row.Tags = b
	}
	if m.Relationship != nil {
		b, err := json.Marshal(m.Relationship)
		if err != nil {
			return model.Memory{}, err
		}
		row.Relationship = b
		row.TargetID = m.Relationship.TargetID
	}
	return row, nil
}

func memoryFromRow(row model.Memory) (sim.Memory, error) {
	m := sim.Memory{
		ID:            row.ID,
		AgentID:       row.AgentID,
		Type:          sim.MemoryType(row.Type),
		Content:       row.Content,
		EmotionalTone: row.EmotionalTone,
		Importance:    int(row.Importance),
		Timestamp:     row.Timestamp,
	}
	if len(row.Tags) > 0 {
		if err := json.Unmarshal(row.Tags, &m.Tags); err != nil {
			return sim.Memory{}, err
		}
	}
	if len(row.Relationship) > 0 {
		var rel sim.Relationship
		if err := json.Unmarshal(row.Relationship, &rel); err != nil {
			return sim.Memory{}, err
		}
		m.Relationship = &rel
	}
	return m, nil
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
