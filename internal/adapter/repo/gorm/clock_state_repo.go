package gormrepo

import (
	"context"
	"errors"
	"time"

	"agentarium/internal/adapter/repo/gorm/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClockStateRepo struct {
	db *gorm.DB
}

func NewClockStateRepo(db *gorm.DB) ClockStateRepo {
	return ClockStateRepo{db: db}
}

const clockStateKey = "global"

func (r ClockStateRepo) Get(ctx context.Context) (int64, bool, error) {
	var row model.ClockState
	err := dbFromCtx(ctx, r.db).Where("state_key = ?", clockStateKey).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return row.TickCount, true, nil
}

func (r ClockStateRepo) Save(ctx context.Context, tick int64) error {
	row := model.ClockState{
		StateKey:  clockStateKey,
		TickCount: tick,
		UpdatedAt: time.Now(),
	}
	return dbFromCtx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"tick_count", "updated_at"}),
	}).Create(&row).Error
}
