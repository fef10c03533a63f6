package gormrepo

import (
	"fmt"

	"agentarium/internal/adapter/repo/gorm/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the simulation tables.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.AgentState{},
		&model.ResourceAllocation{},
		&model.Transaction{},
		&model.Memory{},
		&model.ClockState{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
