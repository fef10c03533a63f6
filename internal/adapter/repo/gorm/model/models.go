// Package model holds the persistence rows for the simulation store.
package model

import "time"

type AgentState struct {
	AgentID        string    `gorm:"column:agent_id;primaryKey"`
	Name           string    `gorm:"column:name"`
	Energy         int32     `gorm:"column:energy"`
	Attention      int32     `gorm:"column:attention"`
	Mood           string    `gorm:"column:mood"`
	Location       string    `gorm:"column:location"`
	Status         string    `gorm:"column:status"`
	LastAction     string    `gorm:"column:last_action"`
	LastActionTime time.Time `gorm:"column:last_action_time"`
	Version        int64     `gorm:"column:version"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (AgentState) TableName() string { return "agent_states" }

type ResourceAllocation struct {
	AgentID           string    `gorm:"column:agent_id;primaryKey"`
	EnergyPoints      float64   `gorm:"column:energy_points"`
	AttentionCredits  float64   `gorm:"column:attention_credits"`
	ComputeAllocation float64   `gorm:"column:compute_allocation"`
	LastUpdated       time.Time `gorm:"column:last_updated"`
}

func (ResourceAllocation) TableName() string { return "resource_allocations" }

type Transaction struct {
	ID           string    `gorm:"column:id;primaryKey"`
	FromAgentID  string    `gorm:"column:from_agent_id;index"`
	ToAgentID    string    `gorm:"column:to_agent_id;index"`
	ResourceType string    `gorm:"column:resource_type"`
	Amount       float64   `gorm:"column:amount"`
	Reason       string    `gorm:"column:reason"`
	Timestamp    time.Time `gorm:"column:timestamp;index"`
}

func (Transaction) TableName() string { return "transactions" }

type Memory struct {
	ID            string    `gorm:"column:id;primaryKey"`
	AgentID       string    `gorm:"column:agent_id;index"`
	Type          string    `gorm:"column:type;index"`
	Content       string    `gorm:"column:content"`
	EmotionalTone string    `gorm:"column:emotional_tone"`
	Importance    int32     `gorm:"column:importance;index"`
	Timestamp     time.Time `gorm:"column:timestamp;index"`
	Tags          []byte    `gorm:"column:tags;type:jsonb"`
	Relationship  []byte    `gorm:"column:relationship;type:jsonb"`
	TargetID      string    `gorm:"column:target_id;index"`
}

func (Memory) TableName() string { return "memories" }

type ClockState struct {
	StateKey  string    `gorm:"column:state_key;primaryKey"`
	TickCount int64     `gorm:"column:tick_count"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ClockState) TableName() string { return "clock_states" }
