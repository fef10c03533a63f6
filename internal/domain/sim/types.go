package sim

import "time"

type AgentStatus string

const (
	StatusActive   AgentStatus = "active"
	StatusIdle     AgentStatus = "idle"
	StatusDreaming AgentStatus = "dreaming"
	StatusOffline  AgentStatus = "offline"
)

type AgentState struct {
	AgentID        string      `json:"agent_id"`
	Name           string      `json:"name"`
	Energy         int         `json:"energy"`
	Attention      int         `json:"attention"`
	Mood           string      `json:"mood"`
	Location       string      `json:"location"`
	Status         AgentStatus `json:"status"`
	LastAction     string      `json:"last_action,omitempty"`
	LastActionTime time.Time   `json:"last_action_time,omitempty"`
	Version        int64       `json:"version"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type ResourceType string

const (
	ResourceEnergy    ResourceType = "energy"
	ResourceAttention ResourceType = "attention"
	ResourceCompute   ResourceType = "compute"
)

type ResourceAllocation struct {
	AgentID           string    `json:"agent_id"`
	EnergyPoints      float64   `json:"energy_points"`
	AttentionCredits  float64   `json:"attention_credits"`
	ComputeAllocation float64   `json:"compute_allocation"`
	LastUpdated       time.Time `json:"last_updated"`
}

// AllocationPatch carries a partial ledger update; nil fields are left as-is.
type AllocationPatch struct {
	EnergyPoints      *float64 `json:"energy_points,omitempty"`
	AttentionCredits  *float64 `json:"attention_credits,omitempty"`
	ComputeAllocation *float64 `json:"compute_allocation,omitempty"`
}

// SystemAgentID marks transactions that have no real counterparty:
// consumption sinks and system grants.
const SystemAgentID = "system"

type Transaction struct {
	ID           string       `json:"id"`
	FromAgentID  string       `json:"from_agent_id"`
	ToAgentID    string       `json:"to_agent_id,omitempty"`
	ResourceType ResourceType `json:"resource_type"`
	Amount       float64      `json:"amount"`
	Reason       string       `json:"reason"`
	Timestamp    time.Time    `json:"timestamp"`
}

type MemoryType string

const (
	MemoryConversation MemoryType = "conversation"
	MemoryRelationship MemoryType = "relationship"
	MemoryEvent        MemoryType = "event"
	MemoryReflection   MemoryType = "reflection"
)

type Memory struct {
	ID            string     `json:"id"`
	AgentID       string     `json:"agent_id"`
	Type          MemoryType `json:"type"`
	Content       string     `json:"content"`
	EmotionalTone string     `json:"emotional_tone,omitempty"`
	Importance    int        `json:"importance"`
	Timestamp     time.Time  `json:"timestamp"`
	Tags          []string   `json:"tags,omitempty"`

	// Relationship payload, set only when Type == MemoryRelationship.
	Relationship *Relationship `json:"relationship,omitempty"`
}

// Relationship is the structured payload of a relationship memory: one
// record per (agent, target) pair, updated in place on every interaction.
type Relationship struct {
	TargetID        string    `json:"target_id"`
	Sentiment       int       `json:"sentiment"`  // -10..10
	Trust           int       `json:"trust"`      // 0..10
	Familiarity     int       `json:"familiarity"` // 0..10
	LastInteraction time.Time `json:"last_interaction"`
	Notes           string    `json:"notes,omitempty"`
}

// RelationshipPatch carries partial relationship changes from an interaction.
type RelationshipPatch struct {
	Sentiment   *int   `json:"sentiment,omitempty"`
	Trust       *int   `json:"trust,omitempty"`
	Familiarity *int   `json:"familiarity,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type ActionType string

const (
	ActionSpeak    ActionType = "speak"
	ActionThink    ActionType = "think"
	ActionMove     ActionType = "move"
	ActionInteract ActionType = "interact"
	ActionCreate   ActionType = "create"
	ActionDream    ActionType = "dream"
)

// Action is the ephemeral output of one decision. It is never persisted;
// its effects land as memories and transactions.
type Action struct {
	Type      ActionType `json:"type"`
	Target    string     `json:"target,omitempty"`
	Content   string     `json:"content,omitempty"`
	Energy    float64    `json:"energy"`
	Sentiment *int       `json:"sentiment,omitempty"`
	Trust     *int       `json:"trust,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

type SimulationStats struct {
	TickCount        int64     `json:"tick_count"`
	ActiveAgents     int       `json:"active_agents"`
	TotalEnergy      float64   `json:"total_energy"`
	TotalAttention   float64   `json:"total_attention"`
	AverageEnergy    float64   `json:"average_energy"`
	AverageAttention float64   `json:"average_attention"`
	Timestamp        time.Time `json:"timestamp"`
}

type WorldEventType string

const (
	EventResourceDiscovery WorldEventType = "resource_discovery"
	EventChallenge         WorldEventType = "challenge"
	EventOpportunity       WorldEventType = "opportunity"
	EventConflict          WorldEventType = "conflict"
)
