package ports

import "time"

const (
	EventSimulationStart = "simulation:start"
	EventSimulationStop  = "simulation:stop"
	EventSimulationTick  = "simulation:tick"
	EventSimulationStats = "simulation:stats"
	EventAgentSpeak      = "agent:speak"
	EventAgentInteract   = "agent:interact"
	EventAgentDream      = "agent:dream"
	EventWorldEvent      = "world:event"
)

type Event struct {
	Name    string         `json:"name"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}

// EventPublisher fans events out to external observers. Publish must never
// block the caller; slow consumers lose events, they do not stall ticks.
type EventPublisher interface {
	Publish(evt Event)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
