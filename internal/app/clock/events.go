package clock

import (
	"context"

	"agentarium/internal/app/ports"
	"agentarium/internal/domain/sim"
)

var worldEventTypes = []sim.WorldEventType{
	sim.EventResourceDiscovery,
	sim.EventChallenge,
	sim.EventOpportunity,
	sim.EventConflict,
}

// injectRandomEvent perturbs the world: one event type chosen uniformly,
// applied to one or two randomly chosen registered agents.
func (c *Clock) injectRandomEvent(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	kind := worldEventTypes[int(c.randf()*float64(len(worldEventTypes)))%len(worldEventTypes)]
	first := ids[int(c.randf()*float64(len(ids)))%len(ids)]

	var err error
	payload := map[string]any{"type": string(kind), "agent_id": first}

	switch kind {
	case sim.EventResourceDiscovery:
		err = c.eventResourceDiscovery(ctx, first)
	case sim.EventChallenge:
		err = c.eventChallenge(ctx, first)
	case sim.EventOpportunity:
		err = c.eventOpportunity(ctx, first)
	case sim.EventConflict:
		if len(ids) < 2 {
			return
		}
		second := first
		for second == first {
			second = ids[int(c.randf()*float64(len(ids)))%len(ids)]
		}
		payload["other_agent_id"] = second
		err = c.eventConflict(ctx, first, second)
	}
	if err != nil {
		c.log().Warn("world event failed", "type", kind, "err", err)
		return
	}
	c.log().Info("world event injected", "type", kind, "agent", first)
	c.publish(ports.EventWorldEvent, payload)
}

func (c *Clock) eventResourceDiscovery(ctx context.Context, agentID string) error {
	if err := c.Ledger.Earn(ctx, agentID, 10, "world event: resource discovery"); err != nil {
		return err
	}
	_, err := c.Journal.Store(ctx, agentID, sim.Memory{
		Type:       sim.MemoryEvent,
		Content:    "stumbled on an untapped resource vein",
		Importance: 6,
		Tags:       []string{"world_event", "resource_discovery"},
	})
	return err
}

func (c *Clock) eventChallenge(ctx context.Context, agentID string) error {
	// A challenge drains energy when there is any to drain.
	if _, err := c.Ledger.Consume(ctx, agentID, 5, "world event: challenge"); err != nil {
		return err
	}
	_, err := c.Journal.Store(ctx, agentID, sim.Memory{
		Type:          sim.MemoryEvent,
		Content:       "faced an unexpected challenge",
		EmotionalTone: "tense",
		Importance:    6,
		Tags:          []string{"world_event", "challenge"},
	})
	return err
}

func (c *Clock) eventOpportunity(ctx context.Context, agentID string) error {
	if err := c.Ledger.Earn(ctx, agentID, 15, "world event: opportunity"); err != nil {
		return err
	}
	_, err := c.Journal.Store(ctx, agentID, sim.Memory{
		Type:          sim.MemoryEvent,
		Content:       "spotted a rare opportunity and seized it",
		EmotionalTone: "excited",
		Importance:    7,
		Tags:          []string{"world_event", "opportunity"},
	})
	return err
}

// eventConflict moves energy from the loser to the winner as one atomic
// pair and leaves both agents a memory of it.
func (c *Clock) eventConflict(ctx context.Context, winnerID, loserID string) error {
	// A drained loser forfeits nothing, but the clash still happened and
	// both sides remember it.
	if _, err := c.Ledger.Transfer(ctx, loserID, winnerID, sim.ResourceEnergy, 5, "world event: conflict"); err != nil {
		return err
	}
	if _, err := c.Journal.Store(ctx, winnerID, sim.Memory{
		Type:          sim.MemoryEvent,
		Content:       "came out ahead in a conflict with " + loserID,
		EmotionalTone: "triumphant",
		Importance:    6,
		Tags:          []string{"world_event", "conflict", loserID},
	}); err != nil {
		return err
	}
	_, err := c.Journal.Store(ctx, loserID, sim.Memory{
		Type:          sim.MemoryEvent,
		Content:       "lost a conflict with " + winnerID,
		EmotionalTone: "tense",
		Importance:    6,
		Tags:          []string{"world_event", "conflict", winnerID},
	})
	return err
}
