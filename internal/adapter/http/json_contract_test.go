package httpadapter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"agentarium/internal/domain/sim"
)

func TestResponseJSONUsesSnakeCase(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	rel := sim.NewRelationship("bob", now)

	cases := []struct {
		name    string
		payload any
		want    []string
		notWant []string
	}{
		{
			name: "agent state",
			payload: sim.AgentState{
				AgentID:        "ada",
				Name:           "Ada",
				Energy:         80,
				Attention:      40,
				Mood:           "curious",
				Location:       "commons",
				Status:         sim.StatusActive,
				LastAction:     "speak",
				LastActionTime: now,
				Version:        2,
				UpdatedAt:      now,
			},
			want:    []string{`"agent_id"`, `"last_action"`, `"last_action_time"`, `"updated_at"`},
			notWant: []string{`"AgentID"`, `"LastAction"`},
		},
		{
			name: "allocation",
			payload: sim.ResourceAllocation{
				AgentID:           "ada",
				EnergyPoints:      80,
				AttentionCredits:  40,
				ComputeAllocation: 50,
				LastUpdated:       now,
			},
			want:    []string{`"energy_points"`, `"attention_credits"`, `"compute_allocation"`, `"last_updated"`},
			notWant: []string{`"EnergyPoints"`},
		},
		{
			name: "transaction",
			payload: sim.Transaction{
				ID:           "t1",
				FromAgentID:  "ada",
				ToAgentID:    "bob",
				ResourceType: sim.ResourceEnergy,
				Amount:       5,
				Reason:       "gift",
				Timestamp:    now,
			},
			want:    []string{`"from_agent_id"`, `"to_agent_id"`, `"resource_type"`},
			notWant: []string{`"FromAgentID"`},
		},
		{
			name: "memory with relationship",
			payload: sim.Memory{
				ID:            "m1",
				AgentID:       "ada",
				Type:          sim.MemoryRelationship,
				Content:       "relationship with bob",
				EmotionalTone: "warm",
				Importance:    6,
				Timestamp:     now,
				Relationship:  &rel,
			},
			want:    []string{`"emotional_tone"`, `"target_id"`, `"last_interaction"`},
			notWant: []string{`"EmotionalTone"`, `"TargetID"`},
		},
		{
			name: "stats",
			payload: sim.SimulationStats{
				TickCount:    7,
				ActiveAgents: 2,
				TotalEnergy:  190,
				Timestamp:    now,
			},
			want:    []string{`"tick_count"`, `"active_agents"`, `"total_energy"`},
			notWant: []string{`"TickCount"`},
		},
	}

	for _, tc := range cases {
		raw, err := json.Marshal(tc.payload)
		if err != nil {
			t.Fatalf("%s: marshal: %v", tc.name, err)
		}
		body := string(raw)
		for _, want := range tc.want {
			if !strings.Contains(body, want) {
				t.Fatalf("%s: missing %s in %s", tc.name, want, body)
			}
		}
		for _, notWant := range tc.notWant {
			if strings.Contains(body, notWant) {
				t.Fatalf("%s: unexpected %s in %s", tc.name, notWant, body)
			}
		}
	}
}
