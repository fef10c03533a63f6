package sim

import (
	"testing"
	"time"
)

func TestAgentState_ApplyEnergyClamps(t *testing.T) {
	s := AgentState{Energy: 95}
	s.ApplyEnergy(20)
	if s.Energy != 100 {
		t.Fatalf("expected clamp at 100, got %d", s.Energy)
	}
	s.ApplyEnergy(-150)
	if s.Energy != 0 {
		t.Fatalf("expected clamp at 0, got %d", s.Energy)
	}
}

func TestMemory_ApplyDefaults(t *testing.T) {
	now := time.Unix(1700000000, 0)

	m := Memory{Content: "bare"}
	m.ApplyDefaults(now)
	if m.Type != MemoryEvent || m.Importance != 5 || m.EmotionalTone != "neutral" || !m.Timestamp.Equal(now) {
		t.Fatalf("defaults wrong: %+v", m)
	}

	set := Memory{Content: "full", Type: MemoryReflection, Importance: 25, EmotionalTone: "tense", Timestamp: now.Add(time.Hour)}
	set.ApplyDefaults(now)
	if set.Type != MemoryReflection || set.EmotionalTone != "tense" {
		t.Fatalf("explicit fields overwritten: %+v", set)
	}
	if set.Importance != 10 {
		t.Fatalf("importance not clamped: %d", set.Importance)
	}
	if !set.Timestamp.Equal(now.Add(time.Hour)) {
		t.Fatalf("explicit timestamp overwritten: %v", set.Timestamp)
	}
}

func TestRelationship_MergeClampsAndBumps(t *testing.T) {
	now := time.Unix(1700000000, 0)
	r := NewRelationship("bob", now)

	sentiment := -42
	familiarity := 11
	later := now.Add(time.Minute)
	r.Merge(RelationshipPatch{Sentiment: &sentiment, Familiarity: &familiarity, Notes: "tense truce"}, later)

	if r.Sentiment != -10 || r.Familiarity != 10 {
		t.Fatalf("ranges not clamped: %+v", r)
	}
	if r.Trust != 5 {
		t.Fatalf("untouched field changed: %+v", r)
	}
	if r.Notes != "tense truce" || !r.LastInteraction.Equal(later) {
		t.Fatalf("merge incomplete: %+v", r)
	}
}

func TestResourceAllocation_MergePartial(t *testing.T) {
	now := time.Unix(1700000000, 0)
	a := ResourceAllocation{AgentID: "ada", EnergyPoints: 80, AttentionCredits: 40}

	energy := 45.0
	a.Merge(AllocationPatch{EnergyPoints: &energy}, now)

	if a.EnergyPoints != 45 || a.AttentionCredits != 40 {
		t.Fatalf("partial merge wrong: %+v", a)
	}
	if !a.LastUpdated.Equal(now) {
		t.Fatalf("LastUpdated not stamped: %v", a.LastUpdated)
	}
}
