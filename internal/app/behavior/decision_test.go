package behavior

import (
	"testing"

	"agentarium/internal/domain/sim"
)

func TestParseDecision_ValidObject(t *testing.T) {
	a, err := ParseDecision(`{"type": "speak", "content": "hello", "energy": 3}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if a.Type != sim.ActionSpeak || a.Content != "hello" || a.Energy != 3 {
		t.Fatalf("unexpected action: %+v", a)
	}
}

func TestParseDecision_MarkdownFencesTolerated(t *testing.T) {
	raw := "```json\n{\"type\": \"move\", \"target\": \"garden\"}\n```"
	a, err := ParseDecision(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if a.Type != sim.ActionMove || a.Target != "garden" {
		t.Fatalf("unexpected action: %+v", a)
	}
}

func TestParseDecision_DefaultCostWhenEnergyOmitted(t *testing.T) {
	a, err := ParseDecision(`{"type": "think", "content": "hmm"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if a.Energy != defaultCosts[sim.ActionThink] {
		t.Fatalf("expected default cost %v, got %v", defaultCosts[sim.ActionThink], a.Energy)
	}
}

func TestParseDecision_RejectsNonJSON(t *testing.T) {
	if _, err := ParseDecision("I will wander the hills today."); err == nil {
		t.Fatal("expected error for prose response")
	}
}

func TestParseDecision_RejectsUnknownType(t *testing.T) {
	if _, err := ParseDecision(`{"type": "teleport"}`); err == nil {
		t.Fatal("expected schema rejection for unknown action type")
	}
}

func TestParseDecision_RejectsExtraProperties(t *testing.T) {
	if _, err := ParseDecision(`{"type": "speak", "volume": 11}`); err == nil {
		t.Fatal("expected schema rejection for extra property")
	}
}

func TestParseDecision_RejectsOutOfRangeSentiment(t *testing.T) {
	if _, err := ParseDecision(`{"type": "interact", "target": "b", "sentiment": 42}`); err == nil {
		t.Fatal("expected schema rejection for out-of-range sentiment")
	}
}

func TestParseInsight_StructuredResponse(t *testing.T) {
	in := parseInsight("```json\n{\"insights\": \"value rest\", \"suggested_mood\": \"calm\"}\n```")
	if in.Insights != "value rest" || in.SuggestedMood != "calm" {
		t.Fatalf("unexpected insight: %+v", in)
	}
}

func TestParseInsight_FreeFormFallback(t *testing.T) {
	in := parseInsight("The pattern is clear: solitude drains you.")
	if in.Insights != "The pattern is clear: solitude drains you." {
		t.Fatalf("expected raw text preserved, got %+v", in)
	}
	if in.SuggestedMood != "" {
		t.Fatalf("free-form insight must not invent a mood: %+v", in)
	}
}
