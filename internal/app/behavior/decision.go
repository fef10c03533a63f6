package behavior

import (
	"encoding/json"
	"fmt"
	"strings"

	"agentarium/internal/domain/sim"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// decisionSchema is the contract the oracle's structured decisions must
// meet. Anything that fails validation degrades to the fallback action.
const decisionSchema = `{
  "type": "object",
  "required": ["type"],
  "properties": {
    "type": {"enum": ["speak", "think", "move", "interact", "create", "dream"]},
    "target": {"type": "string"},
    "content": {"type": "string"},
    "energy": {"type": "number", "minimum": 0, "maximum": 100},
    "sentiment": {"type": "integer", "minimum": -10, "maximum": 10},
    "trust": {"type": "integer", "minimum": 0, "maximum": 10},
    "notes": {"type": "string"}
  },
  "additionalProperties": false
}`

var compiledDecisionSchema = jsonschema.MustCompileString("decision.json", decisionSchema)

var defaultCosts = map[sim.ActionType]float64{
	sim.ActionSpeak:    3,
	sim.ActionThink:    5,
	sim.ActionMove:     8,
	sim.ActionInteract: 4,
	sim.ActionCreate:   6,
	sim.ActionDream:    0,
}

// FallbackAction is what an agent does when its decision cannot be used.
func FallbackAction() sim.Action {
	return sim.Action{Type: sim.ActionThink, Content: "idle contemplation", Energy: 5}
}

// ParseDecision turns raw oracle text into a typed Action. The text must be
// a single JSON object valid against the decision schema; models that wrap
// their JSON in markdown fences are tolerated, nothing else is.
func ParseDecision(raw string) (sim.Action, error) {
	raw = stripFences(raw)

	var loose any
	if err := json.Unmarshal([]byte(raw), &loose); err != nil {
		return sim.Action{}, fmt.Errorf("decision is not JSON: %w", err)
	}
	if err := compiledDecisionSchema.Validate(loose); err != nil {
		return sim.Action{}, fmt.Errorf("decision failed schema: %w", err)
	}

	var a sim.Action
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return sim.Action{}, fmt.Errorf("decision decode: %w", err)
	}
	if a.Energy <= 0 {
		a.Energy = defaultCosts[a.Type]
	}
	return a, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// dreamInsight is the lenient shape of the second dream-phase response.
type dreamInsight struct {
	Insights      string `json:"insights"`
	SuggestedMood string `json:"suggested_mood"`
}

func parseInsight(raw string) dreamInsight {
	raw = stripFences(raw)
	var in dreamInsight
	if err := json.Unmarshal([]byte(raw), &in); err != nil || in.Insights == "" {
		// Free-form insight text is still worth keeping.
		return dreamInsight{Insights: raw}
	}
	return in
}
