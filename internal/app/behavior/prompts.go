package behavior

import (
	"fmt"
	"strings"

	"agentarium/internal/domain/sim"
)

const decisionSystemPrompt = "You are the decision function of an autonomous agent in a shared simulation. " +
	"Respond with a single JSON object and nothing else: " +
	`{"type": "speak|think|move|interact|create|dream", "target": "...", "content": "...", "energy": <number>}.`

func buildDecisionPrompt(state sim.AgentState, memories []sim.Memory) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Agent %s (%s). Energy %d, attention %d, mood %q, location %q, status %s.\n",
		state.AgentID, state.Name, state.Energy, state.Attention, state.Mood, state.Location, state.Status)
	if state.LastAction != "" {
		fmt.Fprintf(&b, "Last action: %s.\n", state.LastAction)
	}
	if len(memories) > 0 {
		b.WriteString("Recent memories, newest first:\n")
		for _, m := range memories {
			fmt.Fprintf(&b, "- [%s/%d] %s\n", m.Type, m.Importance, m.Content)
		}
	} else {
		b.WriteString("No recent memories.\n")
	}
	b.WriteString("Choose the agent's next action.")
	return b.String()
}

func buildDreamPrompt(memories []sim.Memory) string {
	var b strings.Builder
	b.WriteString("Synthesize a short dream narrative that consolidates these memories:\n")
	for _, m := range memories {
		fmt.Fprintf(&b, "- [%s/%d] %s\n", m.Type, m.Importance, m.Content)
	}
	b.WriteString("Write the dream as two or three sentences of first-person narrative.")
	return b.String()
}

func buildInsightPrompt(narrative string) string {
	return "Extract structured insights from this dream. Respond with JSON: " +
		`{"insights": "...", "suggested_mood": "..."}.` + "\n\nDream:\n" + narrative
}
