package behavior

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"agentarium/internal/app/journal"
	"agentarium/internal/app/ledger"
	"agentarium/internal/app/ports"
	"agentarium/internal/domain/sim"
)

var (
	ErrUnknownAgent       = errors.New("agent not initialized")
	ErrMissingTarget      = errors.New("interact requires a target")
	ErrDirectiveQueueFull = errors.New("directive queue full")
)

const (
	starvationThreshold = 10
	lowEnergyThreshold  = 40
	dreamChance         = 0.2
	dreamEnergyRestore  = 20
	recentMemoryWindow  = 24 * time.Hour
	recentMemoryLimit   = 10
	dreamMemoryLimit    = 20
	directiveQueueCap   = 16
)

// Engine runs one decision-execution step per agent. Decisions come from an
// externally queued directive when one is waiting, otherwise from the
// oracle; oracle trouble degrades to a default think, never a dead tick.
type Engine struct {
	States  ports.AgentStateRepository
	Journal *journal.Service
	Ledger  *ledger.Service
	Oracle  ports.Oracle
	Events  ports.EventPublisher
	Metrics ports.StepMetrics
	Log     *slog.Logger
	Now     func() time.Time
	Rand    func() float64

	mu         sync.Mutex
	directives map[string][]sim.Action
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) rand() float64 {
	if e.Rand != nil {
		return e.Rand()
	}
	return rand.Float64()
}

func (e *Engine) log() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return slog.Default()
}

func (e *Engine) publish(name string, payload map[string]any) {
	if e.Events == nil {
		return
	}
	e.Events.Publish(ports.Event{Name: name, At: e.now(), Payload: payload})
}

// Initialize seeds a fresh agent: full energy, idle, with its ledger row
// and an initialization memory. Idempotent per agent.
func (e *Engine) Initialize(ctx context.Context, agentID, name string) (sim.AgentState, error) {
	state, err := e.States.GetByAgentID(ctx, agentID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return sim.AgentState{}, err
	}

	if name == "" {
		name = agentID
	}
	state = sim.AgentState{
		AgentID:   agentID,
		Name:      name,
		Energy:    100,
		Attention: 50,
		Mood:      "neutral",
		Location:  "commons",
		Status:    sim.StatusIdle,
		UpdatedAt: e.now(),
	}
	if err := e.States.SaveWithVersion(ctx, state, 0); err != nil {
		return sim.AgentState{}, fmt.Errorf("seed agent %s: %w", agentID, err)
	}
	if _, err := e.Ledger.Initialize(ctx, agentID); err != nil {
		return sim.AgentState{}, err
	}
	_, err = e.Journal.Store(ctx, agentID, sim.Memory{
		Type:       sim.MemoryEvent,
		Content:    fmt.Sprintf("agent %s joined the simulation", name),
		Importance: 8,
		Tags:       []string{"initialization"},
	})
	if err != nil {
		return sim.AgentState{}, err
	}
	state.Version = 1
	return state, nil
}

// QueueDirective enqueues an externally supplied action; directives
// pre-empt the oracle on the agent's next step.
func (e *Engine) QueueDirective(agentID string, a sim.Action) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.directives == nil {
		e.directives = map[string][]sim.Action{}
	}
	if len(e.directives[agentID]) >= directiveQueueCap {
		return ErrDirectiveQueueFull
	}
	if a.Energy <= 0 {
		a.Energy = defaultCosts[a.Type]
	}
	e.directives[agentID] = append(e.directives[agentID], a)
	return nil
}

func (e *Engine) dequeueDirective(agentID string) (sim.Action, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	q := e.directives[agentID]
	if len(q) == 0 {
		return sim.Action{}, false
	}
	a := q[0]
	e.directives[agentID] = q[1:]
	return a, true
}

// Step runs one behavior-loop iteration for the agent and returns the
// action taken. A starved agent (energy < 10) goes idle without acting.
func (e *Engine) Step(ctx context.Context, agentID string) (sim.Action, error) {
	state, err := e.States.GetByAgentID(ctx, agentID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return sim.Action{}, fmt.Errorf("step %s: %w", agentID, ErrUnknownAgent)
		}
		return sim.Action{}, err
	}

	if state.Energy < starvationThreshold {
		if state.Status != sim.StatusIdle {
			state.Status = sim.StatusIdle
			state.UpdatedAt = e.now()
			if err := e.States.SaveWithVersion(ctx, state, state.Version); err != nil {
				return sim.Action{}, err
			}
		}
		if e.Metrics != nil {
			e.Metrics.RecordStarved()
		}
		return sim.Action{}, nil
	}

	recent, err := e.Journal.Query(ctx, agentID, ports.MemoryQuery{
		Limit: recentMemoryLimit,
		Since: e.now().Add(-recentMemoryWindow),
	})
	if err != nil {
		return sim.Action{}, err
	}

	action, queued := e.dequeueDirective(agentID)
	if !queued {
		action = e.decide(ctx, state, recent)
	}

	if action.Type == sim.ActionInteract && action.Target == "" {
		if e.Metrics != nil {
			e.Metrics.RecordStepError()
		}
		return sim.Action{}, fmt.Errorf("step %s: %w", agentID, ErrMissingTarget)
	}

	if action.Type == sim.ActionDream {
		return action, e.Dream(ctx, agentID)
	}

	if action.Energy > 0 {
		ok, err := e.Ledger.Consume(ctx, agentID, action.Energy, "action:"+string(action.Type))
		if err != nil {
			return sim.Action{}, err
		}
		if !ok {
			state.Status = sim.StatusIdle
			state.UpdatedAt = e.now()
			if err := e.States.SaveWithVersion(ctx, state, state.Version); err != nil {
				return sim.Action{}, err
			}
			if e.Metrics != nil {
				e.Metrics.RecordStarved()
			}
			return sim.Action{}, nil
		}
	}

	if err := e.execute(ctx, &state, action); err != nil {
		return sim.Action{}, err
	}

	alloc, err := e.Ledger.Get(ctx, agentID)
	if err != nil {
		return sim.Action{}, err
	}
	state.Energy = int(alloc.EnergyPoints)
	state.Attention = int(alloc.AttentionCredits)
	state.Status = sim.StatusActive
	state.MarkAction(string(action.Type), e.now())
	state.UpdatedAt = e.now()
	if err := e.States.SaveWithVersion(ctx, state, state.Version); err != nil {
		return sim.Action{}, err
	}
	if e.Metrics != nil {
		e.Metrics.RecordStep(action.Type)
	}

	if state.Energy < lowEnergyThreshold && e.rand() < dreamChance {
		if err := e.Dream(ctx, agentID); err != nil {
			e.log().Warn("dream failed", "agent", agentID, "err", err)
		}
	}
	return action, nil
}

func (e *Engine) decide(ctx context.Context, state sim.AgentState, recent []sim.Memory) sim.Action {
	raw, err := e.Oracle.Generate(ctx, buildDecisionPrompt(state, recent), ports.GenerateOptions{
		Temperature:  0.7,
		MaxTokens:    300,
		SystemPrompt: decisionSystemPrompt,
	})
	if err != nil {
		e.log().Warn("oracle decision failed", "agent", state.AgentID, "err", err)
		if e.Metrics != nil {
			e.Metrics.RecordOracleFailure()
		}
		return FallbackAction()
	}
	action, err := ParseDecision(raw)
	if err != nil {
		e.log().Warn("oracle decision unusable", "agent", state.AgentID, "err", err)
		if e.Metrics != nil {
			e.Metrics.RecordOracleFailure()
		}
		return FallbackAction()
	}
	return action
}

func (e *Engine) execute(ctx context.Context, state *sim.AgentState, action sim.Action) error {
	switch action.Type {
	case sim.ActionSpeak:
		e.publish(ports.EventAgentSpeak, map[string]any{
			"agent_id": state.AgentID,
			"content":  action.Content,
			"target":   action.Target,
		})
		_, err := e.Journal.Store(ctx, state.AgentID, sim.Memory{
			Type:       sim.MemoryConversation,
			Content:    action.Content,
			Importance: 5,
			Tags:       []string{"speech"},
		})
		return err

	case sim.ActionThink:
		_, err := e.Journal.Store(ctx, state.AgentID, sim.Memory{
			Type:       sim.MemoryReflection,
			Content:    action.Content,
			Importance: 4,
			Tags:       []string{"thought"},
		})
		return err

	case sim.ActionMove:
		if action.Target != "" {
			state.Location = action.Target
		}
		_, err := e.Journal.Store(ctx, state.AgentID, sim.Memory{
			Type:       sim.MemoryEvent,
			Content:    fmt.Sprintf("moved to %s", state.Location),
			Importance: 3,
			Tags:       []string{"movement"},
		})
		return err

	case sim.ActionInteract:
		e.publish(ports.EventAgentInteract, map[string]any{
			"agent_id": state.AgentID,
			"target":   action.Target,
			"content":  action.Content,
		})
		patch := sim.RelationshipPatch{
			Sentiment: action.Sentiment,
			Trust:     action.Trust,
			Notes:     action.Notes,
		}
		if _, err := e.Journal.UpsertRelationship(ctx, state.AgentID, action.Target, patch); err != nil {
			return err
		}
		_, err := e.Journal.Store(ctx, state.AgentID, sim.Memory{
			Type:       sim.MemoryConversation,
			Content:    fmt.Sprintf("interacted with %s: %s", action.Target, action.Content),
			Importance: 5,
			Tags:       []string{"interaction", action.Target},
		})
		return err

	case sim.ActionCreate:
		// Reserved for future action types.
		return nil
	}
	return nil
}

// Dream runs the consolidation pass: synthesize a narrative from important
// memories, extract insights from it, restore energy, and return to idle.
// The two oracle phases fail independently; a failed insight phase never
// discards an already stored dream.
func (e *Engine) Dream(ctx context.Context, agentID string) error {
	state, err := e.States.GetByAgentID(ctx, agentID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return fmt.Errorf("dream %s: %w", agentID, ErrUnknownAgent)
		}
		return err
	}

	state.Status = sim.StatusDreaming
	state.UpdatedAt = e.now()
	if err := e.States.SaveWithVersion(ctx, state, state.Version); err != nil {
		return err
	}
	state.Version++

	important, err := e.Journal.Query(ctx, agentID, ports.MemoryQuery{
		Limit:         dreamMemoryLimit,
		MinImportance: 5,
	})
	if err != nil {
		return err
	}

	mood := ""
	if len(important) > 0 {
		narrative, genErr := e.Oracle.Generate(ctx, buildDreamPrompt(important), ports.GenerateOptions{
			Temperature: 0.9,
			MaxTokens:   400,
		})
		if genErr != nil {
			e.log().Warn("dream narrative failed", "agent", agentID, "err", genErr)
			if e.Metrics != nil {
				e.Metrics.RecordOracleFailure()
			}
		} else {
			if _, err := e.Journal.Store(ctx, agentID, sim.Memory{
				Type:          sim.MemoryReflection,
				Content:       narrative,
				EmotionalTone: "subconscious",
				Importance:    7,
				Tags:          []string{"dream"},
			}); err != nil {
				return err
			}

			rawInsight, genErr := e.Oracle.Generate(ctx, buildInsightPrompt(narrative), ports.GenerateOptions{
				Temperature: 0.3,
				MaxTokens:   200,
			})
			if genErr != nil {
				e.log().Warn("dream insight failed", "agent", agentID, "err", genErr)
				if e.Metrics != nil {
					e.Metrics.RecordOracleFailure()
				}
			} else {
				in := parseInsight(rawInsight)
				if in.Insights != "" {
					if _, err := e.Journal.Store(ctx, agentID, sim.Memory{
						Type:          sim.MemoryReflection,
						Content:       in.Insights,
						EmotionalTone: "insight",
						Importance:    8,
						Tags:          []string{"dream", "insight"},
					}); err != nil {
						return err
					}
				}
				mood = in.SuggestedMood
			}
		}
	}

	alloc, err := e.Ledger.Get(ctx, agentID)
	if err != nil {
		return err
	}
	restored := alloc.EnergyPoints + dreamEnergyRestore
	if restored > 100 {
		restored = 100
	}
	if _, err := e.Ledger.Update(ctx, agentID, sim.AllocationPatch{EnergyPoints: &restored}); err != nil {
		return err
	}

	state.Energy = int(restored)
	if mood != "" {
		state.Mood = mood
	}
	state.Status = sim.StatusIdle
	state.UpdatedAt = e.now()
	if err := e.States.SaveWithVersion(ctx, state, state.Version); err != nil {
		return err
	}

	if e.Metrics != nil {
		e.Metrics.RecordDream()
	}
	e.publish(ports.EventAgentDream, map[string]any{
		"agent_id": agentID,
		"mood":     state.Mood,
		"energy":   state.Energy,
	})
	return nil
}
