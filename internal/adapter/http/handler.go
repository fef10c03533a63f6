package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"agentarium/internal/app/behavior"
	"agentarium/internal/app/clock"
	"agentarium/internal/app/journal"
	"agentarium/internal/app/ledger"
	"agentarium/internal/app/ports"
	"agentarium/internal/domain/sim"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

var ErrInvalidRequest = errors.New("invalid request")

// Handler is the ops/registration surface of the simulation. Dashboards
// and operators talk to it; agents themselves are driven by the clock.
type Handler struct {
	Clock   *clock.Clock
	Engine  *behavior.Engine
	Ledger  *ledger.Service
	Journal *journal.Service
	States  ports.AgentStateRepository
	KPI     kpiSnapshotProvider
}

type kpiSnapshotProvider interface {
	Snapshot() any
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	agents := s.Group("/api/agents")
	agents.POST("", h.registerAgent)
	agents.DELETE("/:id", h.unregisterAgent)
	agents.GET("/:id", h.agentState)
	agents.GET("/:id/summary", h.agentSummary)
	agents.GET("/:id/transactions", h.agentTransactions)
	agents.POST("/:id/directives", h.queueDirective)

	simGroup := s.Group("/api/sim")
	simGroup.GET("/stats", h.simStats)
	simGroup.PUT("/interval", h.setInterval)
	simGroup.POST("/start", h.start)
	simGroup.POST("/stop", h.stop)

	s.GET("/ops/kpi", h.kpi)
}

type registerAgentRequest struct {
	AgentID string `json:"agent_id"`
	Name    string `json:"name,omitempty"`
}

type directiveRequest struct {
	Type      string `json:"type"`
	Target    string `json:"target,omitempty"`
	Content   string `json:"content,omitempty"`
	Energy    float64 `json:"energy,omitempty"`
	Sentiment *int   `json:"sentiment,omitempty"`
	Trust     *int   `json:"trust,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type intervalRequest struct {
	IntervalMs int64 `json:"interval_ms"`
}

func (h Handler) registerAgent(c context.Context, ctx *app.RequestContext) {
	var body registerAgentRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	body.AgentID = strings.TrimSpace(body.AgentID)
	if body.AgentID == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "agent_id is required")
		return
	}
	if err := h.Clock.RegisterAgent(c, body.AgentID, body.Name); err != nil {
		writeError(ctx, err)
		return
	}
	state, err := h.States.GetByAgentID(c, body.AgentID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, state)
}

func (h Handler) unregisterAgent(c context.Context, ctx *app.RequestContext) {
	agentID := string(ctx.Param("id"))
	if err := h.Clock.UnregisterAgent(c, agentID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"agent_id": agentID, "status": string(sim.StatusOffline)})
}

func (h Handler) agentState(c context.Context, ctx *app.RequestContext) {
	state, err := h.States.GetByAgentID(c, string(ctx.Param("id")))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, state)
}

func (h Handler) agentSummary(c context.Context, ctx *app.RequestContext) {
	agentID := string(ctx.Param("id"))
	if _, err := h.States.GetByAgentID(c, agentID); err != nil {
		writeError(ctx, err)
		return
	}
	summary, err := h.Journal.Summarize(c, agentID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]string{"agent_id": agentID, "summary": summary})
}

func (h Handler) agentTransactions(c context.Context, ctx *app.RequestContext) {
	agentID := string(ctx.Param("id"))
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	if limit <= 0 {
		limit = 50
	}
	txs, err := h.Ledger.History(c, agentID, limit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"agent_id": agentID, "transactions": txs})
}

func (h Handler) queueDirective(c context.Context, ctx *app.RequestContext) {
	agentID := string(ctx.Param("id"))
	if _, err := h.States.GetByAgentID(c, agentID); err != nil {
		writeError(ctx, err)
		return
	}

	var body directiveRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	actionType := sim.ActionType(strings.TrimSpace(body.Type))
	if !isSupportedActionType(actionType) {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "unsupported action type")
		return
	}
	err := h.Engine.QueueDirective(agentID, sim.Action{
		Type:      actionType,
		Target:    body.Target,
		Content:   body.Content,
		Energy:    body.Energy,
		Sentiment: body.Sentiment,
		Trust:     body.Trust,
		Notes:     body.Notes,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusAccepted, map[string]string{"agent_id": agentID, "queued": body.Type})
}

func (h Handler) simStats(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{
		"running":    h.Clock.Running(),
		"tick_count": h.Clock.TickCount(),
		"window":     h.Clock.Stats(),
	})
}

func (h Handler) setInterval(c context.Context, ctx *app.RequestContext) {
	var body intervalRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if body.IntervalMs <= 0 {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "interval_ms must be positive")
		return
	}
	h.Clock.SetInterval(c, time.Duration(body.IntervalMs)*time.Millisecond)
	ctx.JSON(consts.StatusOK, map[string]any{"interval_ms": body.IntervalMs})
}

func (h Handler) start(c context.Context, ctx *app.RequestContext) {
	h.Clock.Start(c)
	ctx.JSON(consts.StatusOK, map[string]any{"running": true})
}

func (h Handler) stop(_ context.Context, ctx *app.RequestContext) {
	h.Clock.Stop()
	ctx.JSON(consts.StatusOK, map[string]any{"running": false})
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.Snapshot())
}

func isSupportedActionType(t sim.ActionType) bool {
	switch t {
	case sim.ActionSpeak, sim.ActionThink, sim.ActionMove, sim.ActionInteract, sim.ActionCreate, sim.ActionDream:
		return true
	}
	return false
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound), errors.Is(err, behavior.ErrUnknownAgent):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, behavior.ErrDirectiveQueueFull):
		writeErrorBody(ctx, consts.StatusTooManyRequests, "directive_queue_full", err.Error())
	case errors.Is(err, behavior.ErrMissingTarget),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ports.ErrUnsupportedResource),
		errors.Is(err, ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
