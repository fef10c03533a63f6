package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"agentarium/internal/adapter/events/hub"
	wsevents "agentarium/internal/adapter/events/ws"
	httpadapter "agentarium/internal/adapter/http"
	metricsinmem "agentarium/internal/adapter/metrics/inmemory"
	"agentarium/internal/adapter/oracle/openai"
	gormrepo "agentarium/internal/adapter/repo/gorm"
	memrepo "agentarium/internal/adapter/repo/memory"
	"agentarium/internal/app/behavior"
	"agentarium/internal/app/clock"
	"agentarium/internal/app/journal"
	"agentarium/internal/app/ledger"
	"agentarium/internal/app/ports"
	"agentarium/internal/config"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		log.Fatalf("load tuning: %v", err)
	}

	states, allocations, transactions, memories, clockState, txManager := buildRepos(cfg)

	eventHub := hub.New()
	kpi := metricsinmem.NewRecorder()

	ledgerSvc := &ledger.Service{
		Allocations:  allocations,
		Transactions: transactions,
		TxManager:    txManager,
		Defaults: ledger.Defaults{
			EnergyPoints:     tuning.InitialEnergyPoints,
			AttentionCredits: tuning.InitialAttentionCredits,
		},
	}
	journalSvc := &journal.Service{Memories: memories}

	engine := &behavior.Engine{
		States:  states,
		Journal: journalSvc,
		Ledger:  ledgerSvc,
		Oracle:  buildOracle(cfg),
		Events:  eventHub,
		Metrics: kpi,
		Log:     slog.Default().With("component", "behavior"),
	}

	worldClock := &clock.Clock{
		Engine:            engine,
		Ledger:            ledgerSvc,
		Journal:           journalSvc,
		States:            states,
		ClockState:        clockState,
		Events:            eventHub,
		Log:               slog.Default().With("component", "clock"),
		Interval:          time.Duration(tuning.TickIntervalMs) * time.Millisecond,
		MaintenanceEvery:  tuning.MaintenanceEveryTicks,
		StatsWindowSize:   tuning.StatsWindow,
		RandomEventChance: tuning.RandomEventChance,
		MemoryRetention:   time.Duration(tuning.MemoryRetentionHours) * time.Hour,
	}
	worldClock.Start(context.Background())

	wsServer := wsevents.NewServer(eventHub, slog.Default().With("component", "ws"))
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", wsServer.Handler())
		slog.Info("event stream listening", "addr", cfg.WSAddr)
		if err := http.ListenAndServe(cfg.WSAddr, mux); err != nil {
			log.Fatalf("event stream server: %v", err)
		}
	}()

	h := httpadapter.Handler{
		Clock:   worldClock,
		Engine:  engine,
		Ledger:  ledgerSvc,
		Journal: journalSvc,
		States:  states,
		KPI:     kpiProvider{kpi},
	}
	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(s)

	slog.Info("agentarium listening", "addr", cfg.HTTPAddr)
	s.Spin()
}

type kpiProvider struct{ rec *metricsinmem.Recorder }

func (p kpiProvider) Snapshot() any { return p.rec.Snapshot() }

func buildRepos(cfg config.Config) (
	ports.AgentStateRepository,
	ports.AllocationRepository,
	ports.TransactionRepository,
	ports.MemoryRepository,
	ports.ClockStateRepository,
	ports.TxManager,
) {
	if cfg.DBDSN == "" {
		slog.Warn("AGENTARIUM_DB_DSN not set, running on the in-memory store")
		store := memrepo.NewStore()
		return memrepo.NewAgentStateRepo(store),
			memrepo.NewAllocationRepo(store),
			memrepo.NewTransactionRepo(store),
			memrepo.NewMemoryRepo(store),
			memrepo.NewClockStateRepo(store),
			memrepo.TxManager{}
	}

	db, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if err := gormrepo.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	return gormrepo.NewAgentStateRepo(db),
		gormrepo.NewAllocationRepo(db),
		gormrepo.NewTransactionRepo(db),
		gormrepo.NewMemoryRepo(db),
		gormrepo.NewClockStateRepo(db),
		gormrepo.NewTxManager(db)
}

func buildOracle(cfg config.Config) ports.Oracle {
	if cfg.OracleAPIKey == "" && cfg.OracleAPIBase == "" {
		log.Fatal("oracle not configured: set AGENTARIUM_ORACLE_API_BASE")
	}
	return openai.NewClient(cfg.OracleAPIKey, cfg.OracleAPIBase, cfg.OracleModel, cfg.OracleFallbackModel)
}
