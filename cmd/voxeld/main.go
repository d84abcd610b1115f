package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxel-core/internal/api"
	"github.com/annel0/voxel-core/internal/config"
	"github.com/annel0/voxel-core/internal/eventbus"
	"github.com/annel0/voxel-core/internal/logging"
	"github.com/annel0/voxel-core/internal/metrics"
	"github.com/annel0/voxel-core/internal/observability"
	"github.com/annel0/voxel-core/internal/sim"
	"github.com/annel0/voxel-core/internal/world"
	"github.com/annel0/voxel-core/internal/world/block"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (или VOXEL_CONFIG)")
	frames := flag.Int("frames", 0, "количество кадров, 0 - до сигнала")
	tick := flag.Duration("tick", 50*time.Millisecond, "интервал кадра")
	players := flag.Int("players", 2, "количество скриптовых игроков")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := logging.InitDefaultLogger("voxeld", level, cfg.Logging.Dir); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	logging.GetLoggerManager().Configure(cfg.Logging.Dir, level)
	defer logging.GetLoggerManager().CloseAll()

	runID := uuid.NewString()
	logging.Info("🧱 Запуск voxel-core (run=%s, generator=%s, seed=%d)", runID, cfg.World.Generator, cfg.World.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName, runID)
		if err != nil {
			logging.Warn("OpenTelemetry недоступен: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logging.Error("Ошибка остановки OpenTelemetry: %v", err)
				}
			}()
		}
	}

	bus := eventbus.NewMemoryBus(1024)
	defer bus.Close()
	if _, err := eventbus.StartLoggingListener(bus, nil); err != nil {
		logging.Warn("LoggingListener не запущен: %v", err)
	}

	engine, registry, err := buildEngine(cfg, bus)
	if err != nil {
		logging.Error("❌ %v", err)
		return
	}

	server, err := api.NewRestServer(api.Config{
		Port:     fmt.Sprintf(":%d", cfg.Server.GetRESTPort()),
		Source:   engine,
		RunID:    runID,
		Registry: registry,
	})
	if err != nil {
		logging.Error("❌ Ошибка создания отладочного API: %v", err)
		return
	}
	server.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Stop(stopCtx); err != nil {
			logging.Error("❌ %v", err)
		}
	}()

	run(ctx, engine, newScript(*players), *tick, *frames)
	logging.Info("👋 voxel-core остановлен")
}

func buildEngine(cfg *config.Config, bus eventbus.EventBus) (*sim.Engine, *prometheus.Registry, error) {
	var gen world.Generator
	switch cfg.World.Generator {
	case config.GeneratorPerlin:
		gen = world.NewPerlinGenerator(cfg.World.Seed)
	default:
		id, err := cfg.World.FillBlockID()
		if err != nil {
			return nil, nil, err
		}
		gen = world.FlatGenerator{Block: id}
	}

	atlas := block.DefaultAtlas()
	if cfg.World.Atlas != "" {
		loaded, err := block.LoadAtlas(cfg.World.Atlas)
		if err != nil {
			return nil, nil, fmt.Errorf("загрузка атласа: %w", err)
		}
		atlas = loaded
	}

	var (
		registry     *prometheus.Registry
		worldMetrics *metrics.WorldMetrics
	)
	if cfg.Server.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		worldMetrics = metrics.NewWorldMetrics(registry)
		if bus != nil {
			registry.MustRegister(eventbus.NewStatsCollector(bus))
		}
	}

	engine := sim.NewEngine(world.NewWorld(gen), sim.Options{
		Lifecycle: world.Lifecycle{
			GenerateRadius: cfg.World.GenerateRadius,
			EvictRadius:    cfg.World.EvictRadius,
		},
		RemeshBudget:     cfg.World.RemeshBudget,
		InteractionRange: cfg.World.InteractionRange,
		Atlas:            atlas,
		Metrics:          worldMetrics,
		Events:           bus,
	})
	return engine, registry, nil
}

func run(ctx context.Context, engine *sim.Engine, s *script, tick time.Duration, frames int) {
	simLog := logging.GetSimLogger()
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	last := time.Now()
	for n := 0; frames == 0 || n < frames; n++ {
		select {
		case <-ctx.Done():
			simLog.Info("📡 Получен сигнал завершения")
			return
		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now

			res := engine.Frame(ctx, s.Step(dt))
			if res.Edits > 0 {
				simLog.Debug("кадр %d: правок %d", res.Frame, res.Edits)
			}
			if res.Frame%100 == 0 {
				snap := engine.Snapshot()
				simLog.Info("кадр %d: чанков %d, ожидают сетки %d, вершин %d",
					snap.Frame, snap.LoadedChunks, snap.DirtyChunks, snap.TotalVertices)
			}
		}
	}
}
