package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/framewright/engine/internal/app"
	"github.com/framewright/engine/internal/component"
	"github.com/framewright/engine/internal/config"
	"github.com/framewright/engine/internal/core/ecs"
	"github.com/framewright/engine/internal/core/event"
	coresys "github.com/framewright/engine/internal/core/system"
	"github.com/framewright/engine/internal/data"
	"github.com/framewright/engine/internal/persist"
	"github.com/framewright/engine/internal/scripting"
	"github.com/framewright/engine/internal/system"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	profileMode := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	flag.Parse()

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "":
	default:
		fmt.Fprintf(os.Stderr, "unknown -profile mode %q (want cpu or mem)\n", *profileMode)
		os.Exit(2)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(scene string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            framewright  v0.1.0            \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mscene:\033[0m %s\n\n", scene)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Runtime ───────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Snapshot.Scene)

	// 3. Entity manager and component types
	printSection("entities")
	state := app.NewState(cfg.Engine.StartRunning)
	bus := event.NewBus()
	mgr := ecs.NewManager(ecs.Options{
		MaxEntities: cfg.Engine.MaxEntities,
		RunState:    state,
		Bus:         bus,
		Log:         log.Named("ecs"),
	})
	if _, err := component.Register(mgr); err != nil {
		return fmt.Errorf("components: %w", err)
	}
	printStat("capacity", mgr.Capacity())

	// 4. Lua behaviours
	if cfg.Scripting.Enabled {
		engine, err := scripting.NewEngine(cfg.Scripting.ScriptsDir, mgr, log.Named("lua"))
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		if _, err := scripting.Register(mgr, engine); err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		printStat("behaviours", len(engine.Modules()))
	}
	printStat("component types", mgr.Types().Len())

	// 5. Prefabs
	prefabs, err := data.LoadPrefabTable(cfg.Engine.PrefabPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("prefabs: %w", err)
		}
		log.Warn("no prefab table", zap.String("path", cfg.Engine.PrefabPath))
		prefabs, _ = data.ParsePrefabs(nil)
	}
	printStat("prefabs", prefabs.Count())
	for _, name := range cfg.Engine.Spawn {
		if _, err := prefabs.Spawn(mgr, name); err != nil {
			return fmt.Errorf("spawn: %w", err)
		}
	}
	printStat("spawned", mgr.Len())
	fmt.Println()

	// 6. Optional PostgreSQL snapshots
	runner := coresys.NewRunner()
	runner.Register(system.NewEventSystem(bus))
	runner.Register(system.NewEntitySystem(mgr))
	runner.Register(system.NewTransformSystem(mgr))

	var snapshots *system.SnapshotSystem
	if cfg.Database.Enabled {
		printSection("database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.Connect(ctx, cfg.Database, log.Named("db"))
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		version, err := db.Migrate(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		printOK(fmt.Sprintf("PostgreSQL connected, schema version %d", version))
		snapshots = system.NewSnapshotSystem(mgr, persist.NewSnapshotRepo(db), cfg.Snapshot.Scene, log.Named("snapshot"), cfg.Snapshot.AutosaveTicks)
		runner.Register(snapshots)
		fmt.Println()
	}

	// 7. Frame loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	toggleCh := make(chan os.Signal, 1)
	signal.Notify(toggleCh, syscall.SIGUSR1)

	ticker := time.NewTicker(cfg.Engine.TickRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("frame loop started (tick: %s, running: %t)", cfg.Engine.TickRate, state.IsRunning()))
	fmt.Println()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			runner.Tick(now.Sub(last))
			last = now
		case <-toggleCh:
			log.Info("run state toggled", zap.Bool("running", state.Toggle()))
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			if snapshots != nil {
				snapshots.SaveAll()
			}
			mgr.Shutdown()
			log.Info("engine stopped", zap.Duration("uptime", cfg.Engine.Uptime(time.Now())))
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
