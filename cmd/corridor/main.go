package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Versifine/corridor/internal/body"
	"github.com/Versifine/corridor/internal/config"
	"github.com/Versifine/corridor/internal/debug"
	"github.com/Versifine/corridor/internal/event"
	"github.com/Versifine/corridor/internal/logger"
	"github.com/Versifine/corridor/internal/netsync"
	"github.com/Versifine/corridor/internal/physics"
	"github.com/Versifine/corridor/internal/sim"
	"github.com/Versifine/corridor/internal/world"
)

// fixedCamera faces -Z forever. Used when no console owns the camera.
type fixedCamera struct{}

func (fixedCamera) Orientation() (physics.Quat, bool) {
	return physics.QuatFromYaw(0), true
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		slog.Error("Failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	format := cfg.Logging.Format
	if format == "" {
		format = "console"
	}
	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: format,
		File:   cfg.Logging.File,
	})
	defer logger.Close()

	if err := run(cfg); err != nil {
		slog.Error("corridor exited with error", "error", err)
		_ = logger.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := world.DefaultLevel()
	if cfg.Level.Path != "" {
		loaded, err := world.LoadLevel(cfg.Level.Path)
		if err != nil {
			return err
		}
		level = loaded
	}
	slog.Info("Level loaded", "name", level.Name, "pillars", len(level.Pillars), "spawns", len(level.Spawns))

	roster := world.NewRoster()
	bus := event.NewBus()
	bus.Subscribe(event.EventDeath, func(raw any) {
		if evt, ok := raw.(event.LivenessEvent); ok {
			slog.Debug("death event", "player", evt.PlayerID)
		}
	})

	opts := body.Options{
		Level:    level,
		Tuning:   cfg.Physics.Tuning(),
		Liveness: roster,
		Bus:      bus,
	}

	var client *netsync.Client
	if cfg.Server.URL != "" {
		client = netsync.NewClient(cfg.Server.URL, cfg.Server.Player, roster)
		if err := client.Connect(ctx); err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				slog.Warn("Failed to leave server cleanly", "error", err)
			}
		}()
		opts.Respawner = client
		opts.Reporter = client
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := client.Run(ctx); err != nil {
				slog.Error("Server connection lost", "error", err)
				stop()
			}
		}()
	} else {
		slog.Info("No server configured, running offline")
	}

	player := body.New(opts)

	if cfg.Level.Path != "" && cfg.Level.Watch {
		watcher, err := world.WatchLevel(cfg.Level.Path)
		if err != nil {
			return err
		}
		defer watcher.Close()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case lvl, ok := <-watcher.Levels:
					if !ok {
						return
					}
					player.StageLevel(lvl)
				case err, ok := <-watcher.Errors:
					if !ok {
						return
					}
					slog.Warn("Level reload failed", "error", err)
				}
			}
		}()
	}

	if !cfg.Sim.Console {
		player.AttachCamera(fixedCamera{})
		return sim.NewLoop(player, nil, cfg.Sim.TickHz).Run(ctx)
	}

	console := debug.NewConsole(player, roster)
	player.AttachCamera(console)
	loop := sim.NewLoop(player, console, cfg.Sim.TickHz)
	loop.OnTick(console.RenderStatus)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := loop.Run(ctx); err != nil {
			slog.Error("Sim loop stopped", "error", err)
		}
	}()

	err := console.Start(ctx)
	stop()
	return err
}
