package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"chosenoffset.com/gloam/internal/config"
	"chosenoffset.com/gloam/internal/discovery"
	"chosenoffset.com/gloam/internal/game"
	ebitenrender "chosenoffset.com/gloam/internal/render/ebiten"
	"chosenoffset.com/gloam/internal/telemetry"
	"chosenoffset.com/gloam/internal/world/pattern"
	"chosenoffset.com/gloam/internal/world/scene"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (embedded defaults if empty)")
	outputDir := flag.String("output", "", "Directory for telemetry CSV output (disabled if empty)")
	patternsPath := flag.String("patterns", "patterns.json", "Path to the obstacle pattern file")
	seed := flag.Uint("seed", 0, "World seed for the rubble fields (0 = canonical layout)")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.Cfg()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Obstacle pattern repository with file persistence
	repo := pattern.New(pattern.NewFileStore(*patternsPath))
	if err := repo.Load(); err != nil {
		log.Printf("Warning: Failed to load patterns: %v, starting empty", err)
	}
	if _, ok := repo.Default("pillar"); !ok {
		repo.SetDefault("pillar", []scene.Blocker{
			scene.NewBlocker(20, 12, 24, 40, 9, 4),
		}, time.Now().Unix())
	}
	repo.StartAutosave(ctx, 500*time.Millisecond)

	// Background discovery worker
	eng := discovery.NewEngine(cfg.Lighting.AmbientLight, cfg.Lighting.BlockerOpacity,
		cfg.Discovery.Workers, cfg.Derived.Debounce)
	eng.Start(ctx)

	// Telemetry output
	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		log.Fatalf("Failed to initialize output directory: %v", err)
	}
	if output != nil {
		if err := output.WriteConfig(cfg); err != nil {
			log.Printf("Warning: Failed to write config snapshot: %v", err)
		}
		slog.Info("telemetry enabled", "dir", output.Dir())
	}
	defer output.Close()

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	loader := ebitenrender.NewResourceLoader()
	engine := ebitenrender.NewEngine()

	g := game.NewGame(renderer, inputMgr, loader, repo, eng, output)
	g.SetSeed(uint32(*seed))
	defer g.Close()

	engine.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	engine.SetWindowTitle("Gloam")
	engine.SetWindowResizable(true)
	engine.SetTicksPerSecond(cfg.Screen.TargetFPS)

	log.Println("Starting demo...")
	if err := engine.RunGame(g); err != nil {
		log.Fatal(err)
	}

	// Stop the workers and flush edits made this session
	cancel()
	if err := repo.Flush(); err != nil {
		log.Printf("Warning: Failed to flush patterns: %v", err)
	}
}
