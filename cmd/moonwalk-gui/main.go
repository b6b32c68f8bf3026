// moonwalk-gui runs MoonWalk in a desktop window.
//
// Controls: Space/Up/click to jump, Left/Right or A/D to lean, Esc to quit.
// Scores are kept in the per-user gdata directory unless --store says otherwise.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/moonwalk/internal/audio"
	"github.com/vovakirdan/moonwalk/internal/config"
	"github.com/vovakirdan/moonwalk/internal/platform/gui"
	"github.com/vovakirdan/moonwalk/internal/storage"
)

var (
	flagSeed     int64
	flagConfig   string
	flagStore    string
	flagDBPath   string
	flagRedisURL string
)

func main() {
	// A missing .env is normal; the environment may already be set.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "moonwalk-gui",
	Short: "MoonWalk in a desktop window",
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	f := rootCmd.Flags()
	f.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	f.StringVar(&flagConfig, "config", os.Getenv("MOONWALK_CONFIG"), "Path to custom tuning YAML")
	f.StringVar(&flagStore, "store", storage.KindGdata, "Score backend: gdata, sqlite, memory, redis")
	f.StringVar(&flagDBPath, "db", "~/.moonwalk/scores.db", "Path to scores database for --store sqlite")
	f.StringVar(&flagRedisURL, "redis-url", os.Getenv("MOONWALK_REDIS_URL"), "Redis URL for --store redis")
}

func run(_ *cobra.Command, _ []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "moonwalk-gui",
	})

	cfg, err := config.Load(flagConfig)
	if err != nil {
		logger.Warn("using default tuning", "err", err)
		cfg = config.DefaultMoonWalkConfig()
	}

	store, err := storage.OpenBackend(storage.Options{
		Kind:     flagStore,
		Path:     flagDBPath,
		AppName:  storage.DefaultAppName,
		RedisURL: flagRedisURL,
	})
	if err != nil {
		logger.Warn("scores will not be kept", "store", flagStore, "err", err)
		store = nil
	} else {
		defer store.Close()
	}

	player := audio.Open(cfg.Audio, logger)
	if c, ok := player.(interface{ Close() }); ok {
		defer c.Close()
	}

	g := gui.New(gui.Options{
		Config: cfg,
		Seed:   flagSeed,
		Store:  store,
		Audio:  player,
		Logger: logger,
	})
	return gui.Run(g, "MoonWalk")
}
