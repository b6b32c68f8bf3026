// moonwalk is a one-button endless runner for the terminal.
//
// Usage:
//
//	moonwalk                 - Start the menu
//	moonwalk play            - Play right away
//	moonwalk scores          - Print the best runs
//	moonwalk scoreboard      - Browse the run history
//	moonwalk serve           - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.moonwalk/scores.db)
//	--store <kind>      - Score backend: sqlite, memory, gdata, redis
//	--redis-url <url>   - Redis URL for --store redis
//	--config <path>     - Custom tuning YAML
//	--log <path>        - Log file (default: ~/.moonwalk/moonwalk.log)
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagStore    string
	flagRedisURL string
	flagConfig   string
	flagLogPath  string
)

func main() {
	// A missing .env is normal; the environment may already be set.
	_ = godotenv.Load()

	initFlags()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "moonwalk",
	Short: "MoonWalk - a one-button runner on the moon",
	Long: `MoonWalk is an endless runner for the terminal. Jump over the rocks,
lean left and right, and stay on screen as long as you can.

Available commands:
  play        - Start a run directly
  scores      - Print the best runs
  scoreboard  - Browse the run history
  serve       - Start SSH server for remote play

Environment:
  MOONWALK_FPS, MOONWALK_SEED, MOONWALK_DB, MOONWALK_STORE,
  MOONWALK_REDIS_URL, MOONWALK_CONFIG and MOONWALK_LOG set flag defaults.
  A .env file in the working directory is loaded first.

Examples:
  moonwalk
  moonwalk play --controller :8090
  moonwalk scores --store redis --redis-url redis://localhost:6379/0
  moonwalk serve --ssh :2222`,
	Run: runMenu,
}

func initFlags() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", envInt("MOONWALK_FPS", 60), "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", int64(envInt("MOONWALK_SEED", 0)), "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", envString("MOONWALK_DB", "~/.moonwalk/scores.db"), "Path to scores database")
	pf.StringVar(&flagStore, "store", envString("MOONWALK_STORE", "sqlite"), "Score backend: sqlite, memory, gdata, redis")
	pf.StringVar(&flagRedisURL, "redis-url", envString("MOONWALK_REDIS_URL", ""), "Redis URL for --store redis")
	pf.StringVar(&flagConfig, "config", envString("MOONWALK_CONFIG", ""), "Path to custom tuning YAML")
	pf.StringVar(&flagLogPath, "log", envString("MOONWALK_LOG", "~/.moonwalk/moonwalk.log"), "Log file path")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(scoreboardCmd)
	rootCmd.AddCommand(serveCmd)
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
