package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/moonwalk/internal/platform/tui"
)

// runMenu is the root command: title screen, then a run or the scoreboard,
// then back to the title screen.
func runMenu(_ *cobra.Command, _ []string) {
	s, closeSession := openSession()
	defer closeSession()

	cfg := runtimeConfig()

	// Menu loop
	for {
		choice, updatedCfg, err := tui.RunMenu(s.store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		// Update config with any size changes
		cfg = updatedCfg

		switch choice {
		case tui.MenuChoiceScores:
			goBack, sbErr := tui.RunScoreboard(s.store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if !goBack {
				return // User quit from scoreboard
			}

		case tui.MenuChoicePlay:
			// Fresh seed for each run unless one was pinned
			if flagSeed == 0 {
				cfg.Seed = time.Now().UnixNano()
			}
			backToMenu, playErr := s.play(cfg, "")
			if playErr != nil {
				fmt.Fprintf(os.Stderr, "Error running game: %v\n", playErr)
				return
			}
			if !backToMenu {
				return
			}

		default:
			return
		}
	}
}
