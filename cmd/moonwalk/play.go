package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/moonwalk/internal/audio"
	"github.com/vovakirdan/moonwalk/internal/config"
	"github.com/vovakirdan/moonwalk/internal/controller"
	"github.com/vovakirdan/moonwalk/internal/core"
	"github.com/vovakirdan/moonwalk/internal/games/moonwalk"
	"github.com/vovakirdan/moonwalk/internal/platform/tui"
	"github.com/vovakirdan/moonwalk/internal/storage"
)

var flagController string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a run",
	Long: `Start playing right away.

Controls:
  Space/Up/W   - Jump (twice in the air)
  Left/A       - Lean left
  Right/D      - Lean right
  Ctrl+S       - Save a screenshot
  Esc/B        - Back
  Q/Ctrl+C     - Quit

With --controller, a phone on the same network can open the printed
address and steer by tilting; its JUMP button jumps.

Examples:
  moonwalk play
  moonwalk play --seed 42
  moonwalk play --controller :8090
  moonwalk play --config ./low-gravity.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagController, "controller", "", "Serve the phone tilt controller on this address (e.g. :8090)")
}

// session bundles what every run of one process shares.
type session struct {
	store  storage.Backend
	audio  moonwalk.AudioPlayer
	config config.MoonWalkConfig
	logger *log.Logger
}

func openSession() (*session, func()) {
	logger, logFile := openLogger(flagLogPath)
	cfg := loadConfig()

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores store: %v\n", err)
		logger.Warn("store unavailable", "kind", flagStore, "err", err)
		// Continue without storage - game still works
		store = nil
	}

	player := audio.Open(cfg.Audio, logger)

	s := &session{store: store, audio: player, config: cfg, logger: logger}
	return s, func() {
		if c, ok := player.(interface{ Close() }); ok {
			c.Close()
		}
		if store != nil {
			store.Close()
		}
		logFile.Close()
	}
}

func runPlay(_ *cobra.Command, _ []string) {
	s, closeSession := openSession()

	_, err := s.play(runtimeConfig(), flagController)
	closeSession()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

// play runs one game until the user leaves. It reports whether the user
// asked to go back to the menu.
func (s *session) play(cfg core.RuntimeConfig, controllerAddr string) (bool, error) {
	opts := tui.Options{
		Config:  s.config,
		Runtime: cfg,
		Store:   s.store,
		Audio:   s.audio,
		Tilt:    moonwalk.NewTiltFilter(),
		Logger:  s.logger,
	}
	if controllerAddr == "" {
		return tui.Run(tui.NewProgram(tui.NewModel(opts)))
	}

	opts.ExternalTilt = true
	opts.ControllerURL = "http://" + displayAddr(controllerAddr)
	p := tui.NewProgram(tui.NewModel(opts))
	ctrl := controller.New(opts.Tilt, func() { p.Send(tui.JumpMsg{}) }, s.logger)

	go func() {
		if err := ctrl.ListenAndServe(controllerAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("controller server", "addr", controllerAddr, "err", err)
		}
	}()
	s.logger.Info("phone controller", "url", opts.ControllerURL)

	backToMenu, err := tui.Run(p)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if shutdownErr := ctrl.Shutdown(ctx); shutdownErr != nil {
		s.logger.Warn("controller shutdown", "err", shutdownErr)
	}
	return backToMenu, err
}

// displayAddr turns a listen address into one a phone can open, using the
// first non-loopback IPv4 address when the host part is empty.
func displayAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || host != "" {
		return addr
	}
	ifaces, err := net.InterfaceAddrs()
	if err != nil {
		return net.JoinHostPort("localhost", port)
	}
	for _, a := range ifaces {
		ipNet, ok := a.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return net.JoinHostPort(ip4.String(), port)
		}
	}
	return net.JoinHostPort("localhost", port)
}
