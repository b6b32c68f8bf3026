package core

// RuntimeConfig contains configuration passed to the game at initialization.
// The platform fills it from the terminal or window size and CLI flags.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in cells (TUI) or pixels (GUI)
	ScreenH  int   // Screen height in cells (TUI) or pixels (GUI)
	TickRate int   // Frames per second requested from the platform (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by State() to communicate status to the platform.
type GameState struct {
	Score     int  // Current score
	HighScore int  // Best score loaded from the high score store
	Resets    int  // Number of game-over resets since the game was created
	Overlay   bool // Whether the game-over overlay is visible
}

// StepResult is returned by Step() after each simulation tick.
type StepResult struct {
	State GameState
	// GameOver is true when this tick ended a run and reset the world.
	GameOver bool
	// FinalScore is the score of the run that ended this tick.
	FinalScore int
}
