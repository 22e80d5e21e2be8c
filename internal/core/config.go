package core

// DefaultTickRate is the platform tick rate when none is configured.
const DefaultTickRate = 30

// RuntimeConfig is what the platform hands a game on Reset.
type RuntimeConfig struct {
	ScreenW  int
	ScreenH  int
	TickRate int   // ticks per second
	Seed     int64 // 0 seeds from the clock
}

// DefaultRuntimeConfig fits a classic 80x24 terminal.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: DefaultTickRate,
	}
}

// GameState is the status a game reports to the platform after each step.
type GameState struct {
	Score     int
	BestScore int // seeded by the platform
	Moves     int
	GameOver  bool
	Paused    bool
}

// StepResult is returned by Game.Step.
type StepResult struct {
	State GameState
	Moved bool // the board changed this tick
}
