package t2048

import (
	"fmt"
	"math/rand"
)

// DefaultSpawn4Probability is the chance that a spawned tile is a 4.
const DefaultSpawn4Probability = 0.2

// Spawner places new tiles on random empty cells.
type Spawner struct {
	rng        *rand.Rand
	spawn4Prob float64
}

// NewSpawner creates a spawner drawing from rng. Probabilities outside
// [0, 1] fall back to DefaultSpawn4Probability.
func NewSpawner(rng *rand.Rand, spawn4Prob float64) *Spawner {
	if spawn4Prob < 0 || spawn4Prob > 1 {
		spawn4Prob = DefaultSpawn4Probability
	}
	return &Spawner{rng: rng, spawn4Prob: spawn4Prob}
}

// Spawn4Probability returns the configured chance of a 4.
func (s *Spawner) Spawn4Probability() float64 {
	return s.spawn4Prob
}

// Value draws a new tile value: 4 with the configured probability, else 2.
func (s *Spawner) Value() int {
	if s.rng.Float64() < s.spawn4Prob {
		return 4
	}
	return 2
}

// Spawn places a tile on a uniformly chosen empty cell.
func (s *Spawner) Spawn(b *Board) (Tile, error) {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return Tile{}, ErrSpawnFailure
	}

	p := empty[s.rng.Intn(len(empty))]
	v := s.Value()
	if err := b.PlaceTile(p.X, p.Y, v); err != nil {
		return Tile{}, fmt.Errorf("%w: %v", ErrSpawnFailure, err)
	}
	return Tile{Value: v, Pos: p}, nil
}
