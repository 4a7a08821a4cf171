package gamedata

import (
	"errors"
	"math/rand"
	"sort"
)

// ErrNoSpawnWeight is returned when no enemy kind can ever be spawned.
var ErrNoSpawnWeight = errors.New("enemy spawn weights sum to zero")

// EnemyRegistry looks up enemy kinds by ID and picks them by spawn weight.
type EnemyRegistry struct {
	defs       []EnemyDef
	cumulative []int // Running weight total up to and including each def
	byID       map[string]int
}

// NewEnemyRegistry indexes the given definitions. Negative weights count as zero.
func NewEnemyRegistry(defs []EnemyDef) *EnemyRegistry {
	r := &EnemyRegistry{
		defs:       defs,
		cumulative: make([]int, len(defs)),
		byID:       make(map[string]int, len(defs)),
	}
	total := 0
	for i, d := range defs {
		total += max(d.SpawnWeight, 0)
		r.cumulative[i] = total
		r.byID[d.ID] = i
	}
	return r
}

// LoadEnemyRegistry builds a registry from the embedded actors.json.
func LoadEnemyRegistry() (*EnemyRegistry, error) {
	file, err := LoadActors()
	if err != nil {
		return nil, err
	}
	r := NewEnemyRegistry(file.Enemies)
	if r.TotalWeight() <= 0 {
		return nil, ErrNoSpawnWeight
	}
	return r, nil
}

// TotalWeight is the sum of all spawn weights.
func (r *EnemyRegistry) TotalWeight() int {
	if len(r.cumulative) == 0 {
		return 0
	}
	return r.cumulative[len(r.cumulative)-1]
}

// SpawnRandom picks a kind with probability proportional to its weight.
// It returns nil when nothing can spawn.
func (r *EnemyRegistry) SpawnRandom(rng *rand.Rand) *EnemyDef {
	total := r.TotalWeight()
	if total <= 0 {
		return nil
	}
	roll := rng.Intn(total)
	// First def whose running total passes the roll. Zero-weight defs never win.
	i := sort.SearchInts(r.cumulative, roll+1)
	return &r.defs[i]
}

// Lookup returns the kind with the given ID, or nil.
func (r *EnemyRegistry) Lookup(id string) *EnemyDef {
	i, ok := r.byID[id]
	if !ok {
		return nil
	}
	return &r.defs[i]
}

// Len returns the number of enemy kinds.
func (r *EnemyRegistry) Len() int {
	return len(r.defs)
}
