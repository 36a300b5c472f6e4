package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible season run. Two runs with
// the same SimulationKey and identical configuration MUST produce identical
// schedules, scores, and event counts.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Names ===

const (
	// SubsystemSchedule seeds schedule generation.
	SubsystemSchedule = "schedule"
)

// SubsystemGame returns the RNG subsystem driving game play for one game.
func SubsystemGame(gameID string) string {
	return "game/" + gameID
}

// SubsystemRoster returns the RNG subsystem for roster generation of one game.
func SubsystemRoster(gameID string) string {
	return "roster/" + gameID
}

// SubsystemOperation returns the RNG subsystem for one stadium operation.
func SubsystemOperation(gameID string, op OperationType) string {
	return fmt.Sprintf("op/%s/%s", gameID, op)
}

// Rand returns a freshly seeded RNG for the named subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName). Every call
// returns a new *rand.Rand, so the caller's goroutine owns it exclusively;
// two goroutines deriving the same subsystem independently see the same
// sequence, which keeps per-game randomness isolated and reproducible no
// matter how the scheduler interleaves sessions.
func (k SimulationKey) Rand(subsystem string) *rand.Rand {
	return rand.New(rand.NewSource(int64(k) ^ fnv1a64(subsystem)))
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
