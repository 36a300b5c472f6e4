// Package sim provides the concurrent NBA season simulation engine for hoopsim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: timestamped simulation events and their categories
//   - eventlog.go / scoreboard.go: the two shared mutable resources and their locking
//   - game.go: quarter-by-quarter game play (possessions, scoring, overtime)
//   - session.go: one game plus its stadium operations, joined with a grace period
//
// # Architecture
//
// Two tiers of parallelism drive a season:
//   - SimulationCoordinator fans conferences out to isolated execution units
//     that share no mutable state and report back over channels.
//   - Inside a unit, ConferenceRunner executes games on a bounded worker pool;
//     each GameSession runs one GameSimulator goroutine plus one goroutine per
//     StadiumOperation, all writing to a session-local EventLog and Scoreboard.
//
// The only cancellation signal is "game over": the simulator closes a channel
// that stadium operations poll between transactions.
//
// Persistence and reporting are collaborators behind the Archiver interface
// (sim/store) and the sim/report package; the engine hands them immutable
// result values at completion boundaries only.
package sim
