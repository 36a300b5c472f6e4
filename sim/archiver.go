package sim

import "context"

// Archiver is the persistence collaborator boundary. The engine calls it at
// completion boundaries only (session, coordinator), never on the hot path.
// Implementations must be safe for concurrent use: sessions from different
// workers flush independently.
type Archiver interface {
	// SaveEvents durably stores events drained from a session-local log.
	SaveEvents(ctx context.Context, events []Event) error
	// SaveGame durably stores one finished game result.
	SaveGame(ctx context.Context, result GameResult) error
	// SaveReport durably stores the final simulation report.
	SaveReport(ctx context.Context, report SimulationReport) error
}

// NopArchiver discards everything. Used when no database is configured.
type NopArchiver struct{}

func (NopArchiver) SaveEvents(context.Context, []Event) error          { return nil }
func (NopArchiver) SaveGame(context.Context, GameResult) error         { return nil }
func (NopArchiver) SaveReport(context.Context, SimulationReport) error { return nil }
