// Package store provides the SQLite-backed persistence collaborator for the
// simulation engine. It implements sim.Archiver and a handful of report
// queries; the engine only calls it at completion boundaries.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	_ "modernc.org/sqlite"

	"github.com/hoopsim/hoopsim/sim"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_id TEXT NOT NULL,
	ts INTEGER NOT NULL,
	category TEXT NOT NULL,
	detail TEXT,
	payload TEXT
);

CREATE INDEX IF NOT EXISTS events_source_ts ON events (source_id, ts);

CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	conference TEXT,
	home TEXT,
	away TEXT,
	home_score INTEGER,
	away_score INTEGER,
	winner TEXT,
	arena TEXT,
	game_date TEXT,
	overtimes INTEGER,
	event_count INTEGER,
	failed INTEGER NOT NULL DEFAULT 0,
	failure_reason TEXT
);

CREATE TABLE IF NOT EXISTS player_stats (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT REFERENCES games(id),
	player_name TEXT,
	team TEXT,
	points INTEGER,
	two_pt INTEGER,
	three_pt INTEGER,
	free_throws INTEGER,
	rebounds INTEGER,
	assists INTEGER,
	steals INTEGER,
	blocks INTEGER,
	turnovers INTEGER
);

CREATE TABLE IF NOT EXISTS stadium_ops (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT REFERENCES games(id),
	arena TEXT,
	operation_type TEXT,
	processed_count INTEGER,
	revenue REAL,
	forced INTEGER NOT NULL DEFAULT 0,
	details TEXT
);

CREATE TABLE IF NOT EXISTS conferences (
	id TEXT PRIMARY KEY,
	games_played INTEGER,
	games_failed INTEGER,
	total_points INTEGER,
	total_events INTEGER,
	operation_revenue REAL,
	failed INTEGER NOT NULL DEFAULT 0,
	failure_reason TEXT
);

CREATE TABLE IF NOT EXISTS playoff_series (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	round TEXT,
	series_name TEXT,
	team_a TEXT,
	team_b TEXT,
	wins_a INTEGER,
	wins_b INTEGER,
	winner TEXT
);
`

// Store persists simulation output in SQLite. Safe for concurrent use;
// database/sql serializes access to the single writer connection.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema. WAL mode keeps concurrent session flushes from blocking each
// other on reads.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store path is required")
	}
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveEvents stores a drained batch of events in one transaction.
func (s *Store) SaveEvents(ctx context.Context, events []sim.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin events tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (source_id, ts, category, detail, payload) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare events insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, ev := range events {
		payload, err := json.Marshal(ev.Payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			ev.SourceID, ev.Timestamp.UnixNano(), string(ev.Category), ev.Detail, string(payload)); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return tx.Commit()
}

// SaveGame stores one finished game with its player lines and stadium
// operation summaries.
func (s *Store) SaveGame(ctx context.Context, result sim.GameResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin game tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO games
		 (id, conference, home, away, home_score, away_score, winner, arena, game_date, overtimes, event_count, failed, failure_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.GameID, result.Conference, result.Home, result.Away,
		result.HomeScore, result.AwayScore, result.Winner, result.Arena,
		result.Date.Format("2006-01-02"), result.Overtimes, result.EventCount,
		boolToInt(result.Failed), result.FailureReason); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}

	for _, p := range result.Players {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO player_stats
			 (game_id, player_name, team, points, two_pt, three_pt, free_throws, rebounds, assists, steals, blocks, turnovers)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			result.GameID, p.Name, p.Team, p.Points, p.TwoPt, p.ThreePt,
			p.FreeThrows, p.Rebounds, p.Assists, p.Steals, p.Blocks, p.Turnovers); err != nil {
			return fmt.Errorf("insert player stats: %w", err)
		}
	}

	for _, op := range result.Operations {
		details, err := json.Marshal(op.Breakdown)
		if err != nil {
			return fmt.Errorf("marshal operation breakdown: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO stadium_ops (game_id, arena, operation_type, processed_count, revenue, forced, details)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			result.GameID, result.Arena, string(op.Type), op.Processed, op.Revenue,
			boolToInt(op.Forced), string(details)); err != nil {
			return fmt.Errorf("insert stadium op: %w", err)
		}
	}
	return tx.Commit()
}

// SaveReport stores per-conference aggregates of the finished report.
// Individual games were already saved at their session boundaries.
func (s *Store) SaveReport(ctx context.Context, report sim.SimulationReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin report tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, conf := range report.Conferences {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO conferences
			 (id, games_played, games_failed, total_points, total_events, operation_revenue, failed, failure_reason)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			conf.ConferenceID, conf.Stats.GamesPlayed, conf.Stats.GamesFailed,
			conf.Stats.TotalPoints, conf.Stats.TotalEvents, conf.Stats.OperationRevenue,
			boolToInt(conf.Failed), conf.FailureReason); err != nil {
			return fmt.Errorf("insert conference: %w", err)
		}
	}
	return tx.Commit()
}

// SavePlayoffs stores every playoff series record.
func (s *Store) SavePlayoffs(ctx context.Context, result sim.PlayoffResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin playoffs tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, series := range result.Series {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO playoff_series (round, series_name, team_a, team_b, wins_a, wins_b, winner)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			series.Round, series.Name, series.TeamA, series.TeamB,
			series.WinsA, series.WinsB, series.Winner); err != nil {
			return fmt.Errorf("insert playoff series: %w", err)
		}
	}
	return tx.Commit()
}

// TeamPoints is one row of the top-scoring-teams query.
type TeamPoints struct {
	Team   string
	Points int64
}

// TopScoringTeams returns the n teams with the most combined points scored
// at home and away.
func (s *Store) TopScoringTeams(ctx context.Context, n int) ([]TeamPoints, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT team, SUM(points) AS points FROM (
			SELECT home AS team, home_score AS points FROM games WHERE failed = 0
			UNION ALL
			SELECT away AS team, away_score AS points FROM games WHERE failed = 0
		) GROUP BY team ORDER BY points DESC, team ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query top teams: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []TeamPoints
	for rows.Next() {
		var tp TeamPoints
		if err := rows.Scan(&tp.Team, &tp.Points); err != nil {
			return nil, fmt.Errorf("scan top teams: %w", err)
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

// PlayerPoints is one row of the top-scorers query.
type PlayerPoints struct {
	Player string
	Team   string
	Points int64
}

// TopScorers returns the n players with the most total points across all
// saved games.
func (s *Store) TopScorers(ctx context.Context, n int) ([]PlayerPoints, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_name, MAX(team), SUM(points) AS total
		FROM player_stats GROUP BY player_name
		ORDER BY total DESC, player_name ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query top scorers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []PlayerPoints
	for rows.Next() {
		var pp PlayerPoints
		if err := rows.Scan(&pp.Player, &pp.Team, &pp.Points); err != nil {
			return nil, fmt.Errorf("scan top scorers: %w", err)
		}
		out = append(out, pp)
	}
	return out, rows.Err()
}

// OperationAverages returns the average processed count per operation type.
func (s *Store) OperationAverages(ctx context.Context) (map[sim.OperationType]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT operation_type, AVG(processed_count) FROM stadium_ops GROUP BY operation_type`)
	if err != nil {
		return nil, fmt.Errorf("query operation averages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[sim.OperationType]float64)
	for rows.Next() {
		var op string
		var avg float64
		if err := rows.Scan(&op, &avg); err != nil {
			return nil, fmt.Errorf("scan operation averages: %w", err)
		}
		out[sim.OperationType(op)] = avg
	}
	return out, rows.Err()
}

// EventCount returns the number of stored events for a source.
func (s *Store) EventCount(ctx context.Context, sourceID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE source_id = ?`, sourceID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
