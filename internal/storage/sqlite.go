// Package storage provides SQLite-based persistence for experiment history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for session history.
type Store struct {
	db *sql.DB
}

// Session is one run of the task by one player.
type Session struct {
	ID        string
	Player    string
	BoardSize int
	Remote    string // SSH user/address, empty for local runs
	StartedAt time.Time
	EndedAt   time.Time // Zero while the session is open
}

// GameRecord is the result of one game within a session.
type GameRecord struct {
	ID        int64
	SessionID string
	Game      int
	Score     int
	Ticks     int
	Outcome   string // HIT_WALL, HIT_SELF or the abort reason
	Aborted   bool
	CreatedAt time.Time
}

// EventRecord is one inbound event as the controller saw it.
type EventRecord struct {
	SessionID string
	Seq       uint64
	Source    string
	Kind      string
	Payload   string // JSON
	ArrivedAt time.Time
}

// ScoreEntry is a finished game joined with its session's player.
type ScoreEntry struct {
	SessionID string
	Player    string
	Score     int
	Ticks     int
	CreatedAt time.Time
}

// PlayerStats contains aggregated statistics for a player kind.
type PlayerStats struct {
	Player     string
	Sessions   int
	Games      int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// Sessions served over SSH share one Store. SQLite allows a single
	// writer, so writes queue on the one connection instead of failing busy.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			board_size INTEGER NOT NULL,
			remote TEXT NOT NULL DEFAULT '',
			started_at INTEGER NOT NULL,
			ended_at INTEGER
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_player ON sessions(player);

		CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id),
			game INTEGER NOT NULL,
			score INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			aborted INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_games_session ON games(session_id);
		CREATE INDEX IF NOT EXISTS idx_games_top ON games(score DESC);

		CREATE TABLE IF NOT EXISTS events (
			session_id TEXT NOT NULL REFERENCES sessions(id),
			seq INTEGER NOT NULL,
			source TEXT NOT NULL,
			kind TEXT NOT NULL,
			payload TEXT NOT NULL DEFAULT '{}',
			arrived_at INTEGER NOT NULL,
			PRIMARY KEY (session_id, seq)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StartSession records a new open session.
func (s *Store) StartSession(sess Session) error {
	_, err := s.db.Exec(
		"INSERT INTO sessions (id, player, board_size, remote, started_at) VALUES (?, ?, ?, ?, ?)",
		sess.ID, sess.Player, sess.BoardSize, sess.Remote, sess.StartedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot start session: %w", err)
	}
	return nil
}

// EndSession marks a session as finished.
func (s *Store) EndSession(id string, at time.Time) error {
	_, err := s.db.Exec("UPDATE sessions SET ended_at = ? WHERE id = ?", at.UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("storage: cannot end session: %w", err)
	}
	return nil
}

// SaveGame records a finished or aborted game.
// Returns the ID of the inserted record.
func (s *Store) SaveGame(g GameRecord) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO games (session_id, game, score, ticks, outcome, aborted) VALUES (?, ?, ?, ?, ?, ?)",
		g.SessionID, g.Game, g.Score, g.Ticks, g.Outcome, g.Aborted,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save game: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// AppendEvents writes a batch of event records in one transaction.
func (s *Store) AppendEvents(records []EventRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(
		"INSERT INTO events (session_id, seq, source, kind, payload, arrived_at) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("storage: cannot prepare event insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.SessionID, int64(r.Seq), r.Source, r.Kind, r.Payload, r.ArrivedAt.UnixMilli()); err != nil {
			tx.Rollback()
			return fmt.Errorf("storage: cannot append event %d: %w", r.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit events: %w", err)
	}
	return nil
}

// SessionEvents returns the recorded events of a session in arrival order.
func (s *Store) SessionEvents(sessionID string) ([]EventRecord, error) {
	rows, err := s.db.Query(
		`SELECT session_id, seq, source, kind, payload, arrived_at
		 FROM events
		 WHERE session_id = ?
		 ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query events: %w", err)
	}
	defer rows.Close()

	var records []EventRecord
	for rows.Next() {
		var r EventRecord
		var seq, arrived int64
		if err := rows.Scan(&r.SessionID, &seq, &r.Source, &r.Kind, &r.Payload, &arrived); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Seq = uint64(seq)
		r.ArrivedAt = time.UnixMilli(arrived)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// SessionGames returns the games of a session in play order.
func (s *Store) SessionGames(sessionID string) ([]GameRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, game, score, ticks, outcome, aborted, created_at
		 FROM games
		 WHERE session_id = ?
		 ORDER BY game`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		var createdAt any
		if err := rows.Scan(&g.ID, &g.SessionID, &g.Game, &g.Score, &g.Ticks, &g.Outcome, &g.Aborted, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		g.CreatedAt = parseTime(createdAt)
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return games, nil
}

// TopScores retrieves the top N completed games, optionally for one player kind.
// Results are ordered by score descending.
func (s *Store) TopScores(player string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT g.session_id, s.player, g.score, g.ticks, g.created_at
		 FROM games g JOIN sessions s ON s.id = g.session_id
		 WHERE g.aborted = 0 AND (? = '' OR s.player = ?)
		 ORDER BY g.score DESC, g.id
		 LIMIT ?`,
		player, player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.SessionID, &e.Player, &e.Score, &e.Ticks, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// RecentSessions retrieves the most recently started sessions.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, player, board_size, remote, started_at, ended_at
		 FROM sessions
		 ORDER BY started_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var started int64
		var ended sql.NullInt64
		if err := rows.Scan(&sess.ID, &sess.Player, &sess.BoardSize, &sess.Remote, &started, &ended); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sess.StartedAt = time.UnixMilli(started)
		if ended.Valid {
			sess.EndedAt = time.UnixMilli(ended.Int64)
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return sessions, nil
}

// PlayerStats retrieves aggregated statistics for completed games of a player kind.
func (s *Store) PlayerStats(player string) (*PlayerStats, error) {
	stats := &PlayerStats{Player: player}

	err := s.db.QueryRow(
		`SELECT COUNT(DISTINCT s.id), COUNT(g.id), COALESCE(MAX(g.score), 0), COALESCE(AVG(g.score), 0)
		 FROM sessions s LEFT JOIN games g ON g.session_id = s.id AND g.aborted = 0
		 WHERE s.player = ?`,
		player,
	).Scan(&stats.Sessions, &stats.Games, &stats.HighScore, &stats.AvgScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player stats: %w", err)
	}

	var last sql.NullInt64
	err = s.db.QueryRow(
		"SELECT MAX(started_at) FROM sessions WHERE player = ?",
		player,
	).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if last.Valid {
		stats.LastPlayed = time.UnixMilli(last.Int64)
	}

	return stats, nil
}

// parseTime handles the DATETIME column coming back as time.Time or string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
