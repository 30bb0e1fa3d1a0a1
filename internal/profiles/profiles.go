// Package profiles persists resolved save locations so a title only has
// to be resolved once. A remembered choice short-circuits the engine on
// the next lookup unless the user asks for a fresh resolution.
package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Matteo842/SaveState/internal/core"
)

// Store is the profile database with separate read/write pools.
type Store struct {
	write *sql.DB
	read  *sql.DB
	path  string
}

// Open opens (and if needed creates) the profile database at dbPath.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	connStr := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)

	// Write pool: MUST be 1 connection only
	write, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open write connection: %w", err)
	}
	write.SetMaxOpenConns(1)
	write.SetMaxIdleConns(1)
	write.SetConnMaxIdleTime(time.Minute)
	write.SetConnMaxLifetime(time.Hour)

	read, err := sql.Open("sqlite", connStr)
	if err != nil {
		write.Close()
		return nil, fmt.Errorf("open read connection: %w", err)
	}
	read.SetMaxOpenConns(10)
	read.SetMaxIdleConns(5)
	read.SetConnMaxIdleTime(time.Minute)
	read.SetConnMaxLifetime(time.Hour)

	s := &Store{
		write: write,
		read:  read,
		path:  dbPath,
	}

	if err := s.initSchema(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// Close closes both database connections.
func (s *Store) Close() error {
	writeErr := s.write.Close()
	readErr := s.read.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS profiles (
    profile_key TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    platform TEXT NOT NULL DEFAULT '',
    emulator TEXT NOT NULL DEFAULT '',
    steam_appid TEXT NOT NULL DEFAULT '',
    save_path TEXT NOT NULL,
    source TEXT NOT NULL,
    score REAL NOT NULL,
    resolved_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    evidence TEXT
);

CREATE INDEX IF NOT EXISTS idx_profiles_title ON profiles(title);
CREATE INDEX IF NOT EXISTS idx_profiles_platform ON profiles(platform);

CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    description TEXT
);
	`

	_, err := s.write.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// Profile is one remembered title-to-path decision.
type Profile struct {
	Key        string
	Title      string
	Platform   core.Platform
	Emulator   string
	SteamAppID string
	SavePath   string
	Source     core.Source
	Score      float64
	ResolvedAt time.Time
	Evidence   []string
}

// Key derives the primary key a query's remembered choice is stored
// under. Same normalized title on different platforms means different
// profiles.
func Key(q core.Query) string {
	return q.NormalizedTitle + "|" + string(q.Platform)
}

// Remember stores or replaces the remembered choice for a query.
func (s *Store) Remember(ctx context.Context, q core.Query, c core.Candidate) error {
	evidenceJSON, err := json.Marshal(c.Evidence)
	if err != nil {
		return fmt.Errorf("marshal evidence: %w", err)
	}

	query := `
INSERT INTO profiles (profile_key, title, platform, emulator, steam_appid, save_path, source, score, resolved_at, evidence)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(profile_key) DO UPDATE SET
    title = excluded.title,
    emulator = excluded.emulator,
    steam_appid = excluded.steam_appid,
    save_path = excluded.save_path,
    source = excluded.source,
    score = excluded.score,
    resolved_at = excluded.resolved_at,
    evidence = excluded.evidence
	`

	_, err = s.write.ExecContext(ctx, query,
		Key(q),
		q.Title,
		string(q.Platform),
		q.Emulator,
		q.SteamAppID,
		c.Path,
		string(c.Source),
		c.AdjustedScore,
		time.Now().UTC(),
		string(evidenceJSON),
	)

	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}

// Lookup retrieves the remembered choice for a query. The second return
// is false when no choice is stored.
func (s *Store) Lookup(ctx context.Context, q core.Query) (*Profile, bool, error) {
	query := `
SELECT profile_key, title, platform, emulator, steam_appid, save_path, source, score, resolved_at, evidence
FROM profiles WHERE profile_key = ?
	`

	p, err := scanProfile(s.read.QueryRowContext(ctx, query, Key(q)))
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query profile: %w", err)
	}

	return p, true, nil
}

// List retrieves every remembered choice, most recent first.
func (s *Store) List(ctx context.Context) ([]Profile, error) {
	query := `
SELECT profile_key, title, platform, emulator, steam_appid, save_path, source, score, resolved_at, evidence
FROM profiles ORDER BY resolved_at DESC
	`

	rows, err := s.read.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return profiles, nil
}

// Forget removes the remembered choice for a title.
func (s *Store) Forget(ctx context.Context, q core.Query) error {
	result, err := s.write.ExecContext(ctx, "DELETE FROM profiles WHERE profile_key = ?", Key(q))
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("no remembered location for %q", q.Title)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	var p Profile
	var platform, source, evidenceJSON string

	err := row.Scan(
		&p.Key,
		&p.Title,
		&platform,
		&p.Emulator,
		&p.SteamAppID,
		&p.SavePath,
		&source,
		&p.Score,
		&p.ResolvedAt,
		&evidenceJSON,
	)
	if err != nil {
		return nil, err
	}

	p.Platform = core.Platform(platform)
	p.Source = core.Source(source)
	if evidenceJSON != "" {
		if err := json.Unmarshal([]byte(evidenceJSON), &p.Evidence); err != nil {
			return nil, fmt.Errorf("unmarshal evidence: %w", err)
		}
	}

	return &p, nil
}
