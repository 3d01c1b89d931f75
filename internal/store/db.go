// Package store is the sqlite persistence layer: conversation history,
// excluded terms, and the music schema the generated SQL runs against.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// DB wraps the sqlite handle shared by the stores and the raw executor.
type DB struct {
	conn *sql.DB
	log  *zap.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	user_id TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS conversation_turns (
	session_id TEXT NOT NULL,
	ordinal INTEGER NOT NULL,
	role TEXT NOT NULL,
	text TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (session_id, ordinal)
);

CREATE TABLE IF NOT EXISTS excluded_terms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id TEXT NOT NULL,
	term TEXT NOT NULL,
	category TEXT NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME
);

CREATE TABLE IF NOT EXISTS artists (
	artist_id INTEGER PRIMARY KEY,
	name VARCHAR(255) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS tracks (
	track_id INTEGER PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	artist_id INT NOT NULL,
	duration_ms INT NOT NULL,
	popularity INT CHECK (popularity >= 0 AND popularity <= 100),
	release_date DATE,
	explicit BIT DEFAULT 0,
	FOREIGN KEY (artist_id) REFERENCES artists(artist_id)
);

CREATE TABLE IF NOT EXISTS audio_features (
	feature_id INTEGER PRIMARY KEY,
	track_id INT NOT NULL,
	danceability FLOAT,
	energy FLOAT,
	loudness FLOAT,
	speechiness FLOAT,
	acousticness FLOAT,
	instrumentalness FLOAT,
	liveness FLOAT,
	valence FLOAT,
	tempo FLOAT,
	time_signature INT,
	FOREIGN KEY (track_id) REFERENCES tracks(track_id)
);
`

// Open connects to the sqlite database at dbPath and creates the schema.
func Open(dbPath string, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &DB{conn: conn, log: log}, nil
}

// Close releases the underlying connection.
func (d *DB) Close() error {
	return d.conn.Close()
}
