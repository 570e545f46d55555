// Package bibcache persists fetched bibliographic records between runs.
//
// Two stores implement the resolver's cache port: a per-user global store
// backed by SQLite and a per-project local store of xz-compressed files.
// Tiered combines them with local-tier read precedence.
//
// SQLite build modes follow the driver split:
//   - Default (CGO_ENABLED=0): pure Go modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): mattn/go-sqlite3
package bibcache

import (
	"database/sql"
	"time"

	"github.com/stddoc/stddoc/core/errors"
	"github.com/stddoc/stddoc/internal/refs"
)

// DriverName returns the SQL driver name in use.
func DriverName() string { return driverName }

// DriverType returns "purego" or "cgo" depending on the build.
func DriverType() string { return driverType }

// DriverPackage names the Go package providing the driver.
func DriverPackage() string { return driverPackage }

const globalSchema = `
CREATE TABLE IF NOT EXISTS bib_records (
	key     TEXT PRIMARY KEY,
	fetched TEXT NOT NULL,
	record  BLOB NOT NULL
);
`

// GlobalStore is the per-user cache shared across projects, one row per
// normalized citation string.
type GlobalStore struct {
	db   *sql.DB
	path string
}

// OpenGlobal opens (creating if needed) the global store at path.
func OpenGlobal(path string) (*GlobalStore, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	// The store is accessed from a single resolver; keep the pool at one
	// connection so modernc's writer locking stays simple.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(globalSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initialize bibliographic cache schema")
	}
	return &GlobalStore{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *GlobalStore) Path() string { return s.path }

// Close releases the database handle.
func (s *GlobalStore) Close() error { return s.db.Close() }

// Load returns the cached record for key, or (nil, nil) on a miss.
func (s *GlobalStore) Load(key string) (*refs.CachedRecord, error) {
	var fetched string
	var data []byte
	row := s.db.QueryRow(`SELECT fetched, record FROM bib_records WHERE key = ?`, key)
	if err := row.Scan(&fetched, &data); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read cache row %s", key)
	}
	t, err := time.Parse(time.RFC3339, fetched)
	if err != nil {
		return nil, errors.NewParse("cache timestamp", fetched, err.Error())
	}
	return &refs.CachedRecord{Fetched: t, Data: data}, nil
}

// Save upserts the record for key.
func (s *GlobalStore) Save(key string, rec *refs.CachedRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO bib_records (key, fetched, record) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET fetched = excluded.fetched, record = excluded.record`,
		key, rec.Fetched.UTC().Format(time.RFC3339), rec.Data)
	return errors.Wrapf(err, "write cache row %s", key)
}

// Purge deletes every cached record and returns how many were removed.
func (s *GlobalStore) Purge() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM bib_records`)
	if err != nil {
		return 0, errors.Wrap(err, "purge bibliographic cache")
	}
	return res.RowsAffected()
}

// Count returns the number of cached records.
func (s *GlobalStore) Count() (int64, error) {
	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM bib_records`).Scan(&n)
	return n, errors.Wrap(err, "count cached records")
}
