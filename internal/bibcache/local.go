package bibcache

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/stddoc/stddoc/core/errors"
	"github.com/stddoc/stddoc/core/ident"
	"github.com/stddoc/stddoc/internal/refs"
)

// localEntry is the on-disk JSON shape inside each xz file.
type localEntry struct {
	Key     string          `json:"key"`
	Fetched time.Time       `json:"fetched"`
	Record  json.RawMessage `json:"record"`
}

// LocalStore keeps per-project cache entries as xz-compressed JSON files
// under a directory, one file per citation, named by the citation's content
// key so arbitrary identifier strings stay filesystem-safe.
type LocalStore struct {
	dir string
}

// OpenLocal opens a local store rooted at dir, creating it if missing.
func OpenLocal(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewIO("create", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) file(key string) string {
	return filepath.Join(s.dir, ident.CacheKey(key)+".json.xz")
}

// Load returns the cached record for key, or (nil, nil) on a miss. A file
// that fails to decompress or decode is treated as a miss so a corrupt
// entry gets overwritten by the next fetch.
func (s *LocalStore) Load(key string) (*refs.CachedRecord, error) {
	path := s.file(key)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	zr, err := xz.NewReader(f)
	if err != nil {
		return nil, nil
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, nil
	}
	var e localEntry
	if err := json.Unmarshal(raw, &e); err != nil || e.Key != key {
		return nil, nil
	}
	return &refs.CachedRecord{Fetched: e.Fetched, Data: []byte(e.Record)}, nil
}

// Save writes the record for key. The file is written to a temporary name
// and renamed into place so concurrent readers never see a partial entry.
func (s *LocalStore) Save(key string, rec *refs.CachedRecord) error {
	raw, err := json.Marshal(localEntry{
		Key:     key,
		Fetched: rec.Fetched.UTC(),
		Record:  json.RawMessage(rec.Data),
	})
	if err != nil {
		return errors.Wrapf(err, "encode cache entry %s", key)
	}

	var buf bytes.Buffer
	zw, err := xz.NewWriter(&buf)
	if err != nil {
		return errors.Wrap(err, "create xz writer")
	}
	if _, err := zw.Write(raw); err != nil {
		return errors.Wrapf(err, "compress cache entry %s", key)
	}
	if err := zw.Close(); err != nil {
		return errors.Wrapf(err, "compress cache entry %s", key)
	}

	path := s.file(key)
	tmp, err := os.CreateTemp(s.dir, ".bib-*.tmp")
	if err != nil {
		return errors.NewIO("create", s.dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewIO("write", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewIO("close", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.NewIO("rename", path, err)
	}
	return nil
}

// Purge removes every cache file under the store directory and returns how
// many were deleted.
func (s *LocalStore) Purge() (int64, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json.xz"))
	if err != nil {
		return 0, errors.NewIO("scan", s.dir, err)
	}
	var n int64
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return n, errors.NewIO("remove", m, err)
		}
		n++
	}
	return n, nil
}

// Count returns the number of cached entries.
func (s *LocalStore) Count() (int64, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json.xz"))
	if err != nil {
		return 0, errors.NewIO("scan", s.dir, err)
	}
	return int64(len(matches)), nil
}
