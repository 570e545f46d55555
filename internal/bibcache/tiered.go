package bibcache

import (
	"os"
	"path/filepath"

	"github.com/stddoc/stddoc/core/errors"
	"github.com/stddoc/stddoc/internal/refs"
)

// Tiered layers the per-project local store over the per-user global store.
// Reads prefer the local tier so a project-pinned record wins even when the
// global tier holds a newer one; every fresh fetch is written to both.
type Tiered struct {
	Local  refs.Cache
	Global refs.Cache
}

var _ refs.Cache = (*Tiered)(nil)

// Load consults the local tier first and falls back to the global tier.
func (t *Tiered) Load(key string) (*refs.CachedRecord, error) {
	if t.Local != nil {
		rec, err := t.Local.Load(key)
		if err != nil || rec != nil {
			return rec, err
		}
	}
	if t.Global != nil {
		return t.Global.Load(key)
	}
	return nil, nil
}

// Save writes to both tiers. A local-tier failure stops before the global
// write so the two never diverge silently.
func (t *Tiered) Save(key string, rec *refs.CachedRecord) error {
	if t.Local != nil {
		if err := t.Local.Save(key, rec); err != nil {
			return err
		}
	}
	if t.Global != nil {
		return t.Global.Save(key, rec)
	}
	return nil
}

// DefaultGlobalPath returns the global store location under the user cache
// directory.
func DefaultGlobalPath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(err, "locate user cache directory")
	}
	return filepath.Join(base, "stddoc", "bib.db"), nil
}

// Open builds the standard two-tier cache: localDir for the project tier
// and globalPath for the shared tier. The returned GlobalStore must be
// closed by the caller.
func Open(localDir, globalPath string) (*Tiered, *GlobalStore, error) {
	if err := os.MkdirAll(filepath.Dir(globalPath), 0o755); err != nil {
		return nil, nil, errors.NewIO("create", filepath.Dir(globalPath), err)
	}
	global, err := OpenGlobal(globalPath)
	if err != nil {
		return nil, nil, err
	}
	local, err := OpenLocal(localDir)
	if err != nil {
		global.Close()
		return nil, nil, err
	}
	return &Tiered{Local: local, Global: global}, global, nil
}
