// Package combocache persists combination search results as a flat binary
// record stream, one file per background.
package combocache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-filemutex"
	"github.com/hashicorp/go-hclog"
	"github.com/jmylchreest/huewheel/internal/search"
	"github.com/jmylchreest/huewheel/internal/security"
)

const (
	// BaseName is the file name prefix; the background key is appended
	// after a dot.
	BaseName = "valid_combs.bin"

	// RecordSize is the encoded size of one combination:
	// [lightness:1][saturation:1][offset:2 little-endian].
	RecordSize = 4

	// MaxFileSize is the size of an entry holding every grid point. Larger
	// files cannot have been written by Save and are treated as unreadable.
	MaxFileSize = search.GridSize * RecordSize

	// LockSuffix is appended to an entry path to name its lock file.
	LockSuffix = ".lock"

	// tempInfix marks files Save has not yet renamed into place.
	tempInfix = ".tmp-"
)

// ErrInvalidKey is returned for keys that cannot be used as a file name.
var ErrInvalidKey = errors.New("invalid cache key")

// Options configures cache behaviour.
type Options struct {
	// CacheDir is the directory holding cache files.
	// If empty, defaults to ~/.cache/huewheel
	CacheDir string

	// Logger receives load/save messages. Defaults to a null logger.
	Logger hclog.Logger
}

func (o Options) logger() hclog.Logger {
	if o.Logger == nil {
		return hclog.NewNullLogger()
	}
	return o.Logger
}

func (o Options) dir() (string, error) {
	if o.CacheDir != "" {
		return o.CacheDir, nil
	}
	return DefaultCacheDir()
}

// Generator produces the combinations when the cache cannot supply them.
type Generator func(ctx context.Context) ([]search.Combination, error)

// DefaultCacheDir returns the default cache directory path.
func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		// Fallback to home directory if cache dir not available.
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "huewheel"), nil
	}
	return filepath.Join(cacheDir, "huewheel"), nil
}

// ValidateKey checks that key can be appended to BaseName as a file name.
// The key is otherwise used verbatim: "ffffff" and "FFFFFF" are different
// entries.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if err := security.ValidateFileName(BaseName + "." + key); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return nil
}

// Path returns the cache file path for key inside dir.
func Path(dir, key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(dir, BaseName+"."+key), nil
}

// Encode serialises combinations in order, RecordSize bytes each.
func Encode(combos []search.Combination) []byte {
	data := make([]byte, 0, len(combos)*RecordSize)
	for _, c := range combos {
		data = append(data, c.Lightness, c.Saturation)
		data = binary.LittleEndian.AppendUint16(data, c.Offset)
	}
	return data
}

// Decode parses a record stream in file order. An incomplete trailing
// record is dropped.
func Decode(data []byte) []search.Combination {
	count := len(data) / RecordSize
	combos := make([]search.Combination, 0, count)
	for i := 0; i < count; i++ {
		rec := data[i*RecordSize : (i+1)*RecordSize]
		combos = append(combos, search.Combination{
			Lightness:  rec[0],
			Saturation: rec[1],
			Offset:     binary.LittleEndian.Uint16(rec[2:4]),
		})
	}
	return combos
}

// Load reads and decodes the cache file at path.
func Load(path string) ([]search.Combination, error) {
	f, err := os.Open(path) // #nosec G304 - Path is built from the cache dir and a validated key
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(security.NewLimitedReader(f, MaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	return Decode(data), nil
}

// Save writes combos to path, replacing any existing file.
// The data is written to a temporary file and renamed into place so a
// failed write never leaves a truncated entry behind.
func Save(path string, combos []search.Combination) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+tempInfix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temporary cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(Encode(combos)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { // #nosec G302 - Cache files need standard read permissions
		os.Remove(tmpName)
		return fmt.Errorf("failed to set cache file permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move cache file into place: %w", err)
	}
	return nil
}

// LoadOrGenerate returns the cached combinations for key, or runs generate
// and caches its result.
//
// A readable entry is trusted completely and generate is not called. A
// missing or unreadable entry is regenerated in full; cached and fresh
// results are never merged. Failure to persist is logged and the fresh
// result is still returned. Only an error from generate is returned.
func LoadOrGenerate(ctx context.Context, key string, opts Options, generate Generator) ([]search.Combination, error) {
	log := opts.logger()

	path, pathErr := EntryPath(key, opts)
	if pathErr != nil {
		log.Warn("combination cache unavailable", "key", key, "error", pathErr)
	} else {
		combos, err := Load(path)
		switch {
		case err == nil:
			log.Info("loaded cached combinations", "count", len(combos), "path", path)
			return combos, nil
		case errors.Is(err, os.ErrNotExist):
			log.Debug("no cached combinations", "path", path)
		default:
			log.Warn("failed to read combination cache, regenerating", "path", path, "error", err)
		}
	}

	if pathErr == nil {
		lock, err := lockEntry(path)
		if err != nil {
			log.Warn("failed to lock combination cache, continuing without it", "path", path, "error", err)
		} else {
			defer lock.Close()
			// Another process may have filled the entry while we waited.
			if combos, err := Load(path); err == nil {
				log.Info("loaded cached combinations", "count", len(combos), "path", path)
				return combos, nil
			}
		}
	}

	log.Info("computing valid combinations, this takes a few seconds on the first run")
	combos, err := generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate combinations: %w", err)
	}

	if pathErr != nil {
		return combos, nil
	}
	if err := Save(path, combos); err != nil {
		log.Warn("failed to cache combinations", "path", path, "error", err)
		return combos, nil
	}
	log.Info("cached combinations", "count", len(combos), "path", path)
	return combos, nil
}

// lockEntry takes an exclusive lock guarding generation of the entry at
// path. Closing the returned mutex releases it.
func lockEntry(path string) (*filemutex.FileMutex, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	m, err := filemutex.New(path + LockSuffix)
	if err != nil {
		return nil, fmt.Errorf("filemutex new error: %w", err)
	}
	if err := m.Lock(); err != nil {
		m.Close()
		return nil, fmt.Errorf("filemutex lock error: %w", err)
	}
	return m, nil
}

// EntryPath returns the cache file for key under the configured directory.
func EntryPath(key string, opts Options) (string, error) {
	dir, err := opts.dir()
	if err != nil {
		return "", err
	}
	return Path(dir, key)
}

// Remove deletes the entry for key. A missing entry is not an error.
func Remove(key string, opts Options) error {
	path, err := EntryPath(key, opts)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove cache entry: %w", err)
	}
	return nil
}

// Clear deletes every cache entry in the cache directory and returns how
// many were removed. Lock files nobody holds are removed too but not
// counted. Temporary files are left alone since a Save may still own them.
func Clear(opts Options) (int, error) {
	dir, err := opts.dir()
	if err != nil {
		return 0, err
	}
	matches, err := filepath.Glob(filepath.Join(dir, BaseName+".*"))
	if err != nil {
		return 0, fmt.Errorf("failed to list cache entries: %w", err)
	}

	removed := 0
	for _, m := range matches {
		switch {
		case strings.HasSuffix(m, LockSuffix):
			removeIdleLock(m)
			continue
		case strings.Contains(filepath.Base(m), tempInfix):
			continue
		}
		if err := os.Remove(m); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("failed to remove cache entry: %w", err)
		}
		removed++
	}
	return removed, nil
}

// removeIdleLock deletes the lock file at path unless another process
// holds it.
func removeIdleLock(path string) {
	m, err := filemutex.New(path)
	if err != nil {
		return
	}
	defer m.Close()
	if err := m.TryLock(); err != nil {
		return
	}
	_ = os.Remove(path)
}
