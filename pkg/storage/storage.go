// Package storage implements the object store's storage engine: the
// component that turns validated bucket/object operations into atomic
// filesystem writes plus metadata-store transactions. It never talks HTTP
// and never issues SQL directly — both concerns live one layer away.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/s3lite/objectstore/pkg/metadata"
)

const tempDirName = ".tmp"

// Storage is the local-filesystem storage engine. basePath is the root
// directory under which every bucket gets its own sharded subtree; meta is
// the shared Metadata Store Adapter handle.
type Storage struct {
	basePath string
	tempDir  string
	meta     *metadata.Store
}

// New opens (creating if absent) the storage root at basePath and binds it
// to an already-open metadata Store.
func New(basePath string, meta *metadata.Store) (*Storage, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, errors.Wrap(err, "resolving storage root")
	}
	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return nil, NewFilesystemFailure(err)
	}

	temp := filepath.Join(absPath, tempDirName)
	if err := os.MkdirAll(temp, 0o755); err != nil {
		return nil, NewFilesystemFailure(err)
	}

	return &Storage{basePath: absPath, tempDir: temp, meta: meta}, nil
}

// Close releases resources owned by Storage itself. The metadata Store is
// constructed by the caller and remains theirs to close.
func (s *Storage) Close() error { return nil }

// CheckResult is the outcome of one readiness check: whether it passed, an
// error message when it didn't, a free-form description of what was
// checked, and how long the check took.
type CheckResult struct {
	OK         bool
	Error      string
	Info       string
	DurationMs int64
}

func checkResult(ok bool, errMsg, info string, start time.Time) CheckResult {
	return CheckResult{OK: ok, Error: errMsg, Info: info, DurationMs: time.Since(start).Milliseconds()}
}

// Ready runs the three-check readiness probe: metadata connectivity,
// storage-root reachability, and a disk write/read/delete round trip. Each
// check is timed and reported independently, so a caller can see exactly
// which check failed (and how) even when more than one does.
func (s *Storage) Ready() (metadataCheck, storageCheck, diskCheck CheckResult) {
	metadataCheck = s.checkMetadata()
	storageCheck = s.checkStorageDir()
	diskCheck = s.checkDiskIO()
	return metadataCheck, storageCheck, diskCheck
}

func (s *Storage) checkMetadata() CheckResult {
	start := time.Now()
	info := "SELECT 1"
	if err := s.meta.Ping(); err != nil {
		return checkResult(false, fmt.Sprintf("metadata store error: %v", err), info, start)
	}
	return checkResult(true, "", info, start)
}

func (s *Storage) checkStorageDir() CheckResult {
	start := time.Now()
	info := "path=" + s.basePath
	fi, err := os.Stat(s.basePath)
	if err != nil {
		return checkResult(false, fmt.Sprintf("could not stat storage dir: %v", err), info, start)
	}
	if !fi.IsDir() {
		return checkResult(false, "storage path exists but is not a directory", info, start)
	}
	return checkResult(true, "", info, start)
}

func (s *Storage) checkDiskIO() CheckResult {
	start := time.Now()
	info := "path=" + s.basePath

	f, err := s.tempFile()
	if err != nil {
		return checkResult(false, fmt.Sprintf("could not write tmp file: %v", err), info, start)
	}
	name := f.Name()

	if _, err := f.WriteString("readyz"); err != nil {
		f.Close()
		os.Remove(name)
		return checkResult(false, fmt.Sprintf("could not write tmp file: %v", err), info, start)
	}
	f.Close()

	data, err := os.ReadFile(name)
	if err != nil {
		os.Remove(name)
		return checkResult(false, fmt.Sprintf("could not read tmp file: %v", err), info, start)
	}
	if string(data) != "readyz" {
		os.Remove(name)
		return checkResult(false, "tmp file content mismatch", info, start)
	}

	if err := os.Remove(name); err != nil {
		return checkResult(true, fmt.Sprintf("wrote tmp file but could not remove it: %v", err), info, start)
	}
	return checkResult(true, "", info, start)
}

func (s *Storage) tempFile() (*os.File, error) {
	return os.CreateTemp(s.tempDir, "upload-*")
}

// fsyncDir fsyncs a directory so a preceding file rename inside it is
// durable before the caller reports success.
func fsyncDir(path string) error {
	d, err := os.Open(path)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}

// cleanupEmptyDirs removes dir and then walks upward removing each
// now-empty ancestor, stopping at (and never removing) stop. Best-effort:
// any error along the way simply ends the walk.
func cleanupEmptyDirs(dir, stop string) {
	absStop, err := filepath.Abs(stop)
	if err != nil {
		return
	}
	cur, err := filepath.Abs(dir)
	if err != nil {
		return
	}
	for {
		if cur == absStop {
			return
		}
		rel, err := filepath.Rel(absStop, cur)
		if err != nil || rel == ".." || len(rel) >= 2 && rel[:2] == ".." {
			return
		}
		entries, err := os.ReadDir(cur)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(cur); err != nil {
			return
		}
		cur = filepath.Dir(cur)
	}
}
