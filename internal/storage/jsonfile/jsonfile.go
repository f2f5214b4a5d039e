// Package jsonfile stores each collection as <collection>.json inside a data
// directory. Files are replaced atomically: the new content is written to a
// temporary file in the same directory and renamed over the old one, so a
// crash mid-write never leaves a truncated collection behind.
package jsonfile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/GustavoCaso/spendwatch/internal/storage"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

type Backend struct {
	dir    string
	mu     sync.Mutex
	rename func(oldpath, newpath string) error
}

func New(dir string) (*Backend, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dir, err)
	}
	return &Backend{dir: dir, rename: os.Rename}, nil
}

func (b *Backend) path(c storage.Collection) string {
	return filepath.Join(b.dir, string(c)+".json")
}

// fingerprint is the version of a stored file: the hash of its content.
func fingerprint(data []byte) storage.Version {
	sum := sha256.Sum256(data)
	return storage.Version(hex.EncodeToString(sum[:]))
}

func (b *Backend) load(c storage.Collection) ([]byte, storage.Version, error) {
	data, err := os.ReadFile(b.path(c))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return data, fingerprint(data), nil
}

func (b *Backend) Read(_ context.Context, c storage.Collection) ([]byte, storage.Version, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.load(c)
}

func (b *Backend) Write(_ context.Context, c storage.Collection, data []byte, expected storage.Version) (storage.Version, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, actual, err := b.load(c)
	if err != nil {
		return "", err
	}
	if actual != expected {
		return "", &storage.ConflictError{Collection: c, Expected: expected, Actual: actual}
	}

	tmp, err := os.CreateTemp(b.dir, string(c)+".*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, filePerm)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}

	if err = os.Rename(tmpName, b.path(c)); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}

	return fingerprint(data), nil
}

// Clear moves the named collection files into a staging directory and only
// deletes it once every file has moved. If any file cannot be moved, the
// ones already staged are put back and no collection is cleared.
func (b *Backend) Clear(_ context.Context, collections ...storage.Collection) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var present []storage.Collection
	for _, c := range collections {
		info, err := os.Lstat(b.path(c))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("clear %s: %s is not a regular file", c, b.path(c))
		}
		present = append(present, c)
	}
	if len(present) == 0 {
		return nil
	}

	staging, err := os.MkdirTemp(b.dir, ".clear-*")
	if err != nil {
		return err
	}

	var moved []storage.Collection
	for _, c := range present {
		if err = b.rename(b.path(c), b.staged(staging, c)); err != nil {
			err = fmt.Errorf("clear %s: %w", c, err)
			break
		}
		moved = append(moved, c)
	}

	if err != nil {
		for _, c := range moved {
			if restoreErr := b.rename(b.staged(staging, c), b.path(c)); restoreErr != nil {
				err = errors.Join(err, fmt.Errorf("restore %s: %w", c, restoreErr))
			}
		}
		_ = os.Remove(staging)
		return err
	}

	// Every collection already reads as empty; a leftover staging directory
	// is only wasted space.
	_ = os.RemoveAll(staging)
	return nil
}

func (b *Backend) staged(staging string, c storage.Collection) string {
	return filepath.Join(staging, filepath.Base(b.path(c)))
}

func (b *Backend) Close() error {
	return nil
}
