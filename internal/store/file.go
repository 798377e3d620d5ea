package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	defaultFileExt  = ".json"
	dirPermissions  = 0o750
	filePermissions = 0o644
	tmpSuffix       = ".tmp"
)

// FileKV stores one file per key in a directory, e.g. playlists/<key>.json
type FileKV struct {
	dir string
	ext string
}

// NewFileKV creates a file-backed store rooted at dir
func NewFileKV(dir string) *FileKV {
	return &FileKV{dir: dir, ext: defaultFileExt}
}

// Dir returns the directory holding the files
func (f *FileKV) Dir() string {
	return f.dir
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+f.ext)
}

// Get reads the file for key
func (f *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Put writes value to a temp file and renames it over the key's file
func (f *FileKV) Put(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, dirPermissions); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	target := f.path(key)
	tmp, err := os.CreateTemp(f.dir, key+"-*"+tmpSuffix)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync tmp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close tmp: %w", err)
	}
	if err := os.Chmod(tmpName, filePermissions); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod tmp: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}

// ListKeys returns the keys of all stored files, sorted.
// A missing directory yields an empty list.
func (f *FileKV) ListKeys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read dir: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, f.ext) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, f.ext))
	}
	sort.Strings(keys)
	return keys, nil
}

// Health checks that the directory is usable
func (f *FileKV) Health(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(f.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Created lazily on first write
			return nil
		}
		return fmt.Errorf("stat %s: %w", f.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", f.dir)
	}
	return nil
}
