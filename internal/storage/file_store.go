package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"charity-workflow-backend/internal/logger"
)

const (
	fileExt = ".json"
	// segmentLen bounds each path component of an encoded key well under the
	// 255 byte file name limit. Longer keys continue in subdirectories.
	segmentLen = 200
)

// FileStore persists each key as one JSON file under a local directory.
// File names are the hex encoding of the key, so a key prefix maps to a path
// prefix and listing is a directory walk.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("store directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	logger.StoreCall(BackendFile, "GET", key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		logger.StoreResult(BackendFile, "GET", key, err)
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	return data, nil
}

// Set writes to a temp file and renames it over the target so readers never
// observe a partially written value.
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	logger.StoreCall(BackendFile, "SET", key)
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close file: %w", err)
	}
	path := s.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		logger.StoreResult(BackendFile, "SET", key, err)
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	logger.StoreCall(BackendFile, "DELETE", key)
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.pathFor(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *FileStore) ListByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	logger.StoreCall(BackendFile, "LIST", prefix)
	s.mu.RLock()
	defer s.mu.RUnlock()

	encodedPrefix := encodeKey(prefix)
	var out []Entry
	err := filepath.WalkDir(s.dir, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if path == s.dir {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		encoded := strings.ReplaceAll(rel, string(filepath.Separator), "")
		if de.IsDir() {
			if !strings.HasPrefix(encoded, encodedPrefix) && !strings.HasPrefix(encodedPrefix, encoded) {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(encoded, fileExt) {
			return nil
		}
		encoded = strings.TrimSuffix(encoded, fileExt)
		if !strings.HasPrefix(encoded, encodedPrefix) {
			return nil
		}
		key, ok := decodeKey(encoded)
		if !ok {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("failed to read key %s: %w", key, err)
		}
		out = append(out, Entry{Key: key, Value: data})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}
	return out, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) pathFor(key string) string {
	encoded := encodeKey(key)
	parts := []string{s.dir}
	for len(encoded) > segmentLen {
		parts = append(parts, encoded[:segmentLen])
		encoded = encoded[segmentLen:]
	}
	parts = append(parts, encoded+fileExt)
	return filepath.Join(parts...)
}

func encodeKey(key string) string {
	return hex.EncodeToString([]byte(key))
}

func decodeKey(name string) (string, bool) {
	b, err := hex.DecodeString(name)
	if err != nil {
		return "", false
	}
	return string(b), true
}
