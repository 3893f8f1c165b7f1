package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// FileStore keeps one JSON file per key under a per-domain directory.
// Concurrent writers to distinct keys are safe; the same key has a single
// logical owner per run, so same-key races are left undefined. Sharing the
// directory across processes is unsupported: there is no cross-process
// locking.
type FileStore struct {
	dir    string
	ttls   TTLConfig
	logger *slog.Logger
	now    func() time.Time
}

var _ Store = (*FileStore)(nil)

// NewFileStore roots the cache at dir, creating it on first write.
func NewFileStore(dir string, ttls TTLConfig, logger *slog.Logger) *FileStore {
	return &FileStore{dir: dir, ttls: ttls, logger: logger, now: time.Now}
}

// Get reads and validates the entry file. Missing files, unreadable files,
// malformed JSON, and expired timestamps all degrade to a miss; only real
// I/O failures are worth a warning.
func (s *FileStore) Get(domain Domain, key string) ([]byte, bool) {
	raw, err := os.ReadFile(s.path(domain, key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.warn("cache read failed", domain, key, err)
		}
		return nil, false
	}

	var entry envelope
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	if entry.expired(s.now(), s.ttls.TTL(domain)) {
		return nil, false
	}
	return entry.Content, true
}

// Set writes the entry file, superseding any previous one. Failures are
// logged and swallowed: callers must not depend on write success.
func (s *FileStore) Set(domain Domain, key string, payload []byte) {
	path := s.path(domain, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.warn("cache dir create failed", domain, key, err)
		return
	}

	raw, err := json.Marshal(envelope{Timestamp: s.now().Unix(), Content: payload})
	if err != nil {
		s.warn("cache encode failed", domain, key, err)
		return
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		s.warn("cache write failed", domain, key, err)
	}
}

func (s *FileStore) path(domain Domain, key string) string {
	return filepath.Join(s.dir, string(domain), entryKey(domain, key)+".json")
}

func (s *FileStore) warn(msg string, domain Domain, key string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, "domain", domain, "key", key, "error", err)
	}
}
