package cache

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore backs the cache with an embedded BadgerDB instance. Entries
// keep the same {timestamp, content} envelope as the file backend so expiry
// stays a read-time decision regardless of backend.
type BadgerStore struct {
	db     *badger.DB
	ttls   TTLConfig
	logger *slog.Logger
	now    func() time.Time
}

var _ Store = (*BadgerStore)(nil)

// OpenBadgerStore opens (or creates) the database at path. An empty path
// falls back to in-memory mode, which is useful in tests.
func OpenBadgerStore(path string, ttls TTLConfig, logger *slog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db, ttls: ttls, logger: logger, now: time.Now}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Get returns the payload if present and fresh.
func (s *BadgerStore) Get(domain Domain, key string) ([]byte, bool) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(entryKey(domain, key)))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
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

// Set stores the entry, superseding any previous one. Failures are logged
// and swallowed.
func (s *BadgerStore) Set(domain Domain, key string, payload []byte) {
	raw, err := json.Marshal(envelope{Timestamp: s.now().Unix(), Content: payload})
	if err != nil {
		s.warn("cache encode failed", domain, key, err)
		return
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(entryKey(domain, key)), raw)
	})
	if err != nil {
		s.warn("cache write failed", domain, key, err)
	}
}

func (s *BadgerStore) warn(msg string, domain Domain, key string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, "domain", domain, "key", key, "error", err)
	}
}
