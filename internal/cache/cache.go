// Package cache provides a best-effort TTL cache across three independent
// domains. The cache is an optimization, never a source of truth: reads fail
// open to a miss and writes are fire-and-forget.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Domain discriminates the three logical cache namespaces.
type Domain string

const (
	// DomainPages caches scraped page content per URL.
	DomainPages Domain = "pages"
	// DomainExtraction caches the singleton extraction result of a run.
	DomainExtraction Domain = "extraction"
	// DomainConsolidation caches the singleton consolidated report of a run.
	DomainConsolidation Domain = "consolidation"
)

// SingletonKey is the fixed natural key for the two singleton domains.
const SingletonKey = "latest"

// DefaultTTL applies to any domain without an explicit expiry.
const DefaultTTL = 24 * time.Hour

// Store is the capability handed to cache-aware components. Get returns the
// payload and true on a fresh hit; any read error, decode error, or expired
// entry is a miss. Set never reports failure to the caller.
type Store interface {
	Get(domain Domain, key string) ([]byte, bool)
	Set(domain Domain, key string, payload []byte)
}

// TTLConfig maps domains to their expiry windows.
type TTLConfig map[Domain]time.Duration

// TTL resolves the expiry for a domain, falling back to DefaultTTL.
func (c TTLConfig) TTL(domain Domain) time.Duration {
	if c != nil {
		if ttl, ok := c[domain]; ok && ttl > 0 {
			return ttl
		}
	}
	return DefaultTTL
}

// envelope is the stored record: write time plus the opaque payload.
// File-backed entries serialize exactly as {"timestamp": ..., "content": ...}.
type envelope struct {
	Timestamp int64           `json:"timestamp"`
	Content   json.RawMessage `json:"content"`
}

func (e envelope) expired(now time.Time, ttl time.Duration) bool {
	return now.Unix()-e.Timestamp > int64(ttl.Seconds())
}

// entryKey derives the stable storage key from the domain discriminator and
// the natural key (URL for pages, SingletonKey for the singleton domains).
func entryKey(domain Domain, key string) string {
	sum := md5.Sum([]byte(string(domain) + ":" + key))
	return hex.EncodeToString(sum[:])
}
