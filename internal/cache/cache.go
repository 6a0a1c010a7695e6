package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/arkdex/arkdex/backend/go-services/internal/trivia"
	"github.com/redis/go-redis/v9"
)

// DocumentCache keeps scraped trivia documents in Redis so repeated reads
// skip MongoDB. Documents are stored as JSON under "trivia:<name>" with a
// TTL; a missing or expired key just means a store lookup.
type DocumentCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New creates a document cache. Prefix may be empty; a zero TTL means 1h.
func New(client *redis.Client, prefix string, ttl time.Duration) *DocumentCache {
	if prefix == "" {
		prefix = "trivia:"
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &DocumentCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *DocumentCache) key(name string) string {
	return c.prefix + strings.ToLower(name)
}

// Put stores the document under its operator name.
func (c *DocumentCache) Put(ctx context.Context, doc *trivia.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(doc.Name), b, c.ttl).Err()
}

// Get returns the cached document, or nil when absent.
func (c *DocumentCache) Get(ctx context.Context, name string) (*trivia.Document, error) {
	b, err := c.client.Get(ctx, c.key(name)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var d trivia.Document
	if err := json.Unmarshal(b, &d); err != nil {
		// a corrupt entry is dropped, not served
		_ = c.client.Del(ctx, c.key(name)).Err()
		return nil, nil
	}
	return &d, nil
}

// Invalidate drops the cached document for an operator.
func (c *DocumentCache) Invalidate(ctx context.Context, name string) error {
	return c.client.Del(ctx, c.key(name)).Err()
}
