// Package cache stores computed score results in Valkey, keyed by a content
// hash of the inputs, so identical requests skip the scoring pipeline.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"resume-scorer/internal/models"
)

type ValkeyCache struct {
	Client valkey.Client
	ttl    time.Duration
}

func New(ctx context.Context, address, password string, ttl time.Duration) (*ValkeyCache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{address},
		Password:    password,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create Valkey client: %w", err)
	}

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to ping Valkey: %w", err)
	}

	if ttl <= 0 {
		ttl = time.Hour
	}

	return &ValkeyCache{Client: client, ttl: ttl}, nil
}

func (c *ValkeyCache) Close() {
	c.Client.Close()
}

// Key derives the cache key for a scoring request. The engine is part of the
// hash so the two pipelines never serve each other's results.
func Key(engine, resumeText, jdText string) string {
	h := sha256.New()
	h.Write([]byte(engine))
	h.Write([]byte{0})
	h.Write([]byte(resumeText))
	h.Write([]byte{0})
	h.Write([]byte(jdText))
	return fmt.Sprintf("score:%x", h.Sum(nil))
}

// Get returns the cached result for the key, with a hit indicator.
func (c *ValkeyCache) Get(ctx context.Context, key string) (*models.ScoreResult, bool, error) {
	cmd := c.Client.B().Get().Key(key).Build()

	data, err := c.Client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("unable to read cached score: %w", err)
	}

	var result models.ScoreResult
	if err := json.Unmarshal(data, &result); err != nil {
		// stale or corrupt entry, treat as a miss
		return nil, false, nil
	}

	return &result, true, nil
}

// Set stores the result under the key with the configured TTL.
func (c *ValkeyCache) Set(ctx context.Context, key string, result *models.ScoreResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("unable to encode score for caching: %w", err)
	}

	cmd := c.Client.B().Set().
		Key(key).
		Value(valkey.BinaryString(data)).
		ExSeconds(int64(c.ttl.Seconds())).
		Build()

	if err := c.Client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("unable to cache score (%s): %w", key, err)
	}

	return nil
}
