package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"rental-service/internal/models"
)

const (
	// L1 cache (in-memory) TTL
	L1CacheTTL = 5 * time.Minute

	// L2 cache (Redis) TTL
	L2CacheTTL = 1 * time.Hour

	// Redis key prefix for settlement views
	SettlementKeyPrefix = "billing:settlement:"

	redisTimeout = 2 * time.Second
)

// L1CacheEntry represents an entry in the L1 cache
type L1CacheEntry struct {
	Data      *models.Settlement
	ExpiresAt time.Time
}

// BillingCache provides multi-layer caching for settlement views, keyed by
// (tenant, month, year). Entries are invalidated whenever a usage or payment
// mutation touches the period, and per-tenant when the tenant itself changes.
type BillingCache struct {
	// L1 cache (in-memory)
	l1Cache sync.Map

	// L2 cache (Redis) - optional
	redisClient *redis.Client

	// Whether Redis is available
	redisEnabled bool
}

// NewBillingCache creates a new billing cache. A nil redis client disables the
// L2 layer; the L1 layer always works.
func NewBillingCache(redisClient *redis.Client) *BillingCache {
	cache := &BillingCache{
		redisClient:  redisClient,
		redisEnabled: redisClient != nil,
	}

	// Start background cleanup for L1 cache
	go cache.cleanupL1Cache()

	return cache
}

// Get retrieves a settlement view from cache (L1 first, then L2).
func (c *BillingCache) Get(tenantID uuid.UUID, month string, year int) (*models.Settlement, bool) {
	key := c.settlementKey(tenantID, month, year)

	// Try L1 cache first
	if entry, ok := c.l1Cache.Load(key); ok {
		l1Entry := entry.(L1CacheEntry)
		if time.Now().Before(l1Entry.ExpiresAt) {
			return l1Entry.Data, true
		}
		// Expired, remove from L1
		c.l1Cache.Delete(key)
	}

	// Try L2 cache (Redis)
	if c.redisEnabled {
		if settlement, ok := c.getFromRedis(key); ok {
			// Populate L1 cache
			c.setL1Cache(key, settlement)
			return settlement, true
		}
	}

	return nil, false
}

// Set stores a settlement view in both L1 and L2 caches.
func (c *BillingCache) Set(settlement *models.Settlement) {
	key := c.settlementKey(settlement.TenantID, settlement.Month, settlement.Year)

	c.setL1Cache(key, settlement)

	if c.redisEnabled {
		c.setInRedis(key, settlement)
	}
}

// Invalidate drops the cached view for a single period.
func (c *BillingCache) Invalidate(tenantID uuid.UUID, month string, year int) {
	key := c.settlementKey(tenantID, month, year)
	c.l1Cache.Delete(key)

	if c.redisEnabled {
		ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
		defer cancel()
		c.redisClient.Del(ctx, key)
	}
}

// InvalidateTenant drops every cached period for a tenant. Rent, members and
// portion changes affect all of the tenant's settlements at once.
func (c *BillingCache) InvalidateTenant(tenantID uuid.UUID) {
	prefix := SettlementKeyPrefix + tenantID.String() + ":"

	c.l1Cache.Range(func(key, _ interface{}) bool {
		if k, ok := key.(string); ok && len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			c.l1Cache.Delete(key)
		}
		return true
	})

	if c.redisEnabled {
		ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
		defer cancel()

		iter := c.redisClient.Scan(ctx, 0, prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			c.redisClient.Del(ctx, iter.Val())
		}
	}
}

func (c *BillingCache) settlementKey(tenantID uuid.UUID, month string, year int) string {
	return fmt.Sprintf("%s%s:%s:%d", SettlementKeyPrefix, tenantID, month, year)
}

func (c *BillingCache) setL1Cache(key string, settlement *models.Settlement) {
	c.l1Cache.Store(key, L1CacheEntry{
		Data:      settlement,
		ExpiresAt: time.Now().Add(L1CacheTTL),
	})
}

func (c *BillingCache) getFromRedis(key string) (*models.Settlement, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	data, err := c.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var settlement models.Settlement
	if err := json.Unmarshal(data, &settlement); err != nil {
		return nil, false
	}
	return &settlement, true
}

func (c *BillingCache) setInRedis(key string, settlement *models.Settlement) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	data, err := json.Marshal(settlement)
	if err != nil {
		return
	}
	c.redisClient.Set(ctx, key, data, L2CacheTTL)
}

// cleanupL1Cache periodically removes expired L1 entries.
func (c *BillingCache) cleanupL1Cache() {
	ticker := time.NewTicker(L1CacheTTL)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.l1Cache.Range(func(key, value interface{}) bool {
			if entry, ok := value.(L1CacheEntry); ok && now.After(entry.ExpiresAt) {
				c.l1Cache.Delete(key)
			}
			return true
		})
	}
}
