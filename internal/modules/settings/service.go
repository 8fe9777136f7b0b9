// README: Read-through settings resolution with TTL caching and
// cross-instance invalidation broadcast.
package settings

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	cacheKeyPrefix = "hc:settings:"
	globalCacheKey = "global"

	// InvalidationChannel carries settings invalidation events between
	// service instances. Every instance subscribes at startup.
	InvalidationChannel = "dispatch.config.updated"

	// DefaultTTL bounds how stale a cached settings record can be.
	DefaultTTL = 5 * time.Minute
)

// Repository loads settings rows from the backing store.
type Repository interface {
	GetByZone(ctx context.Context, zoneID string) (*ZoneSettings, error)
	GetGlobal(ctx context.Context) (*ZoneSettings, error)
}

type invalidationEvent struct {
	Type      string `json:"type"`
	ZoneID    string `json:"zone_id"`
	Timestamp string `json:"timestamp"`
}

type localEntry struct {
	value     *ZoneSettings
	expiresAt time.Time
}

type Service struct {
	repo  Repository
	cache SharedCache
	log   *zap.Logger
	ttl   time.Duration

	mu    sync.RWMutex
	local map[string]localEntry
}

func NewService(repo Repository, cache SharedCache, log *zap.Logger, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
		ttl:   ttl,
		local: make(map[string]localEntry),
	}
}

// Resolve returns the effective settings for a zone: in-process cache, then
// shared cache, then the zone row, then the global fallback row. A nil
// result means no settings exist anywhere and every honeycomb feature is to
// be treated as disabled. Backing-store failures degrade the same way; the
// hot dispatch path never blocks on retries.
func (s *Service) Resolve(ctx context.Context, zoneID string) *ZoneSettings {
	key := zoneID
	if key == "" {
		key = globalCacheKey
	}

	s.mu.RLock()
	entry, ok := s.local[key]
	s.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.value
	}

	cacheKey := cacheKeyPrefix + key
	if raw, hit, err := s.cache.Get(ctx, cacheKey); err != nil {
		s.log.Warn("settings shared cache read failed", zap.String("zone_id", zoneID), zap.Error(err))
	} else if hit {
		var v ZoneSettings
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			s.storeLocal(key, &v)
			return &v
		}
		s.log.Warn("settings cache entry corrupt, dropping", zap.String("key", cacheKey))
		_ = s.cache.Del(ctx, cacheKey)
	}

	v, err := s.loadFromRepo(ctx, zoneID)
	if err != nil {
		s.log.Error("settings load failed, treating zone as disabled",
			zap.String("zone_id", zoneID), zap.Error(err))
		return nil
	}
	if v == nil {
		return nil
	}

	if raw, err := json.Marshal(v); err == nil {
		if err := s.cache.SetTTL(ctx, cacheKey, string(raw), s.ttl); err != nil {
			s.log.Warn("settings shared cache write failed", zap.Error(err))
		}
	}
	s.storeLocal(key, v)
	return v
}

func (s *Service) loadFromRepo(ctx context.Context, zoneID string) (*ZoneSettings, error) {
	if zoneID != "" {
		v, err := s.repo.GetByZone(ctx, zoneID)
		if err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
	}
	return s.repo.GetGlobal(ctx)
}

func (s *Service) storeLocal(key string, v *ZoneSettings) {
	s.mu.Lock()
	s.local[key] = localEntry{value: v, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
}

// Invalidate drops the cached settings for a zone (all zones when zoneID is
// empty) and broadcasts the invalidation so other instances drop theirs too.
// The broadcast is fire-and-forget; no acknowledgement is awaited.
func (s *Service) Invalidate(ctx context.Context, zoneID string) error {
	if zoneID == "" {
		s.mu.Lock()
		s.local = make(map[string]localEntry)
		s.mu.Unlock()
		if err := s.cache.DelPrefix(ctx, cacheKeyPrefix); err != nil {
			return err
		}
	} else {
		s.mu.Lock()
		delete(s.local, zoneID)
		s.mu.Unlock()
		if err := s.cache.Del(ctx, cacheKeyPrefix+zoneID); err != nil {
			return err
		}
	}

	payload, _ := json.Marshal(invalidationEvent{
		Type:      "honeycomb",
		ZoneID:    zoneID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err := s.cache.Publish(ctx, InvalidationChannel, string(payload)); err != nil {
		// Broadcast failure leaves peers stale until their TTL expires;
		// the local invalidation already took effect.
		s.log.Warn("settings invalidation broadcast failed", zap.String("zone_id", zoneID), zap.Error(err))
	}
	s.log.Info("settings cache invalidated", zap.String("zone_id", zoneID))
	return nil
}

// Run subscribes to the invalidation channel and drops local cache entries
// as events arrive. Blocks until ctx is cancelled; start it in a goroutine.
func (s *Service) Run(ctx context.Context) {
	for payload := range s.cache.Subscribe(ctx, InvalidationChannel) {
		var ev invalidationEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			s.log.Warn("malformed invalidation event", zap.String("payload", payload))
			continue
		}
		s.mu.Lock()
		if ev.ZoneID == "" {
			s.local = make(map[string]localEntry)
		} else {
			delete(s.local, ev.ZoneID)
		}
		s.mu.Unlock()
		s.log.Debug("settings cache dropped on broadcast", zap.String("zone_id", ev.ZoneID))
	}
}
