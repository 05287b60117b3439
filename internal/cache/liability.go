// Package cache stores reconciled period liabilities in Redis.
//
// Keys are versioned per business: every document mutation bumps the
// business version, so stale entries are never read again and simply expire.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"gstdesk/internal/gst"
	"gstdesk/internal/port"
)

// BumpChannel carries business IDs whose liabilities were invalidated.
const BumpChannel = "gstdesk.liability.bump"

// LiabilityCache is a Redis backed port.LiabilityCache. A nil client turns
// every Fetch into a direct load.
type LiabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
	group  singleflight.Group
	lookup *prometheus.CounterVec
	bumps  prometheus.Counter
}

// NewLiabilityCache builds the cache and registers its hit/miss counter on reg.
func NewLiabilityCache(client *redis.Client, ttl time.Duration, reg prometheus.Registerer, log *logrus.Logger) *LiabilityCache {
	lookup := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gstdesk_liability_cache_lookups_total",
		Help: "Liability cache lookups by result.",
	}, []string{"result"})
	bumps := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gstdesk_liability_cache_invalidations_total",
		Help: "Liability cache invalidations observed on the bump channel, from any instance.",
	})
	if reg != nil {
		reg.MustRegister(lookup, bumps)
	}
	return &LiabilityCache{client: client, ttl: ttl, log: log, lookup: lookup, bumps: bumps}
}

var _ port.LiabilityCache = (*LiabilityCache)(nil)

func versionKey(businessID uuid.UUID) string {
	return "liability:version:" + businessID.String()
}

// version returns the business version, initializing it when missing.
func (c *LiabilityCache) version(ctx context.Context, businessID uuid.UUID) (int64, error) {
	key := versionKey(businessID)
	ver, err := c.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, key, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, key).Int64()
	}
	return ver, err
}

// BuildKey composes the cache key for a period with the current version.
func (c *LiabilityCache) BuildKey(ctx context.Context, businessID uuid.UUID, period string) (string, error) {
	ver, err := c.version(ctx, businessID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("liability:%s:%s:%d", businessID, period, ver), nil
}

// Fetch returns the cached liability or computes it with load. Concurrent
// misses on the same key share one load, which runs detached from the
// caller's cancellation so one abandoned request cannot fail the others.
// Redis failures degrade to a load.
func (c *LiabilityCache) Fetch(ctx context.Context, businessID uuid.UUID, period string, load func(context.Context) (gst.Liability, error)) (gst.Liability, error) {
	if c == nil || c.client == nil {
		return load(ctx)
	}

	key, err := c.BuildKey(ctx, businessID, period)
	if err != nil {
		c.warn(err, "building liability cache key")
		c.lookup.WithLabelValues("error").Inc()
		return load(ctx)
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var l gst.Liability
		jerr := json.Unmarshal(payload, &l)
		if jerr == nil {
			c.lookup.WithLabelValues("hit").Inc()
			return l, nil
		}
		c.warn(jerr, "decoding cached liability")
	case !errors.Is(err, redis.Nil):
		c.warn(err, "reading liability cache")
		c.lookup.WithLabelValues("error").Inc()
		return load(ctx)
	}
	c.lookup.WithLabelValues("miss").Inc()

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		l, err := load(shared)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(l)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(shared, key, raw, c.ttl).Err(); err != nil {
			c.warn(err, "writing liability cache")
		}
		return l, nil
	})
	select {
	case <-ctx.Done():
		return gst.Liability{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return gst.Liability{}, res.Err
		}
		return res.Val.(gst.Liability), nil
	}
}

// Invalidate bumps the business version and publishes the bump.
func (c *LiabilityCache) Invalidate(ctx context.Context, businessID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, versionKey(businessID)).Result()
	if err != nil {
		return fmt.Errorf("liabilityCache.Invalidate: %w", err)
	}
	return c.client.Publish(ctx, BumpChannel, businessID.String()+":"+strconv.FormatInt(ver, 10)).Err()
}

// Watch consumes the bump channel until ctx is done, counting every
// invalidation published by this or any other instance.
func (c *LiabilityCache) Watch(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	sub := c.client.Subscribe(ctx, BumpChannel)
	defer func() { _ = sub.Close() }()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("liabilityCache.Watch: %w", err)
	}

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			c.bumps.Inc()
			if c.log != nil {
				c.log.WithField("bump", msg.Payload).Debug("liability cache invalidated")
			}
		}
	}
}

func (c *LiabilityCache) warn(err error, msg string) {
	if c.log == nil {
		return
	}
	c.log.WithError(err).Warn(msg)
}
