// Package cache stores computed adherence reports per subject. All reports of
// a subject are dropped together when any of their entries change.
//
// Each subject also carries a generation number that Invalidate bumps. A
// report computed from data read under an older generation is never stored.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"moodlog/internal/adherence"
	id "moodlog/pkg/domain"
)

const (
	keyPrefix = "moodlog:adherence:"
	genPrefix = "moodlog:adherence:gen:"

	minGenerationTTL = 24 * time.Hour
)

var errStale = errors.New("report computed under an old generation")

func subjectKey(subjectID id.SubjectID) string {
	return keyPrefix + subjectID.String()
}

func generationKey(subjectID id.SubjectID) string {
	return genPrefix + subjectID.String()
}

func reportField(asOf id.Date, windowDays int) string {
	return fmt.Sprintf("%s/%d", asOf, windowDays)
}

// RedisCache keeps one hash per subject, one field per (asOf, window) pair,
// so invalidation is a single DEL. The generation lives in a sibling counter.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedis(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) generationTTL() time.Duration {
	return max(c.ttl, minGenerationTTL)
}

// Generation returns the subject's current generation; zero when the subject
// was never invalidated.
func (c *RedisCache) Generation(ctx context.Context, subjectID id.SubjectID) (uint64, error) {
	gen, err := readGeneration(ctx, c.client, subjectID)
	if err != nil {
		return 0, fmt.Errorf("read generation: %w", err)
	}
	return gen, nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, client getter, subjectID id.SubjectID) (uint64, error) {
	gen, err := client.Get(ctx, generationKey(subjectID)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisCache) Get(ctx context.Context, subjectID id.SubjectID, asOf id.Date, windowDays int) (*adherence.Report, bool, error) {
	raw, err := c.client.HGet(ctx, subjectKey(subjectID), reportField(asOf, windowDays)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached report: %w", err)
	}
	var r adherence.Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, false, fmt.Errorf("decode cached report: %w", err)
	}
	return &r, true, nil
}

// Set stores r only if the subject is still at generation. The generation
// key is watched, so an Invalidate racing with the write aborts it.
func (c *RedisCache) Set(ctx context.Context, r *adherence.Report, generation uint64) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	key := subjectKey(r.SubjectID)
	err = c.client.Watch(ctx, func(txn *redis.Tx) error {
		current, err := readGeneration(ctx, txn, r.SubjectID)
		if err != nil {
			return err
		}
		if current != generation {
			return errStale
		}
		_, err = txn.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, reportField(r.AsOf, r.WindowDays), raw)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, generationKey(r.SubjectID))
	switch {
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		return nil
	case err != nil:
		return fmt.Errorf("cache report: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, subjectID id.SubjectID) error {
	gen := generationKey(subjectID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, gen)
		pipe.Expire(ctx, gen, c.generationTTL())
		pipe.Del(ctx, subjectKey(subjectID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate reports: %w", err)
	}
	return nil
}

type memoryItem struct {
	report  adherence.Report
	expires time.Time
}

// InMemoryCache is used when Redis is not configured.
type InMemoryCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	subjects map[id.SubjectID]map[string]memoryItem
	gens     map[id.SubjectID]uint64
}

func NewInMemory(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{
		ttl:      ttl,
		now:      time.Now,
		subjects: make(map[id.SubjectID]map[string]memoryItem),
		gens:     make(map[id.SubjectID]uint64),
	}
}

func (c *InMemoryCache) Generation(_ context.Context, subjectID id.SubjectID) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[subjectID], nil
}

func (c *InMemoryCache) Get(_ context.Context, subjectID id.SubjectID, asOf id.Date, windowDays int) (*adherence.Report, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.subjects[subjectID][reportField(asOf, windowDays)]
	if !ok || !c.now().Before(item.expires) {
		return nil, false, nil
	}
	r := item.report
	r.Assignments = append([]adherence.AssignmentStreak(nil), item.report.Assignments...)
	return &r, true, nil
}

func (c *InMemoryCache) Set(_ context.Context, r *adherence.Report, generation uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[r.SubjectID] != generation {
		return nil
	}
	reports, ok := c.subjects[r.SubjectID]
	if !ok {
		reports = make(map[string]memoryItem)
		c.subjects[r.SubjectID] = reports
	}
	stored := *r
	stored.Assignments = append([]adherence.AssignmentStreak(nil), r.Assignments...)
	reports[reportField(r.AsOf, r.WindowDays)] = memoryItem{report: stored, expires: c.now().Add(c.ttl)}
	return nil
}

func (c *InMemoryCache) Invalidate(_ context.Context, subjectID id.SubjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[subjectID]++
	delete(c.subjects, subjectID)
	return nil
}
