package store

import (
	"context"
	"encoding/json"
	"path"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"
)

// The redis store keeps runs as JSON values with TTL.
// The keys namespace is organized as follows:
// - `<prefix>/runs/<runID>` for storing the run
// - `<prefix>/runs` sorted set of run IDs, scored by creation time

type redisStore struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	maxRuns int
}

// NewRedisStore returns a store backed by Redis
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration, maxRuns int) RunStore {
	if maxRuns <= 0 {
		maxRuns = DefaultMaxRuns
	}
	return &redisStore{
		client:  client,
		prefix:  prefix,
		ttl:     ttl,
		maxRuns: maxRuns,
	}
}

func (m *redisStore) runKey(id string) string {
	return path.Join(m.prefix, "runs", id)
}

func (m *redisStore) indexKey() string {
	return path.Join(m.prefix, "runs")
}

func (m *redisStore) Put(ctx context.Context, run *Run) error {
	if run == nil || run.ID == "" {
		return errors.New("run ID is required")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(run)
	if err != nil {
		return errors.Wrap(err, "failed to marshal run")
	}

	pipe := m.client.TxPipeline()
	pipe.Set(ctx, m.runKey(run.ID), data, m.ttl)
	pipe.ZAdd(ctx, m.indexKey(), redis.Z{
		Score:  float64(run.CreatedAt.UnixNano()),
		Member: run.ID,
	})
	if _, err = pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to store run in Redis")
	}
	return m.trim(ctx)
}

// trim keeps only the latest maxRuns runs, the evicted runs are deleted
func (m *redisStore) trim(ctx context.Context) error {
	index := m.indexKey()
	evicted, err := m.client.ZRange(ctx, index, 0, int64(-m.maxRuns-1)).Result()
	if err != nil {
		return errors.Wrap(err, "failed to trim runs in Redis")
	}

	pipe := m.client.TxPipeline()
	if len(evicted) > 0 {
		keys := make([]string, len(evicted))
		members := make([]any, len(evicted))
		for i, id := range evicted {
			keys[i] = m.runKey(id)
			members[i] = id
		}
		pipe.Del(ctx, keys...)
		pipe.ZRem(ctx, index, members...)
	}
	if m.ttl > 0 {
		// the run keys are already expired
		pipe.ZRemRangeByScore(ctx, index, "-inf", "("+formatScore(time.Now().Add(-m.ttl)))
	}
	if pipe.Len() == 0 {
		return nil
	}
	if _, err = pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to trim runs in Redis")
	}
	return nil
}

func (m *redisStore) Get(ctx context.Context, id string) (*Run, error) {
	data, err := m.client.Get(ctx, m.runKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.Wrapf(ErrNotFound, "%s", id)
		}
		return nil, errors.Wrap(err, "failed to get run from Redis")
	}

	run := new(Run)
	if err = json.Unmarshal(data, run); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal run")
	}
	return run, nil
}

func (m *redisStore) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 || limit > m.maxRuns {
		limit = m.maxRuns
	}

	ids, err := m.client.ZRevRange(ctx, m.indexKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs from Redis")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = m.runKey(id)
	}
	values, err := m.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get runs from Redis")
	}

	var expired []any
	list := make([]*Run, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		run := new(Run)
		if err := json.Unmarshal([]byte(s), run); err != nil {
			logger.ContextKV(ctx, xlog.ERROR,
				"reason", "unmarshal run",
				"run_id", ids[i],
				"err", err.Error())
			continue
		}
		list = append(list, run)
	}

	if len(expired) > 0 {
		if err := m.client.ZRem(ctx, m.indexKey(), expired...).Err(); err != nil {
			logger.ContextKV(ctx, xlog.WARNING,
				"reason", "remove expired runs",
				"err", err.Error())
		}
	}
	return list, nil
}

func formatScore(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}
