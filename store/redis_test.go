package store_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/effective-security/agentflow/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	rediscon "github.com/testcontainers/testcontainers-go/modules/redis"
)

func Test_RedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	redisContainer, err := rediscon.Run(ctx, "redis:7",
		testcontainers.WithConfigModifier(func(config *container.Config) {
			config.Env = []string{"ALLOW_EMPTY_PASSWORD=yes"}
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(redisContainer))
	})

	state, err := redisContainer.State(ctx)
	require.NoError(t, err)
	require.True(t, state.Running)

	host, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)

	options, err := redis.ParseURL(host)
	require.NoError(t, err)
	client := redis.NewClient(options)
	require.NoError(t, client.Ping(ctx).Err(), "failed to connect to Redis")

	root := fmt.Sprintf("test-%d", time.Now().Unix())
	st := store.NewRedisStore(client, root, time.Hour, 3)
	runs := testRunStore(t, st, 3)

	// evicted runs are deleted
	for _, run := range runs[:2] {
		_, err = st.Get(ctx, run.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
		n, err := client.Exists(ctx, root+"/runs/"+run.ID).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	}

	// stored as JSON with TTL
	list, err := st.List(ctx, 1)
	require.NoError(t, err)
	key := root + "/runs/" + list[0].ID
	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	data, err := client.Get(ctx, key).Bytes()
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, list[0].ID, m["run_id"])
	assert.Equal(t, "research", m["research_output"])

	// expired runs are removed from the index
	require.NoError(t, client.Del(ctx, key).Err())
	_, err = st.Get(ctx, list[0].ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	list2, err := st.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list2, 2)
	count, err := client.ZCard(ctx, root+"/runs").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// from config
	st2, err := store.New(ctx, &store.Config{Type: store.TypeRedis, RedisURL: host, Prefix: root, TTL: "1h"})
	require.NoError(t, err)
	list3, err := st2.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list3, 2)
}
