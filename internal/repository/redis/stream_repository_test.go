package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/competition-service/internal/domain"
	redisRepo "github.com/competition-service/internal/repository/redis"
)

const (
	testCalculateStream = "test:stream:competition:calculate"
	testDoneStream      = "test:stream:competition:done"
)

// getTestRedisClient подключается к локальному Redis или пропускает тест
func getTestRedisClient(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}

	client.Del(ctx, testCalculateStream, testDoneStream)
	t.Cleanup(func() {
		client.Del(context.Background(), testCalculateStream, testDoneStream)
		client.Close()
	})
	return client
}

func TestStreamRepository_CreateConsumerGroup(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testCalculateStream, "test-group"))

	groups, err := client.XInfoGroups(ctx, testCalculateStream).Result()
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "test-group", groups[0].Name)

	// BUSYGROUP is not an error
	assert.NoError(t, repo.CreateConsumerGroup(ctx, testCalculateStream, "test-group"))
}

func TestStreamRepository_PublishToStream(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	event := &domain.CompetitionDoneEvent{
		RequestID: uuid.New(),
		ProjectID: uuid.New(),
		Results: []domain.SettingSummary{
			{Setting: domain.SettingNullfall, TotalRevenue: 1000, MarketCount: 2, CellCount: 1},
		},
	}
	require.NoError(t, repo.PublishToStream(ctx, testDoneStream, event))

	streams, err := client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{testDoneStream, "0"},
		Count:   1,
	}).Result()
	require.NoError(t, err)
	require.Len(t, streams, 1)
	require.Len(t, streams[0].Messages, 1)

	data, ok := streams[0].Messages[0].Values["data"].(string)
	require.True(t, ok)

	var got domain.CompetitionDoneEvent
	require.NoError(t, json.Unmarshal([]byte(data), &got))
	assert.Equal(t, event.ProjectID, got.ProjectID)
	require.Len(t, got.Results, 1)
	assert.Equal(t, 1000.0, got.Results[0].TotalRevenue)
}

func TestStreamRepository_ConsumeStream(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testCalculateStream, "consume-group"))

	event := &domain.CompetitionCalculateEvent{
		RequestID: uuid.New(),
		ProjectID: uuid.New(),
		Settings:  []domain.Setting{domain.SettingPlanfall},
	}
	require.NoError(t, repo.PublishToStream(ctx, testCalculateStream, event))

	msgChan, err := repo.ConsumeStream(ctx, testCalculateStream, "consume-group", "consumer-1")
	require.NoError(t, err)

	select {
	case msg := <-msgChan:
		assert.NotEmpty(t, msg.ID)
		var got domain.CompetitionCalculateEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Data), &got))
		assert.Equal(t, event.ProjectID, got.ProjectID)
		assert.Equal(t, []domain.Setting{domain.SettingPlanfall}, got.Settings)
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for message")
	}
}

func TestStreamRepository_ConsumeBatchAndAck(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()
	group := "batch-group"

	require.NoError(t, repo.CreateConsumerGroup(ctx, testCalculateStream, group))

	empty, err := repo.ConsumeBatch(ctx, testCalculateStream, group, "c1", 5)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.PublishToStream(ctx, testCalculateStream, &domain.CompetitionCalculateEvent{
			RequestID: uuid.New(),
			ProjectID: uuid.New(),
		}))
	}

	batch, err := repo.ConsumeBatch(ctx, testCalculateStream, group, "c1", 2)
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	ids := []string{batch[0].ID, batch[1].ID}
	require.NoError(t, repo.AckMessages(ctx, testCalculateStream, group, ids))

	pending, err := client.XPending(ctx, testCalculateStream, group).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)

	rest, err := repo.ConsumeBatch(ctx, testCalculateStream, group, "c1", 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.NoError(t, repo.AckMessage(ctx, testCalculateStream, group, rest[0].ID))
}

func TestStreamRepository_SkipsMessagesWithoutData(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()
	group := "raw-group"

	require.NoError(t, repo.CreateConsumerGroup(ctx, testCalculateStream, group))
	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: testCalculateStream,
		Values: map[string]interface{}{"other": "x"},
	}).Err())

	batch, err := repo.ConsumeBatch(ctx, testCalculateStream, group, "c1", 10)
	require.NoError(t, err)
	assert.Empty(t, batch)

	pending, err := client.XPending(ctx, testCalculateStream, group).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}
