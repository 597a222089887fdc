package artifacts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collateral-pipeline/internal/models/modelstest"
)

func TestRedisSink_Write(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	sink := NewRedisSink(client, "collateral:run:", time.Hour)
	require.NoError(t, sink.Write(context.Background(), modelstest.RunArtifacts("run-1")))

	key := "collateral:run:run-1"
	fields, err := mr.HKeys(key)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"analysis", "content", "comparison", "pages"}, fields)
	assert.Contains(t, mr.HGet(key, "comparison"), "RadiantC Serum")
	assert.Equal(t, time.Hour, mr.TTL(key))
}

func TestRedisSink_NoTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	require.NoError(t, NewRedisSink(client, "p:", 0).Write(context.Background(), modelstest.RunArtifacts("run-2")))

	assert.True(t, mr.Exists("p:run-2"))
	assert.Equal(t, time.Duration(0), mr.TTL("p:run-2"))
}

func redisFields(t *testing.T, runID string) []interface{} {
	docs, err := Encode(modelstest.RunArtifacts(runID))
	require.NoError(t, err)
	var fields []interface{}
	for _, d := range docs {
		fields = append(fields, d.Name, string(d.Body))
	}
	return fields
}

func TestRedisSink_Errors(t *testing.T) {
	t.Run("hset fails", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectHSet("p:run-1", redisFields(t, "run-1")...).SetErr(errors.New("READONLY"))

		err := NewRedisSink(client, "p:", time.Minute).Write(context.Background(), modelstest.RunArtifacts("run-1"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "READONLY")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expire fails removes hash", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectHSet("p:run-1", redisFields(t, "run-1")...).SetVal(4)
		mock.ExpectExpire("p:run-1", time.Minute).SetErr(errors.New("timeout"))
		mock.ExpectDel("p:run-1").SetVal(1)

		err := NewRedisSink(client, "p:", time.Minute).Write(context.Background(), modelstest.RunArtifacts("run-1"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "expire")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
