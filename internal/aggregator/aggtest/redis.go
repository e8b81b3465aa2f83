// Package aggtest 测试用的统计缓存存储
package aggtest

import (
	"testing"

	"society-console/internal/aggregator"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// NewRedisStore 启动进程内 miniredis 并返回连接它的 RedisStore，测试结束时关闭
func NewRedisStore(t testing.TB) (*miniredis.Miniredis, *aggregator.RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, aggregator.NewRedisStore(client)
}
