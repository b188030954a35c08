package cache

import (
	"context"
	"time"

	ri "github.com/redis/go-redis/v9"

	"DemoPilot/storage/redis"
	"DemoPilot/utils"
)

// 按天的提交计数：dpl:stats:submissions:{flow}:{date}

const statsNS = "stats"

// IncrSubmissionCount 记一笔当日提交
func IncrSubmissionCount(ctx context.Context, flow string) (int, error) {
	key := redis.Key(statsNS, "submissions", flow, utils.DateKey(time.Now()))

	count, err := redis.Client().Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	if count == 1 {
		redis.Client().Expire(ctx, key, 7*24*time.Hour)
	}

	return int(count), nil
}

func GetSubmissionCount(ctx context.Context, flow string, day time.Time) (int, error) {
	key := redis.Key(statsNS, "submissions", flow, utils.DateKey(day))

	count, err := redis.Client().Get(ctx, key).Int()
	if err == ri.Nil {
		return 0, nil
	}

	return count, err
}
