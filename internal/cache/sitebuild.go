package cache

import (
	"context"
	"time"

	ri "github.com/redis/go-redis/v9"

	"DemoPilot/storage/redis"
)

// 建站任务状态：dpl:sitebuild:{domain}
// 值为 queued / building / ready / failed，查询端轮询用

const siteBuildNS = "sitebuild"

const siteBuildStatusTTL = 7 * 24 * time.Hour

func SetSiteBuildStatus(ctx context.Context, domain, status string) error {
	key := redis.Key(siteBuildNS, domain)
	return redis.Client().Set(ctx, key, status, siteBuildStatusTTL).Err()
}

func GetSiteBuildStatus(ctx context.Context, domain string) (string, error) {
	key := redis.Key(siteBuildNS, domain)

	status, err := redis.Client().Get(ctx, key).Result()
	if err == ri.Nil {
		return "", nil
	}

	return status, err
}
