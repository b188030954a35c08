package cache

import (
	"context"
	"time"

	ri "github.com/redis/go-redis/v9"

	"DemoPilot/storage/redis"
	"DemoPilot/utils"
)

// 每日发送计数：dpl:otp:count:{mobileHash}:{date}
// 次日零点过期，冷却由会话自己管，这里只管全天配额

const otpNS = "otp"

// IncrOTPCount 增加今日发送计数，返回当前次数
func IncrOTPCount(ctx context.Context, mobileHash string) (int, error) {
	key := redis.Key(otpNS, "count", mobileHash, utils.DateKey(time.Now()))

	count, err := redis.Client().Incr(ctx, key).Result()
	if err != nil {
		return 0, err // 具体在业务层处理报错
	}

	if count == 1 { // 今天第一次发送，过期点设到次日零点
		redis.Client().Expire(ctx, key, utils.SecondsUntilMidnight(time.Now()))
	}

	return int(count), nil
}

func GetOTPCount(ctx context.Context, mobileHash string) (int, error) {
	key := redis.Key(otpNS, "count", mobileHash, utils.DateKey(time.Now()))

	count, err := redis.Client().Get(ctx, key).Int()
	if err == ri.Nil {
		return 0, nil
	}

	return count, err
}
