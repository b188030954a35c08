package cache

import (
	"context"
	"time"

	ri "github.com/redis/go-redis/v9"

	"DemoPilot/config"
	"DemoPilot/internal/wizard"
	"DemoPilot/storage/redis"
)

// 设备侧草稿：dpl:draft:device:{deviceID}:{flow}
// TTL: DEVICE_DRAFT_TTL_HOURS，默认 30 天，每次写入续期

const draftNS = "draft"

// DeviceDraftStore 按匿名设备标识分键的草稿存储，wizard.Store 的"本地"实现。
// 浏览器清数据等价于这里的 key 被删。
type DeviceDraftStore struct {
	deviceID string
	flow     string
}

func NewDeviceDraftStore(deviceID, flow string) *DeviceDraftStore {
	return &DeviceDraftStore{deviceID: deviceID, flow: flow}
}

func (s *DeviceDraftStore) key() string {
	return redis.Key(draftNS, "device", s.deviceID, s.flow)
}

func (s *DeviceDraftStore) Load(ctx context.Context) (*wizard.Draft, bool, error) {
	data, err := redis.Client().Get(ctx, s.key()).Bytes()
	if err == ri.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	d, err := wizard.UnmarshalDraft(data)
	if err != nil {
		// 坏数据当不存在处理，下一次 Save 会覆盖掉
		return nil, false, nil
	}

	return d, true, nil
}

func (s *DeviceDraftStore) Save(ctx context.Context, d *wizard.Draft) error {
	data, err := wizard.MarshalDraft(d)
	if err != nil {
		return err
	}

	ttl := time.Duration(config.Cfg.DeviceDraftTTLHours) * time.Hour
	return redis.Client().Set(ctx, s.key(), data, ttl).Err()
}

func (s *DeviceDraftStore) Clear(ctx context.Context) error {
	return redis.Client().Del(ctx, s.key()).Err()
}
