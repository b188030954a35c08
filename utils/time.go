package utils

import "time"

// SecondsUntilMidnight 当天计数器的过期时长
func SecondsUntilMidnight(now time.Time) time.Duration {
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return tomorrow.Sub(now)
}

// DateKey 用于按天维度的 redis key
func DateKey(now time.Time) string {
	return now.Format("2006-01-02")
}
