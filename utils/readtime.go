package utils

import "strings"

const wordsPerMinute = 200

// EstimateReadMinutes 按 200 词/分钟估算阅读时长，至少 1 分钟
func EstimateReadMinutes(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 1
	}

	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
