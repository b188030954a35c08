package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashMobile 手机号哈希化后再进 redis key，日志与存储里不落明文号码
func HashMobile(mobile string) string {
	sum := sha256.Sum256([]byte(mobile))
	return hex.EncodeToString(sum[:])
}
