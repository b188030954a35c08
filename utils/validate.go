package utils

import (
	"regexp"
	"strings"
)

var (
	mobileRe  = regexp.MustCompile(`^\d{10}$`)
	emailRe   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	websiteRe = regexp.MustCompile(`^https?://[^\s]+\.[^\s]+$`)
)

// ValidateMobile 印度市场手机号：恰好 10 位数字
func ValidateMobile(mobile string) bool {
	return mobileRe.MatchString(mobile)
}

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidateWebsite 要求带 scheme 前缀的网址
func ValidateWebsite(site string) bool {
	return websiteRe.MatchString(site)
}

// MaskMobile 脱敏手机号用于响应与日志
func MaskMobile(mobile string) string {
	if len(mobile) < 4 {
		return strings.Repeat("*", len(mobile))
	}
	return strings.Repeat("*", len(mobile)-4) + mobile[len(mobile)-4:]
}
