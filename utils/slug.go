package utils

import (
	"strings"
	"unicode"
)

// Slugify 由标题生成 URL slug：小写、非字母数字折叠为连字符
func Slugify(title string) string {
	var sb strings.Builder
	lastDash := true // 抑制开头的连字符

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(sb.String(), "-")
}
