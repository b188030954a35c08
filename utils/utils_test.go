package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateMobile(t *testing.T) {
	assert.True(t, ValidateMobile("9876543210"))
	assert.False(t, ValidateMobile("987654321"))   // 9 位
	assert.False(t, ValidateMobile("98765432100")) // 11 位
	assert.False(t, ValidateMobile("98765a3210"))
	assert.False(t, ValidateMobile("+919876543210"))
	assert.False(t, ValidateMobile(""))
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("ravi@acme.example"))
	assert.True(t, ValidateEmail("ravi.kumar+demo@acme.co.in"))
	assert.False(t, ValidateEmail("ravi@acme"))
	assert.False(t, ValidateEmail("ravi.acme.example"))
	assert.False(t, ValidateEmail("@acme.example"))
	assert.False(t, ValidateEmail(""))
}

func TestValidateWebsite(t *testing.T) {
	assert.True(t, ValidateWebsite("https://acme.example"))
	assert.True(t, ValidateWebsite("http://acme.example/path?q=1"))
	assert.False(t, ValidateWebsite("acme.example"))
	assert.False(t, ValidateWebsite("ftp://acme.example"))
	assert.False(t, ValidateWebsite("https://nodot"))
}

func TestMaskMobile(t *testing.T) {
	assert.Equal(t, "******3210", MaskMobile("9876543210"))
	assert.Equal(t, "***", MaskMobile("987"))
	assert.Equal(t, "", MaskMobile(""))
}

func TestHashMobile(t *testing.T) {
	a := HashMobile("9876543210")
	b := HashMobile("9876543210")
	c := HashMobile("9876543211")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
	assert.NotContains(t, a, "9876543210")
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "top-10-crm-tips", Slugify("Top 10 CRM tips"))
	assert.Equal(t, "spaced-out", Slugify("  spaced   out  "))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestEstimateReadMinutes(t *testing.T) {
	assert.Equal(t, 1, EstimateReadMinutes(""))
	assert.Equal(t, 1, EstimateReadMinutes("a few short words"))
	assert.Equal(t, 1, EstimateReadMinutes(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, EstimateReadMinutes(strings.Repeat("word ", 201)))
	assert.Equal(t, 5, EstimateReadMinutes(strings.Repeat("word ", 1000)))
}

func TestSecondsUntilMidnight(t *testing.T) {
	now := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Minute, SecondsUntilMidnight(now))

	now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 24*time.Hour, SecondsUntilMidnight(now))
}

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2025-06-01", DateKey(time.Date(2025, 6, 1, 15, 4, 5, 0, time.UTC)))
}
