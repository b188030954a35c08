package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewServerTracerConfig(t *testing.T) {
	opt, mw := NewServerTracerConfig()
	assert.NotNil(t, opt.F, "server option must be applicable at engine creation")
	assert.NotNil(t, mw)
}
