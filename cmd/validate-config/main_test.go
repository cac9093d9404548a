package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "<not set>", maskToken(""))
	assert.Equal(t, "***", maskToken("short"))
	assert.Equal(t, "1234...wxyz", maskToken("1234:abcdefwxyz"))
}

func TestRun_Valid(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:secret-token-value")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("STATE_BACKEND", "memory")
	t.Setenv("LOG_FORMAT", "text")

	var out bytes.Buffer
	assert.Equal(t, 0, run(&out))
	assert.Contains(t, out.String(), "Configuration is valid")
	assert.Contains(t, out.String(), "1234...alue")
	assert.NotContains(t, out.String(), "secret-token")
}

func TestRun_Invalid(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("STORAGE_BACKEND", "sqlite")

	var out bytes.Buffer
	assert.Equal(t, 1, run(&out))
	assert.Contains(t, out.String(), "TELEGRAM_BOT_TOKEN is required")
	assert.Contains(t, out.String(), `unknown STORAGE_BACKEND "sqlite"`)
}
