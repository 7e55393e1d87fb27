package logger

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitLevelParsing(t *testing.T) {
	Init(Config{Level: "debug", Format: "json"})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	// 非法级别回退到info
	Init(Config{Level: "bogus", Format: "json"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestWithContextRoundTrip(t *testing.T) {
	Init(Config{Level: "info", Format: "json"})

	ctx := WithContext(context.Background())
	ctxLogger := Ctx(ctx)

	assert.NotNil(t, ctxLogger)
}
