package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"philcali.me/recipesync/internal/logger"
)

func TestNew(t *testing.T) {
	l, err := logger.New("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = logger.New("warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = logger.New("loud")
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, logger.OrNop(nil))
	l := logger.Nop()
	assert.Same(t, l, logger.OrNop(l))
}
