package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("info")
	assert.NoError(t, err)
	assert.True(t, logger.Enabled())
	assert.False(t, logger.V(1).Enabled())

	logger, err = newLogger("trace")
	assert.NoError(t, err)
	assert.True(t, logger.V(2).Enabled())

	_, err = newLogger("verbose")
	assert.ErrorContains(t, err, `unknown log level "verbose"`)
}
