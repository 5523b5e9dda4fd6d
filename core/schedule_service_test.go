package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRunStandardExpression(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)

	next, err := NextRun("0 2 * * *", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 29, 2, 0, 0, 0, time.UTC), next)

	next, err = NextRun("*/15 * * * *", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 28, 10, 45, 0, 0, time.UTC), next)
}

func TestNextRunRejectsInvalidExpression(t *testing.T) {
	_, err := NextRun("every tuesday", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron expression")

	_, err = NextRun("0 2 * *", time.Now()) // missing a field
	assert.Error(t, err)
}
