package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDetectedLocation_Fresh(t *testing.T) {
	now := time.Now()
	week := 7 * 24 * time.Hour

	var missing *DetectedLocation
	assert.False(t, missing.Fresh(now, week))
	assert.False(t, (&DetectedLocation{}).Fresh(now, week))
	assert.True(t, (&DetectedLocation{DetectedAt: now.Add(-time.Hour)}).Fresh(now, week))
	assert.False(t, (&DetectedLocation{DetectedAt: now.Add(-8 * 24 * time.Hour)}).Fresh(now, week))
}
