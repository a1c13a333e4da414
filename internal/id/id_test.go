package id

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for range count {
		id, err := Generate("item")
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	for _, prefix := range []string{"list", "item", "custom"} {
		t.Run(prefix, func(t *testing.T) {
			id, err := Generate(prefix)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(id, prefix+"-"))
			assert.Len(t, id, len(prefix)+1+21)
		})
	}
}

func TestTimestamped_EncodesCreationTime(t *testing.T) {
	at := time.UnixMilli(1760000000000)

	id, err := Timestamped("list", at)
	require.NoError(t, err)

	parts := strings.Split(id, "-")
	require.GreaterOrEqual(t, len(parts), 3)
	assert.Equal(t, "list", parts[0])

	millis, err := strconv.ParseInt(parts[1], 36, 64)
	require.NoError(t, err)
	assert.Equal(t, at.UnixMilli(), millis)
}

func TestTimestamped_UniqueWithinSameMillisecond(t *testing.T) {
	at := time.Now()
	seen := make(map[string]bool)

	for range 200 {
		id, err := Timestamped("list", at)
		require.NoError(t, err)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		id := MustGenerate("seed")
		assert.True(t, strings.HasPrefix(id, "seed-"))
	})
}
