package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheMemoizesByContent(t *testing.T) {
	cache := NewCache()
	data := buildCSV(t, sampleRows())

	first, err := cache.Load(data)
	require.NoError(t, err)
	second, err := cache.Load(append([]byte(nil), data...))
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestCacheInvalidatesOnNewContent(t *testing.T) {
	cache := NewCache()

	first, err := cache.Load(buildCSV(t, sampleRows()))
	require.NoError(t, err)

	rows := sampleRows()
	rows = append(rows, []string{"3", "Sales", "0-2 years", "Agree", "", "z", ""})
	second, err := cache.Load(buildCSV(t, rows))
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 3, second.Len())
}

func TestCacheKeepsEntryAfterFailedLoad(t *testing.T) {
	cache := NewCache()
	data := buildCSV(t, sampleRows())

	first, err := cache.Load(data)
	require.NoError(t, err)

	_, err = cache.Load([]byte("\"a,b\",c\nonly one\n"))
	require.Error(t, err)

	again, err := cache.Load(data)
	require.NoError(t, err)
	assert.Same(t, first, again)
}
