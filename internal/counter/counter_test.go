package counter

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "total_requests.txt")

	store, err := NewStore(path, nil)
	require.NoError(t, err)

	total, err := store.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0", string(data))
}

func TestIncrementPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "total_requests.txt")

	store, err := NewStore(path, nil)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		total, err := store.Increment()
		require.NoError(t, err)
		assert.Equal(t, int64(i), total)
	}

	reopened, err := NewStore(path, nil)
	require.NoError(t, err)

	total, err := reopened.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestCorruptFileResetsToZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "total_requests.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a number"), 0o644))

	store, err := NewStore(path, nil)
	require.NoError(t, err)

	total, err := store.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	total, err = store.Increment()
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestNegativeValueResetsToZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "total_requests.txt")
	require.NoError(t, os.WriteFile(path, []byte("-5"), 0o644))

	store, err := NewStore(path, nil)
	require.NoError(t, err)

	total, err := store.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestConcurrentIncrementsLoseNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "total_requests.txt")

	store, err := NewStore(path, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := store.Increment()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	total, err := store.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(20), total)
}
