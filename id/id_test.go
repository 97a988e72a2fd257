package id

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortedAndUnique(t *testing.T) {
	t.Parallel()

	ids := make([]string, 500)
	for i := range ids {
		ids[i] = New()
	}

	assert.True(t, sort.StringsAreSorted(ids))

	seen := map[string]bool{}
	for _, s := range ids {
		assert.Len(t, s, 26)
		assert.False(t, seen[s])
		seen[s] = true
	}
}

func TestNewConcurrent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := map[string]bool{}

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s := New()
				mu.Lock()
				seen[s] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 800)
}

func TestNewCarriesMintTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 12, 10, 21, 0, 0, 0, time.UTC)
	u, err := ulid.ParseStrict(newAt(at))
	require.NoError(t, err)
	assert.True(t, at.Equal(ulid.Time(u.Time()).UTC()))
}
