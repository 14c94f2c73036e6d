package tracker

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionByReturned_AllMissing(t *testing.T) {
	present, missing := partitionByReturned([]string{"a", "b", "c"}, nil)

	assert.Empty(t, present)
	assert.Equal(t, []string{"a", "b", "c"}, missing)
}

func TestPartitionByReturned_AllPresent(t *testing.T) {
	present, missing := partitionByReturned([]string{"a", "b"}, []string{"b", "a"})

	assert.Equal(t, []string{"a", "b"}, present)
	assert.Empty(t, missing)
}

func TestPartitionByReturned_Dangling(t *testing.T) {
	present, missing := partitionByReturned([]string{"A", "B", "D"}, []string{"A", "D"})

	assert.Equal(t, []string{"A", "D"}, present)
	assert.Equal(t, []string{"B"}, missing)
}

func TestPartitionByReturned_IgnoresExtraReturnedIDs(t *testing.T) {
	// Ids the store never asked about do not appear in either half.
	present, missing := partitionByReturned([]string{"a"}, []string{"a", "z"})

	assert.Equal(t, []string{"a"}, present)
	assert.Empty(t, missing)
}

func TestPartitionByReturned_OrderIndependent(t *testing.T) {
	requested := []string{"a", "b", "c", "d", "e", "f"}
	returned := []string{"b", "d", "f"}

	wantPresent, wantMissing := partitionByReturned(requested, returned)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffledReturned := append([]string(nil), returned...)
		rng.Shuffle(len(shuffledReturned), func(i, j int) {
			shuffledReturned[i], shuffledReturned[j] = shuffledReturned[j], shuffledReturned[i]
		})

		present, missing := partitionByReturned(requested, shuffledReturned)
		assert.Equal(t, wantPresent, present)
		assert.Equal(t, wantMissing, missing)
	}
}

func TestPartitionByReturned_ExactPartition(t *testing.T) {
	requested := []string{"a", "b", "c", "d"}
	returned := []string{"c", "a"}

	present, missing := partitionByReturned(requested, returned)

	// present and missing are disjoint and together cover requested exactly
	seen := make(map[string]int)
	for _, id := range present {
		seen[id]++
	}
	for _, id := range missing {
		seen[id]++
	}
	require.Len(t, seen, len(requested))
	for _, id := range requested {
		assert.Equal(t, 1, seen[id])
	}
}
