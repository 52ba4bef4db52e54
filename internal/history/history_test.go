package history

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordRecent(t *testing.T) {
	s := openTemp(t)

	recent, err := s.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, recent)

	for i, name := range []string{"simple", "random", "normals"} {
		require.NoError(t, s.Record(&Render{
			Scene:        name,
			Key:          "00000000000000a" + string(rune('0'+i)),
			Width:        400,
			Height:       225,
			SamplesPerPx: 10 * (i + 1),
			MaxDepth:     50,
			Seed:         int64(i),
			Shading:      "path",
			Duration:     time.Duration(i+1) * time.Second,
			Output:       name + ".png",
		}))
	}

	recent, err = s.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "normals", recent[0].Scene)
	assert.Equal(t, "random", recent[1].Scene)
	assert.Equal(t, 3*time.Second, recent[0].Duration)
	assert.False(t, recent[0].CreatedAt.IsZero())

	all, err := s.Recent(10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSeedRoundTrip(t *testing.T) {
	s := openTemp(t)

	seed := uint64(math.MaxUint64 - 12)
	require.NoError(t, s.Record(&Render{Scene: "random", Seed: int64(seed), Cached: true}))

	recent, err := s.Recent(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, seed, uint64(recent[0].Seed))
	assert.True(t, recent[0].Cached)
}

func TestStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(&Render{Scene: "simple"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	recent, err := s.Recent(5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "simple", recent[0].Scene)
}
