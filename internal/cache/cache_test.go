package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/pathtracer/internal/engine"
	"github.com/user/pathtracer/internal/scene"
)

func TestFSCacheGetSet(t *testing.T) {
	c := FSCache(filepath.Join(t.TempDir(), "nested", "cache"))

	_, err := c.Get("abc")
	assert.ErrorIs(t, err, ErrMissing)

	require.NoError(t, c.Set("abc", []byte("hello")))
	data, err := c.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	require.NoError(t, c.Set("abc", []byte("again")))
	data, err = c.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("again"), data)

	// No temp files are left behind.
	entries, err := os.ReadDir(string(c))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc.cbor", entries[0].Name())
}

func TestFrameRoundTrip(t *testing.T) {
	c := FSCache(t.TempDir())

	_, err := LoadFrame(c, "0000000000000001")
	assert.ErrorIs(t, err, ErrMissing)

	f := engine.NewFrame(4, 3)
	for i := range f.Pix {
		f.Pix[i] = byte(i * 7)
	}
	require.NoError(t, StoreFrame(c, "0000000000000001", f))

	got, err := LoadFrame(c, "0000000000000001")
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestLoadFrameCorrupt(t *testing.T) {
	c := FSCache(t.TempDir())

	require.NoError(t, c.Set("garbage", []byte{0xff, 0x00, 0x13}))
	_, err := LoadFrame(c, "garbage")
	assert.Error(t, err)

	short := &engine.Frame{Width: 4, Height: 4, Pix: make([]byte, 5)}
	require.NoError(t, StoreFrame(c, "short", short))
	_, err = LoadFrame(c, "short")
	assert.ErrorContains(t, err, "corrupt")
}

func TestKey(t *testing.T) {
	settings := scene.RenderSettings{Width: 64, Height: 32, SamplesPerPx: 4, MaxDepth: 8}

	key := func(sc *scene.Scene, settings scene.RenderSettings, seed uint64, shading engine.Shading) string {
		t.Helper()
		k, err := Key(sc, settings, seed, shading)
		require.NoError(t, err)
		return k
	}

	base := key(scene.Simple(0), settings, 1, engine.ShadingPath)
	assert.Len(t, base, 16)
	assert.Equal(t, base, key(scene.Simple(0), settings, 1, engine.ShadingPath))

	moved := scene.Simple(0)
	moved.Objects[1].Position.Y = 0.25
	bigger := settings
	bigger.SamplesPerPx = 5

	tests := map[string]string{
		"seed":     key(scene.Simple(0), settings, 2, engine.ShadingPath),
		"shading":  key(scene.Simple(0), settings, 1, engine.ShadingNormals),
		"settings": key(scene.Simple(0), bigger, 1, engine.ShadingPath),
		"scene":    key(moved, settings, 1, engine.ShadingPath),
	}
	for name, k := range tests {
		assert.NotEqual(t, base, k, name)
	}
}

func TestKeyVersion(t *testing.T) {
	settings := scene.RenderSettings{Width: 64, Height: 32, SamplesPerPx: 4, MaxDepth: 8}

	current, err := Key(scene.Simple(0), settings, 1, engine.ShadingPath)
	require.NoError(t, err)
	same, err := versionedKey(keyVersion, scene.Simple(0), settings, 1, engine.ShadingPath)
	require.NoError(t, err)
	assert.Equal(t, current, same)

	// Entries written by an older renderer no longer match.
	old, err := versionedKey(keyVersion-1, scene.Simple(0), settings, 1, engine.ShadingPath)
	require.NoError(t, err)
	assert.NotEqual(t, current, old)
}
