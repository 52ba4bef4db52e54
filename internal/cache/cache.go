package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"

	"github.com/user/pathtracer/internal/engine"
	"github.com/user/pathtracer/internal/scene"
)

// Cache stores rendered frames by content key.
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, data []byte) error
}

// ErrMissing is returned by Get for keys that are not cached.
var ErrMissing = errors.New("not in cache")

// FSCache keeps one file per key inside a directory.
type FSCache string

func (f FSCache) getPath(key string) string {
	return filepath.Join(string(f), key+".cbor")
}

func (f FSCache) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(f.getPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrMissing
	}
	return data, err
}

func (f FSCache) Set(key string, data []byte) error {
	if err := os.MkdirAll(string(f), 0o755); err != nil {
		return err
	}
	// Write then rename so readers never see a partial entry.
	tmp, err := os.CreateTemp(string(f), key+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.getPath(key))
}

var _ Cache = FSCache("")

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// keyVersion must be bumped whenever renderer output or the cached frame
// encoding changes, so old entries stop matching.
const keyVersion = 1

// keyInput is everything that determines the pixels of a render.
type keyInput struct {
	Version  int
	Scene    *scene.Scene
	Settings scene.RenderSettings
	Seed     uint64
	Shading  string
}

// Key derives the cache key of a render from its scene, settings, seed and
// shading mode. Equal inputs give equal keys.
func Key(sc *scene.Scene, settings scene.RenderSettings, seed uint64, shading engine.Shading) (string, error) {
	return versionedKey(keyVersion, sc, settings, seed, shading)
}

func versionedKey(version int, sc *scene.Scene, settings scene.RenderSettings, seed uint64, shading engine.Shading) (string, error) {
	data, err := encMode.Marshal(keyInput{
		Version:  version,
		Scene:    sc,
		Settings: settings,
		Seed:     seed,
		Shading:  shading.String(),
	})
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}

// LoadFrame returns the cached frame for key, or ErrMissing.
func LoadFrame(c Cache, key string) (*engine.Frame, error) {
	data, err := c.Get(key)
	if err != nil {
		return nil, err
	}
	var f engine.Frame
	if err := cbor.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode cached frame %s: %w", key, err)
	}
	if len(f.Pix) != f.Width*f.Height*3 {
		return nil, fmt.Errorf("cached frame %s is corrupt: %d bytes for %dx%d", key, len(f.Pix), f.Width, f.Height)
	}
	return &f, nil
}

// StoreFrame caches f under key.
func StoreFrame(c Cache, key string, f *engine.Frame) error {
	data, err := encMode.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := c.Set(key, data); err != nil {
		return fmt.Errorf("store frame %s: %w", key, err)
	}
	return nil
}
