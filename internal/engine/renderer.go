package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidConfig is returned by Render for unusable render parameters.
var ErrInvalidConfig = errors.New("invalid render config")

const tileSize = 32

// RenderConfig defines internal render parameters.
type RenderConfig struct {
	Width        int
	Height       int
	SamplesPerPx int
	MaxDepth     int

	// Workers is the number of goroutines; zero means runtime.NumCPU().
	Workers int
	// Seed fixes every random draw of the render. Equal seeds give equal frames.
	Seed    uint64
	Shading Shading
	// Sky is the background; nil selects DefaultSky.
	Sky *Sky
}

func (cfg RenderConfig) validate() error {
	switch {
	case cfg.Width < 2 || cfg.Height < 2:
		return fmt.Errorf("%w: image must be at least 2x2, got %dx%d", ErrInvalidConfig, cfg.Width, cfg.Height)
	case cfg.SamplesPerPx < 1:
		return fmt.Errorf("%w: samples per pixel must be at least 1, got %d", ErrInvalidConfig, cfg.SamplesPerPx)
	case cfg.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidConfig, cfg.MaxDepth)
	case cfg.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, cfg.Workers)
	}
	return nil
}

func (cfg RenderConfig) workerCount() int {
	if cfg.Workers > 0 {
		return cfg.Workers
	}
	return max(1, runtime.NumCPU())
}

// Render traces the world through cam and returns a new frame.
func Render(ctx context.Context, w *World, cam Camera, cfg RenderConfig) (*Frame, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	frame := NewFrame(cfg.Width, cfg.Height)
	if err := RenderInto(ctx, w, cam, cfg, frame, nil); err != nil {
		return nil, err
	}
	return frame, nil
}

type tile struct {
	x0, y0, x1, y1 int
}

// RenderInto renders into frame, which must match cfg's dimensions.
// If progress is not nil, it is called from worker goroutines after finished
// tiles with the number of tiles done so far.
//
// Cancelling ctx stops workers between tiles; the frame is then partially
// written and ctx.Err() is returned.
func RenderInto(ctx context.Context, w *World, cam Camera, cfg RenderConfig, frame *Frame, progress func(done, total int)) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if frame.Width != cfg.Width || frame.Height != cfg.Height {
		return fmt.Errorf("%w: frame is %dx%d, config is %dx%d",
			ErrInvalidConfig, frame.Width, frame.Height, cfg.Width, cfg.Height)
	}
	if cfg.Sky == nil {
		sky := DefaultSky()
		cfg.Sky = &sky
	}

	numTilesX := (cfg.Width + tileSize - 1) / tileSize
	numTilesY := (cfg.Height + tileSize - 1) / tileSize
	totalTiles := numTilesX * numTilesY
	tiles := make(chan tile, totalTiles)
	for ty := 0; ty < cfg.Height; ty += tileSize {
		for tx := 0; tx < cfg.Width; tx += tileSize {
			tiles <- tile{
				x0: tx,
				y0: ty,
				x1: min(tx+tileSize, cfg.Width),
				y1: min(ty+tileSize, cfg.Height),
			}
		}
	}
	close(tiles)

	workerCount := min(cfg.workerCount(), totalTiles)
	log.Debug().
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Int("spp", cfg.SamplesPerPx).
		Int("depth", cfg.MaxDepth).
		Int("workers", workerCount).
		Int("tiles", totalTiles).
		Int("objects", w.Len()).
		Stringer("shading", cfg.Shading).
		Msg("render started")
	start := time.Now()

	var (
		wg             sync.WaitGroup
		progressMu     deadlock.Mutex
		processedTiles int
	)
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rng := newRandSource()

			for t := range tiles {
				if ctx.Err() != nil {
					return
				}
				renderTile(w, cam, cfg, frame, t, rng)

				if progress != nil {
					progressMu.Lock()
					processedTiles++
					done := processedTiles
					progressMu.Unlock()
					progress(done, totalTiles)
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		log.Debug().Err(err).Dur("elapsed", time.Since(start)).Msg("render aborted")
		return err
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("render finished")
	return nil
}

func renderTile(w *World, cam Camera, cfg RenderConfig, frame *Frame, t tile, rng *randSource) {
	invWidth := 1.0 / float64(cfg.Width-1)
	invHeight := 1.0 / float64(cfg.Height-1)
	invSamples := 1.0 / float64(cfg.SamplesPerPx)

	for y := t.y0; y < t.y1; y++ {
		// Frame rows run top to bottom, camera v runs bottom to top.
		flipY := float64(cfg.Height - 1 - y)
		for x := t.x0; x < t.x1; x++ {
			rng.reseed(cfg.Seed, y*cfg.Width+x)

			var col Color
			for s := 0; s < cfg.SamplesPerPx; s++ {
				u := (float64(x) + rng.Float64()) * invWidth
				vv := (flipY + rng.Float64()) * invHeight
				r := cam.Ray(u, vv, rng.Rand)
				col = r3.Add(col, sample(r, w, cfg, rng))
			}
			frame.set(x, y, r3.Scale(invSamples, col))
		}
	}
}

func sample(r Ray, w *World, cfg RenderConfig, rng *randSource) Color {
	if cfg.Shading == ShadingNormals {
		return NormalColor(r, w, *cfg.Sky)
	}
	return RayColor(r, w, *cfg.Sky, cfg.MaxDepth, rng.Rand)
}

// toByte applies gamma 2, clamps to [0, 0.999] and quantizes to 8 bits.
func toByte(c float64) uint8 {
	if !(c > 0) {
		return 0
	}
	return uint8(256 * clamp(math.Sqrt(c), 0, 0.999))
}
