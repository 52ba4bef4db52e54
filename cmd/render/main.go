package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/user/pathtracer/internal/cache"
	"github.com/user/pathtracer/internal/engine"
	"github.com/user/pathtracer/internal/history"
	"github.com/user/pathtracer/internal/scene"
)

const version = "0.3.0"

type renderCmd struct {
	Scene   string `arg:"" optional:"" type:"existingfile" help:"Scene file (.yaml, .yml or .json)."`
	Builtin string `help:"Render a built-in scene instead of a file (random, simple, normals)."`

	Mode    string `default:"preview" enum:"preview,final" help:"Quality preset."`
	Out     string `short:"o" default:"output.png" type:"path" help:"Output PNG file."`
	Seed    uint64 `help:"Random seed. 0 picks one and logs it; a fixed seed makes renders reproducible."`
	Workers int    `env:"PATHTRACER_WORKERS" help:"Worker goroutines (default: number of CPUs)."`
	Width   *int   `help:"Override image width."`
	Height  *int   `help:"Override image height."`
	Samples *int   `help:"Override samples per pixel."`
	Depth   *int   `help:"Override maximum bounce depth (0 renders black)."`
	Shading string `default:"path" enum:"path,normals" help:"Path tracing or surface normal debug shading."`

	CacheDir string `type:"path" help:"Reuse frames rendered with the same scene, settings and seed."`
	History  string `type:"path" help:"Record the render in this sqlite database."`
}

type sceneCmd struct {
	Name string `arg:"" help:"Built-in scene name (random, simple, normals)."`
	Seed uint64 `default:"1" help:"Seed for the random scene."`
}

type historyCmd struct {
	DB    string `arg:"" type:"existingfile" help:"History database."`
	Limit int    `default:"20" help:"Number of renders to list."`
}

var CLI struct {
	Version bool `help:"Print version information and exit." short:"v"`
	Debug   bool `help:"Whether to enable debug logging."`

	Render  renderCmd  `cmd:"" default:"withargs" help:"Render a scene to PNG."`
	Scene   sceneCmd   `cmd:"" help:"Write a built-in scene to standard output as YAML."`
	History historyCmd `cmd:"" help:"List recorded renders."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("pathtracer"),
		kong.Description("a Monte Carlo path tracer for sphere scenes"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Debug().Msg("debug logging enabled")
	}

	if CLI.Version {
		fmt.Printf("pathtracer %s\n", version)
		os.Exit(0)
	}

	var err error
	switch ctx.Command() {
	case "render", "render <scene>":
		err = CLI.Render.run()
	case "scene <name>":
		err = CLI.Scene.run()
	case "history <db>":
		err = CLI.History.run()
	default:
		err = fmt.Errorf("unknown command %q", ctx.Command())
	}
	if err != nil {
		writeError(err)
	}
}

func (c *renderCmd) loadScene() (*scene.Scene, error) {
	switch {
	case c.Builtin != "" && c.Scene != "":
		return nil, errors.New("give either a scene file or --builtin, not both")
	case c.Builtin != "":
		return scene.Builtin(c.Builtin, c.Seed)
	case c.Scene != "":
		return scene.Load(c.Scene)
	}
	return nil, errors.New("no scene: pass a scene file or --builtin")
}

func (c *renderCmd) run() error {
	sc, err := c.loadScene()
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}

	seed := c.Seed
	cacheable := c.CacheDir != "" && seed != 0
	if seed == 0 {
		seed = rand.Uint64()
		log.Info().Uint64("seed", seed).Msg("picked random seed")
	}

	settings := engine.SettingsOverride{
		Width:        c.Width,
		Height:       c.Height,
		SamplesPerPx: c.Samples,
		MaxDepth:     c.Depth,
	}.Apply(engine.MergeSettings(engine.RenderSettingsForMode(c.Mode), sc.Settings))
	shading := engine.ParseShading(c.Shading)

	cfg := engine.RenderConfig{
		Width:        settings.Width,
		Height:       settings.Height,
		SamplesPerPx: settings.SamplesPerPx,
		MaxDepth:     settings.MaxDepth,
		Workers:      c.Workers,
		Seed:         seed,
		Shading:      shading,
	}

	log.Info().
		Str("scene", sc.Name).
		Int("objects", len(sc.Objects)).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Int("spp", cfg.SamplesPerPx).
		Int("depth", cfg.MaxDepth).
		Stringer("shading", shading).
		Msg("rendering")

	var (
		key   string
		store cache.Cache
		frame *engine.Frame
	)
	if cacheable {
		store = cache.FSCache(c.CacheDir)
		key, err = cache.Key(sc, settings, seed, shading)
		if err != nil {
			return err
		}
		frame, err = cache.LoadFrame(store, key)
		switch {
		case err == nil:
			log.Info().Str("key", key).Msg("using cached frame")
		case errors.Is(err, cache.ErrMissing):
			log.Debug().Str("key", key).Msg("cache miss")
		default:
			log.Warn().Err(err).Str("key", key).Msg("ignoring unreadable cache entry")
		}
	}

	cached := frame != nil
	start := time.Now()
	if !cached {
		renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		frame, err = engine.RenderScene(renderCtx, sc, cfg, logProgress())
		if err != nil {
			return fmt.Errorf("render scene: %w", err)
		}
		if store != nil {
			if err := cache.StoreFrame(store, key, frame); err != nil {
				log.Warn().Err(err).Msg("could not cache frame")
			}
		}
	}
	elapsed := time.Since(start)

	if err := engine.SavePNG(c.Out, frame); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	log.Info().Str("out", c.Out).Dur("elapsed", elapsed).Bool("cached", cached).Msg("done")

	if c.History != "" {
		if err := recordHistory(c.History, &history.Render{
			Scene:        sc.Name,
			Key:          key,
			Width:        cfg.Width,
			Height:       cfg.Height,
			SamplesPerPx: cfg.SamplesPerPx,
			MaxDepth:     cfg.MaxDepth,
			Seed:         int64(seed),
			Shading:      shading.String(),
			Duration:     elapsed,
			Output:       c.Out,
			Cached:       cached,
		}); err != nil {
			log.Warn().Err(err).Msg("could not record render history")
		}
	}
	return nil
}

// logProgress returns a progress callback that logs every tenth of the render.
func logProgress() func(done, total int) {
	var step atomic.Int64
	return func(done, total int) {
		pct := done * 100 / total
		prev, cur := step.Load(), int64(pct/10)
		if cur > prev && step.CompareAndSwap(prev, cur) {
			log.Info().Int("percent", pct).Msgf("%d/%d tiles", done, total)
		}
	}
}

func recordHistory(path string, r *history.Render) error {
	h, err := history.Open(path)
	if err != nil {
		return err
	}
	defer h.Close()
	return h.Record(r)
}

func (c *sceneCmd) run() error {
	sc, err := scene.Builtin(c.Name, c.Seed)
	if err != nil {
		return err
	}
	return scene.WriteYAML(os.Stdout, sc)
}

func (c *historyCmd) run() error {
	h, err := history.Open(c.DB)
	if err != nil {
		return err
	}
	defer h.Close()

	renders, err := h.Recent(c.Limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tSCENE\tSIZE\tSPP\tDEPTH\tSEED\tTIME\tCACHED\tOUTPUT")
	for _, r := range renders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%dx%d\t%d\t%d\t%d\t%s\t%v\t%s\n",
			r.ID,
			r.CreatedAt.Format(time.RFC3339),
			r.Scene,
			r.Width, r.Height,
			r.SamplesPerPx,
			r.MaxDepth,
			uint64(r.Seed),
			r.Duration.Round(time.Millisecond),
			r.Cached,
			r.Output,
		)
	}
	return tw.Flush()
}
