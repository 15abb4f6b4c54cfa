// Package game glues the simulation, camera, renderer and export
// pipeline into a window loop.
package game

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/petalsim/petalfall/camera"
	"github.com/petalsim/petalfall/config"
	"github.com/petalsim/petalfall/export"
	"github.com/petalsim/petalfall/petal"
	"github.com/petalsim/petalfall/render"
	"github.com/petalsim/petalfall/telemetry"
)

// Stats windows cover this many seconds of exported video.
const statsWindowSeconds = 5

// Options holds the run parameters passed in from the command line.
type Options struct {
	Seed      uint64
	OutputDir string
}

// Game holds the complete application state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	store    *petal.Store
	cam      *camera.Camera
	renderer *render.Renderer

	pipeline  *export.Pipeline
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	perf      *telemetry.PerfCollector

	paused    bool
	mouseLook bool

	// Rolling mean submit wait from the last completed stats window,
	// shown on the HUD.
	lastSubmitWaitMs float64
}

// New builds the game from the loaded configuration. The window must
// already be open. If the encoder cannot be started, export is
// disabled and the game runs live only.
func New(opts Options) (*Game, error) {
	cfg := config.Cfg()

	g := &Game{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}

	renderer, err := render.New(cfg)
	if err != nil {
		return nil, err
	}
	g.renderer = renderer

	field := petal.NewField(g.rng,
		cfg.Derived.MotionPeriod,
		cfg.Motion.NFrequencies,
		cfg.Motion.LowFreqMaxAmplitude,
		cfg.Motion.HighFreqMaxAmplitude,
	)
	g.store = petal.NewStore(g.rng, petal.Params{
		Count:       cfg.Petals.Count,
		MinScale:    cfg.Petals.MinScale,
		MaxScale:    cfg.Petals.MaxScale,
		FallSpeed:   cfg.Petals.FallSpeed,
		MinRotation: cfg.Derived.MinRotationRad,
		MaxRotation: cfg.Derived.MaxRotationRad,
		Bounds:      r3.Vec{X: cfg.Volume.MaxX, Y: cfg.Volume.MaxY, Z: cfg.Volume.MaxZ},
	}, renderer.Variants(), field)

	aspect := float64(cfg.Screen.Width) / float64(cfg.Screen.Height)
	g.cam = camera.New(
		r3.Vec{Z: cfg.Volume.MaxZ},
		0, 0,
		cfg.Camera.FovYDegrees*math.Pi/180,
		aspect,
		cfg.Camera.Near,
		cfg.Derived.CameraFar,
	)

	g.perf = telemetry.NewPerfCollector(cfg.Export.FrameRate)

	if cfg.Export.Enabled {
		pipeline, err := export.Start(export.Config{
			OutputFile: cfg.Export.File,
			Width:      cfg.Export.Width,
			Height:     cfg.Export.Height,
			FrameRate:  cfg.Export.FrameRate,
		}, &export.FFmpeg{})
		if err != nil {
			slog.Error("starting video export failed, continuing live only", "error", err)
		} else {
			g.pipeline = pipeline
			g.collector = telemetry.NewCollector(
				statsWindowSeconds*cfg.Export.FrameRate,
				cfg.Export.FrameRate,
			)
		}
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.shutdown()
		return nil, err
	}
	g.output = output
	if err := g.output.WriteConfig(cfg); err != nil {
		slog.Warn("saving config snapshot failed", "error", err)
	}

	slog.Info("simulation ready",
		"petals", cfg.Petals.Count,
		"variants", cfg.Derived.VariantCount,
		"motion_period", cfg.Derived.MotionPeriod,
		"exporting", g.pipeline != nil,
	)
	return g, nil
}

// Update processes input and advances the simulation one tick.
func (g *Game) Update() {
	g.perf.StartTick()

	g.handleInput()

	if !g.paused {
		g.store.Step()
	}
	g.perf.EndPhase(telemetry.PhaseUpdate)
}

// Draw renders the export frame (if recording) and the live window.
func (g *Game) Draw() {
	if g.pipeline != nil && !g.paused {
		g.captureAndSubmit()
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 10, G: 12, B: 22, A: 255})
	g.renderer.DrawWorld(g.store.Petals(), g.cam)
	g.perf.EndPhase(telemetry.PhaseDraw)

	if render.DrawHUD(render.HUDState{
		Tick:          g.store.Tick(),
		FPS:           rl.GetFPS(),
		PetalCount:    g.cfg.Petals.Count,
		Paused:        g.paused,
		MouseLook:     g.mouseLook,
		Exporting:     g.pipeline != nil,
		ExportSeconds: float64(g.store.Tick()) / float64(g.cfg.Export.FrameRate),
		SubmitWaitMs:  g.lastSubmitWaitMs,
	}) {
		g.paused = !g.paused
	}
	rl.EndDrawing()

	g.perf.EndTick()
	tick := g.store.Tick()
	if !g.paused && tick > 0 && tick%(statsWindowSeconds*g.cfg.Export.FrameRate) == 0 {
		g.perf.LogStats(tick)
	}
	g.flushStatsWindow(tick)
}

// captureAndSubmit renders one off-screen frame and hands it to the
// encoder. A capture failure skips the frame; a submit failure means
// the encoder died, so export shuts down while the window keeps
// running.
func (g *Game) captureAndSubmit() {
	frame, err := g.renderer.CaptureFrame(g.store.Petals(), g.cam)
	g.perf.EndPhase(telemetry.PhaseCapture)
	if err != nil {
		slog.Warn("frame capture failed, skipping frame", "tick", g.store.Tick(), "error", err)
		g.collector.RecordCaptureFailure()
		return
	}

	start := time.Now()
	if err := g.pipeline.Submit(frame); err != nil {
		slog.Error("frame submit failed, disabling export", "tick", g.store.Tick(), "error", err)
		g.pipeline.Close()
		g.pipeline = nil
		return
	}
	wait := time.Since(start)
	g.collector.RecordSubmit(len(frame), float64(wait)/float64(time.Millisecond))
	g.perf.EndPhase(telemetry.PhaseSubmit)
}

// flushStatsWindow writes a stats record when the current window is
// full.
func (g *Game) flushStatsWindow(tick int) {
	if g.collector == nil || !g.collector.WindowComplete(tick) {
		return
	}
	stats := g.collector.Flush(tick)
	g.lastSubmitWaitMs = stats.SubmitWaitMeanMs
	if err := g.output.WriteWindow(stats); err != nil {
		slog.Warn("writing stats window failed", "error", err)
	}
}

// Tick returns the number of completed simulation ticks.
func (g *Game) Tick() int { return g.store.Tick() }

// Unload finishes the export and releases resources. The returned
// error is the export's final status; a caller that ignores it may
// ship a broken video file.
func (g *Game) Unload() error {
	var exportErr error
	if g.pipeline != nil {
		exportErr = g.pipeline.Close()
		g.pipeline = nil
	}
	if err := g.output.Close(); err != nil {
		slog.Warn("closing stats output failed", "error", err)
	}
	g.shutdown()
	return exportErr
}

// shutdown releases GPU resources.
func (g *Game) shutdown() {
	if g.renderer != nil {
		g.renderer.Unload()
		g.renderer = nil
	}
}
