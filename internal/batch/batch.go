// Package batch renders every preset and mode combination of a texture and
// packages the results.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/iristint/internal/colour"
	"github.com/jmylchreest/iristint/internal/raster"
	"github.com/jmylchreest/iristint/internal/transform"
)

var (
	// ErrInvalidInput is returned when the texture or mask is missing.
	ErrInvalidInput = transform.ErrInvalidInput

	// ErrNoPresets is returned when a job selects no presets.
	ErrNoPresets = errors.New("no presets selected")

	// ErrNoModes is returned when a job selects no modes.
	ErrNoModes = errors.New("no modes selected")

	// ErrRenderPanic marks an entry whose transform panicked.
	ErrRenderPanic = errors.New("render panicked")
)

// Job describes one batch request.
type Job struct {
	Prefix  string
	Presets []colour.Preset
	Modes   []transform.Mode
	Params  transform.Params
}

// Entry is the outcome of one preset and mode combination.
type Entry struct {
	Name     string
	Caption  string
	Preset   colour.Preset
	Mode     transform.Mode
	Texture  *raster.Texture
	Duration time.Duration
	Err      error
}

// OK reports whether the entry rendered successfully.
func (e *Entry) OK() bool {
	return e.Err == nil && e.Texture != nil
}

// Runner evaluates jobs on a bounded pool of goroutines.
type Runner struct {
	// Logger receives per-entry progress. Defaults to a null logger.
	Logger hclog.Logger
	// Workers bounds concurrent renders. Zero means runtime.GOMAXPROCS(0).
	Workers int
}

// NewRunner creates a Runner with the given logger and worker bound.
func NewRunner(logger hclog.Logger, workers int) *Runner {
	return &Runner{Logger: logger, Workers: workers}
}

func (r *Runner) logger() hclog.Logger {
	if r == nil || r.Logger == nil {
		return hclog.NewNullLogger()
	}
	return r.Logger.Named("batch")
}

func (r *Runner) workers() int {
	if r == nil || r.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return r.Workers
}

// Run renders the cross product of job.Presets and job.Modes.
//
// Entries are ordered preset-major, mode-minor regardless of completion
// order. A failing combination is recorded on its entry and does not stop
// the batch. When ctx is cancelled no further combinations are started and
// the remaining entries carry the context error. The emission mask, when
// requested, is built once for the whole batch.
func (r *Runner) Run(ctx context.Context, tex *raster.Texture, mask *raster.Mask, job Job) (*Report, error) {
	if tex == nil || mask == nil {
		return nil, fmt.Errorf("%w: texture and mask are required", ErrInvalidInput)
	}
	if len(job.Presets) == 0 {
		return nil, ErrNoPresets
	}
	if len(job.Modes) == 0 {
		return nil, ErrNoModes
	}

	logger := r.logger()
	report := &Report{
		Prefix:  job.Prefix,
		Params:  job.Params,
		Entries: make([]Entry, 0, len(job.Presets)*len(job.Modes)),
	}
	for _, preset := range job.Presets {
		for _, mode := range job.Modes {
			report.Entries = append(report.Entries, Entry{
				Name:    Name(job.Prefix, preset.ID, mode),
				Caption: Caption(preset, mode),
				Preset:  preset,
				Mode:    mode,
			})
		}
	}

	if job.Params.MakeEmission {
		report.Emission = transform.BuildEmission(mask, job.Params.RingInner, job.Params.RingOuter, job.Params.RingSoft)
		logger.Debug("built emission mask", "name", EmissionName)
	}

	params := job.Params
	params.MakeEmission = false

	workers := r.workers()
	logger.Info("starting batch", "entries", len(report.Entries), "workers", workers)
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range report.Entries {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(report.Entries); j++ {
				report.Entries[j].Err = err
			}
			logger.Warn("batch cancelled", "skipped", len(report.Entries)-i)
			break
		}

		entry := &report.Entries[i]
		g.Go(func() error {
			render(logger, entry, tex, mask, params)
			return nil
		})
	}
	_ = g.Wait()

	logger.Info("batch finished",
		"succeeded", len(report.Succeeded()),
		"failed", len(report.Failed()),
		"elapsed", time.Since(start))
	return report, nil
}

// render fills in one entry. Each goroutine writes only its own entry.
func render(logger hclog.Logger, e *Entry, tex *raster.Texture, mask *raster.Mask, params transform.Params) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			e.Texture = nil
			e.Err = fmt.Errorf("%w: %v", ErrRenderPanic, rec)
			logger.Error("render panicked", "name", e.Name, "panic", rec)
		}
	}()

	res, err := transform.Apply(tex, mask, e.Preset, e.Mode, params)
	e.Duration = time.Since(start)
	if err != nil {
		e.Err = err
		logger.Warn("render failed", "name", e.Name, "error", err)
		return
	}

	e.Texture = res.Texture
	logger.Debug("rendered", "name", e.Name, "duration", e.Duration)
}
