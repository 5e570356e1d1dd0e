package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SiGenixDave/FlashC167-R188TestBench/serialbridge"
	"github.com/SiGenixDave/FlashC167-R188TestBench/stage"
)

// ErrNoResultPath indicates Run was called without the trailing result path.
var ErrNoResultPath = errors.New("missing result file path argument")

// Result is the outcome of a completed FlashMain call.
type Result struct {
	// Status is the engine's return code
	Status int32

	// ResultPath is the last command line argument
	ResultPath string

	// Variant is the stage 2 variant handed to the engine
	Variant stage.Variant

	// Traffic is the serial byte count at the end of the run
	Traffic serialbridge.Traffic

	// ElapsedTime is the wall time of the run
	ElapsedTime time.Duration
}

// Runner drives flashing runs through one engine and one bridge.
type Runner struct {
	engine Engine
	bridge *serialbridge.Bridge
	stages *stage.Loader
	config Config

	registerOnce sync.Once
}

// New creates a Runner.
func New(eng Engine, bridge *serialbridge.Bridge, stages *stage.Loader, opts ...Option) *Runner {
	if eng == nil {
		panic("engine cannot be nil")
	}
	if bridge == nil {
		panic("bridge cannot be nil")
	}
	if stages == nil {
		panic("stage loader cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Runner{
		engine: eng,
		bridge: bridge,
		stages: stages,
		config: cfg,
	}
}

// Run performs one flashing run with the process arguments args, whose last
// element is the result file path. A non-zero engine status is not an error; it
// is reported in Result.Status. Errors are returned for a missing result path,
// missing or oversized stages, a port that could not be opened and
// cancellation.
func (r *Runner) Run(ctx context.Context, args []string) (Result, error) {
	if len(args) < 1 {
		return Result{}, ErrNoResultPath
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("cancelled: %w", err)
	}

	startTime := time.Now()
	res := Result{ResultPath: args[len(args)-1]}

	// Phase 1: Register callbacks
	r.reportProgress(Progress{Phase: PhaseRegistering})
	r.register()

	// Phase 2: Stage files
	res.Variant = stage.VariantFromArgs(args)
	r.reportProgress(Progress{
		Phase:       PhaseStaging,
		Variant:     res.Variant,
		ElapsedTime: time.Since(startTime),
	})

	set, err := r.stages.PrepareVariant(res.Variant)
	if err != nil {
		return Result{}, fmt.Errorf("prepare stages: %w", err)
	}
	if err := stage.Handoff(set, r.engine); err != nil {
		return Result{}, fmt.Errorf("hand off stages: %w", err)
	}

	// Phase 3: Flash
	r.reportProgress(Progress{
		Phase:       PhaseFlashing,
		Variant:     res.Variant,
		ElapsedTime: time.Since(startTime),
	})
	r.logDebug("calling engine",
		"argc", len(args)-1,
		"variant", res.Variant.String(),
	)

	stop := context.AfterFunc(ctx, func() {
		r.logError("run cancelled, closing serial port")
		_ = r.bridge.Close()
	})
	r.bridge.ClearErr()
	res.Status = r.engine.FlashMain(int32(len(args)-1), args)
	stop()

	res.Traffic = r.bridge.Stats()
	res.ElapsedTime = time.Since(startTime)

	if err := r.bridge.Err(); err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("cancelled: %w", err)
	}

	r.reportProgress(Progress{
		Phase:       PhaseComplete,
		Variant:     res.Variant,
		Status:      res.Status,
		ElapsedTime: res.ElapsedTime,
	})
	r.logInfo("engine finished",
		"status", res.Status,
		"tx_bytes", res.Traffic.Transmitted,
		"rx_bytes", res.Traffic.Received,
		"elapsed", res.ElapsedTime,
	)
	return res, nil
}

// register installs the bridge callbacks. The table is built once per Runner
// and never reassigned.
func (r *Runner) register() {
	r.registerOnce.Do(func() {
		cb := r.bridge.Callbacks()
		r.engine.RegisterConfigureCallback(cb.Configure)
		r.engine.RegisterTransmitCallback(cb.Transmit)
		r.engine.RegisterReceiveCallback(cb.Receive)
	})
}

func (r *Runner) reportProgress(p Progress) {
	if r.config.ProgressCallback != nil {
		r.config.ProgressCallback(p)
	}
}

func (r *Runner) logDebug(msg string, kv ...interface{}) {
	r.config.Logger.Debug(msg, kv...)
}

func (r *Runner) logInfo(msg string, kv ...interface{}) {
	r.config.Logger.Info(msg, kv...)
}

func (r *Runner) logError(msg string, kv ...interface{}) {
	r.config.Logger.Error(msg, kv...)
}
