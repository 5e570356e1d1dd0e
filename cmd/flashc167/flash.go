package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/SiGenixDave/FlashC167-R188TestBench/cache"
	"github.com/SiGenixDave/FlashC167-R188TestBench/config"
	"github.com/SiGenixDave/FlashC167-R188TestBench/engine"
	"github.com/SiGenixDave/FlashC167-R188TestBench/ihex"
	"github.com/SiGenixDave/FlashC167-R188TestBench/logging"
	"github.com/SiGenixDave/FlashC167-R188TestBench/native"
	"github.com/SiGenixDave/FlashC167-R188TestBench/payload"
	"github.com/SiGenixDave/FlashC167-R188TestBench/payload/bundle"
	"github.com/SiGenixDave/FlashC167-R188TestBench/serialbridge"
	"github.com/SiGenixDave/FlashC167-R188TestBench/stage"
)

// executeFlash runs one flashing session and writes the result file. A failing
// engine status is reported through the result file, not the exit code.
func executeFlash(cmd *cobra.Command, args []string) error {
	cfg := loadedConfig
	log := logging.L()
	logger := logging.FromZap(log)

	store, err := openPayloadStore(cfg.Payloads.Dir)
	if err != nil {
		return err
	}

	lib, err := loadEngine(store, cfg.Engine, logger)
	if err != nil {
		return missingPayloadHint(err, cfg.Payloads.Dir)
	}
	defer lib.Close()

	bridgeOpts := []serialbridge.Option{
		serialbridge.WithReadTimeout(cfg.Serial.ReadTimeout.Std()),
		serialbridge.WithLogger(logger),
	}
	if cfg.Serial.PortTemplate != "" {
		bridgeOpts = append(bridgeOpts,
			serialbridge.WithPortNamer(serialbridge.TemplatePortNamer(cfg.Serial.PortTemplate)))
	}
	if showProgress {
		bar := newTrafficBar(cmd.ErrOrStderr())
		defer bar.finish()
		bridgeOpts = append(bridgeOpts, serialbridge.WithTrafficCallback(bar.update))
	}
	bridge := serialbridge.New(bridgeOpts...)
	defer bridge.Close()

	loader := stage.NewLoader(store,
		stage.WithValidation(cfg.Payloads.ValidateStages),
		stage.WithLogger(logger),
	)
	run := engine.New(lib, bridge, loader,
		engine.WithLogger(logger),
		engine.WithProgressCallback(func(p engine.Progress) {
			log.Debugw("run phase", "phase", p.Phase, "variant", p.Variant.String(), "elapsed", p.ElapsedTime)
		}),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res, err := run.Run(ctx, args)
	if err != nil {
		return missingPayloadHint(err, cfg.Payloads.Dir)
	}

	if err := engine.WriteResult(res.ResultPath, res.Status); err != nil {
		return err
	}
	log.Infow("result written",
		"path", res.ResultPath,
		"status", res.Status,
		"variant", res.Variant.String(),
		"elapsed", res.ElapsedTime,
	)

	if err := bridge.Close(); err != nil {
		log.Errorw("failed to close serial port", "error", err)
	}

	pause := cfg.Result.Pause
	if cmd.Flags().Changed("pause") {
		pause = pauseAfter
	}
	if pause {
		return waitForKey(cmd.InOrStdin(), cmd.OutOrStdout())
	}
	return nil
}

// openPayloadStore returns the embedded bundle, or dir when set.
func openPayloadStore(dir string) (*payload.Store, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("payload directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("payload directory %s is not a directory", dir)
		}
		return payload.New(os.DirFS(dir))
	}
	return payload.New(bundle.FS())
}

// missingPayloadHint explains a payload missing from the embedded bundle.
func missingPayloadHint(err error, dir string) error {
	if dir != "" || !errors.Is(err, payload.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: this build embeds no payload files, use --payload-dir", err)
}

// engineFileName is where the engine library is materialized.
func engineFileName(cfg config.EngineConfig) string {
	if cfg.FileName != "" {
		return cfg.FileName
	}
	return native.DefaultFileName()
}

// loadEngine materializes the engine library next to the working directory and
// binds it.
func loadEngine(store *payload.Store, cfg config.EngineConfig, logger logging.Logger) (*native.Library, error) {
	c := cache.New(store,
		cache.WithLoader(ihex.Loader{}),
		cache.WithLogger(logger),
	)

	res, err := c.Load(cfg.Library, engineFileName(cfg))
	if err != nil {
		return nil, err
	}
	if res.InMemory {
		return nil, fmt.Errorf("payload %s is a firmware image (%s), not an engine library", cfg.Library, res.Identity)
	}

	logger.Debug("engine library ready",
		"path", res.Path,
		"sha1", res.Digest.Hex(),
		"written", res.Written,
	)
	return native.Open(res.Path)
}
