package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/SiGenixDave/FlashC167-R188TestBench/config"
	"github.com/SiGenixDave/FlashC167-R188TestBench/logging"
)

// Command line flags
var (
	configFile   string
	logLevel     string
	verbose      bool
	payloadDir   string
	pauseAfter   bool
	showProgress bool
)

// loadedConfig is filled in by the persistent pre-run hook.
var loadedConfig = config.Default()

func main() {
	if err := createRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// createRootCommand creates the flashc167 command tree
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flashc167 [flags] ARGS... RESULT_PATH",
		Short: "Flashes a C167 target through the native flashing engine",
		Long: `flashc167 loads the native flashing engine, hands it the bundled stage
files and lets it drive the serial port. ARGS are passed to the engine
unchanged; MVB or IPACK2 among them selects the matching stage 2 file.
RESULT_PATH receives a single line "1[NNN]" with the engine status.

Stage files and the engine library are read from the bundle embedded at build
time. Development builds embed only the manifest; use --payload-dir to name a
directory holding STAGE1, STAGE2, STAGE2MV, STAGE2IP, STAGE3 and the engine
library (see "flashc167 payloads").`,
		Args:              cobra.MinimumNArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: initLogging,
		RunE:              executeFlash,
	}

	// Engine arguments follow the first positional argument and are not flags.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Configuration file (default "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&payloadDir, "payload-dir", "",
		"Read payloads from this directory instead of the embedded bundle")

	rootCmd.Flags().BoolVar(&pauseAfter, "pause", false,
		"Wait for a key press after the result file is written")
	rootCmd.Flags().BoolVar(&showProgress, "progress", false,
		"Show serial traffic while the engine runs")

	rootCmd.AddCommand(createPortsCommand())
	rootCmd.AddCommand(createPayloadsCommand())
	return rootCmd
}

// resolveRequestedLogLevel returns the level asked for on the command line, or
// "" when the configuration should decide.
func resolveRequestedLogLevel(cmd *cobra.Command) string {
	if logLevel != "" {
		return logLevel
	}
	if cmd == nil {
		return ""
	}
	if v, err := cmd.Flags().GetBool("verbose"); err == nil && v {
		return "debug"
	}
	return ""
}

// initLogging loads the configuration and installs the process logger.
func initLogging(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if payloadDir != "" {
		cfg.Payloads.Dir = payloadDir
	}

	level := resolveRequestedLogLevel(cmd)
	if level == "" {
		level = cfg.LogLevel
	}
	cfg.LogLevel = strings.ToLower(level)

	z, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logging.Init(z.With("run_id", uuid.NewString()))

	loadedConfig = cfg
	return nil
}
