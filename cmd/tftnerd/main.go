// Package main implements the tftNERD CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tftnerd/internal/config"
	"tftnerd/internal/gamedata"
	"tftnerd/internal/llm"
	"tftnerd/internal/logging"
	"tftnerd/internal/tts"
)

var (
	// Global flags
	verbose bool
	cfgPath string
	dataDir string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tftnerd",
	Short: "tftNERD - Teamfight Tactics strategy assistant",
	Long: `tftNERD is a desktop strategy assistant for Teamfight Tactics.

It scrapes champion and team-comp reference data, reads the in-game shop
off the screen, and answers strategy questions either through a
deterministic rules engine (sell decisions, economy) or through Gemini
with the full data context attached.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if dataDir != "" {
			cfg.Data.Dir = dataDir
		}
		if verbose {
			cfg.Logging.Debug = true
			cfg.Logging.Level = "debug"
		}

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		if err := logging.Initialize(cwd, cfg.Logging.Debug, cfg.Logging.Level); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		// Skip the zap logger for interactive mode (it has its own UI).
		if cmd.Use == "tftnerd" && cmd.CalledAs() == "tftnerd" {
			return nil
		}
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch interactive chat
		return runChat()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file path (YAML)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory (default from config)")

	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore loads the reference data, translating a missing file into a
// hint to run the scraper first.
func openStore() (*gamedata.Store, error) {
	store := gamedata.NewStore(cfg.Data.Dir,
		gamedata.WithFiles(cfg.Data.ChampionsFile, cfg.Data.TraitsFile, cfg.Data.CompsFile))
	if err := store.Load(); err != nil {
		if errors.Is(err, gamedata.ErrDataMissing) {
			return nil, fmt.Errorf("%w\nrun 'tftnerd scrape' to fetch champion and comp data", err)
		}
		return nil, err
	}
	return store, nil
}

// newLLMClient builds the Gemini client from config.
func newLLMClient() llm.LLMClient {
	gc := llm.DefaultGeminiConfig(cfg.LLM.APIKey)
	if cfg.LLM.BaseURL != "" {
		gc.BaseURL = cfg.LLM.BaseURL
	}
	if cfg.LLM.Model != "" {
		gc.Model = cfg.LLM.Model
	}
	gc.Timeout = config.Duration(cfg.LLM.Timeout, 30*time.Second)
	if cfg.LLM.MaxRetries > 0 {
		gc.MaxRetries = cfg.LLM.MaxRetries
	}
	return llm.NewGeminiClientWithConfig(gc)
}

// newSpeaker builds the speech output, honoring the enabled switch and an
// optional per-command override.
func newSpeaker(forceOn bool) tts.Speaker {
	if !cfg.TTS.Enabled && !forceOn {
		return tts.NopSpeaker{}
	}
	return tts.NewExecSpeaker(cfg.TTS.Bin, config.Duration(cfg.TTS.Timeout, 30*time.Second))
}
