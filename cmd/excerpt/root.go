package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aellingwood/excerpt/internal/config"
	"github.com/aellingwood/excerpt/internal/logging"
)

// defaultConfigFile is read when --config is not given and the file exists.
const defaultConfigFile = "excerpt.yaml"

var rootCmd = &cobra.Command{
	Use:   "excerpt",
	Short: "Previews, quotes and plain text for social media posts",
	Long:  "Excerpt shortens structured posts into previews and quotes at sentence and word boundaries, and renders them as plain text.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch mode, _ := cmd.Flags().GetString("color"); mode {
		case "always":
			color.NoColor = false
		case "never":
			color.NoColor = true
		case "auto":
		default:
			return fmt.Errorf("invalid --color %q: want auto, always or never", mode)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", defaultConfigFile, "path to config file (YAML or TOML)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().String("log-format", "", "log format: json or console (default from config)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output: auto, always or never")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the config file, applies the generation flag overrides
// set on cmd and installs the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	flags := cmd.Root().PersistentFlags()
	configPath, _ := flags.GetString("config")
	if !flags.Changed("config") {
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			configPath = ""
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("loading config: %w", err)
	}
	cfg.WithOverrides(flagOverrides(cmd))
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}

	level := cfg.Log.Level
	if verbose, _ := flags.GetBool("verbose"); verbose {
		level = "debug"
	}
	format := cfg.Log.Format
	if f, _ := flags.GetString("log-format"); f != "" {
		format = f
	}
	logger := logging.New(level, format, cmd.ErrOrStderr())
	logging.Install(logger)
	return cfg, logger, nil
}

// addGenerationFlags registers the flags that override preview and quote
// options.
func addGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-length", 0, "target length (default from config)")
	cmd.Flags().Float64("min-fit-factor", 0, "share of the length the result should reach (default from config)")
	cmd.Flags().Float64("max-fit-factor", 0, "how far past the length the result may stretch (default from config)")
	cmd.Flags().Bool("skip-post-quote-blocks", false, "never use block quotes of linked posts")
}

// flagOverrides collects the generation flags set on cmd as config
// overrides.
func flagOverrides(cmd *cobra.Command) map[string]any {
	overrides := make(map[string]any)
	f := cmd.Flags()
	if f.Changed("max-length") {
		overrides["maxLength"], _ = f.GetInt("max-length")
	}
	if f.Changed("min-fit-factor") {
		overrides["minFitFactor"], _ = f.GetFloat64("min-fit-factor")
	}
	if f.Changed("max-fit-factor") {
		overrides["maxFitFactor"], _ = f.GetFloat64("max-fit-factor")
	}
	if f.Changed("skip-post-quote-blocks") {
		overrides["skipPostQuoteBlocks"], _ = f.GetBool("skip-post-quote-blocks")
	}
	return overrides
}
