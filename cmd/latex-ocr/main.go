package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/latex-ocr/internal/config"
	"github.com/fpang/latex-ocr/internal/logging"
	"github.com/fpang/latex-ocr/internal/pipeline"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// rootCmd is the main Cobra command for the latex-ocr CLI.
var rootCmd = &cobra.Command{
	Use:   "latex-ocr",
	Short: "Convert the most recent screenshot to LaTeX and copy it to the clipboard",
	Long: `LaTeX OCR finds the most recently modified image (png, jpg, jpeg) in the
configured directory, asks for confirmation, sends it to a vision model and
copies the returned LaTeX to the clipboard. A desktop notification reports
the result.

Settings live in ~/.config/latex_ocr/config.toml, which is created with
defaults on first run. Set api_key there or export LATEX_OCR_API_KEY.

Environment:
  LATEX_OCR_API_KEY      overrides api_key from the config file
  LATEX_OCR_CONFIG_DIR   overrides the configuration directory
  LATEX_OCR_LOG_LEVEL    debug, info, warn or error (default info)`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMain,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the config file path, creating the default file if needed",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		logging.Init()
		store := config.DefaultStore()
		store.EnsureFile()
		fmt.Fprintln(cmd.OutOrStdout(), store.Path())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runMain performs one conversion. Failures have already been shown to the
// user as a notification, so only the exit status is left to set.
func runMain(cmd *cobra.Command, args []string) error {
	logging.Init()

	runner := pipeline.NewRunner(config.DefaultStore(), version)
	outcome := runner.Run(context.Background())
	if code := outcome.ExitCode(); code != 0 {
		log.Debug().Int("exit_code", code).Msg("Exiting")
		os.Exit(code)
	}
	return nil
}
