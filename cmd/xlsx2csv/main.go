// Package main provides the CLI entry point for go-xlsx2csv.
package main

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/TsubasaBE/go-xlsx2csv"
	"github.com/TsubasaBE/go-xlsx2csv/convert"
)

var (
	outputDir string
	formatted bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xlsx2csv [input.xlsx...]",
		Short: "Convert XLSX files to CSV",
		Long: `xlsx2csv converts XLSX files to CSV, one output file per worksheet
that holds data.  Output bounds come from the actual cell content, so files
whose declared dimensions claim millions of empty rows convert cleanly.`,
		Version:       xlsx2csv.Version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Run:           run,
	}

	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: same as each input file)")
	rootCmd.Flags().BoolVar(&formatted, "format", false, "Render numeric cells through their number format (dates become ISO strings)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}

func run(cmd *cobra.Command, args []string) {
	setupLogging()

	xlsx2csv.ConvertAll(args, convert.Options{
		OutputDir: outputDir,
		Formatted: formatted,
	})
	// The run always completes after attempting every input; per-file
	// failures are reported in the summary, not via the exit status.
}

// setupLogging loads .env if present and configures zerolog console output
// and the log level from the LOGLEVEL environment variable.
func setupLogging() {
	err := godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	switch strings.ToLower(os.Getenv("LOGLEVEL")) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Report on the .env file only after logging is configured.
	if err == nil {
		log.Debug().Msg("loaded environment variables from .env file")
	}
}
