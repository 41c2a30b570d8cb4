package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/typewright/typewright/internal/analyzer"
	"github.com/typewright/typewright/internal/fs"
	"github.com/typewright/typewright/output"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>",
	Short: "Analyze a Python file or project directory",
	Long: `Analyze runs whole-program type inference over a file or directory.

Examples:
  # Analyze a project directory
  typewright analyze /path/to/project

  # Analyze a single file
  typewright analyze script.py

  # Machine-readable diagnostics
  typewright analyze /path/to/project --output json

  # Extra module search directories
  typewright analyze . --pythonpath /opt/lib:/opt/vendor`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		startTime := time.Now()
		outputFormat, _ := cmd.Flags().GetString("output")
		pythonPath, _ := cmd.Flags().GetString("pythonpath")

		if outputFormat != "text" && outputFormat != "json" {
			return fmt.Errorf("--output must be 'text' or 'json'")
		}
		if pythonPath != "" {
			opts.PythonPath = pythonPath
		}

		logger := output.NewLogger(output.VerbosityFromFlags(opts.Quiet, opts.Debug))

		noBanner, _ := cmd.Flags().GetBool("no-banner")
		if output.ShouldShowBanner(logger.IsTTY(), noBanner) {
			output.PrintBanner(logger.GetWriter(), Version, output.DefaultBannerOptions())
		} else if logger.IsTTY() && !noBanner {
			fmt.Fprintln(logger.GetWriter(), output.GetCompactBanner(Version))
		}

		// Interrupts abort between file loads, never mid-inference.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := analyzer.New(analyzer.Config{
			FS:         fs.NewOSFileSystem(),
			Log:        logger,
			SearchPath: opts.SearchPath(),
			CacheDir:   opts.CacheDir,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				logger.Warning("closing AST cache: %v", err)
			}
		}()

		if err := a.Analyze(ctx, args[0]); err != nil {
			return err
		}
		a.Finish()

		diags := a.Diagnostics()
		summary := a.Summary()
		switch outputFormat {
		case "json":
			formatter := output.NewJSONFormatter()
			if err := formatter.Format(diags, summary, output.RunInfo{
				Version:  Version,
				Duration: time.Since(startTime),
			}); err != nil {
				return err
			}
		default:
			formatter := output.NewTextFormatter(logger)
			if err := formatter.Format(diags, summary); err != nil {
				return err
			}
		}

		code := output.DetermineExitCode(summary.ParseFailures, false)
		if code != output.ExitCodeSuccess {
			os.Exit(int(code))
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("output", "text", "Output format: text or json")
	analyzeCmd.Flags().String("pythonpath", "", "Extra module search directories (overrides PYTHONPATH)")
	rootCmd.AddCommand(analyzeCmd)
}
