package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/typewright/typewright/config"
	"github.com/typewright/typewright/output"
)

var (
	Version   = "0.4.1"
	GitCommit = "HEAD"

	// opts holds the layered file/env configuration loaded in the
	// persistent pre-run; subcommand flags override individual fields.
	opts = &config.Options{}
)

var rootCmd = &cobra.Command{
	Use:   "typewright",
	Short: "Whole-program static type inference for Python",
	Long: `Typewright infers types across an entire Python codebase.

Given a root directory it discovers every source file, runs inter-procedural
union-typed inference over the whole program, and reports bindings,
cross-references, and semantic diagnostics.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}
		loaded, err := config.Load(cwd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: loading configuration: %v\n", err)
		} else {
			opts = loaded
		}
		if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			opts.Quiet = true
		}
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			opts.Debug = true
		}

		// Show banner for help command
		if cmd.Name() == "help" || (len(os.Args) == 1 || (len(os.Args) == 2 && (os.Args[1] == "--help" || os.Args[1] == "-h"))) {
			noBanner, _ := cmd.Flags().GetBool("no-banner")
			logger := output.NewLogger(output.VerbosityDefault)
			if output.ShouldShowBanner(logger.IsTTY(), noBanner) {
				output.PrintBanner(logger.GetWriter(), Version, output.DefaultBannerOptions())
			} else if logger.IsTTY() && !noBanner {
				fmt.Fprintln(os.Stderr, output.GetCompactBanner(Version))
				fmt.Fprintln(os.Stderr)
			}
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress informational output")
	rootCmd.PersistentFlags().Bool("debug", false, "Verbose debug logging")
	rootCmd.PersistentFlags().Bool("no-banner", false, "Disable startup banner")
}
