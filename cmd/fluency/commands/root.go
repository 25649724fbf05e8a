// ABOUTME: Root command and global flags for the fluency CLI
// ABOUTME: Sets up logging from the verbose/quiet flags before any subcommand runs
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/fluency-checker/internal/logger"
)

// Global flags
var (
	verbose      bool
	quiet        bool
	outputFormat string
	logJSON      bool
)

// log is the CLI logger, configured in PersistentPreRunE
var log = logger.Nop()

const banner = `
███████╗██╗     ██╗   ██╗███████╗███╗   ██╗ ██████╗██╗   ██╗
██╔════╝██║     ██║   ██║██╔════╝████╗  ██║██╔════╝╚██╗ ██╔╝
█████╗  ██║     ██║   ██║█████╗  ██╔██╗ ██║██║      ╚████╔╝
██╔══╝  ██║     ██║   ██║██╔══╝  ██║╚██╗██║██║       ╚██╔╝
██║     ███████╗╚██████╔╝███████╗██║ ╚████║╚██████╗   ██║
╚═╝     ╚══════╝ ╚═════╝ ╚══════╝╚═╝  ╚═══╝ ╚═════╝   ╚═╝`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fluency",
		Short: "Check the grammar and naturalness of markdown documents",
		Long: banner + `

Fluency splits a markdown document into segments, asks a language model
whether each one is grammatical and natural, and reports the verdicts
with the line numbers they came from.

Segments follow markdown headings by default, or fixed-size windows
with --splitter recursive. Results can be cached locally in SQLite or
synced through Charm.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "auto", "text", "json":
			default:
				return fmt.Errorf("--format must be auto, text or json, got %q", outputFormat)
			}
			log = newLogger(cmd)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, text, json")
	cmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewCacheCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func newLogger(cmd *cobra.Command) logger.Logger {
	level := logger.Level(envOr("FLUENCY_LOG_LEVEL", string(logger.InfoLevel)))
	switch {
	case verbose:
		level = logger.DebugLevel
	case quiet:
		level = logger.ErrorLevel
	}
	return logger.New(&logger.Config{
		Level:      level,
		Output:     cmd.ErrOrStderr(),
		JSON:       logJSON || envOr("FLUENCY_LOG_JSON", "") == "true",
		TimeFormat: "15:04:05",
	})
}
