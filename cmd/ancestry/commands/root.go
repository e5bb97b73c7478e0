// Package commands implements the CLI commands for ancestry.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/ancestry/internal/app"
	"go.trai.ch/ancestry/internal/build"
	"go.trai.ch/ancestry/internal/core/domain"
)

// CLI represents the command line interface for ancestry.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	ConfigureLogging(format string) error
	Run(ctx context.Context, jobNames []string, opts app.RunOptions) error
	Watch(ctx context.Context, jobNames []string, opts app.RunOptions) error
	Contextualize(ctx context.Context, job domain.Job, opts app.RunOptions) error
	Clean(ctx context.Context) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "ancestry",
		Short:         "Place container SBOM packages in the image layer that introduced them",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("log-format")
			return c.app.ConfigureLogging(format)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.String("log-format", "auto", "Log format: auto, pretty, or json")
	flags.Bool("trace", false, "Print OpenTelemetry spans to stderr")
	flags.IntP("concurrency", "j", 0, "Jobs to run at once (default: manifest value, then number of CPUs)")
	flags.Int("batch-size", 0, "Jobs held in memory at once (default: manifest value, then 32)")
	flags.BoolP("no-cache", "n", false, "Rerun jobs whose inputs are unchanged")
	flags.String("output-mode", "auto", "Output mode: auto, tui, or linear")
	flags.Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")

	c.rootCmd = rootCmd
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newContextualizeCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func runOptions(cmd *cobra.Command) app.RunOptions {
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	trace, _ := cmd.Flags().GetBool("trace")
	outputMode, _ := cmd.Flags().GetString("output-mode")
	if ci, _ := cmd.Flags().GetBool("ci"); ci {
		outputMode = "linear"
	}

	return app.RunOptions{
		Concurrency: concurrency,
		BatchSize:   batchSize,
		NoCache:     noCache,
		Trace:       trace,
		OutputMode:  outputMode,
	}
}
