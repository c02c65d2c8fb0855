package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"testbridge/internal/cli"
	"testbridge/internal/config"
	"testbridge/internal/execution"
	"testbridge/internal/logging"
	"testbridge/internal/parser"
	"testbridge/internal/storage"
	"testbridge/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Discover *DiscoverCommand
	Execute  *ExecuteCommand
	Listen   *ListenCommand
	View     *ViewCommand
	Results  *ResultsCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	// Initialize dependencies
	runner := execution.NewRunner(cfg)
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(nil)
	treeViewer := ui.NewTreeViewer()

	return &Commands{
		Discover: NewDiscoverCommand(cfg, runner, jsonStorage, formatter),
		Execute:  NewExecuteCommand(cfg, runner, jsonStorage, formatter),
		Listen:   NewListenCommand(cfg, formatter, os.Stdout),
		View:     NewViewCommand(jsonStorage, treeViewer),
		Results:  NewResultsCommand(jsonStorage, formatter),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flags.Project, "project", "", "Project directory reported as cwd (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&flags.Port, "port", 0, "Reporting port, overrides TEST_PORT")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Update config with flags after parsing
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded
		logging.Init(cfg.LogLevel, cfg.LogFormat)
		return nil
	}

	// Discover command
	discoverCmd := &cobra.Command{
		Use:   "discover [-- framework command...]",
		Short: "Report the discovered test tree to the editor",
		Long:  "Build the test tree from the framework's collection events and post it to the editor, followed by the end-of-transmission marker",
		RunE:  c.Discover.Execute,
	}
	discoverCmd.Flags().StringVarP(&flags.Input, "input", "i", "", "Read framework events from a file instead of stdin ('-' for stdin)")
	discoverCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter tests by id or name pattern (supports wildcards, e.g., '*test_login*')")
	discoverCmd.Flags().BoolVarP(&flags.Print, "print", "p", false, "Print the discovered tree")
	rootCmd.AddCommand(discoverCmd)

	// Execute command
	executeCmd := &cobra.Command{
		Use:   "execute [-- framework command...]",
		Short: "Stream test outcomes to the editor",
		Long:  "Record the framework's test outcomes and post each of them to the editor as it arrives",
		RunE:  c.Execute.Execute,
	}
	executeCmd.Flags().StringVarP(&flags.Input, "input", "i", "", "Read framework events from a file instead of stdin ('-' for stdin)")
	executeCmd.Flags().BoolVar(&flags.UsePipe, "pipe", false, "Read the test id selection from RUN_TEST_IDS_PIPE")
	executeCmd.Flags().BoolVar(&flags.NewUUID, "new-uuid", false, "Generate a fresh request uuid instead of TEST_UUID")
	executeCmd.Flags().BoolVar(&flags.NoProgress, "no-progress", false, "Hide the progress bar")
	rootCmd.AddCommand(executeCmd)

	// Listen command
	listenCmd := &cobra.Command{
		Use:   "listen",
		Short: "Receive and print payloads like an editor would",
		Long:  "Accept posted payloads on the reporting port (or a unix socket) and print them until the end-of-transmission marker",
		RunE:  c.Listen.Execute,
	}
	listenCmd.Flags().StringVarP(&flags.Listen, "listen", "l", "", "Address to listen on; a path means a unix socket (default: host:port)")
	listenCmd.Flags().BoolVarP(&flags.Keep, "keep", "k", false, "Keep listening after end of transmission")
	rootCmd.AddCommand(listenCmd)

	// View command
	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the last discovered tree interactively",
		Long:  "Display the last discovered test tree, annotated with the last execution's outcomes, in an interactive viewer",
		RunE:  c.View.Execute,
	}
	rootCmd.AddCommand(viewCmd)

	// Results command
	resultsCmd := &cobra.Command{
		Use:   "results",
		Short: "Show statistics of the last execution",
		RunE:  c.Results.Execute,
	}
	rootCmd.AddCommand(resultsCmd)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// feed hands the framework's event stream to handle. With argv the
// framework is launched; otherwise events are read from input or stdin.
func feed(ctx context.Context, executor execution.Executor, input string, argv []string, handle func(parser.Parser) error) error {
	if len(argv) > 0 {
		return executor.Run(ctx, argv, handle)
	}

	var r io.Reader = os.Stdin
	if input != "" && input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	return handle(parser.NewEventParser(r))
}
