package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"testbridge/internal/cli"
	"testbridge/internal/cli/commands"
	"testbridge/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "testbridge",
		Short:   "Report test discovery and results to an editor",
		Long:    `An adapter between a test framework and an editor. Builds the discovered test tree, records outcomes and posts both to the editor over a local socket.`,
		Version: version,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Execute root command
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
