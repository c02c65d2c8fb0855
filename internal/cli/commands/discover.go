package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"testbridge/internal/config"
	"testbridge/internal/discovery"
	"testbridge/internal/domain"
	"testbridge/internal/execution"
	"testbridge/internal/hooks"
	"testbridge/internal/logging"
	"testbridge/internal/parser"
	"testbridge/internal/reporting"
	"testbridge/internal/storage"
	"testbridge/internal/tree"
	"testbridge/internal/ui"
)

// DiscoverCommand handles the discover command
type DiscoverCommand struct {
	config    *config.Config
	executor  execution.Executor
	storage   storage.Storage
	formatter *ui.Formatter
}

// NewDiscoverCommand creates a new DiscoverCommand
func NewDiscoverCommand(
	cfg *config.Config,
	executor execution.Executor,
	st storage.Storage,
	formatter *ui.Formatter,
) *DiscoverCommand {
	return &DiscoverCommand{
		config:    cfg,
		executor:  executor,
		storage:   st,
		formatter: formatter,
	}
}

// Execute runs the command
func (dc *DiscoverCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	log := logging.New("discover")

	client := reporting.NewClient(reporting.TCP(dc.config.Host, dc.config.Port), dc.config.UUID)
	builder := tree.NewBuilder(tree.WithFolderKey(tree.FolderKey(dc.config.FolderKey)))
	session := hooks.NewDiscovery(dc.config.GetCWD(), builder, client)
	if pattern := dc.config.Flags.Filter; pattern != "" {
		session.SetFilter(discovery.NewFilter(pattern).FilterCases)
	}

	var payload domain.DiscoveryPayload
	reportErr := feed(ctx, dc.executor, dc.config.Flags.Input, args, func(p parser.Parser) error {
		var err error
		payload, err = hooks.DriveDiscovery(ctx, p, session)
		return err
	})
	if payload.Tests == nil {
		if reportErr != nil {
			return fmt.Errorf("discovery failed: %w", reportErr)
		}
		return nil
	}

	// Save the tree even if the editor could not be reached
	if err := dc.storage.SaveDiscovery(payload); err != nil {
		return fmt.Errorf("failed to save discovery: %w", err)
	}
	log.Debug().Int("errors", len(payload.Errors)).Msg("discovery saved")

	dc.formatter.PrintDiscovery(&payload, dc.config.Flags.Print)

	if reportErr != nil {
		return fmt.Errorf("report discovery to %s: %w", client.Endpoint(), reportErr)
	}
	return nil
}
