package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"testbridge/internal/logging"
	"testbridge/internal/storage"
	"testbridge/internal/ui"
)

// ViewCommand handles the view command
type ViewCommand struct {
	storage storage.Storage
	viewer  ui.Viewer
}

// NewViewCommand creates a new ViewCommand
func NewViewCommand(st storage.Storage, viewer ui.Viewer) *ViewCommand {
	return &ViewCommand{
		storage: st,
		viewer:  viewer,
	}
}

// Execute runs the command
func (vc *ViewCommand) Execute(cmd *cobra.Command, args []string) error {
	payload, err := vc.storage.LoadDiscovery()
	if err != nil {
		return fmt.Errorf("no discovered tree, run discover first: %w", err)
	}

	// Outcomes are optional
	results, err := vc.storage.LoadExecution()
	if err != nil {
		log := logging.New("view")
		log.Debug().Err(err).Msg("no execution results")
		results = nil
	}

	return vc.viewer.View(payload, results)
}
