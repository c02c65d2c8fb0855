package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"testbridge/internal/storage"
	"testbridge/internal/ui"
)

// ResultsCommand handles the results command
type ResultsCommand struct {
	storage   storage.Storage
	formatter *ui.Formatter
}

// NewResultsCommand creates a new ResultsCommand
func NewResultsCommand(st storage.Storage, formatter *ui.Formatter) *ResultsCommand {
	return &ResultsCommand{
		storage:   st,
		formatter: formatter,
	}
}

// Execute runs the command
func (rc *ResultsCommand) Execute(cmd *cobra.Command, args []string) error {
	output, err := rc.storage.LoadExecution()
	if err != nil {
		return fmt.Errorf("no execution results, run execute first: %w", err)
	}

	rc.formatter.PrintRunStats(output)
	return nil
}
