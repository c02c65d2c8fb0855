package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"testbridge/internal/config"
	"testbridge/internal/domain"
	"testbridge/internal/execution"
	"testbridge/internal/hooks"
	"testbridge/internal/logging"
	"testbridge/internal/parser"
	"testbridge/internal/pipe"
	"testbridge/internal/reporting"
	"testbridge/internal/storage"
	"testbridge/internal/ui"
)

// ExecuteCommand handles the execute command
type ExecuteCommand struct {
	config    *config.Config
	executor  execution.Executor
	storage   storage.Storage
	formatter *ui.Formatter
}

// NewExecuteCommand creates a new ExecuteCommand
func NewExecuteCommand(
	cfg *config.Config,
	executor execution.Executor,
	st storage.Storage,
	formatter *ui.Formatter,
) *ExecuteCommand {
	return &ExecuteCommand{
		config:    cfg,
		executor:  executor,
		storage:   st,
		formatter: formatter,
	}
}

// Execute runs the command
func (ec *ExecuteCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	log := logging.New("execute")
	cfg := ec.config

	if cfg.Flags.NewUUID {
		cfg.UUID = uuid.NewString()
		log.Info().Str("uuid", cfg.UUID).Msg("generated request uuid")
	}

	endpoint := reporting.TCP(cfg.Host, cfg.Port)
	if cfg.RunPipe != "" {
		endpoint = reporting.Pipe(cfg.RunPipe)
	}
	client := reporting.NewClient(endpoint, cfg.UUID)

	// Read the selection before anything is reported
	var selection []string
	if cfg.Flags.UsePipe {
		if err := config.RequirePipe(config.EnvTestIDsPipe, cfg.TestIDsPipe); err != nil {
			return err
		}
		ids, err := pipe.ReadTestIDs(ctx, cfg.TestIDsPipe)
		if err != nil {
			return fmt.Errorf("read test ids: %w", err)
		}
		if len(ids) == 0 {
			color.Yellow(hooks.NoTestIDsMessage)
			return hooks.NewExecution(cfg.GetCWD(), client, nil).Abort(ctx, hooks.NoTestIDsMessage)
		}
		selection = ids
		log.Debug().Int("count", len(ids)).Msg("test ids received")
	}

	session := hooks.NewExecution(cfg.GetCWD(), client, selection)

	var progressBar *ui.ProgressBar
	if !cfg.Flags.NoProgress {
		progressBar = ui.NewProgressBar(len(selection))
		session.OnOutcome(func(domain.Outcome) {
			stats := session.Recorder().Stats()
			progressBar.Update(stats.Passed, stats.Failed, stats.Total)
		})
	}

	// The framework runs only the selected ids
	argv := args
	if len(argv) > 0 && len(selection) > 0 {
		argv = append(append([]string{}, args...), selection...)
	}

	start := time.Now()
	runErr := feed(ctx, ec.executor, cfg.Flags.Input, argv, func(p parser.Parser) error {
		return hooks.DriveExecution(ctx, p, session)
	})
	duration := time.Since(start)

	if progressBar != nil {
		progressBar.Finish()
	}

	// Save results
	if err := ec.storage.SaveExecution(session.Recorder(), session.NotFound(), duration); err != nil {
		return fmt.Errorf("failed to save execution results: %w", err)
	}

	// Print stats
	if output, err := ec.storage.LoadExecution(); err == nil {
		ec.formatter.PrintRunStats(output)
	}

	if runErr != nil {
		return fmt.Errorf("report execution to %s: %w", endpoint, runErr)
	}
	return nil
}
