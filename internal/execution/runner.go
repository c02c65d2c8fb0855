package execution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog"

	"testbridge/internal/config"
	"testbridge/internal/logging"
	"testbridge/internal/parser"
)

// ErrNoCommand is returned when no framework command was given
var ErrNoCommand = errors.New("no test framework command given")

// Runner launches the test framework with the adapter plugin loaded. The
// plugin writes lifecycle events to stdout, one JSON object per line.
type Runner struct {
	config *config.Config
	log    zerolog.Logger
	stderr io.Writer
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		config: cfg,
		log:    logging.New("runner"),
		stderr: os.Stderr,
	}
}

// Command prepares argv to run in the project directory with the reporting
// endpoint passed through the environment
func (r *Runner) Command(ctx context.Context, argv []string) (*exec.Cmd, error) {
	if len(argv) == 0 {
		return nil, ErrNoCommand
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	// Set environment variables
	cmd.Env = os.Environ() // Start with current environment
	cmd.Env = append(cmd.Env, config.EnvPort+"="+strconv.Itoa(r.config.Port))
	if r.config.UUID != "" {
		cmd.Env = append(cmd.Env, config.EnvUUID+"="+r.config.UUID)
	}
	if r.config.RunPipe != "" {
		cmd.Env = append(cmd.Env, config.EnvRunPipe+"="+r.config.RunPipe)
	}

	// Set working directory
	cmd.Dir = r.config.ProjectPath
	cmd.Stderr = r.stderr

	return cmd, nil
}

// Run starts argv and feeds its stdout to handle. A non-zero exit of the
// framework is only logged: failing tests make most frameworks exit 1.
func (r *Runner) Run(ctx context.Context, argv []string, handle func(parser.Parser) error) error {
	cmd, err := r.Command(ctx, argv)
	if err != nil {
		return err
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("attach to %s: %w", argv[0], err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", argv[0], err)
	}
	r.log.Debug().Strs("argv", argv).Int("pid", cmd.Process.Pid).Msg("framework started")

	handleErr := handle(parser.NewEventParser(stdout))

	// The process may block on a full pipe if handle stopped early
	_, _ = io.Copy(io.Discard, stdout)

	waitErr := cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		r.log.Warn().Int("code", exitErr.ExitCode()).Msg("framework exited with non-zero status")
		waitErr = nil
	}
	if waitErr != nil {
		waitErr = fmt.Errorf("wait for %s: %w", argv[0], waitErr)
	}

	return errors.Join(handleErr, waitErr)
}
