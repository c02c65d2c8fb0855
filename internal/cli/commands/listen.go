package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"testbridge/internal/config"
	"testbridge/internal/domain"
	"testbridge/internal/listener"
	"testbridge/internal/logging"
	"testbridge/internal/ui"
)

// ListenCommand handles the listen command
type ListenCommand struct {
	config    *config.Config
	formatter *ui.Formatter
	out       io.Writer
}

// NewListenCommand creates a new ListenCommand
func NewListenCommand(cfg *config.Config, formatter *ui.Formatter, out io.Writer) *ListenCommand {
	return &ListenCommand{
		config:    cfg,
		formatter: formatter,
		out:       out,
	}
}

// Execute runs the command
func (lc *ListenCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	log := logging.New("listen")

	network, address := "tcp", lc.config.Address()
	if addr := lc.config.Flags.Listen; addr != "" {
		address = addr
		if strings.Contains(addr, "/") {
			network = "unix"
		}
	}

	l, err := listener.Listen(network, address)
	if err != nil {
		return err
	}
	defer l.Close()

	// The adapter should be started with this uuid
	session := uuid.NewString()
	fmt.Fprintf(lc.out, "Listening on %s://%s\n", network, l.Addr())
	fmt.Fprintf(lc.out, "%s=%s\n", config.EnvUUID, session)

	for {
		select {
		case <-ctx.Done():
			return nil
		case req, ok := <-l.Requests():
			if !ok {
				return nil
			}
			if req.UUID != session {
				log.Warn().Str("uuid", req.UUID).Msg("payload from another session")
			}

			payload, err := listener.Decode(req.Body)
			if err != nil {
				log.Error().Err(err).Msg("payload not decoded")
				continue
			}
			lc.formatter.PrintPayload(payload)

			if _, eot := payload.(domain.EOTPayload); eot && !lc.config.Flags.Keep {
				return nil
			}
		}
	}
}
