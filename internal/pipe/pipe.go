package pipe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ErrIncomplete means the buffer does not yet hold a whole message
var ErrIncomplete = errors.New("incomplete message")

type rpcRequest struct {
	Method string   `json:"method,omitempty"`
	Params []string `json:"params"`
}

// ReadTestIDs connects to the named pipe the editor uses to send the test-id
// selection and reads until one complete JSON-RPC message has arrived.
func ReadTestIDs(ctx context.Context, path string) ([]string, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("connect to test id pipe %s: %w", path, err)
	}
	defer conn.Close()

	return readMessage(conn)
}

func readMessage(r io.Reader) ([]string, error) {
	var buf []byte
	chunk := make([]byte, 4096)
	for {
		n, err := r.Read(chunk)
		buf = append(buf, chunk[:n]...)

		if n > 0 {
			ids, decodeErr := Decode(buf)
			if decodeErr == nil {
				return ids, nil
			}
			if !errors.Is(decodeErr, ErrIncomplete) {
				return nil, decodeErr
			}
		}

		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("test id pipe closed: %w", ErrIncomplete)
		}
		if err != nil {
			return nil, fmt.Errorf("read test id pipe: %w", err)
		}
	}
}

// Decode parses a JSON-RPC message carrying test ids in "params". The message
// may be preceded by Content-Length style headers.
func Decode(buf []byte) ([]string, error) {
	body := bytes.TrimLeft(buf, " \r\n")
	framed := false
	if hasHeaders(body) {
		var err error
		body, framed, err = stripHeaders(body)
		if err != nil {
			return nil, err
		}
	}

	if !json.Valid(body) {
		// A body of the announced length is complete, so more reads won't fix it
		if framed {
			return nil, fmt.Errorf("parse test ids: invalid JSON body %q", body)
		}
		return nil, ErrIncomplete
	}
	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("parse test ids: %w", err)
	}
	return req.Params, nil
}

func hasHeaders(buf []byte) bool {
	prefix := "content-"
	return len(buf) >= len(prefix) && strings.EqualFold(string(buf[:len(prefix)]), prefix)
}

// stripHeaders returns the body after the header block. framed reports
// whether a Content-Length header was present and the body has that length.
func stripHeaders(buf []byte) (body []byte, framed bool, err error) {
	sep := []byte("\r\n\r\n")
	end := bytes.Index(buf, sep)
	if end < 0 {
		sep = []byte("\n\n")
		end = bytes.Index(buf, sep)
	}
	if end < 0 {
		return nil, false, ErrIncomplete
	}

	length := -1
	for _, line := range strings.Split(string(buf[:end]), "\n") {
		name, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok || !strings.EqualFold(name, "Content-Length") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, false, fmt.Errorf("bad Content-Length %q", value)
		}
		length = n
	}

	body = buf[end+len(sep):]
	if length < 0 {
		return body, false, nil
	}
	if len(body) < length {
		return nil, false, ErrIncomplete
	}
	return body[:length], true, nil
}
