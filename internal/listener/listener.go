package listener

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"testbridge/internal/domain"
	"testbridge/internal/logging"
)

// Request is one payload received from the adapter
type Request struct {
	UUID string
	Body []byte
}

// Listener accepts posted payloads the way the editor does. It is used by the
// listen command and as the peer in tests.
type Listener struct {
	ln       net.Listener
	requests chan Request
	log      zerolog.Logger
	wg       sync.WaitGroup
	once     sync.Once
}

// Listen starts accepting connections on network/address ("tcp" or "unix")
func Listen(network, address string) (*Listener, error) {
	ln, err := net.Listen(network, address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s %s: %w", network, address, err)
	}

	l := &Listener{
		ln:       ln,
		requests: make(chan Request, 64),
		log:      logging.New("listener"),
	}
	l.wg.Add(1)
	go l.accept()
	return l, nil
}

// Addr returns the listening address
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Requests delivers received payloads in arrival order per connection
func (l *Listener) Requests() <-chan Request {
	return l.requests
}

// Close stops accepting and closes the Requests channel once open
// connections are drained
func (l *Listener) Close() error {
	var err error
	l.once.Do(func() {
		err = l.ln.Close()
		go func() {
			l.wg.Wait()
			close(l.requests)
		}()
	})
	return err
}

func (l *Listener) accept() {
	defer l.wg.Done()
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				l.log.Error().Err(err).Msg("accept failed")
			}
			return
		}
		l.wg.Add(1)
		go l.serve(conn)
	}
}

func (l *Listener) serve(conn net.Conn) {
	defer l.wg.Done()
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		req, err := ReadRequest(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				l.log.Warn().Err(err).Msg("bad request")
			}
			return
		}
		l.requests <- req
	}
}

// ReadRequest parses one framed POST from r
func ReadRequest(r *bufio.Reader) (Request, error) {
	httpReq, err := http.ReadRequest(r)
	if err != nil {
		return Request{}, err
	}
	defer httpReq.Body.Close()

	body, err := io.ReadAll(httpReq.Body)
	if err != nil {
		return Request{}, fmt.Errorf("read body: %w", err)
	}
	if httpReq.ContentLength >= 0 && int64(len(body)) != httpReq.ContentLength {
		return Request{}, fmt.Errorf("body is %d bytes, Content-Length says %d", len(body), httpReq.ContentLength)
	}
	return Request{UUID: httpReq.Header.Get("Request-uuid"), Body: body}, nil
}

// Decode returns the typed payload carried by a request body: a
// DiscoveryPayload, an ExecutionPayload or an EOTPayload
func Decode(body []byte) (domain.Payload, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	switch {
	case keys["eot"] != nil:
		var p domain.EOTPayload
		err := json.Unmarshal(body, &p)
		return p, err
	case keys["tests"] != nil:
		var p domain.DiscoveryPayload
		err := json.Unmarshal(body, &p)
		return p, err
	default:
		var p domain.ExecutionPayload
		err := json.Unmarshal(body, &p)
		return p, err
	}
}
