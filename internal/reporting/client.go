package reporting

import (
	"bytes"
	"context"
	"fmt"
	"net"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"testbridge/internal/domain"
	"testbridge/internal/logging"
)

// Dialer opens the connection a payload is written to
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Client posts payloads to the editor, one connection per payload
type Client struct {
	endpoint Endpoint
	uuid     string
	dialer   Dialer
	log      zerolog.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithDialer replaces the default net.Dialer
func WithDialer(d Dialer) ClientOption {
	return func(c *Client) {
		c.dialer = d
	}
}

// NewClient creates a client for endpoint. uuid is sent in the Request-uuid
// header of every request and omitted when empty.
func NewClient(endpoint Endpoint, uuid string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		uuid:     uuid,
		dialer:   &net.Dialer{},
		log:      logging.New("reporting"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns where the client delivers payloads
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Post serializes payload and writes it as a single request over a fresh
// connection, which is closed before Post returns. The peer's response is
// not read. Delivery is at most once.
func (c *Client) Post(ctx context.Context, payload domain.Payload) error {
	request, err := Encode(c.endpoint, c.uuid, payload)
	if err != nil {
		c.log.Error().Err(err).Msg("payload dropped")
		return err
	}

	conn, err := c.dialer.DialContext(ctx, c.endpoint.Network, c.endpoint.Address)
	if err != nil {
		return &TransportError{Kind: KindConnectFailed, Endpoint: c.endpoint, Err: err}
	}
	defer conn.Close()

	if _, err := conn.Write(request); err != nil {
		return &TransportError{Kind: KindWriteFailed, Endpoint: c.endpoint, Err: err}
	}

	c.log.Debug().Str("endpoint", c.endpoint.String()).Int("bytes", len(request)).Msg("payload posted")
	return nil
}

// Encode renders payload as an HTTP/1.1 POST request. Content-Length is the
// byte length of the JSON body.
func Encode(endpoint Endpoint, uuid string, payload domain.Payload) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &SerializationError{Err: err}
	}

	var buf bytes.Buffer
	buf.Grow(len(body) + 160)
	fmt.Fprintf(&buf, "POST / HTTP/1.1\r\n")
	fmt.Fprintf(&buf, "Host: %s\r\n", endpoint.Host())
	fmt.Fprintf(&buf, "Content-Length: %d\r\n", len(body))
	fmt.Fprintf(&buf, "Content-Type: application/json\r\n")
	if uuid != "" {
		fmt.Fprintf(&buf, "Request-uuid: %s\r\n", uuid)
	}
	buf.WriteString("\r\n")
	buf.Write(body)
	return buf.Bytes(), nil
}
