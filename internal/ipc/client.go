package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"runtime"
	"time"
)

// Common client errors.
var (
	ErrNotConnected     = errors.New("ipc: not connected to daemon")
	ErrDaemonNotRunning = errors.New("ipc: daemon is not running")
)

// ClientConfig configures a Client.
type ClientConfig struct {
	SocketPath     string
	ConnectTimeout time.Duration
}

// DefaultClientConfig returns sensible defaults for the given socket path.
func DefaultClientConfig(socketPath string) ClientConfig {
	return ClientConfig{
		SocketPath:     socketPath,
		ConnectTimeout: 5 * time.Second,
	}
}

// Client is a thin control-protocol client: the CLI surface (spec.md §6)
// is a serializer on top of it, one subcommand per Command variant.
type Client struct {
	cfg ClientConfig
}

// NewClient returns a Client bound to cfg.SocketPath. Connections are
// opened per call, matching the one-shot framing spec.md §4.5 describes
// for CLI-style commands.
func NewClient(cfg ClientConfig) *Client {
	return &Client{cfg: cfg}
}

func (c *Client) dial() (net.Conn, error) {
	var conn net.Conn
	var err error
	if runtime.GOOS == "windows" {
		conn, err = dialWindows(c.cfg.SocketPath, c.cfg.ConnectTimeout)
	} else {
		d := net.Dialer{Timeout: c.cfg.ConnectTimeout}
		conn, err = d.Dial("unix", c.cfg.SocketPath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDaemonNotRunning, err)
	}
	return conn, nil
}

// Send writes cmd as a single line and closes the connection without
// waiting for a reply — the shape spec.md §6 calls "one-shot" framing,
// used for every mutation command.
func (c *Client) Send(cmd Command) error {
	conn, err := c.dial()
	if err != nil {
		return err
	}
	defer conn.Close()
	data, err := EncodeCommand(cmd)
	if err != nil {
		return err
	}
	return NewWriter(conn).WriteValue(json.RawMessage(data))
}

// Query sends cmd, reads exactly one response line, and closes. Used for
// QueryState and any other command that expects a reply.
func (c *Client) Query(cmd Command, out any) error {
	conn, err := c.dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	data, err := EncodeCommand(cmd)
	if err != nil {
		return err
	}
	if err := NewWriter(conn).WriteValue(json.RawMessage(data)); err != nil {
		return err
	}

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	line, err := NewReader(conn).ReadLine()
	if err != nil {
		return fmt.Errorf("ipc: read response: %w", err)
	}
	return decodeInto(line, out)
}

// Subscribe opens a long-lived connection, sends a SubscribePipe or
// SubscribeSocket command, and calls onNotify for every pushed
// Notification until ctx is canceled or the connection drops.
func (c *Client) Subscribe(ctx context.Context, sub Command, onNotify func(Notification)) error {
	conn, err := c.dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	data, err := EncodeCommand(sub)
	if err != nil {
		return err
	}
	if err := NewWriter(conn).WriteValue(json.RawMessage(data)); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	reader := NewReader(conn)
	for {
		line, err := reader.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		var n Notification
		if err := decodeInto(line, &n); err != nil {
			continue
		}
		onNotify(n)
	}
}
