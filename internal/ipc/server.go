package ipc

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"tilewm/internal/fsutil"
)

// maxConnsPerIP bounds concurrent TCP control connections from a single
// remote address; local Unix-socket/named-pipe clients are never subject to
// this (there is no meaningful "IP" for them).
const maxConnsPerIP = 8

// maxClients bounds concurrent control connections, mirroring the teacher's
// accept-loop cap.
const maxClients = 100

// readIdleTimeout is how long a connection may sit without sending a line
// before the server drops it, per spec.md §5 "bounded interval of
// inactivity to free slots".
const readIdleTimeout = 60 * time.Second

// Handler processes decoded commands against the reconciler's single-owner
// state and returns the value to write back for query-shaped commands (nil
// for mutation commands, which spec.md §6 says get no response).
type Handler interface {
	HandleCommand(ctx context.Context, cmd Command) (response any, err error)
}

// Server accepts control connections on a Unix socket (or Windows named
// pipe, via server_windows.go's listener), decodes one command per line,
// and dispatches to Handler. It also fans notifications out to
// subscribers registered via SubscribePipe/SubscribeSocket.
type Server struct {
	listener    net.Listener
	tcpListener net.Listener
	socketPath  string
	tcpAddr     string
	handler     Handler
	log         *slog.Logger

	mu          sync.Mutex
	clients     map[string]*client
	subscribers map[string]*subscriber

	connLimiter *fsutil.ConnectionLimiter

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
}

type client struct {
	id   string
	conn net.Conn
	ip   string // set for TCP clients only; empty for local transports
	mu   sync.Mutex // serializes writes (responses interleaved with pushes)
}

func (c *client) writeLine(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return NewWriter(c.conn).WriteValue(v)
}

// subscriber is a client that asked to receive Notification pushes.
type subscriber struct {
	clientID string
	client   *client
}

// ServerConfig configures a Server.
type ServerConfig struct {
	SocketPath string
	// TCPAddr, if non-empty, starts a second listener on this host:port
	// accepting the identical command stream, per spec.md §4.5's optional
	// TCP transport.
	TCPAddr string
	Logger  *slog.Logger
}

// NewServer constructs a Server bound to cfg.SocketPath. Call Start to
// begin accepting connections.
func NewServer(cfg ServerConfig, handler Handler) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath:  cfg.SocketPath,
		tcpAddr:     cfg.TCPAddr,
		handler:     handler,
		log:         logger,
		clients:     make(map[string]*client),
		subscribers: make(map[string]*subscriber),
		connLimiter: fsutil.NewConnectionLimiter(maxClients, maxConnsPerIP),
	}
}

// Start opens the listener and begins the accept loop in the background.
func (s *Server) Start() error {
	if s.running.Load() {
		return errors.New("ipc: server already running")
	}

	os.Remove(s.socketPath)
	ln, err := listen(s.socketPath)
	if err != nil {
		return fmt.Errorf("ipc: listen: %w", err)
	}
	s.listener = ln

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.running.Store(true)

	s.wg.Add(1)
	go s.acceptLoop(s.listener)

	if s.tcpAddr != "" {
		tln, err := net.Listen("tcp", s.tcpAddr)
		if err != nil {
			s.cancel()
			s.listener.Close()
			s.running.Store(false)
			return fmt.Errorf("ipc: tcp listen: %w", err)
		}
		s.tcpListener = tln
		s.wg.Add(1)
		go s.acceptLoop(s.tcpListener)
	}

	return nil
}

// Stop closes the listener and every open connection, then waits (bounded)
// for the accept loop and handlers to exit.
func (s *Server) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	s.cancel()
	s.listener.Close()
	if s.tcpListener != nil {
		s.tcpListener.Close()
	}

	s.mu.Lock()
	for _, c := range s.clients {
		c.conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}

	CleanupSocket(s.socketPath)
	return nil
}

// SocketPath returns the path the server is listening on.
func (s *Server) SocketPath() string { return s.socketPath }

// ClientCount returns the number of currently connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Broadcast pushes a Notification to every subscriber, dropping any whose
// write fails (spec.md §4.5: "failed writes silently remove the
// subscriber").
func (s *Server) Broadcast(n Notification) {
	s.mu.Lock()
	targets := make([]*subscriber, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		targets = append(targets, sub)
	}
	s.mu.Unlock()

	for _, sub := range targets {
		if err := sub.client.writeLine(n); err != nil {
			s.mu.Lock()
			delete(s.subscribers, sub.clientID)
			s.mu.Unlock()
		}
	}
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			s.log.Warn("ipc accept failed", "error", err)
			continue
		}

		s.mu.Lock()
		full := len(s.clients) >= maxClients
		s.mu.Unlock()
		if full {
			conn.Close()
			continue
		}

		ip := tcpRemoteIP(conn)
		if ip != "" && !s.connLimiter.Acquire(ip) {
			s.log.Warn("ipc tcp connection limit exceeded", "ip", ip)
			conn.Close()
			continue
		}

		if ip == "" {
			if ok, err := VerifyPeerIsCurrentUser(conn); err != nil || !ok {
				s.log.Warn("ipc rejecting control connection from foreign peer", "error", err)
				conn.Close()
				continue
			}
		}

		c := &client{id: generateClientID(), conn: conn, ip: ip}
		s.mu.Lock()
		s.clients[c.id] = c
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handleConnection(c)
	}
}

func (s *Server) handleConnection(c *client) {
	defer s.wg.Done()
	defer func() {
		c.conn.Close()
		if c.ip != "" {
			s.connLimiter.Release(c.ip)
		}
		s.mu.Lock()
		delete(s.clients, c.id)
		delete(s.subscribers, c.id)
		s.mu.Unlock()
	}()

	reader := NewReader(c.conn)
	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		c.conn.SetReadDeadline(time.Now().Add(readIdleTimeout))
		line, err := reader.ReadLine()
		if err != nil {
			return
		}

		cmd, err := DecodeCommand(line)
		if err != nil {
			s.log.Warn("ipc malformed command, disconnecting", "error", err)
			return
		}

		if sub, ok := cmd.(*SubscribePipe); ok {
			s.registerSubscriber(c, sub.Name)
			continue
		}
		if sub, ok := cmd.(*SubscribeSocket); ok {
			s.registerSubscriber(c, sub.Name)
			continue
		}
		if _, ok := cmd.(*Unsubscribe); ok {
			s.mu.Lock()
			delete(s.subscribers, c.id)
			s.mu.Unlock()
			continue
		}

		resp, err := s.handler.HandleCommand(s.ctx, cmd)
		if err != nil {
			s.log.Warn("ipc command failed", "kind", cmd.Kind(), "error", err)
			continue
		}
		if resp != nil {
			if err := c.writeLine(resp); err != nil {
				return
			}
		}
	}
}

// registerSubscriber records c as a fan-out target. The name is accepted
// for API compatibility with the named-pipe/socket subscription forms
// spec.md §4.5 describes; both route through the same control connection
// here since the subscriber already holds an open connection to push on.
func (s *Server) registerSubscriber(c *client, name string) {
	s.mu.Lock()
	s.subscribers[c.id] = &subscriber{clientID: c.id, client: c}
	s.mu.Unlock()
	s.log.Debug("ipc subscriber registered", "name", name, "client", c.id)
}

// tcpRemoteIP returns the remote host for a TCP connection, or "" for any
// other transport (Unix socket, Windows named pipe) where per-IP limiting
// doesn't apply.
func tcpRemoteIP(conn net.Conn) string {
	addr, ok := conn.RemoteAddr().(*net.TCPAddr)
	if !ok {
		return ""
	}
	return addr.IP.String()
}

func generateClientID() string {
	buf := make([]byte, 8)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
