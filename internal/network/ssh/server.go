// Package ssh provides the STelnet listener. Real VRP devices expose the
// same VTY command surface over SSH; this listener feeds the shared
// per-connection orchestrator without any telnet negotiation.
package ssh

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gliderlabs/ssh"

	"github.com/tu10ng/vrpmock/internal/app"
	"github.com/tu10ng/vrpmock/internal/config"
	"github.com/tu10ng/vrpmock/internal/session"
)

type Server struct {
	config config.SSHConfig
	server *ssh.Server

	mu sync.Mutex
	ln net.Listener
}

func NewServer() *Server {
	return &Server{
		config: app.Config.Listeners.SSH,
	}
}

func (s *Server) ListenAndServe() error {
	app.Logger.Info("SSH server listening", "port", s.config.Port)

	// Transport auth is left open on purpose: the device presents its own
	// in-band Username/Password login, identical to the telnet path.
	s.server = &ssh.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.HandleSession,
		PtyCallback: func(ctx ssh.Context, pty ssh.Pty) bool {
			return true
		},
	}

	if s.config.KeyFile != "" {
		if err := s.server.SetOption(ssh.HostKeyFile(s.config.KeyFile)); err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the listener address once ListenAndServe has bound it.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

func (s *Server) HandleSession(sess ssh.Session) {
	node, err := app.Nodes.Acquire()
	if err != nil {
		app.Logger.Warn("SSH connection rejected: all VTY lines in use", "addr", sess.RemoteAddr())
		sess.Close()
		return
	}
	defer app.Nodes.Release(node.ID)

	conn := NewConnection(sess)
	logger := app.Logger.With("node", node.ID)

	width, height := conn.WindowSize()
	logger.Info("SSH connection established", "addr", conn.RemoteAddr(), "term", conn.Term(), "width", width, "height", height)
	defer logger.Info("SSH connection closed", "addr", conn.RemoteAddr())

	vs := session.New(conn, node, logger)
	if err := vs.Start(); err != nil {
		return
	}

	idleTimeout := time.Duration(s.config.IdleTimeout) * time.Second

	// ssh.Session has no read deadlines, so a pump goroutine feeds a
	// channel the idle timer can select against.
	type chunk struct {
		data []byte
		err  error
	}
	reads := make(chan chunk)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(reads)
		buf := make([]byte, 1024)
		for {
			n, err := sess.Read(buf)
			data := make([]byte, n)
			copy(data, buf[:n])
			// The handler may have already returned (idle timeout,
			// shutdown, logout); don't park on a send nobody receives.
			select {
			case reads <- chunk{data: data, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case c, ok := <-reads:
			if !ok || c.err != nil {
				logger.Info("Client disconnected")
				return
			}
			if err := vs.HandleData(c.data); err != nil {
				return
			}
			if vs.Closed() {
				return
			}
		case <-time.After(idleTimeout):
			logger.Info("Idle timeout")
			return
		case <-sess.Context().Done():
			logger.Info("Connection cancelled by shutdown")
			return
		}
	}
}
