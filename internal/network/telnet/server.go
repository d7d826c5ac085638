package telnet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/tu10ng/vrpmock/internal/app"
	"github.com/tu10ng/vrpmock/internal/config"
	"github.com/tu10ng/vrpmock/internal/session"
)

// settleDelay gives the client a moment to answer the initial option
// negotiation before the login banner goes out.
const settleDelay = 100 * time.Millisecond

type Server struct {
	config config.TelnetConfig

	mu     sync.Mutex
	ln     net.Listener
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		config: app.Config.Listeners.Telnet,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Server) ListenAndServe() error {
	app.Logger.Info("Telnet server listening", "port", s.config.Port)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			app.Logger.Error("Telnet accept error", "err", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(s.ctx, conn)
		}()
	}
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

// Stop closes the listener, cancels every live connection and waits for
// their handlers to finish.
func (s *Server) Stop() error {
	var err error
	s.mu.Lock()
	if s.ln != nil {
		err = s.ln.Close()
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	return err
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	node, err := app.Nodes.Acquire()
	if err != nil {
		app.Logger.Warn("Connection rejected: all VTY lines in use", "addr", conn.RemoteAddr())
		return
	}
	defer app.Nodes.Release(node.ID)

	logger := app.Logger.With("node", node.ID)
	logger.Info("Telnet connection from", "addr", conn.RemoteAddr())
	defer logger.Info("Telnet connection closed", "addr", conn.RemoteAddr())

	// Unblock the pending read when the server shuts down; the handler
	// observes the cancellation at its next read.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()

	parser := NewParser()
	negotiator := NewNegotiator()

	if _, err := conn.Write(negotiator.InitialNegotiation()); err != nil {
		return
	}

	select {
	case <-time.After(settleDelay):
	case <-ctx.Done():
		return
	}

	// Application output goes through the escaping Writer so a literal
	// 0xFF never reads as an IAC; negotiation responses are written raw.
	sess := session.New(NewWriter(conn), node, logger)
	if err := sess.Start(); err != nil {
		return
	}

	idleTimeout := time.Duration(s.config.IdleTimeout) * time.Second
	buf := make([]byte, 1024)

	for {
		conn.SetReadDeadline(time.Now().Add(idleTimeout))
		n, err := conn.Read(buf)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				logger.Info("Connection cancelled by shutdown")
			case isTimeout(err):
				logger.Info("Idle timeout")
			case errors.Is(err, io.EOF):
				logger.Info("Client disconnected")
			default:
				logger.Error("Read error", "err", err)
			}
			return
		}

		data, cmds := parser.Parse(buf[:n])

		// Negotiation responses go out before any application output
		// produced by the same chunk.
		for _, cmd := range cmds {
			logCommand(logger, cmd)
			if resp := negotiator.Handle(cmd); len(resp) > 0 {
				if _, err := conn.Write(resp); err != nil {
					return
				}
			}
		}

		if err := sess.HandleData(data); err != nil {
			return
		}
		if sess.Closed() {
			return
		}
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func logCommand(logger *slog.Logger, cmd Command) {
	cmdName := CommandNames[cmd.Cmd]
	optName := OptionNames[cmd.Option]
	if optName == "" {
		optName = fmt.Sprintf("Unknown(%d)", cmd.Option)
	}
	logger.Debug("Telnet command [IN]", "cmd", cmdName, "opt", optName)
}
