// Package session drives one authenticated terminal session: the login
// state machine, character-level line editing, command dispatch and
// pagination. It is transport-agnostic; the telnet and ssh listeners feed
// it cleaned application bytes.
package session

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tu10ng/vrpmock/internal/app"
	"github.com/tu10ng/vrpmock/internal/nodes"
	"github.com/tu10ng/vrpmock/internal/vrp"
	"github.com/tu10ng/vrpmock/internal/vrp/commands"
)

const loginBanner = "\r\n" +
	"Warning: This system is restricted to authorized users for authorized use only.\r\n" +
	"         Unauthorized access is forbidden.\r\n\r\n"

const postLoginBanner = "\r\n" +
	"Info: The max number of VTY users is {{ .MaxVTY }}, the number of current VTY users online is {{ .Online }}.\r\n" +
	"      The current login time is {{ now | date \"2006-01-02 15:04:05\" }}.\r\n"

type loginState int

const (
	awaitingUsername loginState = iota
	awaitingPassword
	authenticated
)

// Session is the per-connection orchestrator. It is exclusively owned by
// one connection's goroutine; no locking is needed.
type Session struct {
	w      io.Writer
	node   *nodes.Node
	logger *slog.Logger

	device   *vrp.Session
	registry *vrp.Registry
	pager    *vrp.Pager

	state         loginState
	inputUsername string
	attempts      int
	maxAttempts   int

	buf       []byte
	lastWasCR bool
	closed    bool
}

func New(w io.Writer, node *nodes.Node, logger *slog.Logger) *Session {
	return &Session{
		w:           w,
		node:        node,
		logger:      logger,
		device:      vrp.NewSession(app.Config.Device.Hostname, app.Config.Device.ScreenLength),
		registry:    app.Registry,
		pager:       vrp.NewPager(),
		maxAttempts: app.Config.Auth.MaxAttempts,
	}
}

// Closed reports whether the session ended (logout or exhausted login
// attempts). The transport should drop the connection once set.
func (s *Session) Closed() bool {
	return s.closed
}

// Start sends the login banner and the username prompt.
func (s *Session) Start() error {
	if err := s.send(loginBanner); err != nil {
		return err
	}
	return s.send("Username:")
}

// HandleData routes cleaned application bytes through the login, pager or
// command character handler, in strict arrival order. An LF immediately
// following a CR collapses into the CR's logical newline.
func (s *Session) HandleData(data []byte) error {
	if s.closed {
		return nil
	}

	for _, b := range data {
		if b == '\n' && s.lastWasCR {
			s.lastWasCR = false
			continue
		}
		s.lastWasCR = b == '\r'

		var err error
		switch {
		case s.state != authenticated:
			err = s.handleLoginByte(b)
		case s.pager.Active():
			err = s.handlePagerByte(b)
		default:
			err = s.handleCommandByte(b)
		}
		if err != nil {
			return err
		}
		if s.closed {
			return nil
		}
	}
	return nil
}

func (s *Session) handleLoginByte(b byte) error {
	switch {
	case b == 0x03: // Ctrl+C restarts the current field
		s.buf = s.buf[:0]
		if s.state == awaitingPassword {
			return s.send("\r\nPassword:")
		}
		return s.send("\r\nUsername:")

	case b == '\r' || b == '\n':
		input := strings.TrimSpace(string(s.buf))
		s.buf = s.buf[:0]
		if err := s.send("\r\n"); err != nil {
			return err
		}

		if s.state == awaitingUsername {
			s.inputUsername = input
			s.state = awaitingPassword
			return s.send("Password:")
		}
		return s.finishLogin(input)

	case b == 0x7f || b == 0x08: // Backspace
		if len(s.buf) > 0 {
			s.buf = s.buf[:len(s.buf)-1]
			if s.state == awaitingUsername {
				return s.send("\b \b")
			}
		}

	case b >= 0x20 && b < 0x7f:
		s.buf = append(s.buf, b)
		if s.state == awaitingUsername {
			// The password is never echoed.
			return s.send(string(b))
		}
	}
	return nil
}

func (s *Session) finishLogin(password string) error {
	if s.authenticate(s.inputUsername, password) {
		s.state = authenticated
		s.logger.Info("Login successful", "user", s.inputUsername)
		if err := s.sendPostLoginBanner(); err != nil {
			return err
		}
		return s.sendPrompt()
	}

	s.attempts++
	s.logger.Warn("Login failed", "user", s.inputUsername, "attempt", s.attempts)

	if s.attempts >= s.maxAttempts {
		s.closed = true
		return s.send("Error: Too many failed attempts. Connection closed.\r\n")
	}

	if err := s.send("Error: Username or password is invalid.\r\n"); err != nil {
		return err
	}
	s.state = awaitingUsername
	return s.send("Username:")
}

// authenticate checks the configured credential pair first, then any AAA
// local-user provisioned at runtime.
func (s *Session) authenticate(username, password string) bool {
	if username == app.Config.Auth.Username && password == app.Config.Auth.Password {
		return true
	}
	if app.Store != nil {
		if _, err := app.Store.Authenticate(username, password); err == nil {
			return true
		}
	}
	return false
}

func (s *Session) handleCommandByte(b byte) error {
	switch {
	case b == 0x03: // Ctrl+C cancels the pending line
		s.buf = s.buf[:0]
		if err := s.send("^C\r\n"); err != nil {
			return err
		}
		return s.sendPrompt()

	case b == 0x1a: // Ctrl+Z returns straight to the user view
		s.buf = s.buf[:0]
		s.device.ReturnToUser()
		if err := s.send("\r\n"); err != nil {
			return err
		}
		return s.sendPrompt()

	case b == '\r' || b == '\n':
		if len(s.buf) == 0 {
			if err := s.send("\r\n"); err != nil {
				return err
			}
			return s.sendPrompt()
		}
		command := strings.TrimSpace(string(s.buf))
		s.buf = s.buf[:0]
		if err := s.send("\r\n"); err != nil {
			return err
		}
		return s.execute(command)

	case b == 0x7f || b == 0x08: // Backspace
		if len(s.buf) > 0 {
			s.buf = s.buf[:len(s.buf)-1]
			return s.send("\b \b")
		}

	case b == 0x09: // Tab: no real completion, just ring the bell
		return s.send("\x07")

	case b >= 0x20 && b < 0x7f:
		s.buf = append(s.buf, b)
		return s.send(string(b))
	}
	return nil
}

func (s *Session) execute(command string) error {
	result, matched := s.registry.Execute(command, s.device)

	if !matched {
		if err := s.send(fmt.Sprintf("Error: Unrecognized command '%s'\r\n", command)); err != nil {
			return err
		}
		return s.sendPrompt()
	}

	if result == vrp.Logout {
		s.logger.Info("Logout", "user", s.inputUsername)
		s.closed = true
		return s.send("Logout\r\n")
	}

	if result != "" {
		output, more := s.pager.Start(result, s.device.ScreenLength)
		if err := s.send(crlf(output)); err != nil {
			return err
		}
		if more {
			return nil // prompt follows once the pager drains
		}
		if err := s.send("\r\n"); err != nil {
			return err
		}
	}

	return s.sendPrompt()
}

func (s *Session) handlePagerByte(b byte) error {
	output, more := s.pager.HandleInput(b)
	if output != "" {
		if err := s.send(crlf(output)); err != nil {
			return err
		}
	}
	if more {
		return nil
	}
	if err := s.send("\r\n"); err != nil {
		return err
	}
	return s.sendPrompt()
}

func (s *Session) sendPostLoginBanner() error {
	banner := commands.Render(postLoginBanner, map[string]int{
		"MaxVTY": app.Nodes.Max(),
		"Online": app.Nodes.Online(),
	})
	return s.send(banner)
}

func (s *Session) sendPrompt() error {
	return s.send(s.device.Prompt())
}

func (s *Session) send(text string) error {
	_, err := io.WriteString(s.w, text)
	return err
}

// crlf normalizes line endings to the transport's two-byte convention.
func crlf(text string) string {
	return strings.ReplaceAll(text, "\n", "\r\n")
}
