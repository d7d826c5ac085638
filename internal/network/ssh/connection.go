package ssh

import (
	"net"
	"sync"

	"github.com/gliderlabs/ssh"
)

// Connection wraps an ssh.Session and tracks the PTY window size, the SSH
// counterpart of the telnet NAWS negotiation.
type Connection struct {
	sess   ssh.Session
	mu     sync.RWMutex
	width  int
	height int
	term   string
}

func NewConnection(sess ssh.Session) *Connection {
	c := &Connection{sess: sess, width: 80, height: 24}

	pty, winCh, isPty := sess.Pty()
	if isPty {
		c.term = pty.Term
		c.width = pty.Window.Width
		c.height = pty.Window.Height

		go func() {
			for win := range winCh {
				c.mu.Lock()
				c.width = win.Width
				c.height = win.Height
				c.mu.Unlock()
			}
		}()
	}

	return c
}

// WindowSize returns the latest PTY dimensions.
func (c *Connection) WindowSize() (width, height int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.width, c.height
}

func (c *Connection) Term() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.term
}

func (c *Connection) RemoteAddr() net.Addr {
	return c.sess.RemoteAddr()
}

func (c *Connection) Close() error {
	return c.sess.Close()
}

func (c *Connection) Read(p []byte) (n int, err error) {
	return c.sess.Read(p)
}

func (c *Connection) Write(p []byte) (n int, err error) {
	return c.sess.Write(p)
}
