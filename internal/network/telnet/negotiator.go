package telnet

import "encoding/binary"

// Negotiator implements the server side of Telnet option negotiation.
// It never blocks the data path: every decoded command is answered
// synchronously with the response bytes to transmit.
type Negotiator struct {
	localOptions  map[byte]bool // options we have agreed to perform (WILL)
	remoteOptions map[byte]bool // options we asked the client to perform (DO)
	windowWidth   int
	windowHeight  int
}

func NewNegotiator() *Negotiator {
	return &Negotiator{
		localOptions:  make(map[byte]bool),
		remoteOptions: make(map[byte]bool),
		windowWidth:   80,
		windowHeight:  24,
	}
}

// InitialNegotiation returns the options the server announces up front:
// we will echo, we will suppress go-ahead, and the client should report
// its window size.
func (n *Negotiator) InitialNegotiation() []byte {
	n.localOptions[Echo] = true
	n.localOptions[SGA] = true

	return []byte{
		IAC, WILL, Echo,
		IAC, WILL, SGA,
		IAC, DO, NAWS,
	}
}

// Handle decides the reciprocal response to a single decoded command.
// The returned bytes must be sent to the client before any application
// output queued after this command.
func (n *Negotiator) Handle(cmd Command) []byte {
	switch cmd.Cmd {
	case WILL:
		// Client offers to perform an option.
		if cmd.Option == NAWS || cmd.Option == TType {
			n.remoteOptions[cmd.Option] = true
			return []byte{IAC, DO, cmd.Option}
		}
		return []byte{IAC, DONT, cmd.Option}

	case WONT:
		// Client refuses.
		delete(n.remoteOptions, cmd.Option)
		return []byte{IAC, DONT, cmd.Option}

	case DO:
		// Client requests that we perform an option.
		if cmd.Option == Echo || cmd.Option == SGA {
			if n.localOptions[cmd.Option] {
				return nil // already agreed, avoid a negotiation loop
			}
			n.localOptions[cmd.Option] = true
			return []byte{IAC, WILL, cmd.Option}
		}
		return []byte{IAC, WONT, cmd.Option}

	case DONT:
		// Client demands that we stop.
		if n.localOptions[cmd.Option] {
			delete(n.localOptions, cmd.Option)
			return []byte{IAC, WONT, cmd.Option}
		}

	case SB:
		// RFC 1073: IAC SB NAWS <16-bit width> <16-bit height> IAC SE
		if cmd.Option == NAWS && len(cmd.Data) >= 4 {
			n.windowWidth = int(binary.BigEndian.Uint16(cmd.Data[0:2]))
			n.windowHeight = int(binary.BigEndian.Uint16(cmd.Data[2:4]))
		}
	}

	return nil
}

// WindowSize returns the last negotiated terminal size, defaulting to
// 80x24 until the client reports one.
func (n *Negotiator) WindowSize() (width, height int) {
	return n.windowWidth, n.windowHeight
}

// IsLocalOptionEnabled checks if we have agreed to perform an option.
func (n *Negotiator) IsLocalOptionEnabled(option byte) bool {
	return n.localOptions[option]
}

// IsRemoteOptionEnabled checks if the client has agreed to perform an option.
func (n *Negotiator) IsRemoteOptionEnabled(option byte) bool {
	return n.remoteOptions[option]
}
