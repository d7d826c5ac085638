package telnet

// Command is a decoded negotiation command. Data is only set for
// sub-negotiations (Cmd == SB).
type Command struct {
	Cmd    byte
	Option byte
	Data   []byte
}

type parserState int

const (
	stateNormal parserState = iota
	stateIAC
	stateWill
	stateWont
	stateDo
	stateDont
	stateSB
	stateSBData
	stateSBIAC
)

// Parser decodes the Telnet protocol out of a raw byte stream, separating
// application data from negotiation commands. State persists between calls
// to Parse, so a command split across chunk boundaries resumes correctly.
type Parser struct {
	state     parserState
	subOption byte
	subData   []byte
}

func NewParser() *Parser {
	return &Parser{}
}

// Parse consumes a chunk of raw bytes and returns the application data it
// contained along with any negotiation commands completed within it.
// An escaped IAC (IAC IAC) decodes to a single 0xFF of application data.
func (p *Parser) Parse(chunk []byte) ([]byte, []Command) {
	var data []byte
	var cmds []Command

	for _, b := range chunk {
		switch p.state {
		case stateNormal:
			if b == IAC {
				p.state = stateIAC
			} else {
				data = append(data, b)
			}

		case stateIAC:
			switch b {
			case IAC:
				data = append(data, IAC)
				p.state = stateNormal
			case WILL:
				p.state = stateWill
			case WONT:
				p.state = stateWont
			case DO:
				p.state = stateDo
			case DONT:
				p.state = stateDont
			case SB:
				p.state = stateSB
			default:
				// Simple commands (NOP, AYT, stray SE, ...) carry no option.
				p.state = stateNormal
			}

		case stateWill:
			cmds = append(cmds, Command{Cmd: WILL, Option: b})
			p.state = stateNormal
		case stateWont:
			cmds = append(cmds, Command{Cmd: WONT, Option: b})
			p.state = stateNormal
		case stateDo:
			cmds = append(cmds, Command{Cmd: DO, Option: b})
			p.state = stateNormal
		case stateDont:
			cmds = append(cmds, Command{Cmd: DONT, Option: b})
			p.state = stateNormal

		case stateSB:
			p.subOption = b
			p.subData = p.subData[:0]
			p.state = stateSBData

		case stateSBData:
			if b == IAC {
				p.state = stateSBIAC
			} else {
				p.subData = append(p.subData, b)
			}

		case stateSBIAC:
			switch b {
			case SE:
				payload := make([]byte, len(p.subData))
				copy(payload, p.subData)
				cmds = append(cmds, Command{Cmd: SB, Option: p.subOption, Data: payload})
				p.state = stateNormal
			case IAC:
				// Escaped 0xFF inside the sub-negotiation payload.
				p.subData = append(p.subData, IAC)
				p.state = stateSBData
			default:
				// Malformed sequence; drop the sub-negotiation and recover.
				p.state = stateNormal
			}
		}
	}

	return data, cmds
}
