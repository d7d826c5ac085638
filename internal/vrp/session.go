package vrp

import (
	"fmt"
	"sort"
	"strings"
)

// View is a CLI configuration context. Commands are only valid in
// specific views, and the prompt reflects the current one.
type View int

const (
	ViewUser      View = iota // <Huawei>
	ViewSystem                // [Huawei]
	ViewInterface             // [Huawei-GigabitEthernet0/0/1]
	ViewAAA                   // [Huawei-aaa]
	ViewACL                   // [Huawei-acl-basic-2000]
	ViewVLAN                  // [Huawei-vlan10]
)

// ViewState pairs a view with its context, e.g. the normalized interface
// name or the ACL identifier.
type ViewState struct {
	View    View
	Context string
}

// Session holds the per-connection CLI state: the nested view stack,
// hostname and pagination settings. The stack always has at least one
// frame and the bottom frame is always the user view.
type Session struct {
	Hostname              string
	ScreenLength          int
	ScreenLengthTemporary bool

	stack []ViewState
}

const (
	DefaultHostname     = "Huawei"
	DefaultScreenLength = 24

	MaxHostnameLength = 64
	MaxScreenLength   = 512
)

func NewSession(hostname string, screenLength int) *Session {
	if hostname == "" {
		hostname = DefaultHostname
	}
	if screenLength <= 0 || screenLength > MaxScreenLength {
		screenLength = DefaultScreenLength
	}
	return &Session{
		Hostname:     hostname,
		ScreenLength: screenLength,
		stack:        []ViewState{{View: ViewUser}},
	}
}

// CurrentView returns the top of the view stack.
func (s *Session) CurrentView() ViewState {
	return s.stack[len(s.stack)-1]
}

// Depth returns the size of the view stack.
func (s *Session) Depth() int {
	return len(s.stack)
}

// Prompt renders the prompt string for the current view. It is computed
// on demand so hostname and context changes take effect immediately.
func (s *Session) Prompt() string {
	view := s.CurrentView()

	switch view.View {
	case ViewUser:
		return fmt.Sprintf("<%s>", s.Hostname)
	case ViewSystem:
		return fmt.Sprintf("[%s]", s.Hostname)
	case ViewAAA:
		return fmt.Sprintf("[%s-aaa]", s.Hostname)
	default: // interface, ACL and VLAN views carry their context
		return fmt.Sprintf("[%s-%s]", s.Hostname, view.Context)
	}
}

// EnterSystemView moves from the user view into the system view.
func (s *Session) EnterSystemView() string {
	if s.CurrentView().View != ViewUser {
		return "Error: Already in configuration mode"
	}

	s.stack = append(s.stack, ViewState{View: ViewSystem})
	return "Enter system view, return user view with Ctrl+Z."
}

// EnterInterface moves into the configuration view of the named
// interface. The name is normalized through the abbreviation table.
func (s *Session) EnterInterface(name string) string {
	current := s.CurrentView().View
	if current != ViewSystem && current != ViewInterface {
		return "Error: Please enter system view first"
	}

	normalized := NormalizeInterfaceName(name)
	if normalized == "" {
		return fmt.Sprintf("Error: Unrecognized interface type '%s'", name)
	}

	s.stack = append(s.stack, ViewState{View: ViewInterface, Context: normalized})
	return ""
}

// EnterAAA moves from the system view into the AAA view.
func (s *Session) EnterAAA() string {
	if s.CurrentView().View != ViewSystem {
		return "Error: Please enter system view first"
	}

	s.stack = append(s.stack, ViewState{View: ViewAAA})
	return ""
}

// EnterACL moves from the system view into an ACL view. Basic ACLs are
// numbered 2000-2999, advanced ACLs 3000-3999.
func (s *Session) EnterACL(number int) string {
	if s.CurrentView().View != ViewSystem {
		return "Error: Please enter system view first"
	}

	var context string
	switch {
	case number >= 2000 && number <= 2999:
		context = fmt.Sprintf("acl-basic-%d", number)
	case number >= 3000 && number <= 3999:
		context = fmt.Sprintf("acl-adv-%d", number)
	default:
		return "Error: Invalid ACL number (2000-3999)"
	}

	s.stack = append(s.stack, ViewState{View: ViewACL, Context: context})
	return ""
}

// EnterVLAN moves from the system view into a VLAN view.
func (s *Session) EnterVLAN(id int) string {
	if s.CurrentView().View != ViewSystem {
		return "Error: Please enter system view first"
	}

	if id < 1 || id > 4094 {
		return "Error: Invalid VLAN ID (1-4094)"
	}

	s.stack = append(s.stack, ViewState{View: ViewVLAN, Context: fmt.Sprintf("vlan%d", id)})
	return ""
}

// Quit pops the current view. At the bottom of the stack it signals a
// logout instead of popping, so the stack never becomes empty.
func (s *Session) Quit() string {
	if len(s.stack) <= 1 {
		return Logout
	}

	s.stack = s.stack[:len(s.stack)-1]
	return ""
}

// ReturnToUser resets the stack to a single user-view frame (Ctrl+Z).
func (s *Session) ReturnToUser() {
	s.stack = []ViewState{{View: ViewUser}}
}

// SetHostname changes the device hostname. Only legal in system view.
func (s *Session) SetHostname(name string) string {
	if s.CurrentView().View != ViewSystem {
		return "Error: Please enter system view first"
	}

	if name == "" || len(name) > MaxHostnameLength {
		return "Error: Invalid hostname"
	}

	s.Hostname = name
	return ""
}

// SetScreenLength sets the pagination screen length (0 disables paging).
func (s *Session) SetScreenLength(length int, temporary bool) string {
	if length < 0 || length > MaxScreenLength {
		return fmt.Sprintf("Error: Invalid screen-length value (0-%d)", MaxScreenLength)
	}

	s.ScreenLength = length
	s.ScreenLengthTemporary = temporary
	return ""
}

// interfaceTypes maps interface type abbreviations to canonical names.
var interfaceTypes = map[string]string{
	"gi":              "GigabitEthernet",
	"gig":             "GigabitEthernet",
	"gigabitethernet": "GigabitEthernet",
	"eth":             "Ethernet",
	"ethernet":        "Ethernet",
	"xgi":             "XGigabitEthernet",
	"xgigabitethernet": "XGigabitEthernet",
	"lo":              "LoopBack",
	"loopback":        "LoopBack",
	"null":            "NULL",
	"vlan":            "Vlanif",
	"vlanif":          "Vlanif",
	"me":              "MEth",
	"meth":            "MEth",
}

// interfacePrefixes holds the abbreviation keys longest-first so that
// "gigabitethernet0/0/1" matches its full type, not the "gi" shorthand.
var interfacePrefixes = func() []string {
	prefixes := make([]string, 0, len(interfaceTypes))
	for abbrev := range interfaceTypes {
		prefixes = append(prefixes, abbrev)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})
	return prefixes
}()

// NormalizeInterfaceName expands an interface type abbreviation to its
// canonical form, e.g. "gi0/0/1" -> "GigabitEthernet0/0/1". Names with no
// known type prefix are accepted as-is when they contain a "/"; otherwise
// the empty string is returned.
func NormalizeInterfaceName(name string) string {
	lower := strings.ToLower(name)

	for _, abbrev := range interfacePrefixes {
		if strings.HasPrefix(lower, abbrev) {
			return interfaceTypes[abbrev] + name[len(abbrev):]
		}
	}

	if strings.Contains(name, "/") {
		return name
	}

	return ""
}
