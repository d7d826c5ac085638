package vrp

import (
	"regexp"
	"strings"
)

// Logout is the sentinel result a handler returns to end the connection.
const Logout = "LOGOUT"

// Handler executes a matched command against a session. Args holds the
// pattern's named captures; groups that did not participate in the match
// are present with an empty value. Handlers never return Go errors:
// validation failures are in-band strings starting with "Error:".
type Handler interface {
	Handle(s *Session, args map[string]string) string
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(s *Session, args map[string]string) string

func (f HandlerFunc) Handle(s *Session, args map[string]string) string {
	return f(s, args)
}

type registration struct {
	pattern *regexp.Regexp
	handler Handler
	views   map[View]bool // nil means valid in every view
}

// Registry dispatches command lines to registered handlers. Registrations
// are ordered and immutable once the table is built; the first pattern
// that matches in the session's current view wins.
type Registry struct {
	commands      []registration
	abbreviations map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		abbreviations: map[string]string{
			// display commands
			"dis":  "display",
			"d":    "display",
			"sh":   "display", // Cisco habit
			"show": "display",

			// system commands
			"sys": "system-view",
			"sy":  "system-view",
			"q":   "quit",
			"qui": "quit",

			// display subcommands
			"ver":  "version",
			"dev":  "device",
			"int":  "interface",
			"cur":  "current-configuration",
			"conf": "configuration",
			"ip":   "ip",
			"br":   "brief",
			"bri":  "brief",

			// interface types
			"gi":  "GigabitEthernet",
			"gig": "GigabitEthernet",
			"lo":  "LoopBack",
			"eth": "Ethernet",

			// config commands
			"sysn": "sysname",
			"scr":  "screen-length",
		},
	}
}

// Register appends a command pattern to the table. The pattern is
// anchored by convention (^...$) and matched case-insensitively against
// the abbreviation-expanded input. An empty views list means the command
// is valid everywhere.
func (r *Registry) Register(pattern string, handler Handler, views ...View) {
	compiled := regexp.MustCompile(`(?i)` + pattern)

	var allowed map[View]bool
	if len(views) > 0 {
		allowed = make(map[View]bool, len(views))
		for _, v := range views {
			allowed[v] = true
		}
	}

	r.commands = append(r.commands, registration{
		pattern: compiled,
		handler: handler,
		views:   allowed,
	})
}

// ExpandAbbreviations replaces each whitespace-delimited token with its
// canonical form, so patterns only ever need to match canonical tokens.
func (r *Registry) ExpandAbbreviations(command string) string {
	parts := strings.Fields(command)
	for i, part := range parts {
		if full, ok := r.abbreviations[strings.ToLower(part)]; ok {
			parts[i] = full
		}
	}
	return strings.Join(parts, " ")
}

// Execute dispatches a raw command line against the session. The bool
// reports whether any registration matched; an unmatched command is the
// caller's "unrecognized command" case, distinct from a handler returning
// an empty result.
func (r *Registry) Execute(command string, s *Session) (string, bool) {
	expanded := r.ExpandAbbreviations(strings.TrimSpace(command))
	current := s.CurrentView().View

	for _, reg := range r.commands {
		if reg.views != nil && !reg.views[current] {
			continue
		}

		match := reg.pattern.FindStringSubmatch(expanded)
		if match == nil {
			continue
		}

		args := make(map[string]string)
		for i, name := range reg.pattern.SubexpNames() {
			if name != "" && i < len(match) {
				args[name] = match[i]
			}
		}

		return reg.handler.Handle(s, args), true
	}

	return "", false
}
