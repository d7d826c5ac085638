package commands

import (
	"fmt"
	"strings"

	"github.com/tu10ng/vrpmock/internal/store"
	"github.com/tu10ng/vrpmock/internal/vrp"
)

// aaaCommands provisions login accounts in the AAA view.
type aaaCommands struct {
	store *store.Store
}

func (c *aaaCommands) createLocalUser(s *vrp.Session, args map[string]string) string {
	if err := c.store.CreateLocalUser(args["name"], args["password"]); err != nil {
		return fmt.Sprintf("Error: Failed to create local-user '%s'", args["name"])
	}
	return ""
}

func (c *aaaCommands) removeLocalUser(s *vrp.Session, args map[string]string) string {
	if err := c.store.RemoveLocalUser(args["name"]); err != nil {
		return fmt.Sprintf("Error: Failed to remove local-user '%s'", args["name"])
	}
	return ""
}

func (c *aaaCommands) displayLocalUsers(s *vrp.Session, args map[string]string) string {
	users, err := c.store.ListLocalUsers()
	if err != nil {
		return "Error: Failed to read local-user table"
	}

	var b strings.Builder
	b.WriteString("  User-name             State   AuthMask  AdminLevel\n")
	b.WriteString("  -----------------------------------------------------\n")
	for _, u := range users {
		fmt.Fprintf(&b, "  %-20s  A       T         3\n", u.Username)
	}
	fmt.Fprintf(&b, "  Total %d user(s)", len(users))
	return b.String()
}

func registerAAACommands(r *vrp.Registry, db *store.Store) {
	c := &aaaCommands{store: db}

	// Must precede the catch-all undo registration.
	r.Register(`^undo\s+local-user\s+(?P<name>\S+)$`, vrp.HandlerFunc(c.removeLocalUser), vrp.ViewAAA)
	r.Register(`^local-user\s+(?P<name>\S+)\s+password\s+irreversible-cipher\s+(?P<password>\S+)$`,
		vrp.HandlerFunc(c.createLocalUser), vrp.ViewAAA)
	r.Register(`^display\s+local-user$`, vrp.HandlerFunc(c.displayLocalUsers))
}
