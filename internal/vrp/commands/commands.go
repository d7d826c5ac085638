// Package commands builds the VRP command table: patterns, view gating
// and the canned response bodies of the modeled device.
package commands

import (
	"github.com/tu10ng/vrpmock/internal/store"
	"github.com/tu10ng/vrpmock/internal/vrp"
)

// NewRegistry assembles the full command table. It is built once at
// startup and shared read-only by every connection.
func NewRegistry(db *store.Store) *vrp.Registry {
	r := vrp.NewRegistry()
	registerDisplayCommands(r)
	registerAAACommands(r, db)
	registerSystemCommands(r)
	return r
}
