package cli

import (
	"github.com/felixgeelhaar/schedgen/internal/app"
)

// container is the global Container the CLI commands drive. It is nil until
// SetContainer is called from main, which lets command RunE funcs stay thin.
var container *app.Container

// SetContainer sets the global container the CLI operates against.
func SetContainer(c *app.Container) {
	container = c
}

// GetContainer returns the global container, or nil if it was never set.
func GetContainer() *app.Container {
	return container
}
