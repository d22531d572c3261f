package commands

import (
	"github.com/cartograph-io/cartograph/internal/cluster"
	"github.com/cartograph-io/cartograph/internal/identity"
)

// newSource builds the inventory client from the loaded config.
func newSource() *cluster.HTTPSource {
	return cluster.NewHTTPSource(cfg.Compute.URL, cfg.Compute.Token, cfg.Compute.Timeout)
}

// newDirectory builds the identity client from the loaded config.
func newDirectory() *identity.HTTPDirectory {
	return identity.NewHTTPDirectory(cfg.Identity.URL, cfg.Identity.Token, cfg.Identity.Timeout)
}
