package parsers

import (
	"github.com/custodia-labs/structdb/internal/parsers/mmcif"
	"github.com/custodia-labs/structdb/internal/parsers/pdb"
)

// RegisterDefaults registers all built-in parsers with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(pdb.New())
	r.Register(mmcif.New())
}

// NewDefaultRegistry returns a registry with every built-in parser.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
