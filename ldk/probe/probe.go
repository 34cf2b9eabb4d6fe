// Package probe provides hooks that observe compounds as they pass the
// entry points of functional units.
package probe

import (
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/sim/hooking"
)

type named interface {
	Name() string
}

type attached interface {
	Environment() ldk.Environment
}

// site extracts where a hook was triggered.
func site(ctx hooking.HookCtx) (network, unit string) {
	if n, ok := ctx.Domain.(named); ok {
		unit = n.Name()
	}

	if a, ok := ctx.Domain.(attached); ok && a.Environment() != nil {
		network = a.Environment().Name()
	}

	return network, unit
}
