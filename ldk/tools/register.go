package tools

import (
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fun"
)

// Register adds the tool units to a registry.
func Register(r *fun.Registry) {
	r.Register("tools.Stub",
		func(name string, _ fun.Params) (ldk.FunctionalUnit, error) {
			return NewStub(name), nil
		})

	r.Register("tools.Generator",
		func(name string, params fun.Params) (ldk.FunctionalUnit, error) {
			p := DefaultGeneratorParams()
			if err := params.Decode(&p); err != nil {
				return nil, err
			}

			if err := p.Validate(); err != nil {
				return nil, err
			}

			return NewGenerator(name, p), nil
		})

	r.Register("tools.Bridge",
		func(name string, params fun.Params) (ldk.FunctionalUnit, error) {
			p := BridgeParams{}
			if err := params.Decode(&p); err != nil {
				return nil, err
			}

			if err := p.Validate(); err != nil {
				return nil, err
			}

			return NewBridge(name, p), nil
		})
}
