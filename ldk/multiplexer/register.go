package multiplexer

import (
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fun"
)

// Register adds the dispatcher to a registry.
func Register(r *fun.Registry) {
	r.Register("multiplexer.Dispatcher",
		func(name string, params fun.Params) (ldk.FunctionalUnit, error) {
			p := DispatcherParams{}
			if err := params.Decode(&p); err != nil {
				return nil, err
			}

			if err := p.Validate(); err != nil {
				return nil, err
			}

			return NewDispatcher(name, p), nil
		})
}
