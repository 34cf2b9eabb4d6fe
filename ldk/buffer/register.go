package buffer

import (
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fun"
)

// Register adds the buffers to a registry.
func Register(r *fun.Registry) {
	r.Register("buffer.Dropping",
		func(name string, params fun.Params) (ldk.FunctionalUnit, error) {
			p := DefaultDroppingParams()
			if err := params.Decode(&p); err != nil {
				return nil, err
			}

			if err := p.Validate(); err != nil {
				return nil, err
			}

			return NewDropping(name, p), nil
		})
}
