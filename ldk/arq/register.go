package arq

import (
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fun"
)

// Register adds the ARQ units to a registry.
func Register(r *fun.Registry) {
	r.Register("arq.StopAndWait",
		func(name string, params fun.Params) (ldk.FunctionalUnit, error) {
			p := DefaultStopAndWaitParams()
			if err := params.Decode(&p); err != nil {
				return nil, err
			}

			if err := p.Validate(); err != nil {
				return nil, err
			}

			return NewStopAndWait(name, p), nil
		})
}
