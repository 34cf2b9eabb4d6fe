package sar

import (
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fun"
)

// Register adds the segmenters to a registry.
func Register(r *fun.Registry) {
	r.Register("sar.Fixed",
		func(name string, params fun.Params) (ldk.FunctionalUnit, error) {
			p := DefaultFixedParams()
			if err := params.Decode(&p); err != nil {
				return nil, err
			}

			if err := p.Validate(); err != nil {
				return nil, err
			}

			return NewFixed(name, p), nil
		})
}
