package crc

import (
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fun"
)

// Register adds the CRC unit to a registry.
func Register(r *fun.Registry) {
	r.Register("crc.CRC",
		func(name string, params fun.Params) (ldk.FunctionalUnit, error) {
			p := DefaultParams()
			if err := params.Decode(&p); err != nil {
				return nil, err
			}

			if err := p.Validate(); err != nil {
				return nil, err
			}

			return New(name, p), nil
		})
}
