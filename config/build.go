package config

import (
	"bytes"
	"fmt"

	"github.com/sarchlab/funsim/ldk/fun"
	"gopkg.in/yaml.v3"
)

type nodeParams struct {
	node *yaml.Node
}

// Decode fills v from the params node. Missing params keep the defaults in
// v. Unknown params are rejected.
func (p nodeParams) Decode(v any) error {
	if p.node == nil || p.node.Kind == 0 {
		return nil
	}

	data, err := yaml.Marshal(p.node)
	if err != nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	return decoder.Decode(v)
}

// UnitParams returns the parameters of the unit in the form creators
// consume.
func (u *UnitDescription) UnitParams() fun.Params {
	return nodeParams{node: &u.Params}
}

// BuildFUN creates the network described by d. Units are created through
// the registry and connected in the order given. OnFUNCreated is left to
// the caller.
func BuildFUN(
	d *FUNDescription,
	registry *fun.Registry,
	builder fun.Builder,
) (*fun.FUN, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	network := builder.Build(d.Name)

	for i := range d.Units {
		u := &d.Units[i]

		unit, err := registry.Create(u.Type, u.Name, u.UnitParams())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Name, err)
		}

		network.AddFunctionalUnit(unit)
	}

	for _, c := range d.Connections {
		switch c.Kind {
		case "", KindConnect:
			network.Connect(c.Upper, c.Lower)
		case KindDown:
			network.DownConnect(c.Upper, c.Lower)
		case KindUp:
			network.UpConnect(c.Upper, c.Lower)
		}
	}

	return network, nil
}
