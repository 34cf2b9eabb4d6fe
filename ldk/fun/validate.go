package fun

import (
	"fmt"

	"github.com/sarchlab/funsim/ldk"
	"go.uber.org/multierr"
)

// Validate checks the wiring of the FUN. It reports every problem it finds:
// links that refer to removed units, units nothing is connected to, and
// cycles along the outgoing direction.
func (f *FUN) Validate() error {
	var err error

	err = multierr.Append(err, f.validateLinks())
	err = multierr.Append(err, f.validateNoIsolatedUnits())
	err = multierr.Append(err, f.detectCycles())

	return err
}

func (f *FUN) validateLinks() error {
	var err error

	for _, name := range f.order {
		caps := f.byName[name].FU().Capabilities()

		for _, link := range linksOf(caps) {
			for _, h := range link.Get() {
				if !h.IsValid() {
					err = multierr.Append(err,
						fmt.Errorf("%s: %s links to a removed unit",
							f.name, name))
				}
			}
		}
	}

	return err
}

func (f *FUN) validateNoIsolatedUnits() error {
	if len(f.order) < 2 {
		return nil
	}

	connected := make(map[string]bool)
	for _, c := range f.connections {
		connected[c.Upper] = true
		connected[c.Lower] = true
	}

	var err error

	for _, name := range f.order {
		if !connected[name] {
			err = multierr.Append(err,
				fmt.Errorf("%s: %s is not connected to any unit", f.name, name))
		}
	}

	return err
}

func (f *FUN) detectCycles() error {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	var dfs func(name string, path []string) error
	dfs = func(name string, path []string) error {
		visited[name] = true
		recStack[name] = true
		path = append(path, name)

		for _, child := range f.lowerNeighbors(name) {
			if !visited[child] {
				if err := dfs(child, path); err != nil {
					return err
				}
			} else if recStack[child] {
				return fmt.Errorf("%s: cycle detected: %v",
					f.name, append(path, child))
			}
		}

		recStack[name] = false

		return nil
	}

	for _, name := range f.order {
		if !visited[name] {
			if err := dfs(name, nil); err != nil {
				return err
			}
		}
	}

	return nil
}

func (f *FUN) lowerNeighbors(name string) []string {
	connector := f.byName[name].FU().Capabilities().Connector
	if connector == nil {
		return nil
	}

	var names []string

	for _, h := range connector.Get() {
		if fu, ok := f.arena.Resolve(h); ok {
			names = append(names, fu.Name())
		}
	}

	return names
}

var _ ldk.Network = (*FUN)(nil)
