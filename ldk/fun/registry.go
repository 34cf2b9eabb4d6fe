package fun

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sarchlab/funsim/ldk"
)

// ErrUnknownType is returned when a unit of an unregistered type is asked
// for.
var ErrUnknownType = errors.New("unknown functional unit type")

// Params carries the configuration of a unit instance. Decode fills a struct
// whose fields already hold the defaults.
type Params interface {
	Decode(v any) error
}

// EmptyParams keeps all defaults.
type EmptyParams struct{}

// Decode leaves v unchanged.
func (EmptyParams) Decode(any) error {
	return nil
}

// A Creator creates a unit from its parameters.
type Creator func(name string, params Params) (ldk.FunctionalUnit, error)

// A Registry maps unit type names to creators. Registries are built
// explicitly at start-up; there is no global registry.
type Registry struct {
	creators map[string]Creator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{creators: make(map[string]Creator)}
}

// Register adds a creator. Registering a type name twice panics.
func (r *Registry) Register(typeName string, c Creator) {
	if _, found := r.creators[typeName]; found {
		panic(fmt.Sprintf("functional unit type %s already registered", typeName))
	}

	r.creators[typeName] = c
}

// Create creates a unit of the given type.
func (r *Registry) Create(
	typeName, name string,
	params Params,
) (ldk.FunctionalUnit, error) {
	c, found := r.creators[typeName]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeName)
	}

	if params == nil {
		params = EmptyParams{}
	}

	fu, err := c(name, params)
	if err != nil {
		return nil, fmt.Errorf("creating %s (%s): %w", name, typeName, err)
	}

	return fu, nil
}

// Types returns the registered type names in alphabetical order.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.creators))
	for name := range r.creators {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
