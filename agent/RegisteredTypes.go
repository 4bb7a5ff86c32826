package agent

import (
	"fmt"
	"reflect"
	"sort"
)

// Type represents a specific type of an agent Config.
// Config's with this type can create Agents of the corresponding type.
type Type string

const (
	// Individual agents plan their own path to the goals with value
	// iteration
	Individual Type = "individual"

	// Joint agents move toward the goal that minimises the combined
	// distance of themselves and a partner
	Joint Type = "joint"
)

// Registered types with the package. Once a Type has been registered,
// a TypedConfig with that type can be deserialized.
//
// No Type's are registered with this package upon initialization.
// Each agent package registers its own Type to avoid circular imports.
var registeredTypes = make(map[Type]Config)

// Register registers an agent's Type with the default value of its
// concrete Config type. Deserialized configs of type agentType start
// from defaults and overwrite only the fields present in the input.
func Register(agentType Type, defaults Config) {
	registeredTypes[agentType] = defaults
}

// Registered returns the registered Types in sorted order
func Registered() []Type {
	types := make([]Type, 0, len(registeredTypes))
	for t := range registeredTypes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// newConfig returns a pointer to a copy of the default Config of type t
func newConfig(t Type) (reflect.Value, error) {
	defaults, ok := registeredTypes[t]
	if !ok {
		return reflect.Value{}, fmt.Errorf("newConfig: unregistered agent "+
			"type %q, must be one of %v", t, Registered())
	}

	value := reflect.New(reflect.TypeOf(defaults))
	value.Elem().Set(reflect.ValueOf(defaults))
	return value, nil
}

// Default returns the default Config registered for t
func Default(t Type) (Config, error) {
	value, err := newConfig(t)
	if err != nil {
		return nil, fmt.Errorf("default: %w", err)
	}
	return value.Elem().Interface().(Config), nil
}
