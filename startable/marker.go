package startable

import (
	"github.com/centraunit/digo"
)

// IsStartablePropertyName is the extended property key that marks a
// registration as startable. Its value must be a bool.
const IsStartablePropertyName = "digo.startable.Starter.IsStartable"

// AsStartable marks the binding as startable.
func AsStartable() digo.BindOption {
	return digo.WithProperty(IsStartablePropertyName, true)
}

// AsStartableIf marks the binding as startable when match accepts the bound
// service type name.
func AsStartableIf(match func(typeName string) bool) digo.BindOption {
	return func(cfg *digo.BindingConfig) {
		if match != nil && match(cfg.Type) {
			digo.WithProperty(IsStartablePropertyName, true)(cfg)
		}
	}
}

// IsStartable reports whether props carry the startable marker set to true.
// A marker holding anything but a bool is reported as an error.
func IsStartable(props map[string]any) (bool, error) {
	raw, ok := props[IsStartablePropertyName]
	if !ok {
		return false, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return false, &MarkerTypeError{Value: raw}
	}
	return v, nil
}
