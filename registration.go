package digo

import (
	"maps"

	"github.com/google/uuid"
)

// Descriptor describes one registered component.
type Descriptor struct {
	// ID identifies the registration. Rebinding a service issues a new ID.
	ID uuid.UUID
	// Type is the name of the bound service type, e.g. "mock.Database".
	Type  string
	Scope Scope
	// ExtendedProperties holds open-ended metadata attached at bind time.
	ExtendedProperties map[string]any
}

// ComponentRegistration is a read-only snapshot of a binding.
type ComponentRegistration struct {
	Descriptor Descriptor
}

// BindingConfig is the mutable view BindOptions operate on while a service
// is being bound. Type and Scope are informational.
type BindingConfig struct {
	Type       string
	Scope      Scope
	Context    *ContainerContext
	Predicate  ContextPredicate
	Properties map[string]any
}

// BindOption customizes a binding.
type BindOption func(cfg *BindingConfig)

// WithContext sets the ContainerContext handed to OnBoot and OnShutdown.
func WithContext(ctx *ContainerContext) BindOption {
	return func(cfg *BindingConfig) {
		cfg.Context = ctx
	}
}

// WithPredicate makes resolution go through predicate instead of the bound
// instance.
func WithPredicate(predicate ContextPredicate) BindOption {
	return func(cfg *BindingConfig) {
		cfg.Predicate = predicate
	}
}

// WithProperty attaches an extended property to the registration.
func WithProperty(key string, value any) BindOption {
	return func(cfg *BindingConfig) {
		if cfg.Properties == nil {
			cfg.Properties = make(map[string]any)
		}
		cfg.Properties[key] = value
	}
}

func (b *bindingDefinition) registration() ComponentRegistration {
	return ComponentRegistration{
		Descriptor: Descriptor{
			ID:                 b.id,
			Type:               b.abstract.String(),
			Scope:              b.scope,
			ExtendedProperties: maps.Clone(b.properties),
		},
	}
}
