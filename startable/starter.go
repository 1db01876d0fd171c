package startable

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/centraunit/digo"
	"github.com/google/uuid"
)

// Container is what a Starter needs from a container: enumeration of its
// registrations and resolution by registration identity.
type Container interface {
	ComponentRegistrations() []digo.ComponentRegistration
	ResolveComponent(id uuid.UUID) (digo.Lifecycle, error)
}

// Starter resolves every startable component of one container.
type Starter struct {
	container Container
}

// New returns a Starter bound to container. A nil container, including a
// typed nil pointer, yields an error wrapping ErrInvalidArgument.
func New(container Container) (*Starter, error) {
	if container == nil {
		return nil, fmt.Errorf("%w: container is nil", ErrInvalidArgument)
	}
	if rv := reflect.ValueOf(container); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, fmt.Errorf("%w: container is a nil %T", ErrInvalidArgument, container)
	}
	return &Starter{container: container}, nil
}

// Start resolves the startable components in enumeration order and discards
// the instances. A resolve error is returned unchanged and ends the pass.
// Start on a Starter not obtained from New returns ErrInvalidArgument.
func (s *Starter) Start() error {
	if s == nil || s.container == nil {
		return fmt.Errorf("%w: starter has no container, use New", ErrInvalidArgument)
	}
	ids, err := Select(s.container.ComponentRegistrations())
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := s.container.ResolveComponent(id); err != nil {
			return err
		}
	}
	return nil
}

// Select returns the identities of the startable registrations in regs,
// keeping their order. A malformed marker anywhere in regs fails the whole
// selection so that nothing is resolved from a half-valid set.
func Select(regs []digo.ComponentRegistration) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, reg := range regs {
		ok, err := IsStartable(reg.Descriptor.ExtendedProperties)
		if err != nil {
			var mte *MarkerTypeError
			if errors.As(err, &mte) {
				mte.ID = reg.Descriptor.ID.String()
				mte.Type = reg.Descriptor.Type
			}
			return nil, err
		}
		if ok {
			ids = append(ids, reg.Descriptor.ID)
		}
	}
	return ids, nil
}
