package digo

import (
	"context"
	"sync"
)

// RequestIDKey is the context value request-scoped bindings require.
const RequestIDKey = "request_id"

// ContainerContext extends the standard context.Context with container-specific functionality.
// Values set through WithValue shadow values of the wrapped context.
type ContainerContext struct {
	context.Context
	values sync.Map
}

// NewContainerContext creates a new ContainerContext wrapping a standard context.Context.
func NewContainerContext(parent context.Context) *ContainerContext {
	if parent == nil {
		parent = context.Background()
	}
	return &ContainerContext{
		Context: parent,
	}
}

// WithValue returns a copy of c carrying the extra key-value pair.
func (c *ContainerContext) WithValue(key, val any) *ContainerContext {
	newCtx := &ContainerContext{
		Context: c.Context,
	}
	c.copyInto(newCtx)
	newCtx.values.Store(key, val)
	return newCtx
}

// WithRequestID is shorthand for WithValue(RequestIDKey, id).
func (c *ContainerContext) WithRequestID(id string) *ContainerContext {
	return c.WithValue(RequestIDKey, id)
}

// RequestID returns the request id carried by c, if any.
func (c *ContainerContext) RequestID() (string, bool) {
	id, ok := c.Value(RequestIDKey).(string)
	return id, ok
}

func (c *ContainerContext) Parent() context.Context {
	return c.Context
}

func (c *ContainerContext) Value(key any) any {
	if c == nil {
		return nil
	}
	if val, ok := c.values.Load(key); ok {
		return val
	}
	if c.Context != nil {
		return c.Context.Value(key)
	}
	return nil
}

// MergeWith combines values from another ContainerContext.
// Values from other override values of c with the same key.
func (c *ContainerContext) MergeWith(other *ContainerContext) *ContainerContext {
	newCtx := NewContainerContext(c.Context)
	c.copyInto(newCtx)
	if other != nil {
		other.copyInto(newCtx)
	}
	return newCtx
}

func (c *ContainerContext) copyInto(dst *ContainerContext) {
	c.values.Range(func(k, v any) bool {
		dst.values.Store(k, v)
		return true
	})
}
