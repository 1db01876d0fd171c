// Package digo provides a dependency injection container with scoped
// bindings, lifecycle hooks and per-registration metadata.
package digo

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// bindingDefinition represents a service binding in the container.
// It holds the concrete implementation, scope, and associated context.
type bindingDefinition struct {
	id          uuid.UUID
	scope       Scope
	concrete    Lifecycle
	abstract    reflect.Type
	initialized bool
	ctx         *ContainerContext
	predicate   ContextPredicate
	properties  map[string]any
}

// Container manages service bindings and their lifecycle.
// All exported methods are safe for concurrent use.
type Container struct {
	bindings        map[string]bindingDefinition
	order           []string
	ids             map[uuid.UUID]string
	ctx             *ContainerContext
	mu              sync.RWMutex
	bootOnce        sync.Once
	bootErr         error
	resolutionState sync.Map
	resolutionMu    sync.RWMutex
	statePool       sync.Pool
	goidCache       sync.Map
}

var (
	once             sync.Once
	defaultContainer *Container
	typeStringCache  sync.Map
)

func makeBindingKey(scope Scope, serviceType reflect.Type) string {
	if cached, ok := typeStringCache.Load(serviceType); ok {
		return string(scope) + ":" + cached.(string)
	}
	typeStr := serviceType.String()
	typeStringCache.Store(serviceType, typeStr)
	return string(scope) + ":" + typeStr
}

// New returns an empty container.
func New() *Container {
	return &Container{
		bindings:  make(map[string]bindingDefinition, 32),
		order:     make([]string, 0, 32),
		ids:       make(map[uuid.UUID]string, 32),
		ctx:       NewContainerContext(context.Background()),
		statePool: sync.Pool{New: newResolutionState},
	}
}

// GetContainer returns the process-wide default container.
// The package level Bind*, Resolve*, Boot, Shutdown and Reset functions
// operate on it.
func GetContainer() *Container {
	once.Do(func() {
		defaultContainer = New()
	})
	return defaultContainer
}

// Boot initializes all singleton and request scoped services of the
// default container. See (*Container).Boot.
func Boot() error {
	return GetContainer().Boot()
}

// Shutdown shuts down services of the default container.
// See (*Container).Shutdown.
func Shutdown(clearSingletons bool) error {
	return GetContainer().Shutdown(clearSingletons)
}

// Reset clears all state of the default container.
// It is intended for tests.
func Reset() {
	GetContainer().Reset()
}

// Boot calls OnBoot on every singleton and request scoped binding that has
// not been initialized yet, in registration order. It runs at most once per
// container until Reset or Shutdown(true); later calls return the result of
// the first one.
func (c *Container) Boot() error {
	c.bootOnce.Do(func() {
		// Hooks run unlocked so OnBoot may resolve its own dependencies.
		c.mu.RLock()
		pending := make([]bindingDefinition, 0, len(c.order))
		keys := make([]string, 0, len(c.order))
		for _, key := range c.order {
			binding := c.bindings[key]
			if binding.initialized || binding.scope == ScopeTransient {
				continue
			}
			pending = append(pending, binding)
			keys = append(keys, key)
		}
		c.mu.RUnlock()

		for i, binding := range pending {
			if err := binding.concrete.OnBoot(binding.ctx); err != nil {
				c.bootErr = err
				return
			}
			c.setInitialized(keys[i], binding.id, binding.concrete, true)
		}
	})
	return c.bootErr
}

// Shutdown calls OnShutdown on initialized services in reverse registration
// order. Singletons are only shut down, and removed, when clearSingletons is
// set; every other binding is always removed.
func (c *Container) Shutdown(clearSingletons bool) error {
	// Hooks run unlocked so OnShutdown may resolve what it still needs.
	c.mu.RLock()
	var pending []bindingDefinition
	for i := len(c.order) - 1; i >= 0; i-- {
		binding := c.bindings[c.order[i]]
		if binding.scope == ScopeSingleton && !clearSingletons {
			continue
		}
		if binding.initialized {
			pending = append(pending, binding)
		}
	}
	c.mu.RUnlock()

	for _, binding := range pending {
		if err := binding.concrete.OnShutdown(binding.ctx); err != nil {
			return &ShutdownError{
				Type: binding.abstract.String(),
				Err:  err,
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if clearSingletons {
		c.resetLocked()
		return nil
	}

	for _, key := range slices.Clone(c.order) {
		if c.bindings[key].scope != ScopeSingleton {
			c.removeLocked(key)
		}
	}
	return nil
}

// Reset removes all bindings and resets the container to its initial state
// without calling any shutdown hooks.
func (c *Container) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Container) resetLocked() {
	c.resolutionMu.Lock()
	c.bindings = make(map[string]bindingDefinition)
	c.order = c.order[:0]
	c.ids = make(map[uuid.UUID]string)
	c.resolutionState = sync.Map{}
	c.bootOnce = sync.Once{}
	c.bootErr = nil
	c.resolutionMu.Unlock()
}

func (c *Container) removeLocked(key string) {
	binding, ok := c.bindings[key]
	if !ok {
		return
	}
	delete(c.bindings, key)
	delete(c.ids, binding.id)
	c.order = slices.DeleteFunc(c.order, func(k string) bool { return k == key })
}

// ComponentRegistrations returns a snapshot of every registration in the
// order the services were first bound.
func (c *Container) ComponentRegistrations() []ComponentRegistration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	regs := make([]ComponentRegistration, 0, len(c.order))
	for _, key := range c.order {
		binding := c.bindings[key]
		regs = append(regs, binding.registration())
	}
	return regs
}

// ResolveComponent resolves the registration identified by id, honoring its
// scope. It returns ComponentNotFoundError when id is unknown.
func (c *Container) ResolveComponent(id uuid.UUID) (Lifecycle, error) {
	c.mu.RLock()
	key, ok := c.ids[id]
	var typeName string
	if ok {
		typeName = c.bindings[key].abstract.String()
	}
	c.mu.RUnlock()

	if !ok {
		return nil, &ComponentNotFoundError{ID: id.String()}
	}
	return c.resolve(key, typeName)
}

// BindTransient registers a service with transient scope in the default container.
// Each resolution boots the service again.
// Returns NilServiceError if the service is nil.
func BindTransient[T Lifecycle](service T, opts ...BindOption) error {
	return BindTransientIn(GetContainer(), service, opts...)
}

// BindRequest registers a service with request scope in the default container.
// The binding context must carry a request id.
func BindRequest[T Lifecycle](service T, opts ...BindOption) error {
	return BindRequestIn(GetContainer(), service, opts...)
}

// BindSingleton registers a service with singleton scope in the default container.
func BindSingleton[T Lifecycle](service T, opts ...BindOption) error {
	return BindSingletonIn(GetContainer(), service, opts...)
}

// BindTransientIn is BindTransient for an explicit container.
func BindTransientIn[T Lifecycle](c *Container, service T, opts ...BindOption) error {
	return c.bind(service, serviceTypeOf[T](), ScopeTransient, opts)
}

// BindRequestIn is BindRequest for an explicit container.
func BindRequestIn[T Lifecycle](c *Container, service T, opts ...BindOption) error {
	return c.bind(service, serviceTypeOf[T](), ScopeRequest, opts)
}

// BindSingletonIn is BindSingleton for an explicit container.
func BindSingletonIn[T Lifecycle](c *Container, service T, opts ...BindOption) error {
	return c.bind(service, serviceTypeOf[T](), ScopeSingleton, opts)
}

// ResolveTransient resolves a transient service from the default container.
// Returns BindingNotFoundError if service is not registered.
// Returns InitializationError if service fails to initialize.
func ResolveTransient[T Lifecycle]() (T, error) {
	return resolveIn[T](GetContainer(), ScopeTransient)
}

// ResolveRequest resolves a request scoped service from the default container.
// Returns MissingContextValueError if request_id is not in the binding context.
func ResolveRequest[T Lifecycle]() (T, error) {
	return resolveIn[T](GetContainer(), ScopeRequest)
}

// ResolveSingleton resolves a singleton service from the default container.
func ResolveSingleton[T Lifecycle]() (T, error) {
	return resolveIn[T](GetContainer(), ScopeSingleton)
}

// ResolveTransientIn is ResolveTransient for an explicit container.
func ResolveTransientIn[T Lifecycle](c *Container) (T, error) {
	return resolveIn[T](c, ScopeTransient)
}

// ResolveRequestIn is ResolveRequest for an explicit container.
func ResolveRequestIn[T Lifecycle](c *Container) (T, error) {
	return resolveIn[T](c, ScopeRequest)
}

// ResolveSingletonIn is ResolveSingleton for an explicit container.
func ResolveSingletonIn[T Lifecycle](c *Container) (T, error) {
	return resolveIn[T](c, ScopeSingleton)
}

func serviceTypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func resolveIn[T Lifecycle](c *Container, scope Scope) (T, error) {
	var zero T
	serviceType := serviceTypeOf[T]()
	instance, err := c.resolve(makeBindingKey(scope, serviceType), serviceType.String())
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &TypeMismatchError{Expected: serviceType.String(), Got: fmt.Sprintf("%T", instance)}
	}
	return typed, nil
}

func (c *Container) bind(service Lifecycle, serviceType reflect.Type, scope Scope, opts []BindOption) error {
	if isNil(service) {
		return &NilServiceError{Type: serviceType.String()}
	}

	cfg := BindingConfig{
		Type:  serviceType.String(),
		Scope: scope,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	bindingCtx := c.ctx
	if cfg.Context != nil {
		// The caller's parent context carries deadlines and plain values;
		// binding values shadow container values.
		bindingCtx = NewContainerContext(cfg.Context.Context).
			MergeWith(c.ctx).
			MergeWith(cfg.Context)
	}

	key := makeBindingKey(scope, serviceType)
	if old, ok := c.bindings[key]; ok {
		// Rebinding keeps the enumeration slot but not the identity.
		delete(c.ids, old.id)
	} else {
		c.order = append(c.order, key)
	}

	id := uuid.New()
	c.ids[id] = key
	c.bindings[key] = bindingDefinition{
		id:         id,
		scope:      scope,
		concrete:   service,
		abstract:   serviceType,
		ctx:        bindingCtx,
		predicate:  cfg.Predicate,
		properties: cfg.Properties,
	}
	return nil
}

func (c *Container) resolve(key, typeName string) (Lifecycle, error) {
	c.mu.RLock()
	binding, ok := c.bindings[key]
	c.mu.RUnlock()
	if !ok {
		return nil, &BindingNotFoundError{Type: typeName}
	}

	if err := c.startResolving(key); err != nil {
		return nil, err
	}
	defer c.finishResolving(key)

	switch binding.scope {
	case ScopeTransient:
		return c.resolveTransient(key, binding)
	case ScopeRequest:
		return c.resolveRequest(key, binding)
	case ScopeSingleton:
		return c.resolveSingleton(key, binding)
	}
	panic(fmt.Sprintf("digo: binding %s has unknown scope %q", typeName, binding.scope))
}

func (c *Container) resolveTransient(key string, binding bindingDefinition) (Lifecycle, error) {
	typeName := binding.abstract.String()

	// A transient instance is shut down before it is booted again.
	if binding.initialized {
		if err := binding.concrete.OnShutdown(binding.ctx); err != nil {
			return nil, &ShutdownError{Type: typeName, Err: err}
		}
		c.setInitialized(key, binding.id, binding.concrete, false)
	}

	if binding.predicate != nil {
		result, err := c.evalPredicate(binding)
		if err != nil {
			return nil, err
		}
		if err := result.OnBoot(binding.ctx); err != nil {
			return nil, &InitializationError{Type: typeName, Err: err}
		}
		return result, nil
	}

	if err := binding.concrete.OnBoot(binding.ctx); err != nil {
		return nil, &InitializationError{Type: typeName, Err: err}
	}
	c.setInitialized(key, binding.id, binding.concrete, true)
	return binding.concrete, nil
}

func (c *Container) resolveRequest(key string, binding bindingDefinition) (Lifecycle, error) {
	typeName := binding.abstract.String()

	if binding.ctx.Value(RequestIDKey) == nil {
		return nil, &MissingContextValueError{Key: RequestIDKey}
	}
	if binding.initialized {
		return binding.concrete, nil
	}

	concrete := binding.concrete
	if binding.predicate != nil {
		result, err := c.evalPredicate(binding)
		if err != nil {
			return nil, err
		}
		concrete = result
	}
	if err := concrete.OnBoot(binding.ctx); err != nil {
		return nil, &InitializationError{Type: typeName, Err: err}
	}
	c.setInitialized(key, binding.id, concrete, true)
	return concrete, nil
}

func (c *Container) resolveSingleton(key string, binding bindingDefinition) (Lifecycle, error) {
	if binding.initialized {
		return binding.concrete, nil
	}
	if err := binding.concrete.OnBoot(binding.ctx); err != nil {
		return nil, &InitializationError{Type: binding.abstract.String(), Err: err}
	}
	c.setInitialized(key, binding.id, binding.concrete, true)
	return binding.concrete, nil
}

func (c *Container) evalPredicate(binding bindingDefinition) (Lifecycle, error) {
	typeName := binding.abstract.String()
	result, err := binding.predicate(binding.ctx)
	if err != nil {
		return nil, &PredicateError{Type: typeName, Err: err}
	}
	if isNil(result) || !reflect.TypeOf(result).AssignableTo(binding.abstract) {
		return nil, &PredicateError{Type: typeName, Err: fmt.Errorf("predicate returned invalid type %T", result)}
	}
	return result, nil
}

// setInitialized records the boot state of a binding unless it has been
// replaced or removed since it was read.
func (c *Container) setInitialized(key string, id uuid.UUID, concrete Lifecycle, initialized bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	binding, ok := c.bindings[key]
	if !ok || binding.id != id {
		return
	}
	binding.concrete = concrete
	binding.initialized = initialized
	c.bindings[key] = binding
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
