// Package mock holds Lifecycle services shared by the container, starter
// and bootstrap tests.
package mock

import (
	"errors"
	"fmt"

	"github.com/centraunit/digo"
)

// ErrBootFailure is returned by services configured to fail on boot.
var ErrBootFailure = errors.New("simulated boot failure")

type Database interface {
	digo.Lifecycle
	Connect() error
	GetContextValue(key string) (any, error)
}

type Cache interface {
	digo.Lifecycle
	Get(key string) any
}

type MockDB struct {
	isConnected bool
	ctx         *digo.ContainerContext
	RequestID   string
}

func (m *MockDB) Connect() error {
	return nil
}

func (m *MockDB) OnBoot(ctx *digo.ContainerContext) error {
	m.isConnected = true
	m.ctx = ctx
	if reqID, ok := ctx.RequestID(); ok {
		m.RequestID = reqID
	}
	return nil
}

func (m *MockDB) GetContextValue(key string) (any, error) {
	if m.ctx == nil {
		return nil, fmt.Errorf("context is nil")
	}
	return m.ctx.Value(key), nil
}

func (m *MockDB) OnShutdown(ctx *digo.ContainerContext) error {
	m.isConnected = false
	m.ctx = nil
	return nil
}

func (m *MockDB) IsConnected() bool {
	return m.isConnected
}

// FailingDB fails OnBoot while ShouldFail is set.
type FailingDB struct {
	MockDB
	ShouldFail bool
}

func (f *FailingDB) OnBoot(ctx *digo.ContainerContext) error {
	if f.ShouldFail {
		return ErrBootFailure
	}
	return f.MockDB.OnBoot(ctx)
}

// MockCache resolves a transient Database from Container on boot.
type MockCache struct {
	Container *digo.Container
	db        Database
}

func (m *MockCache) Get(key string) any {
	return nil
}

func (m *MockCache) OnBoot(ctx *digo.ContainerContext) error {
	if m.Container == nil {
		return fmt.Errorf("cache has no container")
	}
	db, err := digo.ResolveTransientIn[Database](m.Container)
	if err != nil {
		return err
	}
	m.db = db
	return nil
}

func (m *MockCache) OnShutdown(ctx *digo.ContainerContext) error {
	return nil
}

type CircularService1 interface {
	digo.Lifecycle
	GetService2() CircularService2
}

type CircularService2 interface {
	digo.Lifecycle
	GetService1() CircularService1
}

type CircularImpl1 struct {
	svc2 CircularService2
}

func (i *CircularImpl1) OnBoot(ctx *digo.ContainerContext) error {
	var err error
	i.svc2, err = digo.ResolveTransient[CircularService2]()
	return err
}

func (i *CircularImpl1) OnShutdown(ctx *digo.ContainerContext) error { return nil }
func (i *CircularImpl1) GetService2() CircularService2               { return i.svc2 }

type CircularImpl2 struct {
	svc1 CircularService1
}

func (i *CircularImpl2) OnBoot(ctx *digo.ContainerContext) error {
	var err error
	i.svc1, err = digo.ResolveTransient[CircularService1]()
	return err
}

func (i *CircularImpl2) OnShutdown(ctx *digo.ContainerContext) error { return nil }
func (i *CircularImpl2) GetService1() CircularService1               { return i.svc1 }

type Service interface {
	digo.Lifecycle
	IsInitialized() bool
}

type SingletonTestService struct {
	initialized bool
}

func (s *SingletonTestService) OnBoot(ctx *digo.ContainerContext) error {
	s.initialized = true
	return nil
}

func (s *SingletonTestService) OnShutdown(ctx *digo.ContainerContext) error {
	s.initialized = false
	return nil
}

func (s *SingletonTestService) IsInitialized() bool {
	return s.initialized
}
