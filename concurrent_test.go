package digo_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/centraunit/digo"
	"github.com/centraunit/digo/mock"
	"github.com/stretchr/testify/suite"
)

type ConcurrentTestSuite struct {
	suite.Suite
}

func (s *ConcurrentTestSuite) SetupTest() {
	digo.Reset()
}

func (s *ConcurrentTestSuite) TestConcurrentSingletonAccess() {
	rec := &mock.Recorder{}
	probe := &mock.Probe{Name: "shared", Recorder: rec}
	s.Require().NoError(digo.BindSingleton[mock.Alpha](probe))

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			instance, err := digo.ResolveSingleton[mock.Alpha]()
			if err != nil {
				errs <- err
				return
			}
			if instance != probe {
				errs <- fmt.Errorf("wrong instance returned")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
	s.GreaterOrEqual(rec.Count("shared"), 1)
}

func (s *ConcurrentTestSuite) TestConcurrentPredicateResolution() {
	ctx := digo.NewContainerContext(context.Background()).
		WithValue("key", "test-value").
		WithRequestID("req-1")
	rec := &mock.Recorder{}
	probe := &mock.Probe{Name: "conditional", Recorder: rec}

	err := digo.BindTransient[mock.Alpha](&mock.Probe{Name: "unused", Recorder: rec},
		digo.WithContext(ctx),
		digo.WithPredicate(func(resolveCtx *digo.ContainerContext) (digo.Lifecycle, error) {
			if resolveCtx.Value("key") == "test-value" {
				return probe, nil
			}
			return nil, fmt.Errorf("condition not met")
		}))
	s.Require().NoError(err)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			instance, err := digo.ResolveTransient[mock.Alpha]()
			if err != nil {
				errs <- err
				return
			}
			if instance != probe {
				errs <- fmt.Errorf("wrong instance returned")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
	s.Equal(5, rec.Count("conditional"))
	s.Zero(rec.Count("unused"))
}

func (s *ConcurrentTestSuite) TestBindWhileEnumerating() {
	c := digo.New()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = digo.BindSingletonIn[mock.Alpha](c, &mock.Probe{Recorder: &mock.Recorder{}})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			s.LessOrEqual(len(c.ComponentRegistrations()), 1)
		}
	}()
	wg.Wait()
	s.Len(c.ComponentRegistrations(), 1)
}

func TestConcurrentSuite(t *testing.T) {
	suite.Run(t, new(ConcurrentTestSuite))
}
