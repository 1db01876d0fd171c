package startable_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/centraunit/digo"
	"github.com/centraunit/digo/mock"
	"github.com/centraunit/digo/startable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bindScenario binds A (unmarked), B (marked), C (marked false) and D (marked).
func bindScenario(t *testing.T, c *digo.Container, rec *mock.Recorder, bErr error) {
	t.Helper()
	require.NoError(t, digo.BindSingletonIn[mock.Alpha](c, &mock.Probe{Name: "A", Recorder: rec}))
	require.NoError(t, digo.BindSingletonIn[mock.Beta](c, &mock.Probe{Name: "B", Recorder: rec, Err: bErr},
		startable.AsStartable()))
	require.NoError(t, digo.BindSingletonIn[mock.Gamma](c, &mock.Probe{Name: "C", Recorder: rec},
		digo.WithProperty(startable.IsStartablePropertyName, false)))
	require.NoError(t, digo.BindSingletonIn[mock.Delta](c, &mock.Probe{Name: "D", Recorder: rec},
		startable.AsStartable()))
}

func TestStartWithContainer(t *testing.T) {
	t.Run("ResolvesMarkedInOrder", func(t *testing.T) {
		c := digo.New()
		rec := &mock.Recorder{}
		bindScenario(t, c, rec, nil)

		starter, err := startable.New(c)
		require.NoError(t, err)
		require.NoError(t, starter.Start())
		assert.Equal(t, []string{"B", "D"}, rec.Booted())
	})

	t.Run("FirstFailureStops", func(t *testing.T) {
		c := digo.New()
		rec := &mock.Recorder{}
		bindScenario(t, c, rec, mock.ErrBootFailure)

		starter, err := startable.New(c)
		require.NoError(t, err)
		err = starter.Start()

		var initErr *digo.InitializationError
		require.True(t, errors.As(err, &initErr))
		assert.Equal(t, "mock.Beta", initErr.Type)
		assert.ErrorIs(t, err, mock.ErrBootFailure)
		assert.Empty(t, rec.Booted())
	})

	t.Run("SingletonsAreNotRebuiltOnSecondStart", func(t *testing.T) {
		c := digo.New()
		rec := &mock.Recorder{}
		bindScenario(t, c, rec, nil)

		starter, err := startable.New(c)
		require.NoError(t, err)
		require.NoError(t, starter.Start())
		require.NoError(t, starter.Start())
		assert.Equal(t, []string{"B", "D"}, rec.Booted())
	})

	t.Run("TransientsAreRebuiltOnSecondStart", func(t *testing.T) {
		c := digo.New()
		rec := &mock.Recorder{}
		require.NoError(t, digo.BindTransientIn[mock.Alpha](c, &mock.Probe{Name: "T", Recorder: rec},
			startable.AsStartable()))

		starter, err := startable.New(c)
		require.NoError(t, err)
		require.NoError(t, starter.Start())
		require.NoError(t, starter.Start())
		assert.Equal(t, 2, rec.Count("T"))
	})

	t.Run("AsStartableIfMatchesTypeName", func(t *testing.T) {
		c := digo.New()
		rec := &mock.Recorder{}
		onlyGamma := startable.AsStartableIf(func(typeName string) bool {
			return strings.HasSuffix(typeName, ".Gamma")
		})
		require.NoError(t, digo.BindSingletonIn[mock.Alpha](c, &mock.Probe{Name: "A", Recorder: rec}, onlyGamma))
		require.NoError(t, digo.BindSingletonIn[mock.Gamma](c, &mock.Probe{Name: "G", Recorder: rec}, onlyGamma))

		ids, err := startable.Select(c.ComponentRegistrations())
		require.NoError(t, err)
		require.Len(t, ids, 1)

		starter, err := startable.New(c)
		require.NoError(t, err)
		require.NoError(t, starter.Start())
		assert.Equal(t, []string{"G"}, rec.Booted())
	})

	t.Run("DefaultContainer", func(t *testing.T) {
		digo.Reset()
		defer digo.Reset()
		rec := &mock.Recorder{}
		require.NoError(t, digo.BindSingleton[mock.Alpha](&mock.Probe{Name: "global", Recorder: rec},
			startable.AsStartable()))

		starter, err := startable.New(digo.GetContainer())
		require.NoError(t, err)
		require.NoError(t, starter.Start())
		assert.Equal(t, []string{"global"}, rec.Booted())
	})
}
