package digo_test

import (
	"testing"

	"github.com/centraunit/digo"
	"github.com/centraunit/digo/mock"
)

func BenchmarkBinding(b *testing.B) {
	b.Run("TransientBinding", func(b *testing.B) {
		c := digo.New()
		for i := 0; i < b.N; i++ {
			_ = digo.BindTransientIn[mock.Database](c, &mock.MockDB{})
		}
	})

	b.Run("SingletonBinding", func(b *testing.B) {
		c := digo.New()
		for i := 0; i < b.N; i++ {
			_ = digo.BindSingletonIn[mock.Database](c, &mock.MockDB{})
		}
	})
}

func BenchmarkResolution(b *testing.B) {
	b.Run("SingletonResolution", func(b *testing.B) {
		c := digo.New()
		_ = digo.BindSingletonIn[mock.Database](c, &mock.MockDB{})
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = digo.ResolveSingletonIn[mock.Database](c)
		}
	})

	b.Run("ResolveComponent", func(b *testing.B) {
		c := digo.New()
		_ = digo.BindSingletonIn[mock.Database](c, &mock.MockDB{})
		id := c.ComponentRegistrations()[0].Descriptor.ID
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = c.ResolveComponent(id)
		}
	})

	b.Run("ComponentRegistrations", func(b *testing.B) {
		c := digo.New()
		_ = digo.BindSingletonIn[mock.Database](c, &mock.MockDB{}, digo.WithProperty("k", true))
		_ = digo.BindTransientIn[mock.Cache](c, &mock.MockCache{Container: c})
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = c.ComponentRegistrations()
		}
	})
}
