// Command digo-start builds a small container, marks services startable from
// a YAML file and starts them.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/centraunit/digo"
	"github.com/centraunit/digo/bootstrap"
	"go.uber.org/zap"
)

type Clock interface {
	digo.Lifecycle
	Now() time.Time
}

type systemClock struct {
	logger  *zap.Logger
	started time.Time
}

func (c *systemClock) OnBoot(ctx *digo.ContainerContext) error {
	c.started = time.Now()
	c.logger.Info("clock started", zap.Time("at", c.started))
	return nil
}

func (c *systemClock) OnShutdown(ctx *digo.ContainerContext) error {
	c.logger.Info("clock stopped", zap.Duration("uptime", time.Since(c.started)))
	return nil
}

func (c *systemClock) Now() time.Time { return time.Now() }

type CacheWarmer interface {
	digo.Lifecycle
	Keys() []string
}

type cacheWarmer struct {
	logger *zap.Logger
	c      *digo.Container
	keys   []string
}

func (w *cacheWarmer) OnBoot(ctx *digo.ContainerContext) error {
	clock, err := digo.ResolveSingletonIn[Clock](w.c)
	if err != nil {
		return err
	}
	w.keys = []string{"warmed@" + clock.Now().Format(time.RFC3339)}
	w.logger.Info("cache warmed", zap.Strings("keys", w.keys))
	return nil
}

func (w *cacheWarmer) OnShutdown(ctx *digo.ContainerContext) error {
	w.keys = nil
	return nil
}

func (w *cacheWarmer) Keys() []string { return w.keys }

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	boot := zap.Must(zap.NewProduction())

	cfg := bootstrap.DefaultConfig()
	if *configPath != "" {
		loaded, err := bootstrap.LoadConfig(*configPath)
		if err != nil {
			boot.Fatal("failed to load config", zap.Error(err))
		}
		cfg = loaded
	}

	host, err := bootstrap.New(cfg)
	if err != nil {
		boot.Fatal("failed to create host", zap.Error(err))
	}
	logger := host.Logger()
	defer logger.Sync()

	c := digo.New()
	if err := digo.BindSingletonIn[Clock](c, &systemClock{logger: logger}, host.BindOption()); err != nil {
		logger.Fatal("failed to bind clock", zap.Error(err))
	}
	if err := digo.BindSingletonIn[CacheWarmer](c, &cacheWarmer{logger: logger, c: c}, host.BindOption()); err != nil {
		logger.Fatal("failed to bind cache warmer", zap.Error(err))
	}

	runErr := host.Run(context.Background(), c)
	if err := c.Shutdown(true); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	if runErr != nil {
		logger.Sync()
		os.Exit(1)
	}
}
