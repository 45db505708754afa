package cron

import (
	"context"

	"handwriting/config"
	"handwriting/internal/service/janitor"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron)

type Cron struct {
	conf    *config.Configuration
	logger  *zap.Logger
	server  *cron.Cron
	janitor *janitor.Janitor
}

// NewCron .
func NewCron(conf *config.Configuration, logger *zap.Logger, janitor *janitor.Janitor) *Cron {
	server := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	return &Cron{
		conf:    conf,
		logger:  logger,
		server:  server,
		janitor: janitor,
	}
}

func (c *Cron) Run() error {
	if c.conf.Janitor.Enabled {
		if _, err := c.server.AddFunc(c.conf.Janitor.Spec, c.sweepUploads); err != nil {
			return err
		}
		c.logger.Info("janitor scheduled", zap.String("spec", c.conf.Janitor.Spec))
	}

	c.server.Start()
	return nil
}

func (c *Cron) sweepUploads() {
	if _, err := c.janitor.Sweep(context.Background()); err != nil {
		c.logger.Warn("janitor sweep failed", zap.Error(err))
	}
}

// Stop 等待執行中的 job 結束，或 ctx 到期
func (c *Cron) Stop(ctx context.Context) error {
	done := c.server.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
