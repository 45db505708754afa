package main

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"handwriting/config"
	"handwriting/internal/cron"
	"handwriting/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type App struct {
	conf          *config.Configuration
	logger        *zap.Logger
	cronSrv       *cron.Cron
	httpServer    *http.Server
	healthService *service.HealthService

	serveErr chan error
}

func newHttpServer(
	conf *config.Configuration,
	router *gin.Engine,
) *http.Server {
	return &http.Server{
		Addr:              ":" + strconv.FormatUint(uint64(conf.App.Port), 10),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// newHttpClient OpenAI 用；OPENAI.TIMEOUT 為 0 時不設上限
func newHttpClient(conf *config.Configuration) *http.Client {
	return &http.Client{
		Timeout: time.Duration(conf.OpenAI.Timeout) * time.Second,
	}
}

func newApp(
	conf *config.Configuration,
	logger *zap.Logger,
	httpServer *http.Server,
	healthService *service.HealthService,
	cronSrv *cron.Cron,
) *App {
	return &App{
		conf:          conf,
		logger:        logger,
		httpServer:    httpServer,
		healthService: healthService,
		cronSrv:       cronSrv,
		serveErr:      make(chan error, 1),
	}
}

func (a *App) Run() error {
	a.logger.Info("app runtime info",
		zap.String("env", a.conf.App.Env),
		zap.String("name", a.conf.App.Name),
		zap.String("version", a.conf.App.Version),
		zap.String("go_version", runtime.Version()),
		zap.String("upload_dir", a.conf.Upload.Dir),
		zap.String("artifact_dir", a.conf.Log.ArtifactDir),
		zap.String("model", a.conf.OpenAI.Model),
	)
	if a.conf.OpenAI.APIKey == "" {
		a.logger.Warn("OPENAI__API_KEY is empty, analysis requests will fail")
	}

	if err := a.cronSrv.Run(); err != nil {
		return err
	}
	a.logger.Info("cron server started")

	go func() {
		a.logger.Info("http server listening", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.serveErr <- err
		}
		close(a.serveErr)
	}()

	a.healthService.SetReady(true)
	return nil
}

// Done http server 異常結束時收到錯誤
func (a *App) Done() <-chan error {
	return a.serveErr
}

func (a *App) Stop(ctx context.Context) error {
	a.healthService.SetReady(false)

	var errs []error
	if err := a.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	a.logger.Info("http server has been stop")

	if err := a.cronSrv.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	a.logger.Info("cron server has been stop")

	return errors.Join(errs...)
}
