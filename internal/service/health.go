package service

import (
	"runtime"
	"sync/atomic"
	"time"

	"handwriting/config"
)

type VersionInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Env       string `json:"env"`
	GoVersion string `json:"go_version"`
	StartedAt string `json:"started_at"`
	Uptime    string `json:"uptime"`
}

type HealthService struct {
	live      atomic.Bool
	ready     atomic.Bool
	name      string
	version   string
	env       string
	startedAt time.Time
}

func NewHealthService(conf *config.Configuration) *HealthService {
	s := &HealthService{
		name:      conf.App.Name,
		version:   conf.App.Version,
		env:       conf.App.Env,
		startedAt: time.Now(),
	}
	s.live.Store(true)
	s.ready.Store(false) // 啟動完成後再打開
	return s
}

// SetReady 關機時先設 false，讓 LB 停止導流
func (s *HealthService) SetReady(v bool) {
	s.ready.Store(v)
}

func (s *HealthService) IsLive() bool {
	return s.live.Load()
}

func (s *HealthService) IsReady() bool {
	return s.ready.Load()
}

func (s *HealthService) Version() VersionInfo {
	return VersionInfo{
		Name:      s.name,
		Version:   s.version,
		Env:       s.env,
		GoVersion: runtime.Version(),
		StartedAt: s.startedAt.UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.startedAt).Truncate(time.Second).String(),
	}
}
