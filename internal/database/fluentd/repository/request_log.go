package repository

import (
	"context"
	"time"

	"handwriting/config"
	"handwriting/internal/core"
	"handwriting/internal/database/client"
	"handwriting/internal/database/fluentd/model"
	"handwriting/utils/validate"
)

const loggedAtLayout = "2006-01-02 15:04:05.999999 UTC"

// LogRepository 統一負責發送 Request/Response/Artifact Log 到 Fluentd
type LogRepository struct {
	fluentdClient client.Client
	projectName   string
	version       string
}

func NewLogRepository(config *config.Configuration, client client.Client) *LogRepository {
	version := "1.0.0"
	if config.App.Version != "" {
		version = config.App.Version
	}
	return &LogRepository{fluentdClient: client, projectName: config.App.Name, version: version}
}

func (repository *LogRepository) LogRequest(ctx context.Context, req model.RequestLog) error {
	if req.LoggedAt == "" {
		req.LoggedAt = now()
	}
	if req.Version == "" {
		req.Version = repository.version
	}
	return repository.post(ctx, core.FluentdRequest, req)
}

func (repository *LogRepository) LogResponse(ctx context.Context, resp model.ResponseLog) error {
	if resp.LoggedAt == "" {
		resp.LoggedAt = now()
	}
	if resp.Version == "" {
		resp.Version = repository.version
	}
	return repository.post(ctx, core.FluentdResponse, resp)
}

func (repository *LogRepository) LogArtifact(ctx context.Context, artifact model.ArtifactLog) error {
	if artifact.LoggedAt == "" {
		artifact.LoggedAt = now()
	}
	if artifact.Version == "" {
		artifact.Version = repository.version
	}
	if artifact.ProjectName == "" {
		artifact.ProjectName = repository.projectName
	}
	return repository.post(ctx, core.FluentdArtifact, artifact)
}

// fluentd 以 msgpack 編碼 map 最穩定，先轉成 map[string]any
func (repository *LogRepository) post(ctx context.Context, tag core.FluentdSubTag, record any) error {
	message, err := validate.PayloadToMap(record)
	if err != nil {
		return err
	}
	return repository.fluentdClient.Post(ctx, string(tag), message)
}

func now() string {
	return time.Now().UTC().Format(loggedAtLayout)
}
