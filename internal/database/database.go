package database

import (
	"handwriting/internal/database/artifact"
	"handwriting/internal/database/client"
	fluentdRepo "handwriting/internal/database/fluentd/repository"

	"github.com/google/wire"
)

// ProviderSet 交易紀錄檔與 fluentd 鏡像
var ProviderSet = wire.NewSet(
	client.NewFluentdClient,
	fluentdRepo.ProviderSet,
	artifact.NewRepository,
)
