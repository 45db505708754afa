package service

import (
	"handwriting/internal/service/analysis"
	"handwriting/internal/service/cost"
	"handwriting/internal/service/janitor"
	"handwriting/internal/service/preprocess"
	"handwriting/internal/service/report"
	"handwriting/internal/service/txlog"
	"handwriting/internal/service/vision"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewHealthService,
	preprocess.NewPreprocessor,
	vision.NewOpenAIService,
	report.NewParser,
	cost.NewRates,
	txlog.NewTransactionLogger,
	analysis.NewService,
	janitor.NewJanitor,
)
