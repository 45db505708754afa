package router

import (
	"handwriting/internal/handler"

	"github.com/gin-gonic/gin"
)

type AnalysisRouter struct {
	analysisHandler *handler.AnalysisHandler
}

func NewAnalysisRouter(analysisHandler *handler.AnalysisHandler) *AnalysisRouter {
	return &AnalysisRouter{analysisHandler: analysisHandler}
}

func (analysisRouter *AnalysisRouter) RegisterRoutes(r *gin.Engine) {
	r.POST("/analyze-handwriting", analysisRouter.analysisHandler.AnalyzeHandwriting)
}
