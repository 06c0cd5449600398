package api

import (
	"github.com/gin-gonic/gin"

	"github.com/michaelkomolafe/dfs-optimizer/internal/storage"
)

// SetupRoutes registers the optimization API on the given router group.
func SetupRoutes(group *gin.RouterGroup, service *RunService, runs *storage.RunStore) {
	optimizeHandler := NewOptimizeHandler(service)
	healthHandler := NewHealthHandler()

	group.POST("/optimize", optimizeHandler.Optimize)
	group.GET("/health", healthHandler.GetHealth)

	if runs != nil {
		runsHandler := NewRunsHandler(runs)
		group.GET("/runs", runsHandler.ListRuns)
		group.GET("/runs/:id", runsHandler.GetRun)
	}
}
