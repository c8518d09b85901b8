package routers

import (
	"time"

	"github.com/haierkeys/microdoc-service/internal/app"
	"github.com/haierkeys/microdoc-service/internal/middleware"
	"github.com/haierkeys/microdoc-service/internal/routers/api_router"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// NewRouter 创建对外 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {
	cfg := appContainer.Config()

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.ClientRateLimiter(appContainer.Limiter, appContainer.Logger()))
		api.Use(middleware.RateLimiter(appContainer.RouteLimiter))
		api.Use(middleware.NoteCredential())

		// 创建 Handlers（注入 App Container）
		noteHandler := api_router.NewNoteHandler(appContainer)
		noteHistoryHandler := api_router.NewNoteHistoryHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)

		api.GET("/health", healthHandler.Check)
		api.GET("/version", versionHandler.ServerVersion)

		api.POST("/note", noteHandler.Create)
		api.GET("/note/:slug", noteHandler.Get)
		api.PUT("/note/:slug", noteHandler.Update)
		api.GET("/note/:slug/html", noteHandler.HTML)
		api.POST("/note/:slug/unlock", noteHandler.Unlock)

		api.GET("/note/:slug/history", noteHistoryHandler.List)
		api.GET("/note/:slug/diff", noteHistoryHandler.Diff)
		api.POST("/note/:slug/restore", noteHistoryHandler.Restore)
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
