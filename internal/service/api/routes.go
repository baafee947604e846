package api

import (
	importshandler "github.com/darkkaiser/msdk-importer/internal/service/api/handler/imports"
	"github.com/darkkaiser/msdk-importer/internal/service/api/handler/system"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes API 서비스의 모든 라우트를 등록합니다.
//
//   - 시스템: GET /health, GET /version
//   - 임포트: /api/v1/imports 하위의 제출, 목록, 조회, 취소
func RegisterRoutes(e *echo.Echo, systemHandler *system.Handler, importsHandler *importshandler.Handler) {
	e.GET("/health", systemHandler.HealthCheckHandler)
	e.GET("/version", systemHandler.VersionHandler)

	v1 := e.Group("/api/v1")

	g := v1.Group("/imports")
	g.POST("", importsHandler.SubmitHandler)
	g.GET("", importsHandler.ListHandler)
	g.GET("/:id", importsHandler.GetHandler)
	g.DELETE("/:id", importsHandler.CancelHandler)
}
