// Package system 서비스 상태 확인과 버전 정보 조회 API를 제공합니다.
package system

import (
	"net/http"
	"time"

	"github.com/darkkaiser/msdk-importer/internal/importer/format"
	"github.com/darkkaiser/msdk-importer/internal/pkg/version"
	"github.com/darkkaiser/msdk-importer/internal/service/api/constants"
	applog "github.com/darkkaiser/msdk-importer/pkg/log"
	"github.com/labstack/echo/v4"
)

// HealthChecker 임포트 서비스의 상태와 지원 포맷을 제공합니다.
type HealthChecker interface {
	Health() error
	Formats() []format.Tag
}

// HealthResponse GET /health 응답입니다.
type HealthResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Uptime  int64        `json:"uptime"`
	Version version.Info `json:"version"`
	Formats []format.Tag `json:"formats"`
}

// Handler 시스템 API 핸들러입니다.
type Handler struct {
	healthChecker HealthChecker

	buildInfo version.Info

	serverStartTime time.Time
}

// New Handler를 생성합니다. healthChecker가 nil이면 패닉이 발생합니다.
func New(healthChecker HealthChecker, buildInfo version.Info) *Handler {
	if healthChecker == nil {
		panic("HealthChecker는 필수입니다")
	}

	return &Handler{
		healthChecker: healthChecker,

		buildInfo: buildInfo,

		serverStartTime: time.Now(),
	}
}

// HealthCheckHandler 서비스 상태를 반환합니다.
// 임포트 서비스가 요청을 받을 수 없는 상태이면 503으로 응답합니다.
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  "/health",
		"remote_ip": c.RealIP(),
	}).Debug("헬스체크 요청")

	resp := HealthResponse{
		Status:  constants.HealthStatusHealthy,
		Uptime:  int64(time.Since(h.serverStartTime).Seconds()),
		Version: h.buildInfo,
		Formats: h.healthChecker.Formats(),
	}

	code := http.StatusOK
	if err := h.healthChecker.Health(); err != nil {
		resp.Status = constants.HealthStatusUnhealthy
		resp.Message = err.Error()
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, resp)
}

// VersionHandler 빌드 정보를 반환합니다.
func (h *Handler) VersionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.buildInfo)
}
