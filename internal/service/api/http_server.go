package api

import (
	"time"

	"github.com/darkkaiser/msdk-importer/internal/service/api/constants"
	"github.com/darkkaiser/msdk-importer/internal/service/api/httputil"
	appmiddleware "github.com/darkkaiser/msdk-importer/internal/service/api/middleware"
	applog "github.com/darkkaiser/msdk-importer/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HTTPServerConfig HTTP 서버 생성에 필요한 설정입니다.
type HTTPServerConfig struct {
	// Debug Echo 프레임워크의 디버그 모드 활성화 여부
	Debug bool

	// RateLimit IP별 초당 허용 요청 수, RateBurst 버스트 허용량
	RateLimit float64
	RateBurst int

	// BodyLimit 요청 본문의 최대 크기 (예: "64K")
	BodyLimit string

	// RequestTimeout 요청 하나의 최대 처리 시간. 0이면 기본값(30초)을 사용합니다.
	RequestTimeout time.Duration
}

// NewHTTPServer 미들웨어 체인이 구성된 Echo 인스턴스를 생성합니다.
//
// 미들웨어는 다음 순서로 적용됩니다.
//
//  1. PanicRecovery: 이후 모든 미들웨어와 핸들러의 패닉을 복구
//  2. RequestID: X-Request-ID 부여 (로그보다 먼저 적용해야 request_id가 기록됨)
//  3. Server 헤더 제거
//  4. HTTPLogger: 429, 413, 503 응답도 기록되도록 제한 미들웨어보다 앞에 둔다
//  5. RateLimit: IP별 요청 제한, 초과 시 429
//  6. BodyLimit: 본문 크기 제한, 초과 시 413
//  7. ContextTimeout: 요청 컨텍스트에 처리 시간 제한 적용
//  8. Secure: 보안 헤더
//
// 라우트는 포함되지 않으며 RegisterRoutes로 별도 등록합니다.
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = constants.DefaultReadTimeout
	e.Server.ReadHeaderTimeout = constants.DefaultReadHeaderTimeout
	e.Server.WriteTimeout = constants.DefaultWriteTimeout
	e.Server.IdleTimeout = constants.DefaultIdleTimeout

	// Echo 내부 로그를 애플리케이션 로거로 통합한다.
	e.Logger = appmiddleware.Logger{Logger: applog.StandardLogger()}

	e.HTTPErrorHandler = httputil.ErrorHandler

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = constants.DefaultRequestTimeout
	}

	e.Use(appmiddleware.PanicRecovery())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderServer, "")
			return next(c)
		}
	})
	e.Use(appmiddleware.HTTPLogger())
	e.Use(appmiddleware.RateLimit(cfg.RateLimit, cfg.RateBurst))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Timeout: timeout,
	}))
	e.Use(middleware.Secure())

	return e
}
