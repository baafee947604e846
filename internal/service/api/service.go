// Package api 임포트 서비스를 REST API로 노출하는 HTTP 서비스입니다.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/darkkaiser/msdk-importer/internal/config"
	"github.com/darkkaiser/msdk-importer/internal/pkg/version"
	"github.com/darkkaiser/msdk-importer/internal/service/api/constants"
	importshandler "github.com/darkkaiser/msdk-importer/internal/service/api/handler/imports"
	"github.com/darkkaiser/msdk-importer/internal/service/api/handler/system"
	applog "github.com/darkkaiser/msdk-importer/pkg/log"
	"github.com/labstack/echo/v4"
)

// readyPollInterval 리스너가 열렸는지 확인하는 주기입니다.
const readyPollInterval = 10 * time.Millisecond

// ImportService API가 노출하는 임포트 서비스의 기능입니다.
type ImportService interface {
	importshandler.Service
	system.HealthChecker
}

// Service REST API 서버의 생명주기를 관리하는 서비스입니다.
//
// Start()로 시작하면 고루틴에서 HTTP 서버를 실행하고, serviceStopCtx가 취소되면
// 진행 중인 요청을 최대 5초까지 기다린 뒤 종료합니다.
type Service struct {
	cfg   config.APIConfig
	debug bool

	importService ImportService

	buildInfo version.Info

	// listenAddr 서버가 실제로 바인딩한 주소입니다. 서버가 준비되면 ready가 닫힙니다.
	listenAddr net.Addr
	ready      chan struct{}

	running   bool
	runningMu sync.Mutex
}

// NewService Service를 생성합니다. importService가 nil이면 패닉이 발생합니다.
func NewService(cfg config.APIConfig, debug bool, importService ImportService, buildInfo version.Info) *Service {
	if importService == nil {
		panic("ImportService는 필수입니다")
	}

	return &Service{
		cfg:   cfg,
		debug: debug,

		importService: importService,

		buildInfo: buildInfo,
	}
}

// Start API 서비스를 시작합니다. 실제 서버는 고루틴에서 실행되며 이 함수는 즉시 반환합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarting)

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(constants.ComponentService).Warn(constants.LogMsgServiceAlreadyStarted)
		return nil
	}

	s.running = true
	s.listenAddr = nil
	s.ready = make(chan struct{})

	go s.runServiceLoop(serviceStopCtx, serviceStopWG, s.ready)

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarted)

	return nil
}

// Addr 서버가 바인딩한 주소를 반환합니다. 서버가 준비될 때까지 기다리며, 준비 전에 종료되면 nil입니다.
func (s *Service) Addr(ctx context.Context) net.Addr {
	s.runningMu.Lock()
	ready := s.ready
	s.runningMu.Unlock()

	if ready == nil {
		return nil
	}

	select {
	case <-ready:
	case <-ctx.Done():
		return nil
	}

	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	return s.listenAddr
}

func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup, ready chan struct{}) {
	defer serviceStopWG.Done()

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	go s.notifyReady(e, ready, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)

	<-ready
}

func (s *Service) setupServer() *echo.Echo {
	systemHandler := system.New(s.importService, s.buildInfo)
	importsHandler := importshandler.New(s.importService)

	e := NewHTTPServer(HTTPServerConfig{
		Debug:     s.debug,
		RateLimit: s.cfg.RateLimit,
		RateBurst: s.cfg.RateBurst,
		BodyLimit: s.cfg.BodyLimit,
	})

	RegisterRoutes(e, systemHandler, importsHandler)

	return e
}

// startHTTPServer HTTP 서버를 시작합니다. 서버가 종료될 때까지 블로킹되며, 종료되면 done을 닫습니다.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port": s.cfg.ListenPort,
	}).Debug(constants.LogMsgServiceHTTPServerStarting)

	s.handleServerError(e.Start(fmt.Sprintf(":%d", s.cfg.ListenPort)))
}

// notifyReady 리스너가 열리면 바인딩 주소를 기록하고 ready를 닫습니다.
// 서버가 리스너를 열기 전에 종료되어도 ready는 닫힙니다.
func (s *Service) notifyReady(e *echo.Echo, ready chan struct{}, httpServerDone chan struct{}) {
	defer close(ready)

	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	addr := e.ListenerAddr()
	for addr == nil {
		select {
		case <-httpServerDone:
			return
		case <-ticker.C:
		}
		addr = e.ListenerAddr()
	}

	s.runningMu.Lock()
	s.listenAddr = addr
	s.runningMu.Unlock()
}

func (s *Service) handleServerError(err error) {
	if err == nil {
		return
	}

	if errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceHTTPServerStopped)
		return
	}

	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port":  s.cfg.ListenPort,
		"error": err,
	}).Error(constants.LogMsgServiceHTTPServerFatalError)
}

// waitForShutdown 종료 신호를 기다린 뒤 Graceful Shutdown을 수행합니다.
// HTTP 서버가 먼저 종료된 경우(포트 바인딩 실패 등)에는 상태만 정리합니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopping)

	case <-httpServerDone:
		applog.WithComponent(constants.ComponentService).Error(constants.LogMsgServiceUnexpectedExit)

		s.cleanup()

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"error": err,
		}).Error(constants.LogMsgServiceHTTPServerShutdownError)
	}

	<-httpServerDone

	s.cleanup()
}

func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopped)
}
