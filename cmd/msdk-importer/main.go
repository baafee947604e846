package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/darkkaiser/msdk-importer/internal/config"
	"github.com/darkkaiser/msdk-importer/internal/importer"
	"github.com/darkkaiser/msdk-importer/internal/importer/format"
	apperrors "github.com/darkkaiser/msdk-importer/internal/pkg/errors"
	"github.com/darkkaiser/msdk-importer/internal/pkg/version"
	"github.com/darkkaiser/msdk-importer/internal/service"
	"github.com/darkkaiser/msdk-importer/internal/service/api"
	"github.com/darkkaiser/msdk-importer/internal/service/imports"
	"github.com/darkkaiser/msdk-importer/internal/service/watch"
	applog "github.com/darkkaiser/msdk-importer/pkg/log"
	"github.com/darkkaiser/msdk-importer/pkg/strutil"
)

const component = "main"

const banner = `
  __  __  ____   ____   _  __     ___                                _
 |  \/  |/ ___| |  _ \ | |/ /    |_ _| _ __ ___   _ __    ___   _ __| |_  ___  _ __
 | |\/| |\___ \ | | | || ' /_____ | | | '_ ' _ \ | '_ \  / _ \ | '__| __|/ _ \| '__|
 | |  | | ___) || |_| || . \_____|| | | | | | | || |_) || (_) || |  | |_|  __/| |
 |_|  |_||____/ |____/ |_|\_\    |___||_| |_| |_|| .__/  \___/ |_|   \__|\___||_|
                                                 |_|          %s
                                                        developed by DarkKaiser
--------------------------------------------------------------------------------
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run 실행 인자를 해석해 서비스 모드 또는 일회성 임포트 모드로 실행하고 종료 코드를 반환합니다.
//
//	msdk-importer -config msdk-importer.json                  # 서비스 모드
//	msdk-importer -config msdk-importer.json a.mzML b.mzXML   # 일회성 임포트 모드
func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	configFile := fs.String("config", config.DefaultFilename, "환경설정 파일 경로")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.LoadWithFile(*configFile)
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		return 1
	}

	// 2. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	} else {
		logOpts = applog.NewProductionOptions(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패 (Cause: %v)\n", err)
		return 1
	}
	defer appLogCloser.Close()

	applog.SetDebugMode(appConfig.Debug)

	buildInfo := version.Get()
	fmt.Fprintf(stdout, banner, buildInfo.Version)

	applog.WithComponentAndFields(component, buildInfo.Fields()).Info("초기화 시작")

	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent(component).Warn("권장 설정 확인: " + warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if files := fs.Args(); len(files) > 0 {
		return runOneShot(ctx, appConfig, files, stdout)
	}

	return runServices(ctx, appConfig, buildInfo)
}

// runServices 임포트, 디렉터리 감시, REST API 서비스를 시작하고 종료 신호를 기다립니다.
func runServices(ctx context.Context, appConfig *config.AppConfig, buildInfo version.Info) int {
	importService, err := imports.NewService(appConfig.Import, appConfig.Detector)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{"error": err}).Error("임포트 서비스 생성 실패")
		return 1
	}

	services := []service.Service{importService}
	if appConfig.Watch.Enabled {
		services = append(services, watch.NewService(appConfig.Watch, importService))
	}
	if appConfig.API.Enabled {
		services = append(services, api.NewService(appConfig.API, appConfig.Debug, importService, buildInfo))
	}

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serviceStopWG := &sync.WaitGroup{}

	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{"error": err}).Error("서비스 초기화 실패")

			cancel()
			serviceStopWG.Wait()

			return 1
		}
	}

	applog.WithComponent(component).Info("서버 가동 완료")

	<-ctx.Done()

	applog.WithComponent(component).Info("종료 신호 수신: 모든 서비스를 중지합니다")
	cancel()
	serviceStopWG.Wait()

	return 0
}

// newImporterParams 환경설정에 맞는 포맷 감지기와 레지스트리를 구성합니다.
func newImporterParams(appConfig *config.AppConfig) (importer.Params, error) {
	registry, err := importer.DefaultRegistry.Restrict(appConfig.Import.AllowedFormats...)
	if err != nil {
		return importer.Params{}, err
	}

	return importer.Params{
		Detector: format.NewDetector(appConfig.Detector.PrefixSize),
		Registry: registry,
	}, nil
}

// runOneShot 주어진 파일들을 순서대로 임포트하고 파일마다 결과 한 줄을 출력합니다.
// ctx가 취소되면 진행 중인 임포트를 취소하고 남은 파일은 건너뜁니다. 하나라도 실패하면 1을 반환합니다.
func runOneShot(ctx context.Context, appConfig *config.AppConfig, files []string, stdout io.Writer) int {
	params, err := newImporterParams(appConfig)
	if err != nil {
		fmt.Fprintf(stdout, "FAILED   %s\n", err)
		return 1
	}

	exitCode := 0
	for _, path := range files {
		if ctx.Err() != nil {
			fmt.Fprintf(stdout, "SKIPPED  %s\n", path)
			exitCode = 1
			continue
		}

		line, ok := importFile(ctx, appConfig, params, path)
		fmt.Fprintln(stdout, line)
		if !ok {
			exitCode = 1
		}
	}

	return exitCode
}

// importFile 파일 하나를 임포트하고 요약 문자열과 성공 여부를 반환합니다.
func importFile(ctx context.Context, appConfig *config.AppConfig, params importer.Params, path string) (string, bool) {
	d, err := importer.Open(path, params)
	if err != nil {
		return fmt.Sprintf("FAILED   %s (%s)", path, apperrors.UnderlyingType(err).Code()), false
	}

	execCtx := ctx
	if appConfig.Import.Timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, appConfig.Import.Timeout)
		defer cancel()
	}

	// 신호를 받으면 디스패처의 취소 경로로 전달한다.
	stopCancel := context.AfterFunc(ctx, d.Cancel)
	defer stopCancel()

	result, err := d.Execute(execCtx)

	switch d.State() {
	case importer.Completed:
		levels := make([]string, 0, 2)
		for _, l := range result.MSLevels() {
			levels = append(levels, fmt.Sprintf("MS%d", l))
		}
		return fmt.Sprintf("OK       %s [%s] scans=%s levels=%s", path, d.Format(), strutil.FormatCommas(result.ScanCount()), strings.Join(levels, ",")), true

	case importer.Canceled:
		return fmt.Sprintf("CANCELED %s", path), false

	default:
		applog.WithComponentAndFields(component, applog.Fields{
			"path":  path,
			"error": err,
		}).Error("임포트 실패")

		return fmt.Sprintf("FAILED   %s [%s] (%s) %v", path, d.Format(), apperrors.UnderlyingType(err).Code(), err), false
	}
}
