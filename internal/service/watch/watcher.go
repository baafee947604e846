// Package watch 수신 디렉터리를 주기적으로 확인하여 새 파일의 임포트를 요청하는 서비스입니다.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/darkkaiser/msdk-importer/internal/config"
	"github.com/darkkaiser/msdk-importer/internal/service/imports"
	"github.com/darkkaiser/msdk-importer/pkg/cronx"
	applog "github.com/darkkaiser/msdk-importer/pkg/log"
	"github.com/robfig/cron/v3"
)

const component = "service.watch"

// submitTimeout 임포트 요청 시 최대 대기 시간입니다. 초과하면 다음 주기에 다시 시도합니다.
const submitTimeout = 5 * time.Second

// Submitter 임포트 요청을 접수하는 인터페이스입니다.
type Submitter interface {
	Submit(ctx context.Context, path string) (imports.JobID, error)
}

// stamp 파일 변경 여부를 판단하는 기준입니다. 크기나 수정 시각이 바뀌면 다시 임포트합니다.
type stamp struct {
	size    int64
	modTime time.Time
}

// Watcher 설정된 주기마다 감시 디렉터리를 확인하고, 아직 요청하지 않은 파일을 임포트 서비스에 제출합니다.
type Watcher struct {
	cfg config.WatchConfig

	submitter Submitter

	cron *cron.Cron

	seenMu sync.Mutex
	seen   map[string]stamp

	running   bool
	runningMu sync.Mutex
}

// NewService Watcher를 생성합니다.
func NewService(cfg config.WatchConfig, submitter Submitter) *Watcher {
	return &Watcher{
		cfg:       cfg,
		submitter: submitter,
		seen:      make(map[string]stamp),
	}
}

// Start Cron 엔진에 감시 작업을 등록하고 시작합니다.
func (w *Watcher) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	w.runningMu.Lock()
	defer w.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: 디렉터리 감시 서비스 초기화 프로세스를 시작합니다")

	if w.submitter == nil {
		serviceStopWG.Done()
		return ErrSubmitterNotInitialized
	}

	if w.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("디렉터리 감시 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// 이전 감시가 끝나지 않았으면 이번 주기는 건너뛴다.
	logger := cron.VerbosePrintfLogger(applog.StandardLogger())
	w.cron = cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(logger),
		cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		),
	)

	if _, err := w.cron.AddFunc(w.cfg.TimeSpec, w.scan); err != nil {
		w.cron = nil
		serviceStopWG.Done()
		return newErrInvalidTimeSpec(w.cfg.TimeSpec, err)
	}

	w.cron.Start()
	w.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"directory":  w.cfg.Directory,
		"time_spec":  w.cfg.TimeSpec,
		"extensions": w.cfg.Extensions,
	}).Info("서비스 시작 완료: 디렉터리 감시 서비스가 정상적으로 초기화되었습니다")

	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		w.Stop()
	}()

	return nil
}

// Stop Cron 엔진을 중지하고 진행 중인 감시가 끝날 때까지 기다립니다.
func (w *Watcher) Stop() {
	w.runningMu.Lock()
	defer w.runningMu.Unlock()

	if !w.running {
		return
	}

	applog.WithComponent(component).Info("종료 절차 진입: 디렉터리 감시 서비스 중지 시그널을 수신했습니다")

	<-w.cron.Stop().Done()

	w.cron = nil
	w.running = false

	applog.WithComponent(component).Info("디렉터리 감시 서비스 종료 완료")
}

// scan 감시 디렉터리의 파일 목록을 확인하여 새로 생겼거나 변경된 파일을 제출합니다.
// 제출에 실패한 파일은 기록하지 않으므로 다음 주기에 다시 시도됩니다.
// 디렉터리에서 사라진 파일의 기록은 제거합니다.
func (w *Watcher) scan() {
	entries, err := os.ReadDir(w.cfg.Directory)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"directory": w.cfg.Directory,
			"error":     err,
		}).Error("감시 디렉터리를 읽을 수 없습니다")
		return
	}

	w.seenMu.Lock()
	defer w.seenMu.Unlock()

	submitted := 0
	present := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !w.matches(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(w.cfg.Directory, entry.Name())
		present[path] = struct{}{}

		st := stamp{size: info.Size(), modTime: info.ModTime()}
		if prev, ok := w.seen[path]; ok && prev == st {
			continue
		}

		if w.submit(path) {
			w.seen[path] = st
			submitted++
		}
	}

	for path := range w.seen {
		if _, ok := present[path]; !ok {
			delete(w.seen, path)
		}
	}

	if submitted > 0 {
		applog.WithComponentAndFields(component, applog.Fields{
			"directory": w.cfg.Directory,
			"submitted": submitted,
		}).Info("감시 디렉터리의 새 파일 임포트를 요청했습니다")
	}
}

func (w *Watcher) submit(path string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	id, err := w.submitter.Submit(ctx, path)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"path":  path,
			"error": err,
		}).Warn("임포트 요청 실패: 다음 주기에 다시 시도합니다")
		return false
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"path":   path,
		"job_id": id,
	}).Debug("임포트 요청 완료")

	return true
}

// matches 확장자 필터가 비어 있으면 모든 파일을 대상으로 합니다. 대소문자는 구분하지 않습니다.
func (w *Watcher) matches(name string) bool {
	if len(w.cfg.Extensions) == 0 {
		return true
	}

	ext := filepath.Ext(name)
	return slices.ContainsFunc(w.cfg.Extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}
