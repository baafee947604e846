// Package imports 파일 임포트 작업의 제출, 취소, 조회를 담당하는 서비스입니다.
package imports

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/darkkaiser/msdk-importer/internal/config"
	"github.com/darkkaiser/msdk-importer/internal/importer"
	"github.com/darkkaiser/msdk-importer/internal/importer/format"
	"github.com/darkkaiser/msdk-importer/pkg/validation"
	applog "github.com/darkkaiser/msdk-importer/pkg/log"
	"github.com/google/uuid"
)

const component = "service.imports"

// defaultShutdownTimeout 종료 시 실행 중인 작업의 정리를 기다리는 최대 시간입니다.
const defaultShutdownTimeout = 30 * time.Second

// Service 임포트 작업 서비스입니다.
//
// 작업 제출, 완료, 취소 이벤트는 채널을 통해 단일 이벤트 루프로 직렬화됩니다.
// 동시에 실행되는 작업 수는 max_concurrent로 제한되며, 나머지는 제출 순서대로 대기합니다.
// 종료된 작업은 history_size만큼 보관되고, 초과분은 오래된 순서로 제거됩니다.
type Service struct {
	cfg    config.ImportConfig
	params importer.Params

	newID func() JobID

	// jobs 대기, 실행, 종료된 작업을 모두 보관합니다. order는 제출 순서입니다.
	jobs  map[JobID]*job
	order []JobID

	// pending 실행 슬롯을 기다리는 작업 목록입니다. 이벤트 루프에서만 접근합니다.
	pending []*job
	active  int
	queued  int

	jobSubmitC chan *job
	jobDoneC   chan JobID
	jobCancelC chan JobID

	jobStopWG       sync.WaitGroup
	shutdownTimeout time.Duration

	running   bool
	runningMu sync.Mutex
}

// NewService 임포트 서비스를 생성합니다. allowed_formats가 지정되면 해당 포맷만 임포트합니다.
func NewService(importConfig config.ImportConfig, detectorConfig config.DetectorConfig) (*Service, error) {
	registry, err := importer.DefaultRegistry.Restrict(importConfig.AllowedFormats...)
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg: importConfig,
		params: importer.Params{
			Detector: format.NewDetector(detectorConfig.PrefixSize),
			Registry: registry,
		},

		newID: func() JobID { return JobID(uuid.NewString()) },

		jobs: make(map[JobID]*job),

		jobSubmitC: make(chan *job, importConfig.QueueSize),
		jobDoneC:   make(chan JobID, importConfig.MaxConcurrent),
		jobCancelC: make(chan JobID, importConfig.QueueSize),

		shutdownTimeout: defaultShutdownTimeout,
	}, nil
}

// Formats 임포트할 수 있는 포맷 목록을 반환합니다.
func (s *Service) Formats() []format.Tag {
	return s.params.Registry.Tags()
}

// Start 이벤트 루프를 시작합니다. 이미 실행 중이면 경고 로그만 남기고 반환합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: 임포트 서비스 초기화 프로세스를 시작합니다")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("임포트 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	s.running = true

	go s.runEventLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponentAndFields(component, applog.Fields{
		"max_concurrent": s.cfg.MaxConcurrent,
		"queue_size":     s.cfg.QueueSize,
		"formats":        s.Formats(),
	}).Info("서비스 시작 완료: 임포트 서비스가 정상적으로 초기화되었습니다")

	return nil
}

// Health 서비스가 실행 중이면 nil, 아니면 ErrServiceStopped를 반환합니다.
func (s *Service) Health() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return ErrServiceStopped
	}
	return nil
}

// runEventLoop 서비스의 메인 이벤트 루프입니다. 패닉이 발생해도 해당 회차만 복구하고 루프는 계속됩니다.
func (s *Service) runEventLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	for {
		shouldStop := func() bool {
			defer func() {
				if r := recover(); r != nil {
					applog.WithComponentAndFields(component, applog.Fields{
						"panic":            r,
						"active_count":     s.active,
						"pending_count":    len(s.pending),
						"submit_queue_len": len(s.jobSubmitC),
						"cancel_queue_len": len(s.jobCancelC),
					}).Error("임포트 서비스 이벤트 루프 패닉 복구: 다음 이벤트 처리를 재개합니다")
				}
			}()

			select {
			case j, ok := <-s.jobSubmitC:
				if !ok {
					return true
				}
				s.handleJobSubmit(j)

			case id := <-s.jobDoneC:
				s.handleJobDone(id)

			case id := <-s.jobCancelC:
				s.handleJobCancel(id)

			case <-serviceStopCtx.Done():
				s.handleStop()
				return true
			}

			return false
		}()

		if shouldStop {
			return
		}
	}
}

func (s *Service) handleJobSubmit(j *job) {
	// 대기열에 있는 동안 취소된 작업은 실행하지 않는다.
	if j.State().IsFinished() {
		s.dequeued()
		return
	}

	s.pending = append(s.pending, j)
	s.schedule()
}

func (s *Service) handleJobDone(id JobID) {
	s.active--

	s.runningMu.Lock()
	if j, exists := s.jobs[id]; exists {
		snap := j.snapshot()
		applog.WithComponentAndFields(component, applog.Fields{
			"job_id":     id,
			"path":       snap.Path,
			"state":      snap.State,
			"format":     snap.Format,
			"scan_count": snap.ScanCount,
		}).Info("임포트 작업 종료")
	}
	s.evictLocked()
	s.runningMu.Unlock()

	s.schedule()
}

func (s *Service) handleJobCancel(id JobID) {
	s.runningMu.Lock()
	j, exists := s.jobs[id]
	s.runningMu.Unlock()

	if !exists {
		applog.WithComponentAndFields(component, applog.Fields{
			"job_id": id,
			"reason": "not_found",
		}).Warn("임포트 작업 취소 무시: 등록되지 않은 작업 ID")
		return
	}

	wasQueued := j.State() == Queued
	j.cancel()

	if wasQueued {
		if i := slices.Index(s.pending, j); i >= 0 {
			s.pending = slices.Delete(s.pending, i, i+1)
			s.dequeued()
		}
		s.runningMu.Lock()
		s.evictLocked()
		s.runningMu.Unlock()
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"job_id": id,
		"queued": wasQueued,
	}).Info("임포트 작업 취소 요청 처리")
}

// schedule 빈 실행 슬롯만큼 대기 작업을 꺼내 실행합니다.
func (s *Service) schedule() {
	for s.active < s.cfg.MaxConcurrent && len(s.pending) > 0 {
		j := s.pending[0]
		s.pending = s.pending[1:]
		s.dequeued()

		s.run(j)
	}
}

func (s *Service) dequeued() {
	s.runningMu.Lock()
	s.queued--
	s.runningMu.Unlock()
}

func (s *Service) run(j *job) {
	d, err := importer.Open(j.path, s.params)
	if err != nil {
		j.finish(Failed, nil, err)

		applog.WithComponentAndFields(component, applog.Fields{
			"job_id": j.id,
			"path":   j.path,
			"error":  err,
		}).Warn("임포트 작업 시작 실패: 파일을 열 수 없습니다")

		s.runningMu.Lock()
		s.evictLocked()
		s.runningMu.Unlock()
		return
	}

	j.start(d)
	s.active++

	s.jobStopWG.Add(1)
	go func() {
		defer s.jobStopWG.Done()
		defer func() {
			s.jobDoneC <- j.id
		}()

		// 서비스 종료 신호와 무관하게 실행하며, 중단은 Cancel()로만 처리한다.
		ctx := context.Background()
		if s.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
			defer cancel()
		}

		result, err := d.Execute(ctx)
		j.finishWith(d, result, err)
	}()

	applog.WithComponentAndFields(component, applog.Fields{
		"job_id": j.id,
		"path":   j.path,
		"active": s.active,
	}).Debug("임포트 작업 실행")
}

// evictLocked 보관 한도를 초과한 종료 작업을 오래된 순서로 제거합니다. runningMu를 잡은 상태에서 호출해야 합니다.
func (s *Service) evictLocked() {
	finished := 0
	for _, id := range s.order {
		if s.jobs[id].State().IsFinished() {
			finished++
		}
	}

	excess := finished - s.cfg.HistorySize
	if excess <= 0 {
		return
	}

	kept := s.order[:0]
	for _, id := range s.order {
		if excess > 0 && s.jobs[id].State().IsFinished() {
			delete(s.jobs, id)
			excess--
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}

// handleStop 실행 중인 모든 작업을 취소하고 서비스 리소스를 정리합니다.
func (s *Service) handleStop() {
	applog.WithComponent(component).Info("종료 절차 진입: 임포트 서비스 중지 시그널을 수신했습니다")

	// [단계 1] 외부 요청 차단 및 모든 작업 취소
	s.runningMu.Lock()
	s.running = false
	for _, j := range s.jobs {
		j.cancel()
	}
	s.runningMu.Unlock()

	s.pending = nil

	// [단계 2] 입력 채널 닫기 (running=false 이후이므로 Submit/Cancel이 닫힌 채널에 전송하지 않는다)
	close(s.jobSubmitC)
	close(s.jobCancelC)

	// [단계 3] 실행 중인 작업 고루틴 종료 대기
	go func() {
		for range s.jobDoneC {
		}
	}()

	done := make(chan struct{})
	go func() {
		s.jobStopWG.Wait()
		close(done)
	}()

	// [단계 4] jobDoneC는 모든 작업 고루틴이 끝난 뒤에만 닫는다. 대기 시간을 넘기면 남은 작업이 끝날 때 닫는다.
	select {
	case <-done:
		close(s.jobDoneC)

	case <-time.After(s.shutdownTimeout):
		applog.WithComponentAndFields(component, applog.Fields{
			"timeout": s.shutdownTimeout,
		}).Warn("임포트 서비스 강제 종료: 작업 종료 대기 시간 초과")

		go func() {
			<-done
			close(s.jobDoneC)
		}()
	}

	applog.WithComponent(component).Info("임포트 서비스 종료 완료: 모든 작업이 정리되었습니다")
}

// Submit 파일 임포트를 요청하고 작업 ID를 반환합니다.
//
// 경로는 base_dir 기준으로 해석되며, 읽을 수 있는 일반 파일이어야 합니다.
// 대기열 채널이 가득 찬 경우 ctx가 끝날 때까지 기다립니다.
func (s *Service) Submit(ctx context.Context, path string) (id JobID, err error) {
	resolved, err := validation.ResolveWithin(s.cfg.BaseDir, path)
	if err != nil {
		return "", newErrInvalidPath(path, err)
	}
	if err := validation.ValidateFile(resolved); err != nil {
		return "", newErrInvalidPath(path, err)
	}

	j := newJob(s.newID(), resolved)

	s.runningMu.Lock()
	if !s.running {
		s.runningMu.Unlock()
		return "", ErrServiceStopped
	}
	if s.queued >= s.cfg.QueueSize {
		s.runningMu.Unlock()
		return "", ErrQueueFull
	}
	s.jobs[j.id] = j
	s.order = append(s.order, j.id)
	s.queued++
	s.runningMu.Unlock()

	if err := s.enqueue(ctx, j); err != nil {
		return "", err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"job_id": j.id,
		"path":   resolved,
	}).Debug("임포트 요청 접수")

	return j.id, nil
}

// enqueue 작업을 이벤트 루프에 전달합니다. 전달하지 못하면 Submit에서 등록한 작업 정보를 되돌립니다.
//
// running 확인과 전송 사이에 종료 절차가 채널을 닫으면 전송에서 패닉이 발생하며, 이 경우 ErrServiceStopped를 반환합니다.
func (s *Service) enqueue(ctx context.Context, j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.discard(j)
			err = ErrServiceStopped

			applog.WithComponentAndFields(component, applog.Fields{
				"job_id": j.id,
				"path":   j.path,
				"panic":  r,
			}).Warn("임포트 요청 실패: 요청 처리 중 서비스가 중지되었습니다")
		}
	}()

	select {
	case s.jobSubmitC <- j:
		return nil

	case <-ctx.Done():
		s.discard(j)
		return ctx.Err()
	}
}

func (s *Service) discard(j *job) {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	delete(s.jobs, j.id)
	s.order = slices.DeleteFunc(s.order, func(v JobID) bool { return v == j.id })
	s.queued--
}

// Cancel 작업 취소를 요청합니다. 취소 요청은 비블로킹으로 대기열에 등록됩니다.
func (s *Service) Cancel(id JobID) (err error) {
	defer func() {
		if r := recover(); r != nil {
			// 종료 절차가 jobCancelC를 닫은 경우이다.
			err = ErrServiceStopped

			applog.WithComponentAndFields(component, applog.Fields{
				"job_id": id,
				"panic":  r,
			}).Warn("작업 취소 실패: 요청 처리 중 서비스가 중지되었습니다")
		}
	}()

	s.runningMu.Lock()
	running := s.running
	j, exists := s.jobs[id]
	s.runningMu.Unlock()

	if !running {
		return ErrServiceStopped
	}
	if !exists {
		return newErrJobNotFound(id)
	}
	if state := j.State(); state.IsFinished() {
		return newErrJobFinished(id, state)
	}

	select {
	case s.jobCancelC <- id:
		return nil
	default:
		return ErrCancelQueueFull
	}
}

// Status 작업의 현재 상태를 반환합니다.
func (s *Service) Status(id JobID) (Snapshot, error) {
	s.runningMu.Lock()
	j, exists := s.jobs[id]
	s.runningMu.Unlock()

	if !exists {
		return Snapshot{}, newErrJobNotFound(id)
	}
	return j.snapshot(), nil
}

// List 보관 중인 모든 작업의 상태를 제출 순서대로 반환합니다.
func (s *Service) List() []Snapshot {
	s.runningMu.Lock()
	jobs := make([]*job, 0, len(s.order))
	for _, id := range s.order {
		jobs = append(jobs, s.jobs[id])
	}
	s.runningMu.Unlock()

	snapshots := make([]Snapshot, 0, len(jobs))
	for _, j := range jobs {
		snapshots = append(snapshots, j.snapshot())
	}
	return snapshots
}
