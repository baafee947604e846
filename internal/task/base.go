package task

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"

	applog "github.com/darkkaiser/msdk-importer/pkg/log"
)

// maxRunningProgress 실행 중 보고할 수 있는 최대 진행률입니다. 1.0은 Completed 상태에서만 보고합니다.
var maxRunningProgress = math.Nextafter(1, 0)

// ExecuteFunc Base.Run이 실행하는 실제 작업 본문입니다.
type ExecuteFunc[R any] func(ctx context.Context) (R, error)

// Base Task 구현체가 공통으로 사용하는 상태 관리 로직입니다.
//
// 단일 실행 보장, 취소 플래그와 컨텍스트 취소 전파, 단조 증가하는 진행률, panic 복구,
// 종료 상태별 결과 보관을 담당합니다. 구현체는 *Base를 임베드하고 Execute에서 Run을 호출합니다.
//
// 진행률 정책: Running 중에는 SetProgress로 보고된 값(1.0 미만), Completed는 1.0,
// 그 외 상태(Created, Canceled, Failed)는 0.0을 보고합니다.
type Base[R any] struct {
	name string

	state    atomic.Int32
	canceled atomic.Bool
	progress atomic.Uint64

	cancelMu   sync.Mutex
	cancelFunc context.CancelFunc

	resultMu  sync.RWMutex
	result    R
	hasResult bool

	logger *applog.Entry
}

// NewBase name을 식별자로 사용하는 Base를 생성합니다.
func NewBase[R any](name string) *Base[R] {
	return &Base[R]{
		name:   name,
		logger: applog.WithComponentAndFields(component, applog.Fields{"task": name}),
	}
}

// Name 작업 식별자를 반환합니다.
func (b *Base[R]) Name() string {
	return b.name
}

// State 현재 상태를 반환합니다.
func (b *Base[R]) State() State {
	return State(b.state.Load())
}

// Logger 작업 식별자가 바인딩된 로거를 반환합니다.
func (b *Base[R]) Logger() *applog.Entry {
	return b.logger
}

func (b *Base[R]) Cancel() {
	b.canceled.Store(true)

	b.cancelMu.Lock()
	if b.cancelFunc != nil {
		b.cancelFunc()
	}
	b.cancelMu.Unlock()
}

// IsCanceled 취소 요청을 받았는지 여부를 반환합니다.
func (b *Base[R]) IsCanceled() bool {
	return b.canceled.Load()
}

func (b *Base[R]) Progress() float64 {
	switch b.State() {
	case Running:
		return math.Float64frombits(b.progress.Load())
	case Completed:
		return 1
	default:
		return 0
	}
}

// SetProgress 진행률을 갱신합니다. 이전 값보다 작은 값은 무시하며, 1.0 미만으로 제한합니다.
func (b *Base[R]) SetProgress(p float64) {
	if math.IsNaN(p) {
		return
	}
	p = min(max(p, 0), maxRunningProgress)

	for {
		old := b.progress.Load()
		if p <= math.Float64frombits(old) {
			return
		}
		if b.progress.CompareAndSwap(old, math.Float64bits(p)) {
			return
		}
	}
}

func (b *Base[R]) Result() (R, bool) {
	b.resultMu.RLock()
	defer b.resultMu.RUnlock()

	return b.result, b.hasResult
}

// Checkpoint 취소 요청이나 컨텍스트 종료를 확인합니다. 작업 본문은 구조적 경계(레코드, 요소 등)마다 호출해야 합니다.
func (b *Base[R]) Checkpoint(ctx context.Context) error {
	if b.IsCanceled() {
		return ErrCanceled
	}

	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return newErrTimeout(err)
	default:
		return ErrCanceled
	}
}

// Run fn을 단 한 번 실행하고 결과에 따라 종료 상태를 확정합니다.
//
//   - 이미 실행된 경우: ErrAlreadyExecuted
//   - 실행 전에 취소된 경우: fn을 호출하지 않고 ErrCanceled
//   - 실행 중 취소된 경우: 결과를 버리고 ErrCanceled
//   - fn이 에러를 반환한 경우: 해당 에러를 그대로 반환
func (b *Base[R]) Run(ctx context.Context, fn ExecuteFunc[R]) (R, error) {
	var zero R

	if !b.state.CompareAndSwap(int32(Created), int32(Running)) {
		return zero, ErrAlreadyExecuted
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b.cancelMu.Lock()
	b.cancelFunc = cancel
	b.cancelMu.Unlock()

	defer func() {
		b.cancelMu.Lock()
		b.cancelFunc = nil
		b.cancelMu.Unlock()
	}()

	// cancelFunc 등록 이전에 들어온 취소 요청은 여기서 처리된다.
	if b.IsCanceled() {
		b.finish(Canceled)
		b.logger.Debug("실행 전에 취소 요청을 받아 작업을 시작하지 않습니다")
		return zero, ErrCanceled
	}

	b.logger.Debug("작업 실행 시작")

	result, err := b.safeExecute(ctx, fn)

	switch {
	case b.IsCanceled() || (err != nil && IsCanceled(err)):
		b.finish(Canceled)
		b.logger.Info("작업이 취소되었습니다")
		return zero, ErrCanceled

	case err != nil:
		b.finish(Failed)
		b.logger.WithError(err).Warn("작업이 실패했습니다")
		return zero, err
	}

	b.resultMu.Lock()
	b.result = result
	b.hasResult = true
	b.resultMu.Unlock()

	b.finish(Completed)
	b.logger.Debug("작업 완료")

	return result, nil
}

func (b *Base[R]) safeExecute(ctx context.Context, fn ExecuteFunc[R]) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newErrPanic(b.name, r)
			b.logger.WithError(err).Error("작업 실행 도중 panic이 발생했습니다")
		}
	}()

	return fn(ctx)
}

func (b *Base[R]) finish(s State) {
	b.state.Store(int32(s))
}
