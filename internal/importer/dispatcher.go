// Package importer 원시 데이터 파일의 포맷을 감지하고, 해당 포맷의 파서 작업을 선택하여 실행합니다.
package importer

import (
	"context"
	"io"
	"math"
	"os"
	"sync"
	"sync/atomic"

	"github.com/darkkaiser/msdk-importer/internal/importer/format"
	"github.com/darkkaiser/msdk-importer/internal/importer/xmlparser"
	"github.com/darkkaiser/msdk-importer/internal/rawdata"
	"github.com/darkkaiser/msdk-importer/internal/task"
	applog "github.com/darkkaiser/msdk-importer/pkg/log"
)

const component = "importer.dispatcher"

// DefaultRegistry 기본으로 지원하는 포맷(mzML, mzXML, mzData)의 레지스트리입니다.
var DefaultRegistry = format.MustNewRegistry(xmlparser.Entries()...)

var maxDispatchedProgress = math.Nextafter(1, 0)

// Params Dispatcher 생성 옵션입니다. nil 필드는 기본값을 사용합니다.
type Params struct {
	Detector *format.Detector
	Registry *format.Registry
}

// Dispatcher 파일 하나의 임포트 세션입니다.
//
// Execute는 포맷을 감지하고, 레지스트리에서 파서 Factory를 찾아 파서 작업을 생성한 뒤 실행합니다.
// Cancel은 실행 중인 파서 작업에 전달되며, 파서 생성 전에 취소되면 파서를 생성하지 않습니다.
// 파서가 반환한 결과와 에러는 변경하지 않고 그대로 반환합니다.
//
// 진행률은 Dispatched 상태에서 파서의 진행률(1.0 미만, 단조 증가), Completed 상태에서 1.0,
// 그 외 상태에서 0.0입니다.
type Dispatcher struct {
	src    format.Source
	closer io.Closer

	detector *format.Detector
	registry *format.Registry

	canceled atomic.Bool
	progress atomic.Uint64

	mu      sync.Mutex
	started bool
	state   State
	tag     format.Tag
	active  task.Task[*rawdata.RawDataFile]
	result  *rawdata.RawDataFile

	logger *applog.Entry
}

var _ task.Task[*rawdata.RawDataFile] = (*Dispatcher)(nil)

// New 호출자가 소유한 src를 임포트하는 Dispatcher를 생성합니다. src는 Execute가 끝날 때까지 다른 곳에서 읽으면 안 됩니다.
func New(src format.Source, p Params) *Dispatcher {
	if p.Detector == nil {
		p.Detector = format.NewDetector(format.DefaultPrefixSize)
	}
	if p.Registry == nil {
		p.Registry = DefaultRegistry
	}

	return &Dispatcher{
		src:      src,
		detector: p.Detector,
		registry: p.Registry,
		logger:   applog.WithComponentAndFields(component, applog.Fields{"file": src.Name()}),
	}
}

// Open path의 파일을 열어 Dispatcher를 생성합니다. 파일은 Dispatcher가 소유하며 Execute가 끝나면 닫힙니다.
// Execute를 호출하지 않는 경우 Close로 직접 닫아야 합니다.
func Open(path string, p Params) (*Dispatcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newErrOpenFailed(path, err)
	}

	d := New(f, p)
	d.closer = f

	return d, nil
}

// Execute 포맷 감지, 파서 선택, 파서 실행을 순서대로 수행합니다. 단 한 번만 호출할 수 있습니다.
//
// 반환값은 다음 중 정확히 하나입니다.
//   - 파서의 결과 (Completed)
//   - ErrDetectionFailed, ErrUnsupportedFormat 또는 파서가 반환한 에러 (Failed)
//   - task.ErrCanceled (Canceled)
func (d *Dispatcher) Execute(ctx context.Context) (*rawdata.RawDataFile, error) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return nil, task.ErrAlreadyExecuted
	}
	d.started = true

	if d.canceled.Load() {
		err := d.transitionLocked(Canceled)
		d.mu.Unlock()
		d.Close()

		if err != nil {
			return nil, err
		}
		d.logger.Info("실행 전에 취소 요청을 받아 임포트를 중단합니다")
		return nil, task.ErrCanceled
	}

	err := d.transitionLocked(Detecting)
	d.mu.Unlock()

	defer d.Close()

	if err != nil {
		return nil, err
	}

	d.logger.Info("임포트 시작")

	tag, err := d.detector.Detect(d.src)
	if err != nil {
		return nil, d.fail(err)
	}

	d.mu.Lock()
	d.tag = tag
	d.mu.Unlock()

	factory, ok := d.registry.Lookup(tag)
	if !ok {
		return nil, d.fail(newErrUnsupportedFormat(d.src.Name(), tag))
	}

	parser, err := d.dispatch(tag, factory)
	if err != nil {
		return nil, err
	}

	result, err := parser.Execute(ctx)

	return d.complete(result, err)
}

// dispatch 파서를 생성하고 Dispatched로 전이합니다.
// 파서 생성은 잠금 밖에서 수행하므로 생성 중에도 Cancel, Progress는 대기하지 않습니다.
// 생성 전후로 취소 여부를 확인하며, 생성 도중 취소되었다면 생성된 파서는 실행하지 않고 버립니다.
func (d *Dispatcher) dispatch(tag format.Tag, factory format.Factory) (task.Task[*rawdata.RawDataFile], error) {
	if err := d.cancelIfRequested("파서 생성 전에 취소 요청을 받아 임포트를 중단합니다"); err != nil {
		return nil, err
	}

	parser, err := factory(d.src, tag)
	if err != nil {
		if terr := d.transition(Failed); terr != nil {
			return nil, terr
		}
		d.logger.WithError(err).Warn("파서 생성 실패")
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Cancel은 플래그를 먼저 기록한 뒤 active를 읽으므로, 여기서 플래그를 다시 확인하면 취소가 누락되지 않는다.
	if d.canceled.Load() {
		if err := d.transitionLocked(Canceled); err != nil {
			return nil, err
		}
		d.logger.Info("파서 생성 중에 취소 요청을 받아 임포트를 중단합니다")
		return nil, task.ErrCanceled
	}

	if err := d.transitionLocked(Dispatched); err != nil {
		return nil, err
	}
	d.active = parser

	d.logger.WithField("format", tag).Debug("파서 실행")

	return parser, nil
}

// cancelIfRequested 취소 요청이 있으면 Canceled로 전이하고 task.ErrCanceled를 반환합니다.
func (d *Dispatcher) cancelIfRequested(msg string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.canceled.Load() {
		return nil
	}
	if err := d.transitionLocked(Canceled); err != nil {
		return err
	}
	d.logger.Info(msg)
	return task.ErrCanceled
}

func (d *Dispatcher) complete(result *rawdata.RawDataFile, err error) (*rawdata.RawDataFile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.active = nil

	switch {
	case err != nil && task.IsCanceled(err), err == nil && result == nil && d.canceled.Load():
		if terr := d.transitionLocked(Canceled); terr != nil {
			return nil, terr
		}
		d.logger.Info("임포트가 취소되었습니다")
		return nil, task.ErrCanceled

	case err != nil:
		if terr := d.transitionLocked(Failed); terr != nil {
			return nil, terr
		}
		d.logger.WithError(err).Warn("임포트 실패")
		return nil, err

	case result == nil:
		err = newErrNoResult(d.src.Name(), d.tag)
		if terr := d.transitionLocked(Failed); terr != nil {
			return nil, terr
		}
		d.logger.WithError(err).Error("임포트 실패")
		return nil, err
	}

	if err := d.transitionLocked(Completed); err != nil {
		return nil, err
	}
	d.result = result

	d.logger.WithFields(applog.Fields{
		"format": d.tag,
		"scans":  result.ScanCount(),
	}).Info("임포트 완료")

	return result, nil
}

func (d *Dispatcher) fail(err error) error {
	if terr := d.transition(Failed); terr != nil {
		return terr
	}
	d.logger.WithError(err).Warn("임포트 실패")
	return err
}

func (d *Dispatcher) transition(to State) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.transitionLocked(to)
}

func (d *Dispatcher) transitionLocked(to State) error {
	if !isAllowedTransition(d.state, to) {
		err := newErrInvalidTransition(d.state, to)
		d.logger.WithError(err).Error("상태 전이 오류")
		return err
	}

	d.logger.WithFields(applog.Fields{"from": d.state, "to": to}).Trace("상태 전이")
	d.state = to

	return nil
}

// Cancel 임포트 중단을 요청합니다. 실행 중인 파서가 있으면 취소를 전달하며, 블록되지 않습니다.
func (d *Dispatcher) Cancel() {
	d.canceled.Store(true)

	d.mu.Lock()
	active := d.active
	d.mu.Unlock()

	if active != nil {
		active.Cancel()
	}
}

func (d *Dispatcher) Progress() float64 {
	d.mu.Lock()
	state, active := d.state, d.active
	d.mu.Unlock()

	switch state {
	case Completed:
		return 1
	case Dispatched:
		if active == nil {
			return 0
		}
	default:
		return 0
	}

	p := active.Progress()
	if math.IsNaN(p) {
		p = 0
	}
	p = min(max(p, 0), maxDispatchedProgress)

	for {
		old := d.progress.Load()
		if last := math.Float64frombits(old); p <= last {
			return last
		}
		if d.progress.CompareAndSwap(old, math.Float64bits(p)) {
			return p
		}
	}
}

func (d *Dispatcher) Result() (*rawdata.RawDataFile, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.result, d.result != nil
}

// State 현재 상태를 반환합니다.
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state
}

// Format 감지된 포맷을 반환합니다. 감지 전이거나 감지에 실패하면 format.Unknown입니다.
func (d *Dispatcher) Format() format.Tag {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.tag
}

// Source 임포트 대상의 이름을 반환합니다.
func (d *Dispatcher) Source() string {
	return d.src.Name()
}

// Close Dispatcher가 소유한 파일을 닫습니다. 여러 번 호출해도 안전합니다.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	c := d.closer
	d.closer = nil
	d.mu.Unlock()

	if c == nil {
		return nil
	}
	return c.Close()
}
