package imports

import (
	"sync"
	"time"

	"github.com/darkkaiser/msdk-importer/internal/importer"
	"github.com/darkkaiser/msdk-importer/internal/importer/format"
	apperrors "github.com/darkkaiser/msdk-importer/internal/pkg/errors"
	"github.com/darkkaiser/msdk-importer/internal/rawdata"
	"github.com/iancoleman/strcase"
)

// JobID 임포트 작업 식별자입니다. (UUID)
type JobID string

// JobState 임포트 작업의 상태입니다.
type JobState int

const (
	Queued JobState = iota
	Running
	Completed
	Canceled
	Failed
)

var jobStateNames = [...]string{
	Queued:    "Queued",
	Running:   "Running",
	Completed: "Completed",
	Canceled:  "Canceled",
	Failed:    "Failed",
}

func (s JobState) String() string {
	if s < 0 || int(s) >= len(jobStateNames) {
		return "Unknown"
	}
	return jobStateNames[s]
}

func (s JobState) MarshalText() ([]byte, error) {
	return []byte(strcase.ToSnake(s.String())), nil
}

// IsFinished 종료 상태 여부를 반환합니다.
func (s JobState) IsFinished() bool {
	return s == Completed || s == Canceled || s == Failed
}

// Snapshot 특정 시점의 작업 상태입니다. REST API 응답에 그대로 사용됩니다.
type Snapshot struct {
	ID          JobID      `json:"id"`
	Path        string     `json:"path"`
	State       JobState   `json:"state"`
	Format      string     `json:"format,omitempty"`
	Progress    float64    `json:"progress"`
	ScanCount   int        `json:"scan_count"`
	MSLevels    []int      `json:"ms_levels,omitempty"`
	Error       string     `json:"error,omitempty"`
	ErrorType   string     `json:"error_type,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

type job struct {
	id          JobID
	path        string
	submittedAt time.Time

	mu         sync.Mutex
	state      JobState
	dispatcher *importer.Dispatcher
	startedAt  time.Time
	finishedAt time.Time
	result     *rawdata.RawDataFile
	err        error
}

func newJob(id JobID, path string) *job {
	return &job{id: id, path: path, submittedAt: time.Now(), state: Queued}
}

func (j *job) State() JobState {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.state
}

func (j *job) start(d *importer.Dispatcher) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.dispatcher = d
	j.state = Running
	j.startedAt = time.Now()
}

// finish 작업을 종료 상태로 전환합니다. 이미 종료된 작업이면 아무것도 하지 않습니다.
func (j *job) finish(state JobState, result *rawdata.RawDataFile, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.state.IsFinished() {
		return
	}

	j.state = state
	j.result = result
	j.err = err
	j.finishedAt = time.Now()
}

// finishWith 디스패처의 종료 상태를 작업 상태로 옮깁니다.
func (j *job) finishWith(d *importer.Dispatcher, result *rawdata.RawDataFile, err error) {
	state := Failed
	switch d.State() {
	case importer.Completed:
		state = Completed
	case importer.Canceled:
		state = Canceled
	}
	j.finish(state, result, err)
}

// cancel 실행 중이면 디스패처에 취소를 전달하고, 대기 중이면 즉시 Canceled로 전환합니다.
func (j *job) cancel() {
	j.mu.Lock()
	d, state := j.dispatcher, j.state
	j.mu.Unlock()

	switch {
	case state == Queued:
		j.finish(Canceled, nil, nil)
	case d != nil:
		d.Cancel()
	}
}

func (j *job) snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	s := Snapshot{
		ID:          j.id,
		Path:        j.path,
		State:       j.state,
		SubmittedAt: j.submittedAt,
	}

	if !j.startedAt.IsZero() {
		t := j.startedAt
		s.StartedAt = &t
	}
	if !j.finishedAt.IsZero() {
		t := j.finishedAt
		s.FinishedAt = &t
	}

	if d := j.dispatcher; d != nil {
		if tag := d.Format(); tag != format.Unknown {
			s.Format = tag.String()
		}
		s.Progress = d.Progress()
	}

	if j.result != nil {
		s.ScanCount = j.result.ScanCount()
		s.MSLevels = j.result.MSLevels()
	}

	if j.err != nil {
		s.Error = j.err.Error()
		s.ErrorType = apperrors.UnderlyingType(j.err).Code()
	}

	return s
}
