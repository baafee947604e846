package imports

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/darkkaiser/msdk-importer/internal/config"
	"github.com/darkkaiser/msdk-importer/internal/importer/format"
	"github.com/darkkaiser/msdk-importer/internal/rawdata"
	"github.com/darkkaiser/msdk-importer/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 5 * time.Second

func testImportConfig() config.ImportConfig {
	return config.ImportConfig{
		MaxConcurrent: 2,
		QueueSize:     8,
		HistorySize:   10,
	}
}

// startService 서비스를 시작하고, 테스트 종료 시 서비스를 중지한 뒤 고루틴 종료를 기다립니다.
func startService(t *testing.T, s *Service) (stop func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))

	var once sync.Once
	stop = func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}
	t.Cleanup(stop)

	return stop
}

func newTestService(t *testing.T, cfg config.ImportConfig) *Service {
	t.Helper()

	s, err := NewService(cfg, config.DetectorConfig{PrefixSize: format.DefaultPrefixSize})
	require.NoError(t, err)

	return s
}

// useBlockingParser mzML 파서를 취소될 때까지 끝나지 않는 파서로 교체합니다.
func useBlockingParser(s *Service) {
	factory := func(src format.Source, tag format.Tag) (task.Task[*rawdata.RawDataFile], error) {
		return task.FromFunc("blocking", func(ctx context.Context, b *task.Base[*rawdata.RawDataFile]) (*rawdata.RawDataFile, error) {
			b.SetProgress(0.1)
			<-ctx.Done()
			return nil, b.Checkpoint(ctx)
		}), nil
	}
	s.params.Registry = format.MustNewRegistry(format.Entry{Tag: format.MzML, Factory: factory})
}

func copyFixture(t *testing.T, dir, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("..", "..", "importer", "xmlparser", "testdata", name))
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func waitState(t *testing.T, s *Service, id JobID, want JobState) Snapshot {
	t.Helper()

	var snap Snapshot
	require.Eventually(t, func() bool {
		var err error
		snap, err = s.Status(id)
		return err == nil && snap.State == want
	}, waitTimeout, 5*time.Millisecond, "작업(%s)이 %s 상태에 도달하지 않았습니다", id, want)

	return snap
}

// =============================================================================
// 제출 및 완료
// =============================================================================

func TestService_Submit_완료(t *testing.T) {
	t.Parallel()

	s := newTestService(t, testImportConfig())
	startService(t, s)

	dir := t.TempDir()
	tests := []struct {
		file      string
		format    string
		scanCount int
		levels    []int
	}{
		{file: "small.mzML", format: "mzML", scanCount: 3, levels: []int{1, 2}},
		{file: "small.mzXML", format: "mzXML", scanCount: 3, levels: []int{1, 2}},
		{file: "small.mzData", format: "mzData", scanCount: 2, levels: []int{1, 2}},
	}

	for _, tt := range tests {
		id, err := s.Submit(context.Background(), copyFixture(t, dir, tt.file))
		require.NoError(t, err)
		require.NotEmpty(t, id)

		snap := waitState(t, s, id, Completed)
		assert.Equal(t, tt.format, snap.Format, tt.file)
		assert.Equal(t, tt.scanCount, snap.ScanCount, tt.file)
		assert.Equal(t, tt.levels, snap.MSLevels, tt.file)
		assert.Equal(t, 1.0, snap.Progress, tt.file)
		assert.Empty(t, snap.Error, tt.file)
		assert.NotNil(t, snap.StartedAt, tt.file)
		assert.NotNil(t, snap.FinishedAt, tt.file)
	}

	assert.Len(t, s.List(), len(tests))
}

func TestService_Submit_지원하지않는파일(t *testing.T) {
	t.Parallel()

	s := newTestService(t, testImportConfig())
	startService(t, s)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o600))

	id, err := s.Submit(context.Background(), path)
	require.NoError(t, err)

	snap := waitState(t, s, id, Failed)
	assert.Equal(t, "invalid_input", snap.ErrorType)
	assert.Contains(t, snap.Error, "지원하지 않는 파일 형식")
	assert.Zero(t, snap.ScanCount)
}

func TestService_Submit_잘못된경로(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	cfg := testImportConfig()
	cfg.BaseDir = base

	s := newTestService(t, cfg)
	startService(t, s)

	outside := copyFixture(t, t.TempDir(), "small.mzML")

	tests := []struct {
		name string
		path string
	}{
		{name: "빈 경로", path: ""},
		{name: "존재하지 않는 파일", path: "missing.mzML"},
		{name: "디렉터리", path: "."},
		{name: "기준 디렉터리 밖", path: outside},
		{name: "상위 디렉터리 탈출", path: "../escape.mzML"},
	}

	for _, tt := range tests {
		_, err := s.Submit(context.Background(), tt.path)
		assert.ErrorIs(t, err, ErrInvalidPath, tt.name)
	}

	// 기준 디렉터리 기준 상대 경로는 허용된다.
	copyFixture(t, base, "small.mzML")
	id, err := s.Submit(context.Background(), "small.mzML")
	require.NoError(t, err)
	waitState(t, s, id, Completed)
}

func TestService_Submit_서비스중지(t *testing.T) {
	t.Parallel()

	s := newTestService(t, testImportConfig())
	path := copyFixture(t, t.TempDir(), "small.mzML")

	_, err := s.Submit(context.Background(), path)
	assert.ErrorIs(t, err, ErrServiceStopped)
	assert.ErrorIs(t, s.Health(), ErrServiceStopped)

	stop := startService(t, s)
	assert.NoError(t, s.Health())

	stop()

	_, err = s.Submit(context.Background(), path)
	assert.ErrorIs(t, err, ErrServiceStopped)
}

// =============================================================================
// 동시성 제한 및 대기열
// =============================================================================

func TestService_동시실행제한(t *testing.T) {
	t.Parallel()

	cfg := testImportConfig()
	cfg.MaxConcurrent = 1
	cfg.QueueSize = 1

	s := newTestService(t, cfg)
	useBlockingParser(s)
	startService(t, s)

	dir := t.TempDir()
	path := copyFixture(t, dir, "small.mzML")

	first, err := s.Submit(context.Background(), path)
	require.NoError(t, err)
	waitState(t, s, first, Running)

	second, err := s.Submit(context.Background(), path)
	require.NoError(t, err)

	// 실행 슬롯이 하나뿐이므로 두 번째 작업은 대기한다.
	time.Sleep(20 * time.Millisecond)
	snap, err := s.Status(second)
	require.NoError(t, err)
	assert.Equal(t, Queued, snap.State)

	// 대기열이 가득 찼다.
	_, err = s.Submit(context.Background(), path)
	assert.ErrorIs(t, err, ErrQueueFull)

	// 대기 중인 작업을 취소하면 실행되지 않고 종료된다.
	require.NoError(t, s.Cancel(second))
	snap = waitState(t, s, second, Canceled)
	assert.Nil(t, snap.StartedAt)

	// 첫 번째 작업을 취소하면 슬롯이 비워진다.
	require.NoError(t, s.Cancel(first))
	waitState(t, s, first, Canceled)

	third, err := s.Submit(context.Background(), path)
	require.NoError(t, err)
	waitState(t, s, third, Running)
}

// =============================================================================
// 취소
// =============================================================================

func TestService_Cancel(t *testing.T) {
	t.Parallel()

	s := newTestService(t, testImportConfig())
	useBlockingParser(s)
	startService(t, s)

	path := copyFixture(t, t.TempDir(), "small.mzML")

	id, err := s.Submit(context.Background(), path)
	require.NoError(t, err)

	snap := waitState(t, s, id, Running)
	require.Eventually(t, func() bool {
		snap, _ = s.Status(id)
		return snap.Format == "mzML"
	}, waitTimeout, 5*time.Millisecond)

	require.NoError(t, s.Cancel(id))

	snap = waitState(t, s, id, Canceled)
	assert.Equal(t, "canceled", snap.ErrorType)
	assert.Zero(t, snap.Progress)

	t.Run("종료된 작업", func(t *testing.T) {
		assert.ErrorIs(t, s.Cancel(id), ErrJobFinished)
	})

	t.Run("없는 작업", func(t *testing.T) {
		assert.ErrorIs(t, s.Cancel("no-such-job"), ErrJobNotFound)

		_, err := s.Status("no-such-job")
		assert.ErrorIs(t, err, ErrJobNotFound)
	})
}

func TestService_종료시실행중작업취소(t *testing.T) {
	t.Parallel()

	s := newTestService(t, testImportConfig())
	useBlockingParser(s)
	stop := startService(t, s)

	id, err := s.Submit(context.Background(), copyFixture(t, t.TempDir(), "small.mzML"))
	require.NoError(t, err)
	waitState(t, s, id, Running)

	stop()

	snap, err := s.Status(id)
	require.NoError(t, err)
	assert.Equal(t, Canceled, snap.State)
	assert.ErrorIs(t, s.Cancel(id), ErrServiceStopped)
}

func TestService_종료대기시간초과후_작업종료(t *testing.T) {
	t.Parallel()

	s := newTestService(t, testImportConfig())
	s.shutdownTimeout = 20 * time.Millisecond

	// 취소 요청을 받아도 release가 닫힐 때까지 반환하지 않는 파서
	release := make(chan struct{})
	factory := func(src format.Source, tag format.Tag) (task.Task[*rawdata.RawDataFile], error) {
		return task.FromFunc("stubborn", func(ctx context.Context, b *task.Base[*rawdata.RawDataFile]) (*rawdata.RawDataFile, error) {
			<-release
			return nil, b.Checkpoint(ctx)
		}), nil
	}
	s.params.Registry = format.MustNewRegistry(format.Entry{Tag: format.MzML, Factory: factory})

	stop := startService(t, s)

	id, err := s.Submit(context.Background(), copyFixture(t, t.TempDir(), "small.mzML"))
	require.NoError(t, err)
	waitState(t, s, id, Running)

	// 대기 시간을 넘겨 서비스가 먼저 종료된다.
	stop()

	// 늦게 끝난 작업의 완료 통지가 패닉 없이 처리되어야 한다.
	close(release)
	waitState(t, s, id, Canceled)
	s.jobStopWG.Wait()
}

func TestService_종료중_요청(t *testing.T) {
	t.Parallel()

	// running 확인 직후 종료 절차가 채널을 닫은 상황을 재현한다.
	newStoppingService := func(t *testing.T) *Service {
		s := newTestService(t, testImportConfig())
		s.running = true
		close(s.jobSubmitC)
		close(s.jobCancelC)
		return s
	}

	t.Run("Submit", func(t *testing.T) {
		t.Parallel()

		s := newStoppingService(t)

		id, err := s.Submit(context.Background(), copyFixture(t, t.TempDir(), "small.mzML"))

		assert.Empty(t, id)
		assert.ErrorIs(t, err, ErrServiceStopped)
		assert.Empty(t, s.jobs)
		assert.Empty(t, s.order)
		assert.Equal(t, 0, s.queued)
	})

	t.Run("Cancel", func(t *testing.T) {
		t.Parallel()

		s := newStoppingService(t)
		j := newJob("job-1", "a.mzML")
		s.jobs[j.id] = j
		s.order = append(s.order, j.id)

		assert.ErrorIs(t, s.Cancel(j.id), ErrServiceStopped)
	})
}

// =============================================================================
// 이력 관리 및 포맷 제한
// =============================================================================

func TestService_이력보관한도(t *testing.T) {
	t.Parallel()

	cfg := testImportConfig()
	cfg.HistorySize = 2

	s := newTestService(t, cfg)
	startService(t, s)

	path := copyFixture(t, t.TempDir(), "small.mzData")

	var ids []JobID
	for range 3 {
		id, err := s.Submit(context.Background(), path)
		require.NoError(t, err)
		waitState(t, s, id, Completed)
		ids = append(ids, id)
	}

	require.Eventually(t, func() bool { return len(s.List()) == 2 }, waitTimeout, 5*time.Millisecond)

	_, err := s.Status(ids[0])
	assert.ErrorIs(t, err, ErrJobNotFound)

	list := s.List()
	assert.Equal(t, ids[1], list[0].ID)
	assert.Equal(t, ids[2], list[1].ID)
}

func TestNewService_허용포맷(t *testing.T) {
	t.Parallel()

	cfg := testImportConfig()
	cfg.AllowedFormats = []string{"mzxml"}

	s := newTestService(t, cfg)
	assert.Equal(t, []format.Tag{format.MzXML}, s.Formats())

	startService(t, s)

	id, err := s.Submit(context.Background(), copyFixture(t, t.TempDir(), "small.mzML"))
	require.NoError(t, err)

	snap := waitState(t, s, id, Failed)
	assert.Equal(t, "mzML", snap.Format)
	assert.Equal(t, "invalid_input", snap.ErrorType)

	t.Run("등록되지 않은 포맷", func(t *testing.T) {
		cfg := testImportConfig()
		cfg.AllowedFormats = []string{"NetCDF"}

		_, err := NewService(cfg, config.DetectorConfig{PrefixSize: format.DefaultPrefixSize})
		assert.ErrorIs(t, err, format.ErrInvalidEntry)
	})
}

func TestJobState_MarshalText(t *testing.T) {
	t.Parallel()

	for state, want := range map[JobState]string{Queued: "queued", Running: "running", Canceled: "canceled"} {
		text, err := state.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, want, string(text))
	}
	assert.Equal(t, "Unknown", JobState(9).String())
}
