package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/darkkaiser/msdk-importer/internal/config"
	apperrors "github.com/darkkaiser/msdk-importer/internal/pkg/errors"
	"github.com/darkkaiser/msdk-importer/internal/service/imports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) Submit(ctx context.Context, path string) (imports.JobID, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(imports.JobID), args.Error(1)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// =============================================================================
// 디렉터리 확인
// =============================================================================

func TestWatcher_Scan(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mzml := writeFile(t, dir, "a.mzML", "<mzML/>")
	mzxml := writeFile(t, dir, "b.MZXML", "<mzXML/>")
	writeFile(t, dir, "notes.txt", "skip")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.mzML"), 0o755))

	m := &mockSubmitter{}
	m.On("Submit", mock.Anything, mzml).Return(imports.JobID("job-1"), nil).Once()
	m.On("Submit", mock.Anything, mzxml).Return(imports.JobID("job-2"), nil).Once()

	w := NewService(config.WatchConfig{Directory: dir, Extensions: []string{".mzML", ".mzXML"}}, m)

	w.scan()
	m.AssertExpectations(t)

	// 이미 요청한 파일은 다시 제출하지 않는다.
	w.scan()
	m.AssertNumberOfCalls(t, "Submit", 2)

	t.Run("변경된 파일은 다시 제출", func(t *testing.T) {
		writeFile(t, dir, "a.mzML", "<mzML>changed</mzML>")
		m.On("Submit", mock.Anything, mzml).Return(imports.JobID("job-3"), nil).Once()

		w.scan()
		m.AssertNumberOfCalls(t, "Submit", 3)
	})
}

func TestWatcher_Scan_필터없음(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.mzML", "x")
	writeFile(t, dir, "b.bin", "y")

	m := &mockSubmitter{}
	m.On("Submit", mock.Anything, mock.AnythingOfType("string")).Return(imports.JobID("job"), nil)

	NewService(config.WatchConfig{Directory: dir}, m).scan()

	m.AssertNumberOfCalls(t, "Submit", 2)
}

func TestWatcher_Scan_사라진파일기록제거(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.mzML", "<mzML/>")
	b := writeFile(t, dir, "b.mzML", "<mzML/>")

	m := &mockSubmitter{}
	m.On("Submit", mock.Anything, mock.AnythingOfType("string")).Return(imports.JobID("job"), nil)

	w := NewService(config.WatchConfig{Directory: dir}, m)

	w.scan()
	require.Len(t, w.seen, 2)

	require.NoError(t, os.Remove(a))
	w.scan()

	assert.Len(t, w.seen, 1)
	assert.Contains(t, w.seen, b)
	assert.NotContains(t, w.seen, a)
	m.AssertNumberOfCalls(t, "Submit", 2)
}

func TestWatcher_Scan_제출실패시재시도(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "a.mzML", "<mzML/>")

	m := &mockSubmitter{}
	m.On("Submit", mock.Anything, path).Return(imports.JobID(""), imports.ErrQueueFull).Once()
	m.On("Submit", mock.Anything, path).Return(imports.JobID("job-1"), nil).Once()

	w := NewService(config.WatchConfig{Directory: dir}, m)

	w.scan()
	w.scan()
	w.scan()

	m.AssertExpectations(t)
	m.AssertNumberOfCalls(t, "Submit", 2)
}

func TestWatcher_Scan_디렉터리없음(t *testing.T) {
	t.Parallel()

	m := &mockSubmitter{}
	w := NewService(config.WatchConfig{Directory: filepath.Join(t.TempDir(), "missing")}, m)

	assert.NotPanics(t, w.scan)
	m.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

// =============================================================================
// 서비스 수명 주기
// =============================================================================

func TestWatcher_Start(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "a.mzML", "<mzML/>")

	submitted := make(chan string, 1)
	m := &mockSubmitter{}
	m.On("Submit", mock.Anything, path).Run(func(args mock.Arguments) {
		submitted <- args.String(1)
	}).Return(imports.JobID("job-1"), nil).Once()

	w := NewService(config.WatchConfig{Enabled: true, Directory: dir, TimeSpec: "* * * * * *"}, m)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, w.Start(ctx, wg))

	// 중복 호출은 무시한다.
	wg.Add(1)
	assert.NoError(t, w.Start(ctx, wg))

	select {
	case got := <-submitted:
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("감시 주기 내에 임포트 요청이 발생하지 않았습니다")
	}

	cancel()
	wg.Wait()

	assert.False(t, w.running)
}

func TestWatcher_Start_실패(t *testing.T) {
	t.Parallel()

	t.Run("Submitter 없음", func(t *testing.T) {
		t.Parallel()

		wg := &sync.WaitGroup{}
		wg.Add(1)

		err := NewService(config.WatchConfig{TimeSpec: "@every 1m"}, nil).Start(context.Background(), wg)
		assert.ErrorIs(t, err, ErrSubmitterNotInitialized)
		wg.Wait()
	})

	t.Run("잘못된 감시 주기", func(t *testing.T) {
		t.Parallel()

		wg := &sync.WaitGroup{}
		wg.Add(1)

		err := NewService(config.WatchConfig{TimeSpec: "every minute"}, &mockSubmitter{}).Start(context.Background(), wg)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
		wg.Wait()
	})
}

func TestWatcher_Matches(t *testing.T) {
	t.Parallel()

	w := NewService(config.WatchConfig{Extensions: []string{".mzML", ".mzData"}}, nil)

	assert.True(t, w.matches("run.mzML"))
	assert.True(t, w.matches("run.MZML"))
	assert.True(t, w.matches("run.mzdata"))
	assert.False(t, w.matches("run.mzML.part"))
	assert.False(t, w.matches("README"))
}

