package imports

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/msdk-importer/internal/pkg/errors"
	"github.com/darkkaiser/msdk-importer/internal/service/api/httputil"
	"github.com/darkkaiser/msdk-importer/internal/service/imports"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// =============================================================================
// Test Helpers
// =============================================================================

type mockService struct {
	mock.Mock
}

func (m *mockService) Submit(ctx context.Context, path string) (imports.JobID, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(imports.JobID), args.Error(1)
}

func (m *mockService) Cancel(id imports.JobID) error {
	return m.Called(id).Error(0)
}

func (m *mockService) Status(id imports.JobID) (imports.Snapshot, error) {
	args := m.Called(id)
	return args.Get(0).(imports.Snapshot), args.Error(1)
}

func (m *mockService) List() []imports.Snapshot {
	return m.Called().Get(0).([]imports.Snapshot)
}

// setupRouter 실제 라우트와 같은 경로로 핸들러를 등록한 Echo 인스턴스를 반환합니다.
func setupRouter(t *testing.T) (*echo.Echo, *mockService) {
	t.Helper()

	svc := &mockService{}
	t.Cleanup(func() { svc.AssertExpectations(t) })

	h := New(svc)

	e := echo.New()
	e.HTTPErrorHandler = httputil.ErrorHandler
	e.POST("/api/v1/imports", h.SubmitHandler)
	e.GET("/api/v1/imports", h.ListHandler)
	e.GET("/api/v1/imports/:id", h.GetHandler)
	e.DELETE("/api/v1/imports/:id", h.CancelHandler)

	return e, svc
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func snapshotOf(id imports.JobID, state imports.JobState) imports.Snapshot {
	return imports.Snapshot{
		ID:          id,
		Path:        "/data/" + string(id) + ".mzML",
		State:       state,
		SubmittedAt: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
	}
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNew(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, "임포트 Service는 필수입니다", func() { New(nil) })
	assert.NotNil(t, New(&mockService{}))
}

// =============================================================================
// Submit Tests
// =============================================================================

func TestHandler_SubmitHandler(t *testing.T) {
	t.Parallel()

	t.Run("성공: 202 Accepted와 작업 상태", func(t *testing.T) {
		t.Parallel()

		e, svc := setupRouter(t)
		svc.On("Submit", mock.Anything, "sample.mzML").Return(imports.JobID("job-1"), nil).Once()
		svc.On("Status", imports.JobID("job-1")).Return(snapshotOf("job-1", imports.Queued), nil).Once()

		rec := serve(e, http.MethodPost, "/api/v1/imports", `{"path":"sample.mzML"}`)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		body := rec.Body.String()
		assert.Equal(t, "job-1", gjson.Get(body, "id").String())
		assert.Equal(t, "queued", gjson.Get(body, "state").String())
		assert.Equal(t, "2026-10-15T09:00:00Z", gjson.Get(body, "submitted_at").String())
		assert.False(t, gjson.Get(body, "started_at").Exists())
	})

	t.Run("실패: 경로 누락", func(t *testing.T) {
		t.Parallel()

		e, _ := setupRouter(t)

		rec := serve(e, http.MethodPost, "/api/v1/imports", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "파일 경로는 필수입니다", gjson.Get(rec.Body.String(), "message").String())
	})

	t.Run("실패: 잘못된 JSON", func(t *testing.T) {
		t.Parallel()

		e, _ := setupRouter(t)

		rec := serve(e, http.MethodPost, "/api/v1/imports", `{"path":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{"잘못된 경로 → 400", imports.ErrInvalidPath, http.StatusBadRequest},
		{"대기열 가득 참 → 503", imports.ErrQueueFull, http.StatusServiceUnavailable},
		{"서비스 중지 → 503", imports.ErrServiceStopped, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run("실패: "+tt.name, func(t *testing.T) {
			t.Parallel()

			e, svc := setupRouter(t)
			svc.On("Submit", mock.Anything, "x.mzML").Return(imports.JobID(""), tt.err).Once()

			rec := serve(e, http.MethodPost, "/api/v1/imports", `{"path":"x.mzML"}`)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, int64(tt.expectedCode), gjson.Get(rec.Body.String(), "result_code").Int())
		})
	}
}

// =============================================================================
// Query Tests
// =============================================================================

func TestHandler_ListHandler(t *testing.T) {
	t.Parallel()

	e, svc := setupRouter(t)
	svc.On("List").Return([]imports.Snapshot{
		snapshotOf("a", imports.Completed),
		snapshotOf("b", imports.Running),
	}).Once()

	rec := serve(e, http.MethodGet, "/api/v1/imports", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, int64(2), gjson.Get(body, "count").Int())
	assert.Equal(t, []any{"a", "b"}, gjson.Get(body, "items.#.id").Value())
	assert.Equal(t, "completed", gjson.Get(body, "items.0.state").String())
}

func TestHandler_ListHandler_Empty(t *testing.T) {
	t.Parallel()

	e, svc := setupRouter(t)
	svc.On("List").Return([]imports.Snapshot{}).Once()

	rec := serve(e, http.MethodGet, "/api/v1/imports", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), gjson.Get(rec.Body.String(), "count").Int())
	assert.True(t, gjson.Get(rec.Body.String(), "items").IsArray())
}

func TestHandler_GetHandler(t *testing.T) {
	t.Parallel()

	t.Run("성공", func(t *testing.T) {
		t.Parallel()

		e, svc := setupRouter(t)
		s := snapshotOf("job-7", imports.Completed)
		s.Format = "mzML"
		s.ScanCount = 3
		s.Progress = 1
		svc.On("Status", imports.JobID("job-7")).Return(s, nil).Once()

		rec := serve(e, http.MethodGet, "/api/v1/imports/job-7", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Equal(t, "mzML", gjson.Get(body, "format").String())
		assert.Equal(t, int64(3), gjson.Get(body, "scan_count").Int())
		assert.Equal(t, 1.0, gjson.Get(body, "progress").Float())
	})

	t.Run("실패: 존재하지 않는 작업 → 404", func(t *testing.T) {
		t.Parallel()

		e, svc := setupRouter(t)
		svc.On("Status", imports.JobID("nope")).Return(imports.Snapshot{}, imports.ErrJobNotFound).Once()

		rec := serve(e, http.MethodGet, "/api/v1/imports/nope", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, gjson.Get(rec.Body.String(), "message").String(), "임포트 작업을 찾을 수 없습니다")
	})
}

// =============================================================================
// Cancel Tests
// =============================================================================

func TestHandler_CancelHandler(t *testing.T) {
	t.Parallel()

	t.Run("성공: 202 Accepted", func(t *testing.T) {
		t.Parallel()

		e, svc := setupRouter(t)
		svc.On("Cancel", imports.JobID("job-1")).Return(nil).Once()
		svc.On("Status", imports.JobID("job-1")).Return(snapshotOf("job-1", imports.Running), nil).Once()

		rec := serve(e, http.MethodDelete, "/api/v1/imports/job-1", "")

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "running", gjson.Get(rec.Body.String(), "state").String())
	})

	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{"존재하지 않는 작업 → 404", imports.ErrJobNotFound, http.StatusNotFound},
		{"이미 종료된 작업 → 409", imports.ErrJobFinished, http.StatusConflict},
		{"취소 대기열 포화 → 503", imports.ErrCancelQueueFull, http.StatusServiceUnavailable},
		{"알 수 없는 에러 → 500", apperrors.New(apperrors.Internal, "boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run("실패: "+tt.name, func(t *testing.T) {
			t.Parallel()

			e, svc := setupRouter(t)
			svc.On("Cancel", imports.JobID("job-1")).Return(tt.err).Once()

			rec := serve(e, http.MethodDelete, "/api/v1/imports/job-1", "")

			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}
