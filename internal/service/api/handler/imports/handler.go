// Package imports 임포트 작업의 제출, 조회, 취소 API를 제공합니다.
package imports

import (
	"context"
	"net/http"

	"github.com/darkkaiser/msdk-importer/internal/service/api/constants"
	"github.com/darkkaiser/msdk-importer/internal/service/api/handler"
	"github.com/darkkaiser/msdk-importer/internal/service/api/httputil"
	"github.com/darkkaiser/msdk-importer/internal/service/api/model/response"
	"github.com/darkkaiser/msdk-importer/internal/service/imports"
	applog "github.com/darkkaiser/msdk-importer/pkg/log"
	"github.com/labstack/echo/v4"
)

// Service 핸들러가 사용하는 임포트 서비스의 기능입니다.
type Service interface {
	Submit(ctx context.Context, path string) (imports.JobID, error)
	Cancel(id imports.JobID) error
	Status(id imports.JobID) (imports.Snapshot, error)
	List() []imports.Snapshot
}

// SubmitRequest POST /api/v1/imports 요청 본문입니다.
type SubmitRequest struct {
	// Path base_dir 기준 상대 경로 또는 base_dir 하위의 절대 경로
	Path string `json:"path" validate:"required,max=4096" korean:"파일 경로"`
}

// Handler 임포트 API 핸들러입니다.
type Handler struct {
	service Service
}

// New Handler를 생성합니다. service가 nil이면 패닉이 발생합니다.
func New(service Service) *Handler {
	if service == nil {
		panic("임포트 Service는 필수입니다")
	}

	return &Handler{service: service}
}

// SubmitHandler 파일 임포트를 요청합니다. 접수되면 202 Accepted와 작업 상태를 반환합니다.
func (h *Handler) SubmitHandler(c echo.Context) error {
	var req SubmitRequest
	if err := handler.BindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := h.service.Submit(c.Request().Context(), req.Path)
	if err != nil {
		return httputil.FromError(err)
	}

	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"job_id":    id,
		"path":      req.Path,
		"remote_ip": c.RealIP(),
	}).Info("임포트 요청 접수")

	return h.respondSnapshot(c, id)
}

// ListHandler 보관 중인 모든 작업을 제출 순서대로 반환합니다.
func (h *Handler) ListHandler(c echo.Context) error {
	items := h.service.List()

	return c.JSON(http.StatusOK, response.ListResponse[imports.Snapshot]{
		Count: len(items),
		Items: items,
	})
}

// GetHandler 작업 하나의 상태를 반환합니다.
func (h *Handler) GetHandler(c echo.Context) error {
	snapshot, err := h.service.Status(imports.JobID(c.Param("id")))
	if err != nil {
		return httputil.FromError(err)
	}

	return c.JSON(http.StatusOK, snapshot)
}

// CancelHandler 작업 취소를 요청합니다.
// 취소는 비동기로 처리되므로 202 Accepted와 요청 시점의 작업 상태를 반환합니다.
func (h *Handler) CancelHandler(c echo.Context) error {
	id := imports.JobID(c.Param("id"))

	if err := h.service.Cancel(id); err != nil {
		return httputil.FromError(err)
	}

	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"job_id":    id,
		"remote_ip": c.RealIP(),
	}).Info("임포트 작업 취소 요청")

	return h.respondSnapshot(c, id)
}

func (h *Handler) respondSnapshot(c echo.Context, id imports.JobID) error {
	snapshot, err := h.service.Status(id)
	if err != nil {
		return httputil.FromError(err)
	}

	return c.JSON(http.StatusAccepted, snapshot)
}
