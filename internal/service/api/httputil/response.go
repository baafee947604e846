package httputil

import (
	"net/http"

	apperrors "github.com/darkkaiser/msdk-importer/internal/pkg/errors"
	"github.com/darkkaiser/msdk-importer/internal/service/api/constants"
	"github.com/darkkaiser/msdk-importer/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
)

// newHTTPError ErrorResponse 본문을 담은 echo.HTTPError를 생성합니다.
func newHTTPError(code int, message string) *echo.HTTPError {
	return echo.NewHTTPError(code, response.ErrorResponse{
		ResultCode: code,
		Message:    message,
	})
}

// NewBadRequestError 400 Bad Request 에러를 생성합니다.
func NewBadRequestError(message string) error {
	return newHTTPError(http.StatusBadRequest, message)
}

// NewNotFoundError 404 Not Found 에러를 생성합니다.
func NewNotFoundError(message string) error {
	return newHTTPError(http.StatusNotFound, message)
}

// NewConflictError 409 Conflict 에러를 생성합니다.
func NewConflictError(message string) error {
	return newHTTPError(http.StatusConflict, message)
}

// NewTooManyRequestsError 429 Too Many Requests 에러를 생성합니다.
func NewTooManyRequestsError(message string) error {
	return newHTTPError(http.StatusTooManyRequests, message)
}

// NewInternalServerError 500 Internal Server Error 에러를 생성합니다.
func NewInternalServerError(message string) error {
	return newHTTPError(http.StatusInternalServerError, message)
}

// NewServiceUnavailableError 503 Service Unavailable 에러를 생성합니다.
func NewServiceUnavailableError(message string) error {
	return newHTTPError(http.StatusServiceUnavailable, message)
}

// StatusCode 애플리케이션 에러 타입에 대응하는 HTTP 상태 코드를 반환합니다.
func StatusCode(err error) int {
	switch apperrors.UnderlyingType(err) {
	case apperrors.InvalidInput:
		return http.StatusBadRequest
	case apperrors.NotFound:
		return http.StatusNotFound
	case apperrors.Conflict:
		return http.StatusConflict
	case apperrors.Unavailable, apperrors.Timeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromError 애플리케이션 에러를 HTTP 에러로 변환합니다.
//
// 클라이언트 오류(4xx)는 에러 메시지를 그대로 노출하고,
// 서버 오류(5xx)는 내부 정보가 드러나지 않도록 일반 메시지로 대체합니다.
func FromError(err error) error {
	code := StatusCode(err)

	var message string
	switch {
	case code == http.StatusServiceUnavailable:
		message = constants.ErrMsgServiceUnavailable
	case code >= http.StatusInternalServerError:
		message = constants.ErrMsgInternalServer
	default:
		message = err.Error()
	}

	return newHTTPError(code, message).SetInternal(err)
}
