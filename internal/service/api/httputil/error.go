package httputil

import (
	"errors"
	"net/http"

	"github.com/darkkaiser/msdk-importer/internal/service/api/constants"
	"github.com/darkkaiser/msdk-importer/internal/service/api/model/response"
	applog "github.com/darkkaiser/msdk-importer/pkg/log"
	"github.com/labstack/echo/v4"
)

// ErrorHandler Echo 프레임워크의 전역 HTTP 에러 핸들러입니다.
//
// 모든 에러 응답을 {"result_code", "message"} 형식의 JSON으로 통일하고,
// 5xx 에러는 Error 레벨로, 4xx 에러는 Warn 레벨로 기록합니다.
func ErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := constants.ErrMsgInternalServer

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case response.ErrorResponse:
			message = m.Message
		case string:
			message = m
		}

		// 라우트가 없는 경우 Echo 기본 메시지 대신 한글 메시지를 사용한다.
		if errors.Is(err, echo.ErrNotFound) {
			message = constants.ErrMsgNotFound
		}
	}

	fields := applog.Fields{
		"path":        c.Request().URL.Path,
		"method":      c.Request().Method,
		"status_code": code,
		"error":       err,
		"remote_ip":   c.RealIP(),
		"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
	}

	if code >= http.StatusInternalServerError {
		applog.WithComponentAndFields(constants.ComponentErrorHandler, fields).Error(constants.LogMsgHTTP5xxServerError)
	} else if code >= http.StatusBadRequest {
		applog.WithComponentAndFields(constants.ComponentErrorHandler, fields).Warn(constants.LogMsgHTTP4xxClientError)
	}

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	_ = c.JSON(code, response.ErrorResponse{
		ResultCode: code,
		Message:    message,
	})
}
