package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	apperrors "github.com/darkkaiser/msdk-importer/internal/pkg/errors"
	"github.com/darkkaiser/msdk-importer/internal/service/api/constants"
	applog "github.com/darkkaiser/msdk-importer/pkg/log"
	"github.com/labstack/echo/v4"
)

// stackBufferSize 패닉 로그에 기록할 스택 트레이스의 최대 크기입니다.
const stackBufferSize = 4 << 10

// PanicRecovery 핸들러의 패닉을 복구하여 500 응답으로 바꿉니다. http.ErrAbortHandler는 다시 패닉을 일으킵니다.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				err := panicError(r)
				logPanic(c, err)
				c.Error(err)
			}()

			return next(c)
		}
	}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return apperrors.New(apperrors.Internal, fmt.Sprintf("%v", r))
}

func logPanic(c echo.Context, err error) {
	stack := make([]byte, stackBufferSize)
	stack = stack[:runtime.Stack(stack, false)]

	fields := applog.Fields{
		"error":  err,
		"method": c.Request().Method,
		"path":   c.Request().URL.Path,
		"stack":  string(stack),
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		fields["request_id"] = id
	}

	applog.WithComponentAndFields(constants.ComponentMiddleware, fields).Error("API 핸들러 패닉 복구")
}
