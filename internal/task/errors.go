package task

import (
	"context"
	"errors"

	apperrors "github.com/darkkaiser/msdk-importer/internal/pkg/errors"
)

var (
	// ErrCanceled 취소 요청으로 작업이 종료되었음을 나타냅니다. 실패가 아닌 정상 종료 상태로 취급합니다.
	ErrCanceled = apperrors.New(apperrors.Canceled, "작업이 취소되었습니다")

	// ErrAlreadyExecuted 이미 실행된 작업의 Execute를 다시 호출한 경우 반환됩니다.
	ErrAlreadyExecuted = apperrors.New(apperrors.Conflict, "이미 실행된 작업입니다")
)

// IsCanceled err가 취소로 인한 종료인지 확인합니다.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled) || apperrors.Is(err, apperrors.Canceled)
}

func newErrPanic(name string, r any) error {
	return apperrors.Newf(apperrors.Internal, "작업(%s) 실행 도중 panic이 발생했습니다: %v", name, r)
}

func newErrTimeout(cause error) error {
	return apperrors.Wrap(cause, apperrors.Timeout, "작업 제한 시간을 초과했습니다")
}
