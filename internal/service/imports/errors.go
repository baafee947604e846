package imports

import (
	"fmt"

	apperrors "github.com/darkkaiser/msdk-importer/internal/pkg/errors"
)

var (
	// ErrServiceStopped 서비스가 실행 중이 아니어서 요청을 처리할 수 없는 경우입니다.
	ErrServiceStopped = apperrors.New(apperrors.Unavailable, "임포트 서비스가 실행 중이지 않아 요청을 처리할 수 없습니다")

	// ErrQueueFull 대기 중인 임포트 작업 수가 queue_size에 도달한 경우입니다.
	ErrQueueFull = apperrors.New(apperrors.Unavailable, "임포트 대기열이 가득 차 일시적으로 요청을 접수할 수 없습니다")

	// ErrCancelQueueFull 취소 요청 대기열이 가득 찬 경우입니다. 재시도 없이 즉시 반환합니다.
	ErrCancelQueueFull = apperrors.New(apperrors.Unavailable, "작업 취소 대기열이 포화 상태에 도달하여 일시적으로 요청을 접수할 수 없습니다")

	// ErrJobNotFound 존재하지 않거나 이력에서 제거된 작업입니다.
	ErrJobNotFound = apperrors.New(apperrors.NotFound, "임포트 작업을 찾을 수 없습니다")

	// ErrJobFinished 이미 종료된 작업에 대한 취소 요청입니다.
	ErrJobFinished = apperrors.New(apperrors.Conflict, "이미 종료된 임포트 작업입니다")

	// ErrInvalidPath 임포트 요청 경로가 유효하지 않은 경우입니다.
	ErrInvalidPath = apperrors.New(apperrors.InvalidInput, "임포트할 파일 경로가 유효하지 않습니다")
)

func newErrJobNotFound(id JobID) error {
	return apperrors.Wrapf(ErrJobNotFound, apperrors.NotFound, "작업 ID: %s", id)
}

func newErrJobFinished(id JobID, state JobState) error {
	return apperrors.Wrapf(ErrJobFinished, apperrors.Conflict, "작업 ID: %s, 상태: %s", id, state)
}

func newErrInvalidPath(path string, cause error) error {
	return apperrors.Wrapf(fmt.Errorf("%w: %w", ErrInvalidPath, cause), apperrors.InvalidInput, "요청 경로: %s", path)
}
