package format

import (
	"fmt"

	apperrors "github.com/darkkaiser/msdk-importer/internal/pkg/errors"
)

var (
	// ErrDetectionFailed 포맷 감지를 위한 헤더를 읽는 도중 I/O 오류가 발생한 경우입니다.
	ErrDetectionFailed = apperrors.New(apperrors.System, "파일 포맷 감지에 실패했습니다")

	// ErrInvalidEntry 레지스트리 항목이 유효하지 않은 경우입니다.
	ErrInvalidEntry = apperrors.New(apperrors.InvalidInput, "유효하지 않은 포맷 등록 정보입니다")

	// ErrDuplicateFormat 동일한 포맷이 두 번 등록된 경우입니다.
	ErrDuplicateFormat = apperrors.New(apperrors.Conflict, "이미 등록된 포맷입니다")
)

func newErrDetectionFailed(name string, cause error) error {
	return apperrors.Wrapf(fmt.Errorf("%w: %w", ErrDetectionFailed, cause), apperrors.System, "파일(%s)의 헤더를 읽을 수 없습니다", name)
}

func newErrInvalidEntry(format string, args ...any) error {
	return apperrors.Wrapf(ErrInvalidEntry, apperrors.InvalidInput, format, args...)
}

func newErrDuplicateFormat(tag Tag) error {
	return apperrors.Wrapf(ErrDuplicateFormat, apperrors.Conflict, "포맷: %s", tag)
}
