package importer

import (
	"os"

	"github.com/darkkaiser/msdk-importer/internal/importer/format"
	apperrors "github.com/darkkaiser/msdk-importer/internal/pkg/errors"
)

var (
	// ErrDetectionFailed 포맷 감지 도중 I/O 오류가 발생한 경우입니다.
	ErrDetectionFailed = format.ErrDetectionFailed

	// ErrUnsupportedFormat 포맷을 알 수 없거나, 감지된 포맷에 등록된 파서가 없는 경우입니다.
	ErrUnsupportedFormat = apperrors.New(apperrors.InvalidInput, "지원하지 않는 파일 형식입니다")

	// ErrNoResult 파서가 에러 없이 결과도 반환하지 않은 경우입니다.
	ErrNoResult = apperrors.New(apperrors.Internal, "파서가 결과 없이 종료되었습니다")
)

func newErrUnsupportedFormat(name string, tag format.Tag) error {
	return apperrors.Wrapf(ErrUnsupportedFormat, apperrors.InvalidInput, "파일: %s, 감지된 포맷: %s", name, tag)
}

func newErrNoResult(name string, tag format.Tag) error {
	return apperrors.Wrapf(ErrNoResult, apperrors.Internal, "파일: %s, 포맷: %s", name, tag)
}

func newErrInvalidTransition(from, to State) error {
	return apperrors.Newf(apperrors.Internal, "허용되지 않은 상태 전이입니다: %s -> %s", from, to)
}

func newErrOpenFailed(path string, cause error) error {
	if os.IsNotExist(cause) {
		return apperrors.Wrapf(cause, apperrors.NotFound, "파일을 찾을 수 없습니다: %s", path)
	}
	return apperrors.Wrapf(cause, apperrors.System, "파일을 열 수 없습니다: %s", path)
}
