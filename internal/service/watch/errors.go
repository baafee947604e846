package watch

import apperrors "github.com/darkkaiser/msdk-importer/internal/pkg/errors"

var (
	// ErrSubmitterNotInitialized 임포트 요청을 전달할 Submitter가 주입되지 않은 경우입니다.
	ErrSubmitterNotInitialized = apperrors.New(apperrors.Internal, "Submitter 객체가 초기화되지 않았습니다")
)

func newErrInvalidTimeSpec(spec string, cause error) error {
	return apperrors.Wrapf(cause, apperrors.InvalidInput, "디렉터리 감시 주기를 등록할 수 없습니다 (time_spec: %s)", spec)
}
