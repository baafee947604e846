package xmlparser

import (
	"fmt"

	apperrors "github.com/darkkaiser/msdk-importer/internal/pkg/errors"
)

var (
	// ErrMalformedDocument 문서 구조를 해석할 수 없는 경우입니다. 원인 에러(xml.SyntaxError 등)는 체인에 보존됩니다.
	ErrMalformedDocument = apperrors.New(apperrors.ParsingFailed, "문서 구조를 해석할 수 없습니다")

	// ErrUnsupportedTag 이 파서가 처리하지 않는 포맷으로 생성을 요청한 경우입니다.
	ErrUnsupportedTag = apperrors.New(apperrors.InvalidInput, "XML 파서가 지원하지 않는 포맷입니다")
)

func newErrMalformedDocument(name string, cause error) error {
	return apperrors.Wrapf(fmt.Errorf("%w: %w", ErrMalformedDocument, cause), apperrors.ParsingFailed, "파일(%s)", name)
}

func newErrMalformedf(name string, format string, args ...any) error {
	return newErrMalformedDocument(name, fmt.Errorf(format, args...))
}

func newErrUnsupportedTag(tag fmt.Stringer) error {
	return apperrors.Wrapf(ErrUnsupportedTag, apperrors.InvalidInput, "포맷: %s", tag)
}

func newErrSourceIO(name string, cause error) error {
	return apperrors.Wrapf(cause, apperrors.System, "파일(%s)을 읽을 수 없습니다", name)
}
