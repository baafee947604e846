package log

import "github.com/sirupsen/logrus"

// Level logrus.Level의 별칭입니다.
type Level = logrus.Level

const (
	PanicLevel Level = logrus.PanicLevel
	FatalLevel Level = logrus.FatalLevel

	// ErrorLevel 임포트 실패, 서비스 장애 등 관리자의 확인이 필요한 상황입니다.
	ErrorLevel Level = logrus.ErrorLevel

	// WarnLevel 작업은 계속되지만 주의가 필요한 상황입니다. (예: 감시 디렉토리 읽기 실패)
	WarnLevel Level = logrus.WarnLevel

	// InfoLevel 임포트 요청, 완료, 취소 등 정상적인 흐름입니다.
	InfoLevel Level = logrus.InfoLevel

	// DebugLevel 포맷 감지 결과, 상태 전이 등 문제 분석용 정보입니다.
	DebugLevel Level = logrus.DebugLevel

	// TraceLevel 스캔 단위의 진행 상황처럼 가장 세밀한 정보입니다.
	TraceLevel Level = logrus.TraceLevel
)

var AllLevels = logrus.AllLevels

// 호출 측이 logrus를 직접 import하지 않도록 제공하는 별칭
type (
	Fields    = logrus.Fields
	Entry     = logrus.Entry
	Logger    = logrus.Logger
	Formatter = logrus.Formatter
)
