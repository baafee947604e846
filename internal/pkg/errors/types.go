package errors

import (
	"strconv"

	"github.com/iancoleman/strcase"
)

// ErrorType 에러의 분류입니다.
type ErrorType int

const (
	// Unknown 분류되지 않은 에러입니다.
	Unknown ErrorType = iota

	// Internal 내부 로직 오류(버그)입니다. 허용되지 않은 상태 전이, 패닉 복구 등.
	Internal

	// System 파일 시스템, 네트워크 등 인프라 수준의 장애입니다.
	System

	// Unauthorized 인증 실패입니다.
	Unauthorized

	// Forbidden 접근 권한이 없습니다.
	Forbidden

	// InvalidInput 입력값 또는 설정값이 유효하지 않습니다.
	InvalidInput

	// Conflict 현재 상태와 충돌하는 요청입니다.
	Conflict

	// NotFound 대상을 찾을 수 없습니다.
	NotFound

	// ExecutionFailed 작업 실행에 실패했습니다.
	ExecutionFailed

	// ParsingFailed 데이터 해석에 실패했습니다.
	ParsingFailed

	// Timeout 제한 시간을 초과했습니다.
	Timeout

	// Unavailable 일시적으로 사용할 수 없습니다.
	Unavailable

	// Canceled 호출자의 요청으로 작업이 중단되었습니다.
	Canceled
)

var errorTypeNames = [...]string{
	Unknown:         "Unknown",
	Internal:        "Internal",
	System:          "System",
	Unauthorized:    "Unauthorized",
	Forbidden:       "Forbidden",
	InvalidInput:    "InvalidInput",
	Conflict:        "Conflict",
	NotFound:        "NotFound",
	ExecutionFailed: "ExecutionFailed",
	ParsingFailed:   "ParsingFailed",
	Timeout:         "Timeout",
	Unavailable:     "Unavailable",
	Canceled:        "Canceled",
}

func (t ErrorType) String() string {
	if t < 0 || int(t) >= len(errorTypeNames) {
		return "ErrorType(" + strconv.Itoa(int(t)) + ")"
	}
	return errorTypeNames[t]
}

// Code API 응답 등 외부에 노출할 때 사용하는 snake_case 이름을 반환합니다. (예: "invalid_input")
func (t ErrorType) Code() string {
	return strcase.ToSnake(t.String())
}
