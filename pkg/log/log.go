// Package log logrus 기반의 애플리케이션 공용 로거를 제공합니다.
//
// 각 패키지는 component 이름을 상수로 선언하고 WithComponent / WithComponentAndFields로
// 로그 Entry를 생성합니다.
//
//	const component = "importer.dispatcher"
//	applog.WithComponentAndFields(component, applog.Fields{"file": name}).Info("임포트 시작")
package log

import "github.com/sirupsen/logrus"

// StandardLogger 전역 logrus Logger를 반환합니다.
func StandardLogger() *Logger {
	return logrus.StandardLogger()
}

// WithComponent component 필드가 설정된 Entry를 반환합니다.
func WithComponent(component string) *Entry {
	return logrus.WithField("component", component)
}

// WithComponentAndFields component 필드와 fields를 함께 설정한 Entry를 반환합니다.
// fields에 component 키가 있더라도 인자로 전달된 component가 우선합니다.
func WithComponentAndFields(component string, fields Fields) *Entry {
	merged := make(Fields, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["component"] = component

	return logrus.WithFields(merged)
}

// SetDebugMode 디버그 모드이면 Trace, 아니면 Info 레벨로 전환합니다.
func SetDebugMode(debug bool) {
	if debug {
		logrus.SetLevel(TraceLevel)
	} else {
		logrus.SetLevel(InfoLevel)
	}
}

// IsLevelEnabled 현재 설정에서 level의 로그가 기록되는지 여부를 반환합니다.
func IsLevelEnabled(level Level) bool {
	return logrus.IsLevelEnabled(level)
}
