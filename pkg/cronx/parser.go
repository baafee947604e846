// Package cronx 애플리케이션 전역에서 공유하는 Cron 표현식 규칙을 제공합니다.
package cronx

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// StandardParser 초 단위를 포함한 6필드 형식([초] [분] [시] [일] [월] [요일])과
// @every, @hourly 등의 Descriptor를 허용하는 파서를 반환합니다.
//
//	"0 */1 * * * *" 매분 0초
//	"@every 30s"    30초마다
func StandardParser() cron.Parser {
	return cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// Validate spec이 StandardParser로 해석 가능한지 검사합니다.
func Validate(spec string) error {
	if _, err := StandardParser().Parse(strings.TrimSpace(spec)); err != nil {
		return fmt.Errorf("Cron 표현식 파싱 실패(spec=%q): %w", spec, err)
	}
	return nil
}
