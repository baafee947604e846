// Package strutil 로그와 출력 메시지에 사용하는 문자열 유틸리티를 제공합니다.
package strutil

import (
	"strconv"
	"strings"
)

// Integer 모든 정수 타입을 포괄하는 제네릭 인터페이스
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// FormatCommas 정수를 천 단위 구분 기호(,)가 포함된 문자열로 변환합니다.
// 예: 1234567 -> "1,234,567"
func FormatCommas[T Integer](num T) string {
	var str string
	if num < 0 {
		str = strconv.FormatInt(int64(num), 10)
	} else {
		str = strconv.FormatUint(uint64(num), 10)
	}

	sign := ""
	if strings.HasPrefix(str, "-") {
		sign, str = "-", str[1:]
	}

	if len(str) <= 3 {
		return sign + str
	}

	var b strings.Builder
	b.Grow(len(sign) + len(str) + (len(str)-1)/3)
	b.WriteString(sign)

	first := len(str) % 3
	if first == 0 {
		first = 3
	}
	b.WriteString(str[:first])

	for i := first; i < len(str); i += 3 {
		b.WriteByte(',')
		b.WriteString(str[i : i+3])
	}

	return b.String()
}

// MaskSensitiveData 토큰, 키 등의 민감 정보를 로그에 남길 수 있도록 마스킹합니다.
//
//   - 3자 이하: 전체 마스킹
//   - 12자 이하: 앞 4자만 표시
//   - 그 외: 앞 4자와 뒤 4자만 표시
func MaskSensitiveData(data string) string {
	switch {
	case data == "":
		return ""
	case len(data) <= 3:
		return "***"
	case len(data) <= 12:
		return data[:4] + "***"
	default:
		return data[:4] + "***" + data[len(data)-4:]
	}
}
