package xmlparser

import (
	"fmt"
	"strconv"
	"strings"
)

// parseDuration mzXML의 retentionTime 속성(xs:duration, 예: "PT1.5S", "PT2M3.25S")을 초 단위로 변환합니다.
// 날짜 부분(Y, M, D)은 질량분석 런에서 사용되지 않으므로 지원하지 않습니다.
func parseDuration(s string) (float64, error) {
	s = strings.TrimSpace(s)

	rest, ok := strings.CutPrefix(s, "PT")
	if !ok || rest == "" {
		return 0, fmt.Errorf("지원하지 않는 duration 형식입니다: %q", s)
	}

	var total float64
	for rest != "" {
		i := strings.IndexAny(rest, "HMS")
		if i <= 0 {
			return 0, fmt.Errorf("지원하지 않는 duration 형식입니다: %q", s)
		}

		v, err := strconv.ParseFloat(rest[:i], 64)
		if err != nil {
			return 0, fmt.Errorf("duration 값을 해석할 수 없습니다: %q: %w", s, err)
		}

		switch rest[i] {
		case 'H':
			total += v * 3600
		case 'M':
			total += v * 60
		case 'S':
			total += v
		}
		rest = rest[i+1:]
	}

	return total, nil
}
