package format

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// Tag 지원하는 원시 데이터 컨테이너 포맷의 식별자입니다.
type Tag int

const (
	// Unknown 어떤 시그니처와도 일치하지 않는 경우입니다. 에러가 아닌 정상적인 감지 결과입니다.
	Unknown Tag = iota
	MzML
	MzXML
	MzData
	NetCDF
	ThermoRAW
	MzTab
)

var tagNames = [...]string{
	Unknown:   "Unknown",
	MzML:      "mzML",
	MzXML:     "mzXML",
	MzData:    "mzData",
	NetCDF:    "NetCDF",
	ThermoRAW: "ThermoRAW",
	MzTab:     "mzTab",
}

func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return tagNames[Unknown]
	}
	return tagNames[t]
}

func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Slug 파일명이나 URL에 사용할 수 있는 소문자 kebab-case 이름을 반환합니다. (예: "thermo-raw")
func (t Tag) Slug() string {
	return strcase.ToKebab(t.String())
}

// ParseTag 이름(대소문자 무시)으로 Tag를 찾습니다.
func ParseTag(name string) (Tag, bool) {
	name = strings.TrimSpace(name)
	for i, n := range tagNames {
		if Tag(i) != Unknown && strings.EqualFold(n, name) {
			return Tag(i), true
		}
	}
	return Unknown, false
}
