// Package rawdata 임포트 결과로 생성되는 질량분석 원시 데이터의 메모리 표현입니다.
package rawdata

import (
	"math"
	"slices"
)

// RawDataFile 하나의 원시 데이터 파일에서 읽어들인 스캔 목록입니다.
type RawDataFile struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Format string `json:"format"`
	Scans  []Scan `json:"scans"`
}

// Scan 스펙트럼 하나의 헤더 정보입니다.
type Scan struct {
	Number        int     `json:"number"`
	ID            string  `json:"id,omitempty"`
	MSLevel       int     `json:"ms_level"`
	RetentionTime float64 `json:"retention_time"` // 초 단위
	DataPoints    int     `json:"data_points"`
}

// ScanCount 스캔 개수를 반환합니다.
func (f *RawDataFile) ScanCount() int {
	return len(f.Scans)
}

// MSLevels 파일에 포함된 MS 레벨을 오름차순으로 중복 없이 반환합니다.
func (f *RawDataFile) MSLevels() []int {
	levels := make([]int, 0, 2)
	for _, s := range f.Scans {
		if !slices.Contains(levels, s.MSLevel) {
			levels = append(levels, s.MSLevel)
		}
	}
	slices.Sort(levels)

	return levels
}

// RetentionTimeRange 스캔들의 머무름 시간 범위를 반환합니다. 스캔이 없으면 ok는 false입니다.
func (f *RawDataFile) RetentionTimeRange() (lo, hi float64, ok bool) {
	if len(f.Scans) == 0 {
		return 0, 0, false
	}

	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range f.Scans {
		lo = min(lo, s.RetentionTime)
		hi = max(hi, s.RetentionTime)
	}

	return lo, hi, true
}

// ScansByLevel level에 해당하는 스캔만 반환합니다.
func (f *RawDataFile) ScansByLevel(level int) []Scan {
	var scans []Scan
	for _, s := range f.Scans {
		if s.MSLevel == level {
			scans = append(scans, s)
		}
	}
	return scans
}
