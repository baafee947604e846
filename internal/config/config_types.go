package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
)

// AppConfig 애플리케이션의 모든 설정을 포함하는 최상위 구조체
type AppConfig struct {
	Debug    bool           `json:"debug"`
	Detector DetectorConfig `json:"detector"`
	Import   ImportConfig   `json:"import"`
	Watch    WatchConfig    `json:"watch"`
	API      APIConfig      `json:"api"`
}

// validate 설정 로드 직후 각 항목의 정합성을 검증합니다.
func (c *AppConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c.Detector, "포맷 감지(detector)"); err != nil {
		return err
	}
	if err := checkStruct(v, c.Import, "임포트(import)"); err != nil {
		return err
	}
	if err := checkStruct(v, c.Watch, "디렉터리 감시(watch)"); err != nil {
		return err
	}
	if err := checkStruct(v, c.API, "REST API(api)"); err != nil {
		return err
	}

	return nil
}

// VerifyRecommendations 운영 안정성을 위해 권장되는 설정 준수 여부를 진단합니다.
// 에러를 발생시키지는 않으며, 잠재적 위험 요소에 대한 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	warnings = append(warnings, c.Import.VerifyRecommendations()...)
	warnings = append(warnings, c.Watch.VerifyRecommendations()...)
	warnings = append(warnings, c.API.VerifyRecommendations()...)

	return warnings
}

// DetectorConfig 파일 포맷 감지 설정
type DetectorConfig struct {
	PrefixSize int `json:"prefix_size" validate:"min=512,max=1048576"`
}

// ImportConfig 임포트 작업의 동시성, 이력, 제한 시간 설정
type ImportConfig struct {
	// BaseDir 설정 시 임포트 요청 경로는 이 디렉터리 안으로 해석됩니다.
	BaseDir        string        `json:"base_dir" validate:"omitempty,existing_dir"`
	MaxConcurrent  int           `json:"max_concurrent" validate:"min=1,max=64"`
	QueueSize      int           `json:"queue_size" validate:"min=1,max=1024"`
	HistorySize    int           `json:"history_size" validate:"min=1,max=10000"`
	Timeout        time.Duration `json:"timeout" validate:"min=0"`
	AllowedFormats []string      `json:"allowed_formats" validate:"unique,dive,format_name"`
}

func (c *ImportConfig) VerifyRecommendations() []string {
	var warnings []string

	if n := runtime.NumCPU(); c.MaxConcurrent > n {
		warnings = append(warnings, fmt.Sprintf("동시 임포트 수(max_concurrent: %d)가 CPU 코어 수(%d)보다 많습니다. 디스크 I/O 경합으로 전체 처리 시간이 늘어날 수 있습니다", c.MaxConcurrent, n))
	}

	if c.BaseDir == "" {
		warnings = append(warnings, "임포트 기준 디렉터리(base_dir)가 설정되지 않았습니다. REST API를 통해 임의의 경로가 요청될 수 있습니다")
	}

	return warnings
}

// WatchConfig 수신 디렉터리 주기 감시 설정
type WatchConfig struct {
	Enabled    bool     `json:"enabled"`
	Directory  string   `json:"directory" validate:"required_if=Enabled true,omitempty,existing_dir"`
	TimeSpec   string   `json:"time_spec" validate:"required_if=Enabled true,omitempty,cron_spec"`
	Extensions []string `json:"extensions" validate:"dive,startswith=."`
}

func (c *WatchConfig) VerifyRecommendations() []string {
	var warnings []string

	if c.Enabled && len(c.Extensions) == 0 {
		warnings = append(warnings, fmt.Sprintf("감시 디렉터리('%s')에 확장자 필터(extensions)가 없습니다. 모든 파일이 임포트 대상이 됩니다", c.Directory))
	}

	return warnings
}

// APIConfig REST API 서버 설정
type APIConfig struct {
	Enabled    bool    `json:"enabled"`
	ListenPort int     `json:"listen_port" validate:"min=1,max=65535"`
	RateLimit  float64 `json:"rate_limit" validate:"gt=0"`
	RateBurst  int     `json:"rate_burst" validate:"gt=0"`
	BodyLimit  string  `json:"body_limit" validate:"byte_size"`
}

func (c *APIConfig) VerifyRecommendations() []string {
	var warnings []string

	// 시스템 예약 포트(1024 미만) 사용 경고
	if c.Enabled && c.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.ListenPort))
	}

	return warnings
}
