package config

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/darkkaiser/msdk-importer/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "msdk-importer"

	// DefaultFilename 실행 인자로 설정 파일 경로가 주어지지 않았을 때 탐색하는 기본 설정 파일명입니다.
	DefaultFilename = AppName + ".json"

	// envPrefix 설정을 덮어쓰는 환경 변수의 접두사입니다.
	envPrefix = "MSDK_"
)

// ------------------------------------------------------------------------------------------------
// 기본값
// ------------------------------------------------------------------------------------------------

const (
	DefaultPrefixSize    = 4096
	DefaultMaxConcurrent = 2
	DefaultQueueSize     = 32
	DefaultHistorySize   = 100
	DefaultWatchTimeSpec = "0 */1 * * * *"
	DefaultListenPort    = 2480
	DefaultRateLimit     = 20.0
	DefaultRateBurst     = 40
	DefaultBodyLimit     = "64K"
)

// newDefaultConfig 모든 항목이 기본값으로 채워진 설정을 생성합니다. 가장 낮은 우선순위로 로드됩니다.
func newDefaultConfig() *AppConfig {
	return &AppConfig{
		Debug: false,
		Detector: DetectorConfig{
			PrefixSize: DefaultPrefixSize,
		},
		Import: ImportConfig{
			MaxConcurrent:  DefaultMaxConcurrent,
			QueueSize:      DefaultQueueSize,
			HistorySize:    DefaultHistorySize,
			AllowedFormats: []string{},
		},
		Watch: WatchConfig{
			TimeSpec:   DefaultWatchTimeSpec,
			Extensions: []string{},
		},
		API: APIConfig{
			ListenPort: DefaultListenPort,
			RateLimit:  DefaultRateLimit,
			RateBurst:  DefaultRateBurst,
			BodyLimit:  DefaultBodyLimit,
		},
	}
}

// normalizeEnvKey 환경 변수 이름을 설정 키로 변환합니다.
// 접두사를 제거하고 소문자로 바꾼 뒤, 이중 언더스코어(__)를 계층 구분자(.)로 변환합니다.
//
// 예: MSDK_IMPORT__MAX_CONCURRENT -> import.max_concurrent
func normalizeEnvKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 기본값, 설정 파일, 환경 변수 순으로 설정을 병합하여 AppConfig 객체를 생성합니다.
// 뒤에 로드된 값이 앞의 값을 덮어씁니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	if err := k.Load(structs.Provider(newDefaultConfig(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.NotFound, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위)
	if err := k.Load(env.Provider(envPrefix, ".", normalizeEnvKey), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (정의되지 않은 키는 에러)
	var appConfig AppConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           &appConfig,
			TagName:          "json",
		},
	}
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다: '%s'", filename))
	}

	// 5. 유효성 검사
	if err := appConfig.validate(newValidator()); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}
