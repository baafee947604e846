package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/darkkaiser/msdk-importer/internal/importer/format"
	apperrors "github.com/darkkaiser/msdk-importer/internal/pkg/errors"
	"github.com/darkkaiser/msdk-importer/pkg/cronx"
	"github.com/darkkaiser/msdk-importer/pkg/validation"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/bytes"
)

// newValidator 새로운 Validator 인스턴스를 생성하고 커스텀 유효성 검사 함수를 등록합니다.
func newValidator() *validator.Validate {
	v := validator.New()

	// 검증 에러 메시지에 Go 구조체 필드명 대신 JSON 이름을 사용합니다.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	custom := map[string]validator.Func{
		"existing_dir": validateExistingDir,
		"cron_spec":    validateCronSpec,
		"format_name":  validateFormatName,
		"byte_size":    validateByteSize,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("초기화 치명적 오류: '%s' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", tag, err))
		}
	}

	return v
}

func validateExistingDir(fl validator.FieldLevel) bool {
	return validation.ValidateDir(fl.Field().String()) == nil
}

func validateCronSpec(fl validator.FieldLevel) bool {
	return cronx.Validate(fl.Field().String()) == nil
}

func validateFormatName(fl validator.FieldLevel) bool {
	_, ok := format.ParseTag(fl.Field().String())
	return ok
}

// validateByteSize echo의 BodyLimit 미들웨어가 해석할 수 있는 크기 문자열(예: 64K, 2M)인지 검증합니다.
func validateByteSize(fl validator.FieldLevel) bool {
	n, err := bytes.Parse(fl.Field().String())
	return err == nil && n > 0
}

// checkStruct 구조체의 유효성을 태그 규칙에 따라 검증하고, 첫 번째 오류를 사용자 친화적인 에러로 변환합니다.
func checkStruct(v *validator.Validate, s any, contextName string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("%s 유효성 검증에 실패했습니다", contextName))
	}

	firstErr := validationErrors[0]

	// 필드별 커스텀 에러 처리
	switch firstErr.StructField() {
	case "PrefixSize":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("포맷 감지 버퍼 크기(prefix_size)는 512에서 1048576 사이의 값이어야 합니다: '%v'", firstErr.Value()))
	case "MaxConcurrent":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("동시 임포트 수(max_concurrent)는 1에서 64 사이의 값이어야 합니다: '%v'", firstErr.Value()))
	case "QueueSize":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("임포트 대기열 크기(queue_size)는 1에서 1024 사이의 값이어야 합니다: '%v'", firstErr.Value()))
	case "HistorySize":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("임포트 이력 보관 수(history_size)는 1에서 10000 사이의 값이어야 합니다: '%v'", firstErr.Value()))
	case "Timeout":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("임포트 제한 시간(timeout)은 0 이상이어야 합니다: '%v'", firstErr.Value()))
	case "ListenPort":
		return apperrors.New(apperrors.InvalidInput, "웹 서비스 포트(listen_port)는 1에서 65535 사이의 값이어야 합니다")
	case "Directory":
		if firstErr.Tag() == "required_if" {
			return apperrors.New(apperrors.InvalidInput, "디렉터리 감시 활성화 시 감시 디렉터리(directory)는 필수입니다")
		}
	case "TimeSpec":
		if firstErr.Tag() == "required_if" {
			return apperrors.New(apperrors.InvalidInput, "디렉터리 감시 활성화 시 감시 주기(time_spec)는 필수입니다")
		}
	}

	// 태그별 커스텀 에러 처리
	switch firstErr.Tag() {
	case "existing_dir":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 %s 디렉터리를 찾을 수 없습니다: '%v'", contextName, firstErr.Field(), firstErr.Value()))
	case "cron_spec":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("Cron 표현식 형식이 올바르지 않습니다: '%v' (형식: 초 분 시 일 월 요일, 예: 0 */5 * * * *)", firstErr.Value()))
	case "format_name":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지원하지 않는 파일 형식 이름입니다: '%v' (예: mzML, mzXML, mzData)", firstErr.Value()))
	case "byte_size":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("요청 본문 크기 제한(body_limit) 형식이 올바르지 않습니다: '%v' (예: 64K, 2M)", firstErr.Value()))
	case "unique":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 %s 목록에 중복된 값이 존재합니다", contextName, firstErr.Field()))
	}

	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 설정이 올바르지 않습니다: %s (조건: %s)", contextName, firstErr.Field(), firstErr.Tag()))
}
