package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateFile path가 읽을 수 있는 일반 파일인지 검사합니다.
func ValidateFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("파일 경로가 비어 있습니다")
	}

	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("파일이 존재하지 않습니다 (path=%q)", path)
		}
		return fmt.Errorf("파일 정보를 확인하는 중 오류가 발생했습니다 (path=%q): %w", path, err)
	}

	// 디렉터리, 소켓, 파이프, 디바이스는 모두 거부한다.
	if !info.Mode().IsRegular() {
		return fmt.Errorf("해당 경로는 일반 파일이어야 합니다 (path=%q, mode=%s)", path, info.Mode())
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("파일을 읽을 수 있는 권한이 없습니다 (path=%q): %w", path, err)
	}
	_ = f.Close()

	return nil
}

// ValidateDir path가 읽을 수 있는 디렉터리인지 검사합니다.
func ValidateDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("디렉터리 경로가 비어 있습니다")
	}

	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("디렉터리가 존재하지 않습니다 (path=%q)", path)
		}
		return fmt.Errorf("디렉터리 정보를 확인하는 중 오류가 발생했습니다 (path=%q): %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("해당 경로는 디렉터리가 아닙니다 (path=%q)", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("디렉터리를 읽을 수 있는 권한이 없습니다 (path=%q): %w", path, err)
	}
	_ = f.Close()

	return nil
}

// ResolveWithin path를 절대 경로로 변환하고, baseDir 하위에 있는지 검사합니다.
// baseDir이 비어 있으면 제한 없이 절대 경로만 반환합니다.
// 상대 경로는 baseDir(비어 있으면 현재 디렉터리) 기준으로 해석합니다.
func ResolveWithin(baseDir, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("파일 경로가 비어 있습니다")
	}

	if baseDir == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("절대 경로로 변환할 수 없습니다 (path=%q): %w", path, err)
		}
		return abs, nil
	}

	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("기준 디렉터리를 절대 경로로 변환할 수 없습니다 (base=%q): %w", baseDir, err)
	}

	target := path
	if !filepath.IsAbs(target) {
		target = filepath.Join(base, target)
	}
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("허용된 디렉터리(%s) 밖의 경로입니다 (path=%q)", base, path)
	}

	return target, nil
}
