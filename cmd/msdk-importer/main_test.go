package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/darkkaiser/msdk-importer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureDir = "../../internal/importer/xmlparser/testdata"

func testAppConfig(allowed ...string) *config.AppConfig {
	return &config.AppConfig{
		Detector: config.DetectorConfig{PrefixSize: 4096},
		Import: config.ImportConfig{
			MaxConcurrent:  1,
			QueueSize:      1,
			HistorySize:    1,
			AllowedFormats: allowed,
		},
	}
}

// =============================================================================
// 메타데이터 검증
// =============================================================================

func TestAppMetadata(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "msdk-importer", config.AppName)
	assert.NotContains(t, config.AppName, " ", "애플리케이션 이름에는 공백이 포함될 수 없습니다")
	assert.Equal(t, "msdk-importer.json", config.DefaultFilename)
	assert.Contains(t, banner, "%s", "배너에는 버전 출력 자리가 있어야 합니다")
}

// =============================================================================
// 실행 인자 처리
// =============================================================================

func TestRun_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		expected int
	}{
		{"알 수 없는 플래그", []string{"-unknown"}, 2},
		{"설정 파일 없음", []string{"-config", filepath.Join(t.TempDir(), "missing.json")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			assert.Equal(t, tt.expected, run(tt.args, &out))
			assert.Empty(t, out.String(), "설정 로드 전에는 배너가 출력되지 않아야 합니다")
		})
	}
}

// =============================================================================
// 일회성 임포트 모드
// =============================================================================

func TestRunOneShot_Success(t *testing.T) {
	t.Parallel()

	files := []string{
		filepath.Join(fixtureDir, "small.mzML"),
		filepath.Join(fixtureDir, "small.mzXML"),
		filepath.Join(fixtureDir, "small.mzData"),
	}

	var out bytes.Buffer
	code := runOneShot(context.Background(), testAppConfig(), files, &out)

	assert.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "OK "), lines[0])
	assert.Contains(t, lines[0], "[mzML] scans=3")
	assert.Contains(t, lines[1], "[mzXML] scans=3")
	assert.Contains(t, lines[2], "[mzData] scans=2")
}

func TestRunOneShot_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	unknown := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(unknown, []byte("just some text"), 0o644))

	t.Run("지원하지 않는 파일과 없는 파일", func(t *testing.T) {
		t.Parallel()

		files := []string{
			filepath.Join(fixtureDir, "small.mzML"),
			unknown,
			filepath.Join(dir, "missing.mzML"),
		}

		var out bytes.Buffer
		code := runOneShot(context.Background(), testAppConfig(), files, &out)

		assert.Equal(t, 1, code)

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "OK "), lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "FAILED "), lines[1])
		assert.Contains(t, lines[1], "(invalid_input)")
		assert.Contains(t, lines[2], "(not_found)")
	})

	t.Run("허용되지 않은 포맷", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		code := runOneShot(context.Background(), testAppConfig("mzML"), []string{filepath.Join(fixtureDir, "small.mzXML")}, &out)

		assert.Equal(t, 1, code)
		assert.Contains(t, out.String(), "[mzXML] (invalid_input)")
	})

	t.Run("알 수 없는 허용 포맷 설정", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		code := runOneShot(context.Background(), testAppConfig("wiff"), []string{filepath.Join(fixtureDir, "small.mzML")}, &out)

		assert.Equal(t, 1, code)
		assert.True(t, strings.HasPrefix(out.String(), "FAILED "))
	})

	t.Run("종료 신호 이후의 파일은 건너뜀", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var out bytes.Buffer
		code := runOneShot(ctx, testAppConfig(), []string{filepath.Join(fixtureDir, "small.mzML")}, &out)

		assert.Equal(t, 1, code)
		assert.Equal(t, "SKIPPED  "+filepath.Join(fixtureDir, "small.mzML")+"\n", out.String())
	})
}
