package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_파일_생성_및_라우팅(t *testing.T) {
	dir := t.TempDir()
	l := logrus.New()

	c, err := setup(l, Options{
		Name:              "msdk-importer",
		Dir:               dir,
		Level:             TraceLevel,
		EnableCriticalLog: true,
		EnableVerboseLog:  true,
	})
	require.NoError(t, err)

	l.WithField("component", "test").Info("임포트 완료")
	l.Error("임포트 실패")
	l.Debug("포맷 감지")
	require.NoError(t, c.Close())

	read := func(name string) string {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		return string(b)
	}

	mainLog := read("msdk-importer.log")
	assert.Contains(t, mainLog, "임포트 완료")
	assert.Contains(t, mainLog, "임포트 실패")
	assert.NotContains(t, mainLog, "포맷 감지")

	assert.Contains(t, read("msdk-importer.critical.log"), "임포트 실패")
	assert.Contains(t, read("msdk-importer.verbose.log"), "포맷 감지")
}

func TestSetup_잘못된_옵션(t *testing.T) {
	_, err := setup(logrus.New(), Options{})
	assert.ErrorContains(t, err, "유효하지 않은 로그 설정")
}

func TestWithComponentAndFields(t *testing.T) {
	t.Parallel()

	entry := WithComponentAndFields("importer", Fields{"file": "a.mzML", "component": "ignored"})

	assert.Equal(t, "importer", entry.Data["component"])
	assert.Equal(t, "a.mzML", entry.Data["file"])
	assert.Equal(t, "importer", WithComponent("importer").Data["component"])
}
