package middleware

import (
	"io"

	applog "github.com/darkkaiser/msdk-importer/pkg/log"
	"github.com/labstack/gommon/log"
)

// Logger Echo 내부 로그를 임포트 서버의 logrus 로거로 보냅니다. Prefix와 Header 설정은 무시합니다.
type Logger struct {
	*applog.Logger
}

func (l Logger) Output() io.Writer {
	return l.Logger.Out
}

func (l Logger) SetOutput(w io.Writer) {
	l.Logger.SetOutput(w)
}

func (l Logger) Prefix() string {
	return ""
}

func (l Logger) SetPrefix(string) {}

// levels gommon 레벨과 logrus 레벨의 대응 관계입니다.
var levels = []struct {
	echo   log.Lvl
	logrus applog.Level
}{
	{log.DEBUG, applog.DebugLevel},
	{log.INFO, applog.InfoLevel},
	{log.WARN, applog.WarnLevel},
	{log.ERROR, applog.ErrorLevel},
}

// Level Trace는 DEBUG로, Fatal과 Panic은 OFF로 보고합니다.
func (l Logger) Level() log.Lvl {
	current := l.Logger.GetLevel()
	if current == applog.TraceLevel {
		return log.DEBUG
	}
	for _, lv := range levels {
		if lv.logrus == current {
			return lv.echo
		}
	}
	return log.OFF
}

// SetLevel OFF처럼 대응하는 logrus 레벨이 없으면 무시합니다.
func (l Logger) SetLevel(lvl log.Lvl) {
	for _, lv := range levels {
		if lv.echo == lvl {
			l.Logger.SetLevel(lv.logrus)
			return
		}
	}
}

func (l Logger) SetHeader(string) {}

func (l Logger) with(j log.JSON) *applog.Entry {
	return l.Logger.WithFields(applog.Fields(j))
}

func (l Logger) Print(i ...any)                 { l.Logger.Print(i...) }
func (l Logger) Printf(format string, a ...any) { l.Logger.Printf(format, a...) }
func (l Logger) Printj(j log.JSON)              { l.with(j).Print() }

func (l Logger) Debug(i ...any)                 { l.Logger.Debug(i...) }
func (l Logger) Debugf(format string, a ...any) { l.Logger.Debugf(format, a...) }
func (l Logger) Debugj(j log.JSON)              { l.with(j).Debug() }

func (l Logger) Info(i ...any)                 { l.Logger.Info(i...) }
func (l Logger) Infof(format string, a ...any) { l.Logger.Infof(format, a...) }
func (l Logger) Infoj(j log.JSON)              { l.with(j).Info() }

func (l Logger) Warn(i ...any)                 { l.Logger.Warn(i...) }
func (l Logger) Warnf(format string, a ...any) { l.Logger.Warnf(format, a...) }
func (l Logger) Warnj(j log.JSON)              { l.with(j).Warn() }

func (l Logger) Error(i ...any)                 { l.Logger.Error(i...) }
func (l Logger) Errorf(format string, a ...any) { l.Logger.Errorf(format, a...) }
func (l Logger) Errorj(j log.JSON)              { l.with(j).Error() }

func (l Logger) Fatal(i ...any)                 { l.Logger.Fatal(i...) }
func (l Logger) Fatalf(format string, a ...any) { l.Logger.Fatalf(format, a...) }
func (l Logger) Fatalj(j log.JSON)              { l.with(j).Fatal() }

func (l Logger) Panic(i ...any)                 { l.Logger.Panic(i...) }
func (l Logger) Panicf(format string, a ...any) { l.Logger.Panicf(format, a...) }
func (l Logger) Panicj(j log.JSON)              { l.with(j).Panic() }
