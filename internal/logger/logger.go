package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// SeverityCritical은 치명적 로그에 붙는 severity 필드 값입니다
const SeverityCritical = "critical"

// Fields는 구조화 로그 필드입니다
type Fields map[string]interface{}

// Log는 logrus.Logger를 감쌉니다
type Log struct {
	*logrus.Logger
}

// Entry는 logrus.Entry를 감쌉니다
type Entry struct {
	*logrus.Entry
}

// New는 기본 설정(info, text, stdout)의 로거를 생성합니다
func New() *Log {
	l := &Log{Logger: logrus.New()}
	l.AddHook(&callerHook{})
	if err := l.Configure("info", "text", "stdout", 0); err != nil {
		// 기본값은 항상 유효합니다
		panic(err)
	}
	return l
}

// NewWithOutput은 지정한 writer로 JSON 로그를 남기는 로거를 생성합니다 (테스트용)
func NewWithOutput(w io.Writer) *Log {
	l := &Log{Logger: logrus.New()}
	l.AddHook(&callerHook{})
	l.SetReportCaller(true)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat:  time.RFC3339Nano,
		CallerPrettyfier: callerPrettyfier,
	})
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	return l
}

// Configure는 레벨, 포맷, 출력 대상을 설정합니다.
// output이 파일 경로이고 maxAge(일)가 0보다 크면 lumberjack으로 로테이션합니다.
func (l *Log) Configure(level, format, output string, maxAge int) error {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("잘못된 로그 레벨 '%s': %w", level, err)
	}
	l.SetLevel(lvl)
	l.SetReportCaller(true)

	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
			CallerPrettyfier: callerPrettyfier,
		})
	case "text":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			TimestampFormat:  time.RFC3339,
			CallerPrettyfier: callerPrettyfier,
		})
	default:
		return fmt.Errorf("잘못된 로그 포맷 '%s'", format)
	}

	switch output {
	case "stdout", "":
		l.SetOutput(os.Stdout)
	case "stderr":
		l.SetOutput(os.Stderr)
	default:
		if maxAge > 0 {
			l.SetOutput(&lumberjack.Logger{
				Filename: output,
				MaxAge:   maxAge,
				MaxSize:  100,
				Compress: true,
			})
		} else {
			file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
			if err != nil {
				return fmt.Errorf("로그 파일 열기 실패 '%s': %w", output, err)
			}
			l.SetOutput(file)
		}
	}

	return nil
}

// callerPrettyfier는 호출 위치를 "파일명:줄" 형태로 표시합니다
func callerPrettyfier(f *runtime.Frame) (string, string) {
	return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
}

func (l *Log) WithComponent(component string) *Entry {
	return &Entry{Entry: l.Logger.WithField("component", component)}
}

func (l *Log) WithFields(fields Fields) *Entry {
	return &Entry{Entry: l.Logger.WithFields(logrus.Fields(fields))}
}

func (l *Log) WithError(err error) *Entry {
	return &Entry{Entry: l.Logger.WithError(err)}
}

func (e *Entry) WithComponent(component string) *Entry {
	return &Entry{Entry: e.Entry.WithField("component", component)}
}

func (e *Entry) WithFields(fields Fields) *Entry {
	return &Entry{Entry: e.Entry.WithFields(logrus.Fields(fields))}
}

func (e *Entry) WithError(err error) *Entry {
	return &Entry{Entry: e.Entry.WithError(err)}
}

// Critical은 severity=critical 필드를 붙여 error 레벨로 기록합니다.
// logrus의 Fatal/Panic과 달리 프로세스를 종료하지 않습니다.
func (e *Entry) Critical(args ...interface{}) {
	e.Entry.WithField("severity", SeverityCritical).Error(args...)
}

// Discard는 아무것도 출력하지 않는 Entry를 반환합니다
func Discard() *Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Entry{Entry: logrus.NewEntry(l)}
}
