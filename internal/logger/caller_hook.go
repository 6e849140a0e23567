package logger

import (
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// loggerPackage는 이 패키지의 함수 이름 접두사입니다
const loggerPackage = "github.com/assist-by/pricecleaner/internal/logger."

// callerHook은 logrus가 기록한 호출 위치를 이 패키지 밖의 실제 호출 지점으로 바꿉니다.
// Critical 같은 래퍼를 거쳐도 logger.go가 아닌 호출한 파일이 기록됩니다.
type callerHook struct{}

func (h *callerHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire는 logrus와 이 패키지를 벗어난 첫 프레임을 entry.Caller로 설정합니다
func (h *callerHook) Fire(entry *logrus.Entry) error {
	pcs := make([]uintptr, 32)
	// runtime.Callers와 Fire 자신은 건너뜀
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !isLoggerFrame(frame) {
			entry.Caller = &frame
			return nil
		}
		if !more {
			return nil
		}
	}
}

// isLoggerFrame은 logrus 내부 또는 이 패키지의 래퍼 프레임인지 확인합니다.
// 같은 패키지의 테스트 파일은 호출 지점으로 취급합니다.
func isLoggerFrame(frame runtime.Frame) bool {
	if strings.Contains(frame.Function, "sirupsen/logrus") {
		return true
	}
	return strings.HasPrefix(frame.Function, loggerPackage) && !strings.HasSuffix(frame.File, "_test.go")
}
