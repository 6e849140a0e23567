package domain

import (
	"fmt"
	"time"
)

// TimeInterval은 캔들 차트의 시간 간격을 정의합니다
type TimeInterval string

const (
	Interval1m  TimeInterval = "1m"
	Interval3m  TimeInterval = "3m"
	Interval5m  TimeInterval = "5m"
	Interval15m TimeInterval = "15m"
	Interval30m TimeInterval = "30m"
	Interval1h  TimeInterval = "1h"
	Interval2h  TimeInterval = "2h"
	Interval4h  TimeInterval = "4h"
	Interval6h  TimeInterval = "6h"
	Interval8h  TimeInterval = "8h"
	Interval12h TimeInterval = "12h"
	Interval1d  TimeInterval = "1d"
)

var intervalDurations = map[TimeInterval]time.Duration{
	Interval1m:  time.Minute,
	Interval3m:  3 * time.Minute,
	Interval5m:  5 * time.Minute,
	Interval15m: 15 * time.Minute,
	Interval30m: 30 * time.Minute,
	Interval1h:  time.Hour,
	Interval2h:  2 * time.Hour,
	Interval4h:  4 * time.Hour,
	Interval6h:  6 * time.Hour,
	Interval8h:  8 * time.Hour,
	Interval12h: 12 * time.Hour,
	Interval1d:  24 * time.Hour,
}

// ParseTimeInterval은 문자열을 TimeInterval로 변환합니다
func ParseTimeInterval(s string) (TimeInterval, error) {
	interval := TimeInterval(s)
	if _, ok := intervalDurations[interval]; !ok {
		return "", fmt.Errorf("지원하지 않는 시간 간격입니다: %s", s)
	}
	return interval, nil
}

// Duration은 시간 간격의 길이를 반환합니다. 알 수 없는 간격이면 0입니다.
func (i TimeInterval) Duration() time.Duration {
	return intervalDurations[i]
}
