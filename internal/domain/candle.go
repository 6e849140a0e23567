package domain

import "time"

// Candle은 캔들 데이터를 표현합니다
type Candle struct {
	OpenTime  time.Time    // 캔들 시작 시간 (관측 시각)
	CloseTime time.Time    // 캔들 종료 시간
	Open      float64      // 시가
	High      float64      // 고가
	Low       float64      // 저가
	Close     float64      // 종가 (관측 가격)
	Volume    float64      // 거래량
	Symbol    string       // 심볼 (예: BTCUSDT)
	Interval  TimeInterval // 시간 간격 (예: 15m, 1h)
}

// CandleList는 캔들 데이터 목록입니다.
// Remove* 메서드는 항상 새 목록을 반환하며 원본을 수정하지 않습니다.
type CandleList []Candle

// GetLastCandle은 가장 최근 캔들을 반환합니다
func (cl CandleList) GetLastCandle() (Candle, bool) {
	if len(cl) == 0 {
		return Candle{}, false
	}
	return cl[len(cl)-1], true
}

// Clone은 목록의 얕은 복사본을 반환합니다
func (cl CandleList) Clone() CandleList {
	if cl == nil {
		return nil
	}
	out := make(CandleList, len(cl))
	copy(out, cl)
	return out
}

// RemoveFutureData는 now 이후 시각의 캔들을 제거합니다.
// 캔들 시간과 now가 같은 기준(로컬 타임존)이라고 가정합니다.
func (cl CandleList) RemoveFutureData(now time.Time) CandleList {
	return cl.filter(func(c Candle) bool {
		return !c.OpenTime.After(now)
	})
}

// RemoveZeroVolumes는 거래량이 0인 캔들을 제거합니다
func (cl CandleList) RemoveZeroVolumes() CandleList {
	return cl.filter(func(c Candle) bool {
		return c.Volume != 0
	})
}

// RemoveZeroPrices는 종가가 0인 캔들을 제거합니다
func (cl CandleList) RemoveZeroPrices() CandleList {
	return cl.filter(func(c Candle) bool {
		return c.Close != 0
	})
}

// RemoveNegativePrices는 종가가 음수인 캔들을 제거합니다
func (cl CandleList) RemoveNegativePrices() CandleList {
	return cl.filter(func(c Candle) bool {
		return c.Close >= 0
	})
}

// filter는 keep이 true인 캔들만 담은 새 목록을 만듭니다
func (cl CandleList) filter(keep func(Candle) bool) CandleList {
	out := make(CandleList, 0, len(cl))
	for _, c := range cl {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
