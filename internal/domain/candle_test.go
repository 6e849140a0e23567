package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 테스트용 캔들 데이터 생성
func generateTestCandles(base time.Time) CandleList {
	return CandleList{
		{OpenTime: base, Close: 100, Volume: 10, Symbol: "BTCUSDT", Interval: Interval1h},
		{OpenTime: base.Add(time.Hour), Close: 0, Volume: 5, Symbol: "BTCUSDT", Interval: Interval1h},
		{OpenTime: base.Add(2 * time.Hour), Close: 101, Volume: 0, Symbol: "BTCUSDT", Interval: Interval1h},
		{OpenTime: base.Add(3 * time.Hour), Close: -2, Volume: 7, Symbol: "BTCUSDT", Interval: Interval1h},
		{OpenTime: base.Add(4 * time.Hour), Close: 102, Volume: 8, Symbol: "BTCUSDT", Interval: Interval1h},
	}
}

func TestCandleListRemoveOperations(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

	testCases := []struct {
		name   string
		apply  func(CandleList) CandleList
		closes []float64
	}{
		{
			name:   "미래 데이터 제거",
			apply:  func(cl CandleList) CandleList { return cl.RemoveFutureData(base.Add(2 * time.Hour)) },
			closes: []float64{100, 0, 101},
		},
		{
			name:   "거래량 0 제거",
			apply:  CandleList.RemoveZeroVolumes,
			closes: []float64{100, 0, -2, 102},
		},
		{
			name:   "가격 0 제거",
			apply:  CandleList.RemoveZeroPrices,
			closes: []float64{100, 101, -2, 102},
		},
		{
			name:   "음수 가격 제거",
			apply:  CandleList.RemoveNegativePrices,
			closes: []float64{100, 0, 101, 102},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			candles := generateTestCandles(base)
			before := candles.Clone()

			result := tc.apply(candles)

			closes := make([]float64, 0, len(result))
			for _, c := range result {
				closes = append(closes, c.Close)
			}
			assert.Equal(t, tc.closes, closes)
			assert.Equal(t, before, candles, "원본 목록이 변경되면 안 됩니다")
		})
	}
}

func TestCandleListClone(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	candles := generateTestCandles(base)

	clone := candles.Clone()
	require.Equal(t, candles, clone)

	clone[0].Close = 999
	assert.Equal(t, 100.0, candles[0].Close)

	assert.Nil(t, CandleList(nil).Clone())
}

func TestCandleListGetLastCandle(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	candles := generateTestCandles(base)

	last, ok := candles.GetLastCandle()
	require.True(t, ok)
	assert.Equal(t, 102.0, last.Close)

	_, ok = CandleList{}.GetLastCandle()
	assert.False(t, ok)
}

func TestPriceResult(t *testing.T) {
	var zero PriceResult
	assert.True(t, zero.IsNoData())
	assert.True(t, NoData().IsNoData())

	empty := PricesOf(CandleList{})
	assert.False(t, empty.IsNoData())
	candles, ok := empty.Candles()
	assert.True(t, ok)
	assert.Empty(t, candles)
}

func TestParseTimeInterval(t *testing.T) {
	interval, err := ParseTimeInterval("15m")
	require.NoError(t, err)
	assert.Equal(t, Interval15m, interval)
	assert.Equal(t, 15*time.Minute, interval.Duration())

	_, err = ParseTimeInterval("7m")
	assert.Error(t, err)
}
