package cleaning

import (
	"time"

	"github.com/assist-by/pricecleaner/internal/domain"
)

// Report는 정제 단계별로 제거된 캔들 수를 기록합니다
type Report struct {
	Input          int
	Output         int
	FuturePrices   int
	ZeroVolumes    int
	ZeroPrices     int
	NegativePrices int
}

// Removed는 제거된 전체 캔들 수를 반환합니다
func (r Report) Removed() int {
	return r.Input - r.Output
}

// Cleaner는 설정에 따라 원시 가격 데이터를 정제합니다
type Cleaner struct {
	resolver *Resolver
	now      func() time.Time
}

// CleanerOption은 Cleaner 생성 옵션을 정의합니다
type CleanerOption func(*Cleaner)

// WithClock은 미래 데이터 판단에 사용할 현재 시각 함수를 설정합니다
func WithClock(now func() time.Time) CleanerOption {
	return func(c *Cleaner) {
		c.now = now
	}
}

// NewCleaner는 새로운 Cleaner를 생성합니다
func NewCleaner(resolver *Resolver, opts ...CleanerOption) *Cleaner {
	c := &Cleaner{
		resolver: resolver,
		now:      time.Now, // 로컬 타임존
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Clean은 원시 가격 데이터를 정제합니다.
// raw가 NoData이면 설정을 조회하지 않고 그대로 반환합니다.
// override가 nil이면 설정 저장소의 값을 사용합니다.
func (c *Cleaner) Clean(raw domain.PriceResult, override *FilterConfig) (domain.PriceResult, error) {
	result, _, err := c.CleanWithReport(raw, override)
	return result, err
}

// CleanWithReport는 Clean과 같으며 단계별 제거 개수를 함께 반환합니다
func (c *Cleaner) CleanWithReport(raw domain.PriceResult, override *FilterConfig) (domain.PriceResult, Report, error) {
	candles, ok := raw.Candles()
	if !ok {
		return raw, Report{}, nil
	}

	cfg, err := c.resolver.Resolve(override)
	if err != nil {
		return domain.NoData(), Report{}, NewCleaningError(symbolOf(candles), "설정 조회", err)
	}

	// 원본은 건드리지 않고 복사본에서 작업
	prices := candles.Clone()
	report := Report{Input: len(prices)}

	// 캔들 시간이 로컬 타임존이어야 올바르게 동작합니다
	if cfg.IgnoreFuturePrices {
		prices, report.FuturePrices = removed(prices, prices.RemoveFutureData(c.now()))
	}

	if cfg.IgnorePricesWithZeroVolumes {
		prices, report.ZeroVolumes = removed(prices, prices.RemoveZeroVolumes())
	}

	if cfg.IgnoreZeroPrices {
		prices, report.ZeroPrices = removed(prices, prices.RemoveZeroPrices())
	}

	if cfg.IgnoreNegativePrices {
		prices, report.NegativePrices = removed(prices, prices.RemoveNegativePrices())
	}

	report.Output = len(prices)
	return domain.PricesOf(prices), report, nil
}

func removed(before, after domain.CandleList) (domain.CandleList, int) {
	return after, len(before) - len(after)
}

func symbolOf(candles domain.CandleList) string {
	if len(candles) == 0 {
		return ""
	}
	return candles[0].Symbol
}
