package market

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/assist-by/pricecleaner/internal/cleaning"
	"github.com/assist-by/pricecleaner/internal/domain"
	"github.com/assist-by/pricecleaner/internal/logger"
)

// KlineSource는 캔들 데이터를 조회하는 인터페이스입니다
type KlineSource interface {
	GetKlines(ctx context.Context, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, error)
}

// RetryConfig는 재시도 설정을 정의합니다
type RetryConfig struct {
	MaxRetries int           // 최대 재시도 횟수
	BaseDelay  time.Duration // 기본 대기 시간
	MaxDelay   time.Duration // 최대 대기 시간
	Factor     float64       // 대기 시간 증가 계수
}

// Collector는 캔들 데이터를 수집하고 정제합니다
type Collector struct {
	source   KlineSource
	cleaner  *cleaning.Cleaner
	log      *logger.Entry
	symbol   string
	interval domain.TimeInterval
	limit    int
	override *cleaning.FilterConfig

	retry RetryConfig
}

// CollectorOption은 수집기의 옵션을 정의합니다
type CollectorOption func(*Collector)

// WithCandleLimit은 캔들 데이터 조회 개수를 설정합니다
func WithCandleLimit(limit int) CollectorOption {
	return func(c *Collector) {
		c.limit = limit
	}
}

// WithRetryConfig는 재시도 설정을 지정합니다
func WithRetryConfig(config RetryConfig) CollectorOption {
	return func(c *Collector) {
		c.retry = config
	}
}

// WithFilterOverride는 설정 저장소 대신 사용할 정제 설정을 지정합니다
func WithFilterOverride(cfg cleaning.FilterConfig) CollectorOption {
	return func(c *Collector) {
		c.override = &cfg
	}
}

// WithLogger는 로거를 지정합니다
func WithLogger(log *logger.Entry) CollectorOption {
	return func(c *Collector) {
		c.log = log
	}
}

// NewCollector는 새로운 데이터 수집기를 생성합니다
func NewCollector(source KlineSource, cleaner *cleaning.Cleaner, symbol string, interval domain.TimeInterval, opts ...CollectorOption) *Collector {
	c := &Collector{
		source:   source,
		cleaner:  cleaner,
		log:      logger.Discard(),
		symbol:   symbol,
		interval: interval,
		limit:    500,
		retry: RetryConfig{
			MaxRetries: 3,
			BaseDelay:  1 * time.Second,
			MaxDelay:   30 * time.Second,
			Factor:     2.0,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.log = c.log.WithComponent("collector").WithFields(logger.Fields{
		"symbol":   symbol,
		"interval": string(interval),
	})

	return c
}

// Fetch는 캔들 데이터를 조회합니다. 재시도 후에도 실패하면 NoData를 반환합니다.
func (c *Collector) Fetch(ctx context.Context) domain.PriceResult {
	var candles domain.CandleList
	err := c.withRetry(ctx, fmt.Sprintf("%s 캔들 데이터 조회", c.symbol), func() error {
		var err error
		candles, err = c.source.GetKlines(ctx, c.symbol, c.interval, c.limit)
		return err
	})
	if err != nil {
		c.log.WithError(err).Warn("캔들 데이터 조회 실패")
		return domain.NoData()
	}

	c.log.WithFields(logger.Fields{"count": len(candles)}).Debug("캔들 데이터 수집 완료")
	return domain.PricesOf(candles)
}

// Collect는 한 번의 수집 및 정제 사이클을 수행합니다
func (c *Collector) Collect(ctx context.Context) (domain.PriceResult, cleaning.Report, error) {
	raw := c.Fetch(ctx)

	result, report, err := c.cleaner.CleanWithReport(raw, c.override)
	if err != nil {
		return domain.NoData(), report, err
	}

	if result.IsNoData() {
		c.log.Warn("정제할 가격 데이터가 없습니다")
		return result, report, nil
	}

	c.log.WithFields(logger.Fields{
		"input":           report.Input,
		"output":          report.Output,
		"future_prices":   report.FuturePrices,
		"zero_volumes":    report.ZeroVolumes,
		"zero_prices":     report.ZeroPrices,
		"negative_prices": report.NegativePrices,
	}).Info("가격 정제 완료")

	return result, report, nil
}

// Execute는 스케줄러 작업 인터페이스를 구현합니다
func (c *Collector) Execute(ctx context.Context) error {
	_, _, err := c.Collect(ctx)
	return err
}

// IsRetryableError는 다시 시도할 만한 에러인지 확인합니다.
// 네트워크 에러, 429, 5xx 응답이 해당됩니다.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// withRetry는 재시도 로직을 구현한 래퍼 함수입니다
func (c *Collector) withRetry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	delay := c.retry.BaseDelay

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		// 재시도가 필요 없는 오류는 바로 반환
		if !IsRetryableError(err) {
			return err
		}

		if attempt == c.retry.MaxRetries {
			return fmt.Errorf("%s 실패 (최대 재시도 횟수 초과): %w", operation, lastErr)
		}

		c.log.WithError(err).Warnf("%s 실패 (attempt %d/%d)", operation, attempt+1, c.retry.MaxRetries)

		// 다음 재시도 전 대기
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			// 대기 시간을 증가시키되, 최대 대기 시간을 넘지 않도록 함
			delay = time.Duration(float64(delay) * c.retry.Factor)
			if delay > c.retry.MaxDelay {
				delay = c.retry.MaxDelay
			}
		}
	}
	return lastErr
}
