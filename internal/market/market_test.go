package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/pricecleaner/internal/cleaning"
	"github.com/assist-by/pricecleaner/internal/domain"
)

const klinesPayload = `[
  [1704067200000, "42000.1", "42100.0", "41900.5", "42050.2", "120.5", 1704070799999, "0", 100, "0", "0", "0"],
  [1704070800000, "42050.2", "42200.0", "42000.0", "0", "0", 1704074399999, "0", 0, "0", "0", "0"]
]`

func TestGetKlines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fapi/v1/klines", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1h", r.URL.Query().Get("interval"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		fmt.Fprint(w, klinesPayload)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithTimeout(time.Second))
	candles, err := client.GetKlines(context.Background(), "BTCUSDT", domain.Interval1h, 2)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	first := candles[0]
	assert.True(t, first.OpenTime.Equal(time.UnixMilli(1704067200000)))
	assert.Equal(t, time.Local, first.OpenTime.Location())
	assert.Equal(t, 42000.1, first.Open)
	assert.Equal(t, 42100.0, first.High)
	assert.Equal(t, 41900.5, first.Low)
	assert.Equal(t, 42050.2, first.Close)
	assert.Equal(t, 120.5, first.Volume)
	assert.Equal(t, "BTCUSDT", first.Symbol)
	assert.Equal(t, domain.Interval1h, first.Interval)

	assert.Equal(t, 0.0, candles[1].Close)
	assert.Equal(t, 0.0, candles[1].Volume)
}

func TestGetKlinesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"code": -1121, "msg": "Invalid symbol."}`)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.GetKlines(context.Background(), "NOPE", domain.Interval1h, 10)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, -1121, apiErr.Code)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.False(t, IsRetryableError(err))
}

func TestGetKlinesMalformed(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
	}{
		{name: "JSON 아님", payload: `not json`},
		{name: "필드 부족", payload: `[[1704067200000, "1", "2"]]`},
		{name: "가격 형식", payload: `[[1704067200000, 1, "2", "3", "4", "5", 1704070799999]]`},
		{name: "가격 변환", payload: `[[1704067200000, "x", "2", "3", "4", "5", 1704070799999]]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tc.payload)
			}))
			defer server.Close()

			_, err := NewClient(WithBaseURL(server.URL)).GetKlines(context.Background(), "BTCUSDT", domain.Interval1h, 1)
			assert.Error(t, err)
		})
	}
}

func TestGetServerTime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fapi/v1/time", r.URL.Path)
		fmt.Fprint(w, `{"serverTime": 1704067200000}`)
	}))
	defer server.Close()

	serverTime, err := NewClient(WithBaseURL(server.URL)).GetServerTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1704067200000), serverTime.UnixMilli())
}

func TestClockSkew(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fapi/v1/time", r.URL.Path)
		fmt.Fprint(w, `{"serverTime": 1704067200000}`)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	serverTime := time.UnixMilli(1704067200000)

	testCases := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{name: "로컬 시계가 앞섬", now: serverTime.Add(90 * time.Second), want: 90 * time.Second},
		{name: "로컬 시계가 뒤처짐", now: serverTime.Add(-2 * time.Second), want: -2 * time.Second},
		{name: "동일", now: serverTime, want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			skew, err := client.ClockSkew(context.Background(), tc.now)
			require.NoError(t, err)
			assert.Equal(t, tc.want, skew)
		})
	}
}

func TestClockSkewServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(WithBaseURL(server.URL)).ClockSkew(context.Background(), time.Now())
	require.Error(t, err)
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestWithTestnet(t *testing.T) {
	assert.Equal(t, "https://testnet.binancefuture.com", NewClient(WithTestnet(true)).baseURL)
	assert.Equal(t, "https://fapi.binance.com", NewClient(WithTestnet(false)).baseURL)

	// 뒤에 적용된 기본 URL이 테스트넷 설정보다 우선
	c := NewClient(WithTestnet(true), WithBaseURL("http://localhost:9000"))
	assert.Equal(t, "http://localhost:9000", c.baseURL)
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, IsRetryableError(nil))
	assert.False(t, IsRetryableError(errors.New("plain")))
	assert.True(t, IsRetryableError(&APIError{StatusCode: http.StatusTooManyRequests}))
	assert.True(t, IsRetryableError(fmt.Errorf("wrapped: %w", &APIError{StatusCode: http.StatusBadGateway})))
	assert.False(t, IsRetryableError(&APIError{StatusCode: http.StatusBadRequest}))
}

// fakeSource는 정해진 에러를 순서대로 반환한 뒤 캔들을 반환합니다
type fakeSource struct {
	errs    []error
	candles domain.CandleList
	calls   int32
}

func (s *fakeSource) GetKlines(ctx context.Context, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, error) {
	n := atomic.AddInt32(&s.calls, 1)
	if int(n) <= len(s.errs) {
		return nil, s.errs[n-1]
	}
	return s.candles, nil
}

type mapStore map[string]interface{}

func (m mapStore) GetElement(key string) (interface{}, bool) {
	v, ok := m[key]
	return v, ok
}

var fastRetry = RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Factor: 2}

func newTestCleaner(store cleaning.ConfigStore, now time.Time) *cleaning.Cleaner {
	return cleaning.NewCleaner(cleaning.NewResolver(store, nil), cleaning.WithClock(func() time.Time { return now }))
}

func TestCollectorCleansFetchedCandles(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)
	source := &fakeSource{
		errs: []error{&APIError{StatusCode: http.StatusServiceUnavailable}},
		candles: domain.CandleList{
			{OpenTime: now.Add(-2 * time.Hour), Close: 100, Volume: 1},
			{OpenTime: now.Add(-time.Hour), Close: 0, Volume: 1},
			{OpenTime: now.Add(time.Hour), Close: 101, Volume: 1},
		},
	}
	override := cleaning.FilterConfig{IgnoreFuturePrices: true, IgnoreZeroPrices: true}

	collector := NewCollector(source, newTestCleaner(mapStore{}, now), "BTCUSDT", domain.Interval1h,
		WithRetryConfig(fastRetry),
		WithCandleLimit(3),
		WithFilterOverride(override),
	)

	result, report, err := collector.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&source.calls))

	candles, ok := result.Candles()
	require.True(t, ok)
	require.Len(t, candles, 1)
	assert.Equal(t, 100.0, candles[0].Close)
	assert.Equal(t, 1, report.FuturePrices)
	assert.Equal(t, 1, report.ZeroPrices)
}

func TestCollectorFetchFailureYieldsNoData(t *testing.T) {
	retryable := &APIError{StatusCode: http.StatusInternalServerError}
	source := &fakeSource{errs: []error{retryable, retryable, retryable, retryable}}

	// 설정 저장소가 비어 있어도 NoData이면 조회하지 않으므로 에러가 없어야 합니다
	collector := NewCollector(source, newTestCleaner(mapStore{}, time.Now()), "BTCUSDT", domain.Interval1h,
		WithRetryConfig(fastRetry),
	)

	result, _, err := collector.Collect(context.Background())
	require.NoError(t, err)
	assert.True(t, result.IsNoData())
	assert.Equal(t, int32(3), atomic.LoadInt32(&source.calls))
}

func TestCollectorNonRetryableError(t *testing.T) {
	source := &fakeSource{errs: []error{&APIError{StatusCode: http.StatusBadRequest, Code: -1121}}}
	collector := NewCollector(source, newTestCleaner(mapStore{}, time.Now()), "NOPE", domain.Interval1h,
		WithRetryConfig(fastRetry),
	)

	result := collector.Fetch(context.Background())
	assert.True(t, result.IsNoData())
	assert.Equal(t, int32(1), atomic.LoadInt32(&source.calls))
}

func TestCollectorMissingConfig(t *testing.T) {
	source := &fakeSource{candles: domain.CandleList{{OpenTime: time.Now(), Close: 1, Volume: 1}}}
	collector := NewCollector(source, newTestCleaner(mapStore{}, time.Now()), "BTCUSDT", domain.Interval1h,
		WithRetryConfig(fastRetry),
	)

	err := collector.Execute(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, cleaning.ErrMissingConfig))
}

func TestCollectorCanceledContext(t *testing.T) {
	source := &fakeSource{candles: domain.CandleList{{Close: 1, Volume: 1}}}
	collector := NewCollector(source, newTestCleaner(mapStore{}, time.Now()), "BTCUSDT", domain.Interval1h)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.True(t, collector.Fetch(ctx).IsNoData())
	assert.Equal(t, int32(0), atomic.LoadInt32(&source.calls))
}
