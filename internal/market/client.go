package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/assist-by/pricecleaner/internal/domain"
)

// APIError는 바이낸스 API가 200이 아닌 응답을 반환한 경우의 에러입니다
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

// Error는 error 인터페이스를 구현합니다
func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("API 에러(코드: %d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("HTTP 에러(%d): %s", e.StatusCode, e.Message)
}

// Client는 바이낸스 선물 공개 API 클라이언트를 구현합니다
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption은 클라이언트 생성 옵션을 정의합니다
type ClientOption func(*Client)

// WithTestnet은 테스트넷 사용 여부를 설정합니다
func WithTestnet(useTestnet bool) ClientOption {
	return func(c *Client) {
		if useTestnet {
			c.baseURL = "https://testnet.binancefuture.com"
		} else {
			c.baseURL = "https://fapi.binance.com"
		}
	}
}

// WithTimeout은 HTTP 클라이언트의 타임아웃을 설정합니다
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithBaseURL은 기본 URL을 설정합니다
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// NewClient는 새로운 바이낸스 API 클라이언트를 생성합니다
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    "https://fapi.binance.com", // 기본값은 선물 거래소
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	// 옵션 적용
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// doRequest는 HTTP 요청을 실행하고 결과를 반환합니다
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values) ([]byte, error) {
	reqURL, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("URL 파싱 실패: %w", err)
	}
	if params != nil {
		reqURL.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("요청 생성 실패: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API 요청 실패: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("응답 읽기 실패: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Code    int    `json:"code"`
			Message string `json:"msg"`
		}
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Code == 0 {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Code: apiErr.Code, Message: apiErr.Message}
	}

	return body, nil
}

// GetServerTime은 서버 시간을 조회합니다
func (c *Client) GetServerTime(ctx context.Context) (time.Time, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/fapi/v1/time", nil)
	if err != nil {
		return time.Time{}, err
	}

	var result struct {
		ServerTime int64 `json:"serverTime"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return time.Time{}, fmt.Errorf("서버 시간 파싱 실패: %w", err)
	}

	return time.UnixMilli(result.ServerTime), nil
}

// ClockSkew는 로컬 시계(now)와 서버 시간의 차이를 반환합니다.
// 로컬 시계가 앞서면 양수입니다.
func (c *Client) ClockSkew(ctx context.Context, now time.Time) (time.Duration, error) {
	serverTime, err := c.GetServerTime(ctx)
	if err != nil {
		return 0, fmt.Errorf("서버 시간 조회 실패: %w", err)
	}
	return now.Sub(serverTime), nil
}

// GetKlines는 캔들 데이터를 조회합니다.
// 캔들 시간은 로컬 타임존으로 변환됩니다.
func (c *Client) GetKlines(ctx context.Context, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, error) {
	params := url.Values{}
	params.Add("symbol", symbol)
	params.Add("interval", string(interval))
	params.Add("limit", strconv.Itoa(limit))

	resp, err := c.doRequest(ctx, http.MethodGet, "/fapi/v1/klines", params)
	if err != nil {
		return nil, err
	}

	var rawCandles [][]interface{}
	if err := json.Unmarshal(resp, &rawCandles); err != nil {
		return nil, fmt.Errorf("캔들 데이터 파싱 실패: %w", err)
	}

	candles := make(domain.CandleList, 0, len(rawCandles))
	for i, raw := range rawCandles {
		candle, err := parseKline(raw)
		if err != nil {
			return nil, fmt.Errorf("%d번째 캔들 파싱 실패: %w", i, err)
		}
		candle.Symbol = symbol
		candle.Interval = interval
		candles = append(candles, candle)
	}

	return candles, nil
}

// parseKline은 [openTime, open, high, low, close, volume, closeTime, ...] 배열을 변환합니다
func parseKline(raw []interface{}) (domain.Candle, error) {
	if len(raw) < 7 {
		return domain.Candle{}, fmt.Errorf("필드 개수 부족: %d", len(raw))
	}

	openTime, ok := raw[0].(float64)
	if !ok {
		return domain.Candle{}, fmt.Errorf("openTime 형식 오류: %v", raw[0])
	}
	closeTime, ok := raw[6].(float64)
	if !ok {
		return domain.Candle{}, fmt.Errorf("closeTime 형식 오류: %v", raw[6])
	}

	// 숫자 문자열을 float64로 변환
	values := make([]float64, 5)
	for j := 0; j < 5; j++ {
		s, ok := raw[j+1].(string)
		if !ok {
			return domain.Candle{}, fmt.Errorf("가격 형식 오류: %v", raw[j+1])
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.Candle{}, fmt.Errorf("가격 변환 실패: %w", err)
		}
		values[j] = v
	}

	return domain.Candle{
		OpenTime:  time.UnixMilli(int64(openTime)),
		CloseTime: time.UnixMilli(int64(closeTime)),
		Open:      values[0],
		High:      values[1],
		Low:       values[2],
		Close:     values[3],
		Volume:    values[4],
	}, nil
}
