package cleaning

import (
	"fmt"
	"strconv"
)

// FilterConfig는 가격 정제 필터 설정입니다.
// 값으로 전달되며, Resolver는 여섯 항목이 모두 확인된 경우에만 생성합니다.
type FilterConfig struct {
	IgnoreFuturePrices          bool
	IgnorePricesWithZeroVolumes bool
	IgnoreZeroPrices            bool
	IgnoreNegativePrices        bool
	// MaxPriceSpike는 스파이크 감지용 임계값으로, 이 패키지의 필터는 사용하지 않습니다
	MaxPriceSpike float64
	// DontSampleDailyIfIntradayFails는 일봉 샘플링 정책 플래그로, 이 패키지의 필터는 사용하지 않습니다
	DontSampleDailyIfIntradayFails bool
}

// 설정 저장소 키
const (
	KeyIgnoreFuturePrices             = "ignore_future_prices"
	KeyIgnorePricesWithZeroVolumes    = "ignore_prices_with_zero_volumes" // ignore_future_prices와 별개의 키
	KeyIgnoreZeroPrices               = "ignore_zero_prices"
	KeyIgnoreNegativePrices           = "ignore_negative_prices"
	KeyMaxPriceSpike                  = "max_price_spike"
	KeyDontSampleDailyIfIntradayFails = "dont_sample_daily_if_intraday_fails"
)

type fieldKind int

const (
	boolField fieldKind = iota
	floatField
)

// filterField는 FilterConfig 한 항목의 키, 타입, 접근자를 묶습니다
type filterField struct {
	key  string
	kind fieldKind
	get  func(FilterConfig) interface{}
	set  func(*FilterConfig, interface{})
}

// filterFields는 FilterConfig의 항목 목록입니다 (조회 및 프롬프트 순서)
var filterFields = []filterField{
	{
		key:  KeyIgnoreFuturePrices,
		kind: boolField,
		get:  func(c FilterConfig) interface{} { return c.IgnoreFuturePrices },
		set:  func(c *FilterConfig, v interface{}) { c.IgnoreFuturePrices = v.(bool) },
	},
	{
		key:  KeyIgnorePricesWithZeroVolumes,
		kind: boolField,
		get:  func(c FilterConfig) interface{} { return c.IgnorePricesWithZeroVolumes },
		set:  func(c *FilterConfig, v interface{}) { c.IgnorePricesWithZeroVolumes = v.(bool) },
	},
	{
		key:  KeyIgnoreZeroPrices,
		kind: boolField,
		get:  func(c FilterConfig) interface{} { return c.IgnoreZeroPrices },
		set:  func(c *FilterConfig, v interface{}) { c.IgnoreZeroPrices = v.(bool) },
	},
	{
		key:  KeyIgnoreNegativePrices,
		kind: boolField,
		get:  func(c FilterConfig) interface{} { return c.IgnoreNegativePrices },
		set:  func(c *FilterConfig, v interface{}) { c.IgnoreNegativePrices = v.(bool) },
	},
	{
		key:  KeyMaxPriceSpike,
		kind: floatField,
		get:  func(c FilterConfig) interface{} { return c.MaxPriceSpike },
		set:  func(c *FilterConfig, v interface{}) { c.MaxPriceSpike = v.(float64) },
	},
	{
		key:  KeyDontSampleDailyIfIntradayFails,
		kind: boolField,
		get:  func(c FilterConfig) interface{} { return c.DontSampleDailyIfIntradayFails },
		set:  func(c *FilterConfig, v interface{}) { c.DontSampleDailyIfIntradayFails = v.(bool) },
	},
}

// FieldNames는 설정 항목 이름을 순서대로 반환합니다
func FieldNames() []string {
	names := make([]string, len(filterFields))
	for i, f := range filterFields {
		names[i] = f.key
	}
	return names
}

// decode는 설정 저장소 값을 항목 타입으로 변환합니다
func (f filterField) decode(raw interface{}) (interface{}, error) {
	switch f.kind {
	case boolField:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case floatField:
		switch n := raw.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case uint:
			return float64(n), nil
		case uint64:
			// yaml.v3는 MaxInt64보다 큰 정수를 uint64로 디코딩함
			return float64(n), nil
		}
	}
	return nil, fmt.Errorf("%w: %s = %v (%T)", ErrInvalidConfig, f.key, raw, raw)
}

// parse는 콘솔 입력 문자열을 항목 타입으로 변환합니다
func (f filterField) parse(input string) (interface{}, error) {
	switch f.kind {
	case boolField:
		return strconv.ParseBool(input)
	case floatField:
		return strconv.ParseFloat(input, 64)
	}
	return nil, fmt.Errorf("알 수 없는 항목 타입: %s", f.key)
}

// format은 항목 값을 문자열로 표시합니다
func (f filterField) format(c FilterConfig) string {
	switch v := f.get(c).(type) {
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
