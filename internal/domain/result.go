package domain

// PriceResult는 가격 조회/정제 결과입니다.
// 가격 목록이 있거나(PricesOf), 정제할 데이터가 없음(NoData) 둘 중 하나입니다.
// 제로 값은 NoData입니다.
type PriceResult struct {
	candles CandleList
	ok      bool
}

// PricesOf는 가격 목록을 담은 결과를 생성합니다.
// 빈 목록도 유효한 가격 결과입니다.
func PricesOf(candles CandleList) PriceResult {
	return PriceResult{candles: candles, ok: true}
}

// NoData는 데이터가 없는 결과를 반환합니다
func NoData() PriceResult {
	return PriceResult{}
}

// IsNoData는 데이터가 없는 결과인지 확인합니다
func (r PriceResult) IsNoData() bool {
	return !r.ok
}

// Candles는 가격 목록과 존재 여부를 반환합니다
func (r PriceResult) Candles() (CandleList, bool) {
	return r.candles, r.ok
}
