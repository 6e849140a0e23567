package cleaning

import "fmt"

// Error 타입들은 가격 정제 중 발생할 수 있는 에러를 정의합니다
var (
	ErrMissingConfig = fmt.Errorf("가격 정제 설정 항목이 누락되었습니다")
	ErrInvalidConfig = fmt.Errorf("가격 정제 설정 값의 타입이 잘못되었습니다")
)

// missingConfigMessage는 설정 누락 시 critical 로그로 남기는 메시지입니다
const missingConfigMessage = "Missing config items for price filtering - have you deleted from defaults.yaml?"

// CleaningError는 가격 정제 에러를 확장한 구조체입니다
type CleaningError struct {
	Symbol string
	Op     string
	Err    error
}

// Error는 error 인터페이스를 구현합니다
func (e *CleaningError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("가격 정제 에러 [%s, 작업: %s]: %v", e.Symbol, e.Op, e.Err)
	}
	return fmt.Sprintf("가격 정제 에러 [작업: %s]: %v", e.Op, e.Err)
}

// Unwrap은 내부 에러를 반환합니다 (errors.Is/As 지원을 위함)
func (e *CleaningError) Unwrap() error {
	return e.Err
}

// NewCleaningError는 새로운 CleaningError를 생성합니다
func NewCleaningError(symbol, op string, err error) *CleaningError {
	return &CleaningError{
		Symbol: symbol,
		Op:     op,
		Err:    err,
	}
}
