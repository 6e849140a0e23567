package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/assist-by/pricecleaner/internal/domain"
)

type Config struct {
	// 바이낸스 API 설정
	Binance struct {
		UseTestnet   bool          `envconfig:"BINANCE_USE_TESTNET" default:"false"`
		BaseURL      string        `envconfig:"BINANCE_BASE_URL"` // 지정하면 테스트넷 설정보다 우선
		MaxClockSkew time.Duration `envconfig:"MAX_CLOCK_SKEW" default:"1m"`
	}

	// 애플리케이션 설정
	App struct {
		Symbol        string        `envconfig:"SYMBOL" default:"BTCUSDT"`
		Interval      string        `envconfig:"INTERVAL" default:"1h"`
		CandleLimit   int           `envconfig:"CANDLE_LIMIT" default:"500"`
		FetchInterval time.Duration `envconfig:"FETCH_INTERVAL" default:"1h"`
	}

	// 가격 정제 설정 파일
	Cleaning struct {
		PrivateConfigPath string `envconfig:"PRIVATE_CONFIG_PATH"`
	}

	// 로그 설정
	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
		Output string `envconfig:"LOG_OUTPUT" default:"stdout"`
		MaxAge int    `envconfig:"LOG_MAX_AGE" default:"0"`
	}
}

// ValidateConfig는 설정이 유효한지 확인합니다.
func ValidateConfig(cfg *Config) error {
	if cfg.App.Symbol == "" {
		return fmt.Errorf("SYMBOL은 비어 있을 수 없습니다")
	}

	if _, err := domain.ParseTimeInterval(cfg.App.Interval); err != nil {
		return fmt.Errorf("INTERVAL 값이 잘못되었습니다: %w", err)
	}

	// 바이낸스 klines 최대 조회 개수
	if cfg.App.CandleLimit < 1 || cfg.App.CandleLimit > 1500 {
		return fmt.Errorf("CANDLE_LIMIT은 1 이상 1500 이하이어야 합니다")
	}

	if cfg.App.FetchInterval < 1*time.Minute {
		return fmt.Errorf("FETCH_INTERVAL은 1분 이상이어야 합니다")
	}

	if cfg.Binance.MaxClockSkew <= 0 {
		return fmt.Errorf("MAX_CLOCK_SKEW는 0보다 커야 합니다")
	}

	if cfg.Log.MaxAge < 0 {
		return fmt.Errorf("LOG_MAX_AGE는 0 이상이어야 합니다")
	}

	return nil
}

// ValidateSchedule은 반복 실행 설정을 확인합니다.
// 캔들 간격보다 자주 수집하면 같은 캔들을 다시 정제할 뿐이므로 허용하지 않습니다.
func ValidateSchedule(cfg *Config) error {
	interval, err := domain.ParseTimeInterval(cfg.App.Interval)
	if err != nil {
		return fmt.Errorf("INTERVAL 값이 잘못되었습니다: %w", err)
	}

	if cfg.App.FetchInterval < interval.Duration() {
		return fmt.Errorf("FETCH_INTERVAL(%v)은 캔들 간격(%v) 이상이어야 합니다",
			cfg.App.FetchInterval, interval.Duration())
	}

	return nil
}

// LoadConfig는 환경변수에서 설정을 로드합니다.
// .env 파일이 없으면 환경변수만 사용합니다.
// overrides는 검증 전에 순서대로 적용됩니다 (명령줄 플래그 등).
func LoadConfig(overrides ...func(*Config)) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".env 파일 로드 실패: %w", err)
	}

	var cfg Config
	// 환경변수를 구조체로 파싱
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("환경변수 처리 실패: %w", err)
	}

	for _, override := range overrides {
		override(&cfg)
	}

	// 설정값 검증
	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("설정값 검증 실패: %w", err)
	}

	return &cfg, nil
}
