package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	osSignal "os/signal"
	"syscall"
	"time"

	"github.com/assist-by/pricecleaner/internal/cleaning"
	"github.com/assist-by/pricecleaner/internal/config"
	"github.com/assist-by/pricecleaner/internal/domain"
	"github.com/assist-by/pricecleaner/internal/logger"
	"github.com/assist-by/pricecleaner/internal/market"
	"github.com/assist-by/pricecleaner/internal/scheduler"
)

func main() {
	// 명령줄 플래그 정의
	symbolFlag := flag.String("symbol", "", "정제할 심볼 (기본값: SYMBOL 환경변수)")
	intervalFlag := flag.String("interval", "", "캔들 간격 (기본값: INTERVAL 환경변수)")
	limitFlag := flag.Int("limit", 0, "조회할 캔들 개수 (기본값: CANDLE_LIMIT 환경변수)")
	interactiveFlag := flag.Bool("interactive", false, "정제 설정을 콘솔에서 입력받기")
	watchFlag := flag.Bool("watch", false, "FETCH_INTERVAL마다 반복 실행")

	// 플래그 파싱
	flag.Parse()

	log := logger.New()

	// 설정 로드 (플래그가 설정되었으면 환경변수 설정보다 우선)
	cfg, err := config.LoadConfig(func(c *config.Config) {
		if *symbolFlag != "" {
			c.App.Symbol = *symbolFlag
		}
		if *intervalFlag != "" {
			c.App.Interval = *intervalFlag
		}
		if *limitFlag > 0 {
			c.App.CandleLimit = *limitFlag
		}
	})
	if err != nil {
		log.WithError(err).Fatal("설정 로드 실패")
	}

	if err := log.Configure(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.MaxAge); err != nil {
		log.WithError(err).Fatal("로거 설정 실패")
	}
	entry := log.WithComponent("main")

	production, err := config.LoadProductionConfig(cfg.Cleaning.PrivateConfigPath)
	if err != nil {
		entry.WithError(err).Fatal("가격 정제 설정 로드 실패")
	}

	resolver := cleaning.NewResolver(production, entry)
	cleaner := cleaning.NewCleaner(resolver)

	interval, err := domain.ParseTimeInterval(cfg.App.Interval)
	if err != nil {
		entry.WithError(err).Fatal("캔들 간격 파싱 실패")
	}

	opts := []market.CollectorOption{
		market.WithCandleLimit(cfg.App.CandleLimit),
		market.WithLogger(entry),
	}

	// 콘솔에서 정제 설정 덮어쓰기
	if *interactiveFlag {
		override, err := cleaning.CollectOverrides(resolver, cleaning.NewConsolePrompter(os.Stdin, os.Stdout))
		if err != nil {
			entry.WithError(err).Fatal("정제 설정 입력 실패")
		}
		opts = append(opts, market.WithFilterOverride(override))
	}

	clientOpts := []market.ClientOption{
		market.WithTestnet(cfg.Binance.UseTestnet),
		market.WithTimeout(10 * time.Second),
	}
	if cfg.Binance.BaseURL != "" {
		clientOpts = append(clientOpts, market.WithBaseURL(cfg.Binance.BaseURL))
	}
	client := market.NewClient(clientOpts...)
	collector := market.NewCollector(client, cleaner, cfg.App.Symbol, interval, opts...)

	// 컨텍스트 생성
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 로컬 시계가 틀어지면 미래 가격 필터가 잘못 동작함
	checkClockSkew(ctx, client, cfg.Binance.MaxClockSkew, entry)

	if !*watchFlag {
		result, report, err := collector.Collect(ctx)
		if err != nil {
			entry.WithError(err).Fatal("가격 정제 실패")
		}
		printSummary(cfg.App.Symbol, result, report)
		return
	}

	if err := config.ValidateSchedule(cfg); err != nil {
		entry.WithError(err).Fatal("스케줄 설정 검증 실패")
	}

	// 스케줄러 생성 (fetchInterval)
	s := scheduler.NewScheduler(cfg.App.FetchInterval, collector, entry)

	// 시그널 처리
	sigChan := make(chan os.Signal, 1)
	osSignal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		entry.Infof("시스템 종료 신호 수신: %v", sig)
		s.Stop()
	}()

	entry.Info("가격 정제 스케줄러 시작")
	if err := s.Start(ctx); err != nil {
		entry.WithError(err).Error("스케줄러 실행 중 에러 발생")
	}
	entry.Info("프로그램을 종료합니다.")
}

// checkClockSkew는 서버 시간과 로컬 시계의 차이가 허용치를 넘으면 경고합니다
func checkClockSkew(ctx context.Context, client *market.Client, maxSkew time.Duration, log *logger.Entry) {
	skew, err := client.ClockSkew(ctx, time.Now())
	if err != nil {
		log.WithError(err).Warn("서버 시간 확인 실패")
		return
	}

	if skew > maxSkew || skew < -maxSkew {
		log.WithFields(logger.Fields{
			"skew":     skew.String(),
			"max_skew": maxSkew.String(),
		}).Warn("로컬 시계가 서버 시간과 차이가 큽니다")
	}
}

func printSummary(symbol string, result domain.PriceResult, report cleaning.Report) {
	candles, ok := result.Candles()
	if !ok {
		fmt.Printf("%s: 정제할 가격 데이터가 없습니다\n", symbol)
		return
	}

	fmt.Printf("%s: %d개 중 %d개 제거 (미래 %d, 거래량 0 %d, 가격 0 %d, 음수 가격 %d)\n",
		symbol, report.Input, report.Removed(),
		report.FuturePrices, report.ZeroVolumes, report.ZeroPrices, report.NegativePrices)

	if last, ok := candles.GetLastCandle(); ok {
		fmt.Printf("최근 캔들: %s 종가 %.8g 거래량 %.8g\n",
			last.OpenTime.Format("2006-01-02 15:04:05"), last.Close, last.Volume)
	}
}
