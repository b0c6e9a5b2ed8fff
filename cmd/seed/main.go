package main

import (
	"context"
	"flag"
	"time"

	"github.com/leonid6372/trades-pager/internal/app"
	"github.com/leonid6372/trades-pager/internal/common/config"
	"github.com/leonid6372/trades-pager/internal/common/repositories/memory"
	"github.com/leonid6372/trades-pager/pkg/log"
	"go.uber.org/zap"
)

// seed fills an account with synthetic trades so the api and the bot have history to page through.
func main() {
	var (
		configPath string
		account    string
		count      int
	)
	flag.StringVar(&configPath, "config", "debug.yaml", "seed config path")
	flag.StringVar(&account, "account", "", "account to fill")
	flag.IntVar(&count, "count", 95, "number of trades")
	flag.Parse()

	if account == "" || count <= 0 {
		log.Fatal("account and a positive count are required")
	}

	ctx := context.TODO()

	cfg := config.GetConfig(configPath)

	log.Info("seed starting...", zap.String("account", account), zap.Int("count", count))

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal("app init failed", zap.Error(err))
	}
	defer a.Close()

	trades := memory.GenerateTrades(account, count, time.Now())
	for _, trade := range trades {
		trade.ID = 0
	}

	if err := a.Trades.AddTrades(ctx, trades); err != nil {
		log.Fatal("failed to add trades", zap.Error(err))
	}

	total, err := a.Trades.GetTradesCount(ctx, account)
	if err != nil {
		log.Fatal("failed to count trades", zap.Error(err))
	}

	log.Info("finish", zap.Int64("total", total))
}
