package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/leonid6372/trades-pager/internal/app"
	"github.com/leonid6372/trades-pager/internal/bot"
	"github.com/leonid6372/trades-pager/internal/common/config"
	"github.com/leonid6372/trades-pager/pkg/dictionary"
	"github.com/leonid6372/trades-pager/pkg/log"
	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "prod.yaml", "bot config path")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("failed to load .env file", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())

	cfg := config.GetConfig(configPath)

	if err := log.Init(cfg.Log.Level, cfg.Log.Encoding); err != nil {
		log.Fatal("log init failed", zap.Error(err))
	}

	log.Info("bot starting...")

	log.Info("init dictionary...")
	dictionary, err := dictionary.New()
	if err != nil {
		log.Fatal("dictionary init failed", zap.Error(err))
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal("app init failed", zap.Error(err))
	}

	log.Info("init telebot...")
	bot, err := bot.New(&cfg.Bot, dictionary, a.Sessions)
	if err != nil {
		log.Fatal("bot starting failed", zap.Error(err))
	}

	go func() {
		bot.Start()
	}()

	log.Info("bot starting complete")

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-done
	log.Info("bot shutting down...")

	bot.Stop()
	a.Close()
	cancel()

	log.Info("bot shut down complete")

	if err := log.Sync(); err != nil {
		log.Error("log sync failed", zap.Error(err))
	}
}
