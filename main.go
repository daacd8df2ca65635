package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/growwatch/stock-notifier/internal/biz/usecase"
	"github.com/growwatch/stock-notifier/internal/conf"
	"github.com/growwatch/stock-notifier/internal/data"
	"github.com/growwatch/stock-notifier/internal/server"
	"github.com/growwatch/stock-notifier/internal/service"
	"github.com/joho/godotenv"

	tele "gopkg.in/telebot.v3"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	// A rejected credential fails here, before the poll loop starts.
	bot, err := tele.NewBot(tele.Settings{
		Token:   cfg.Telegram.Token,
		Poller:  &tele.LongPoller{Timeout: 10 * time.Second},
		Verbose: cfg.Debug,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}

	repos, err := data.NewRepositories(bot, cfg.Store.DBPath, cfg.Feed.URL, cfg.Feed.Timeout)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer repos.Close()

	catalogUC := usecase.NewCatalogUsecase(repos.Items)
	watchUC := usecase.NewWatchlistUsecase(repos.Items, repos.Watches)
	notifyUC := usecase.NewNotifyUsecase(repos.Users, repos.Watches, repos.Messenger)
	sessions := usecase.NewSessionRegistry()

	scheduler := service.NewStockScheduler(repos.Feed, catalogUC, notifyUC, repos.Messenger, cfg.Telegram.OperatorChatID)

	srv := server.NewTelegramServer(bot, repos.Users, watchUC, sessions)
	srv.Register()

	var status *server.StatusServer
	if cfg.Status.Addr != "" {
		status = server.NewStatusServer(cfg.Status.Addr, scheduler, repos.Items)
		status.Start()
	}

	scheduler.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		scheduler.Stop()
		if status != nil {
			status.Stop()
		}
		bot.Stop()
	}()

	fmt.Println("Starting stock notifier (long polling)...")
	bot.Start()
}
