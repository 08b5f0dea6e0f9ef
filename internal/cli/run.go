package cli

import (
	"fmt"
	"log/slog"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/undff/lzt-donate/internal/alerts"
	"github.com/undff/lzt-donate/internal/donationalerts"
	"github.com/undff/lzt-donate/internal/lock"
	"github.com/undff/lzt-donate/internal/lzt"
	"github.com/undff/lzt-donate/internal/monitor"
	"github.com/undff/lzt-donate/internal/storage"
	"github.com/undff/lzt-donate/internal/telegram"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start watching payments and dispatching alerts",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := slog.Default()

	instance, err := lock.Acquire(cfg.LockPort)
	if err != nil {
		return err
	}
	defer instance.Release()

	store, err := openSettings(cfg)
	if err != nil {
		return err
	}
	snap := store.Snapshot()

	if snap.Lolzteam.AccessToken == "" {
		return fmt.Errorf("LOLZTEAM token is not set, run 'lzt-donate auth lolzteam' first")
	}
	if snap.DonationAlerts.AccessToken == "" {
		return fmt.Errorf("DonationAlerts token is not set, run 'lzt-donate auth donationalerts' first")
	}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	source := lzt.NewClient(cfg.LztMarketURL, cfg.LztForumURL, snap.Lolzteam.AccessToken)
	sender := donationalerts.NewClient(cfg.DABaseURL, snap.DonationAlerts.AccessToken)

	var tg *telegram.Notifier
	if cfg.TelegramEnabled() {
		tg, err = telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID, log)
		if err != nil {
			return fmt.Errorf("init telegram notifier: %w", err)
		}
		log.Info("telegram notifications enabled", "chat_id", cfg.Telegram.ChatID)
	}

	dispatcher := alerts.NewDispatcher(sender, log)
	dispatcher.SetErrorFunc(func(msg string) {
		log.Error("dispatcher", "message", msg)
	})

	mon := monitor.New(source, dispatcher, store, monitor.Options{
		MinAmount:     snap.App.MinPaymentAmount,
		CheckInterval: time.Duration(snap.App.CheckIntervalSeconds) * time.Second,
		FilterURLs:    snap.App.FilterURLs,
	}, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mon.OnPayment(func(p lzt.Payment) {
		log.Info("new payment", "id", p.ID, "amount", p.Amount, "username", p.Username)

		amount, err := strconv.ParseFloat(p.Amount, 64)
		if err != nil {
			log.Error("parse payment amount", "id", p.ID, "amount", p.Amount, "error", err)
			amount = 0
		}
		if err := db.RecordDonation(p.ID, amount, p.Username, p.Timestamp); err != nil {
			log.Error("record donation", "id", p.ID, "error", err)
		}

		if tg != nil {
			tg.NotifyPayment(ctx, p)
		}
	})
	mon.OnPaymentsBatch(func(batch []lzt.Payment) {
		log.Info("payments batch processed", "count", len(batch))
	})
	mon.OnError(func(msg string) {
		log.Error("monitor", "message", msg)
	})

	if err := mon.Start(ctx); err != nil {
		return fmt.Errorf("start monitor: %w", err)
	}
	log.Info("monitoring started",
		"min_amount", snap.App.MinPaymentAmount,
		"interval_seconds", snap.App.CheckIntervalSeconds,
	)

	<-ctx.Done()
	log.Info("shutting down")
	mon.Stop()

	return nil
}
