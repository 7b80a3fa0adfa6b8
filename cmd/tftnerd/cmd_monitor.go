// Package main implements the tftNERD CLI commands.
// This file contains the live shop monitor command.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tftnerd/internal/assistant"
	"tftnerd/internal/config"
	"tftnerd/internal/vision"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch the in-game shop and print each reroll's contents",
	Long: `Waits for the shop overlay to appear, then reads the five shop slots,
gold, and level once per interval until the shop closes or the process is
interrupted. Requires the champion templates directory and the reroll
marker image configured under vision in the config file.`,
	RunE: runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := openStore()
	if err != nil {
		return err
	}
	a := assistant.New(store, newLLMClient(), newSpeaker(false))

	capturer := vision.NewCapturer(cfg.Vision.CaptureBin)
	ocr := vision.NewOCR(cfg.Vision.TesseractBin)

	templates, err := vision.LoadTemplates(cfg.Vision.TemplateDir)
	if err != nil {
		logger.Warn("No champion templates, reading slot names via OCR", zap.Error(err))
		templates = nil
	}
	detector, err := vision.NewShopDetector(capturer, cfg.Vision.ShopTemplate, cfg.Vision.ConfidenceThreshold)
	if err != nil {
		return fmt.Errorf("shop detection unavailable: %w", err)
	}
	reader := vision.NewShopReader(capturer, ocr, templates, cfg.Vision.ConfidenceThreshold)

	m := assistant.NewMonitor(a, detector, reader,
		config.Duration(cfg.Monitor.Interval, 2*time.Second),
		config.Duration(cfg.Monitor.ShopWaitPoll, time.Second))
	m.OnUpdate = func(u assistant.ShopUpdate) {
		if len(u.Slots) > 0 {
			fmt.Printf("Shop: %s | Gold: %d | Level: %d\n",
				strings.Join(u.Slots, ", "), u.Gold, u.Level)
		} else {
			fmt.Printf("Gold: %d | Level: %d\n", u.Gold, u.Level)
		}
	}

	logger.Info("Waiting for shop", zap.Duration("interval", m.Interval()))
	err = m.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
