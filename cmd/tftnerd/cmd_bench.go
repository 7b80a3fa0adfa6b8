// Package main implements the tftNERD CLI commands.
// This file contains the bench reading command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"tftnerd/internal/assistant"
	"tftnerd/internal/vision"
)

var benchGold int

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Read the bench off the screen and advise what to sell",
	Long: `Captures the bench strip, identifies each of its nine slots against
the champion templates, and runs the sell rules over whatever is sitting
there. Pass --gold so the interest advice is accurate.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchGold, "gold", 0, "Current gold")
}

func runBench(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := openStore()
	if err != nil {
		return err
	}
	a := assistant.New(store, newLLMClient(), newSpeaker(false))

	templates, err := vision.LoadTemplates(cfg.Vision.TemplateDir)
	if err != nil {
		return fmt.Errorf("bench reading needs champion templates: %w", err)
	}
	reader := vision.NewBenchReader(vision.NewCapturer(cfg.Vision.CaptureBin),
		templates, cfg.Vision.ConfidenceThreshold)

	slots, err := reader.Read(ctx)
	if err != nil {
		return err
	}
	for i, name := range slots {
		fmt.Printf("Slot %d: %s\n", i+1, name)
	}

	roster := vision.Occupied(slots)
	if len(roster) == 0 {
		fmt.Println("Bench is empty.")
		return nil
	}
	advice := a.SellAdviceFor(ctx, roster, benchGold)
	fmt.Println(strings.TrimSpace(advice.Text))
	return nil
}
