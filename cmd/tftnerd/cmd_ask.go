// Package main implements the tftNERD CLI commands.
// This file contains the one-shot question command.
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
)

var (
	askGold  int
	askSpeak bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single strategy question",
	Long: `Answers one question and exits. Inventory questions ("I have X and Y,
what should I sell?") are decided locally by the rules engine; everything
else goes to Gemini with the champion and comp data attached.

Examples:
  tftnerd ask "I have caitlyn, vi and gangplank, what should I sell?"
  tftnerd ask --gold 48 "should I roll down for Jinx?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVar(&askGold, "gold", 0, "Current gold, when not stated in the question")
	askCmd.Flags().BoolVar(&askSpeak, "speak", false, "Vocalize the answer even if speech is disabled in config")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := openStore()
	if err != nil {
		return err
	}
	a := assistant.New(store, newLLMClient(), newSpeaker(askSpeak))

	query := strings.Join(args, " ")
	if askGold > 0 && !strings.Contains(strings.ToLower(query), "gold") {
		query = fmt.Sprintf("I have %d gold. %s", askGold, query)
	}

	answer, err := a.ProcessQuery(ctx, query)
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}
