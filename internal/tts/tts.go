// Package tts vocalizes assistant answers through an external speech binary.
package tts

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"tftnerd/internal/logging"
)

// Speaker vocalizes text.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// ExecSpeaker shells out to a speech synthesizer.
type ExecSpeaker struct {
	bin     string
	timeout time.Duration
}

// NewExecSpeaker creates a speaker. An empty bin picks the platform default:
// say on macOS, espeak elsewhere.
func NewExecSpeaker(bin string, timeout time.Duration) *ExecSpeaker {
	if bin == "" {
		if runtime.GOOS == "darwin" {
			bin = "say"
		} else {
			bin = "espeak"
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ExecSpeaker{bin: bin, timeout: timeout}
}

// Speak vocalizes text, blocking until playback finishes or the timeout ends.
func (s *ExecSpeaker) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logging.Get(logging.CategoryTTS).Debug("speaking %d chars via %s", len(text), s.bin)
	cmd := exec.CommandContext(ctx, s.bin, text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", s.bin, err, out)
	}
	return nil
}

// NopSpeaker discards all speech. Used when speech output is disabled.
type NopSpeaker struct{}

// Speak does nothing.
func (NopSpeaker) Speak(context.Context, string) error { return nil }
