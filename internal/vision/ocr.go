package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os/exec"
	"strconv"
	"strings"

	"tftnerd/internal/logging"
)

// ocrScale upscales small HUD regions before OCR; tesseract reads the tiny
// counter glyphs badly at native size.
const ocrScale = 3

// OCR reads text from images through the tesseract binary.
type OCR struct {
	bin string
}

// NewOCR creates an OCR reader. An empty bin defaults to "tesseract".
func NewOCR(bin string) *OCR {
	if bin == "" {
		bin = "tesseract"
	}
	return &OCR{bin: bin}
}

// Text runs general single-line OCR on img.
func (o *OCR) Text(ctx context.Context, img image.Image) (string, error) {
	return o.run(ctx, img, "--psm", "7", "--oem", "3")
}

// Digits OCRs img with a numeric whitelist and returns the number read.
// An unreadable region yields 0 without error.
func (o *OCR) Digits(ctx context.Context, img image.Image) (int, error) {
	text, err := o.run(ctx, img, "--psm", "7", "--oem", "3",
		"-c", "tessedit_char_whitelist=0123456789")
	if err != nil {
		return 0, err
	}
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (o *OCR) run(ctx context.Context, img image.Image, args ...string) (string, error) {
	var in bytes.Buffer
	if err := png.Encode(&in, prepare(img)); err != nil {
		return "", fmt.Errorf("encode ocr input: %w", err)
	}

	full := append([]string{"stdin", "stdout"}, args...)
	cmd := exec.CommandContext(ctx, o.bin, full...)
	cmd.Stdin = &in
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w: %s", o.bin, err, stderr.String())
	}
	text := strings.TrimSpace(out.String())
	logging.Vision("ocr read %q", text)
	return text, nil
}

// prepare grayscales and upscales an image for OCR.
func prepare(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx()*ocrScale, b.Dy()*ocrScale))
	for y := 0; y < out.Bounds().Dy(); y++ {
		for x := 0; x < out.Bounds().Dx(); x++ {
			src := img.At(b.Min.X+x/ocrScale, b.Min.Y+y/ocrScale)
			out.Set(x, y, color.GrayModel.Convert(src))
		}
	}
	return out
}
