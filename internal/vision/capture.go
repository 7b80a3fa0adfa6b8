// Package vision reads the game client off the screen: region capture via an
// external screenshot tool, digit OCR via tesseract, and champion
// identification via grayscale template matching. Coordinates assume a
// 1920x1440 client; regions are configurable where the client differs.
package vision

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"tftnerd/internal/logging"
)

// Region is a screen rectangle in pixels.
type Region struct {
	X, Y, W, H int
}

// ShopSlotRegions covers the five shop card portraits.
var ShopSlotRegions = [5]Region{
	{515, 1100, 205, 155},
	{730, 1100, 205, 155},
	{945, 1100, 205, 155},
	{1160, 1100, 205, 155},
	{1375, 1100, 205, 155},
}

// ShopTextRegions covers the champion name row under each shop card.
var ShopTextRegions = [5]Region{
	{460, 1280, 150, 35},
	{700, 1280, 150, 35},
	{940, 1280, 150, 35},
	{1180, 1280, 150, 35},
	{1420, 1280, 150, 35},
}

// GoldRegion covers the gold counter.
var GoldRegion = Region{1030, 1090, 60, 35}

// LevelRegion covers the level indicator.
var LevelRegion = Region{260, 1090, 160, 40}

// BenchRegion covers the full bench strip.
var BenchRegion = Region{330, 850, 1250, 190}

// Capturer grabs screenshots through an external tool.
type Capturer struct {
	bin string
}

// NewCapturer creates a capturer. An empty bin picks the platform default:
// screencapture on macOS, scrot elsewhere.
func NewCapturer(bin string) *Capturer {
	if bin == "" {
		if runtime.GOOS == "darwin" {
			bin = "screencapture"
		} else {
			bin = "scrot"
		}
	}
	return &Capturer{bin: bin}
}

// FullScreen captures the entire screen and decodes it.
func (c *Capturer) FullScreen(ctx context.Context) (image.Image, error) {
	tmp, err := os.CreateTemp("", "tftnerd-capture-*.png")
	if err != nil {
		return nil, fmt.Errorf("create capture file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	cmd := exec.CommandContext(ctx, c.bin, c.args(path)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", c.bin, err, out)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode capture: %w", err)
	}
	logging.Vision("captured %dx%d screen", img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// Capture grabs one region of the screen.
func (c *Capturer) Capture(ctx context.Context, r Region) (image.Image, error) {
	full, err := c.FullScreen(ctx)
	if err != nil {
		return nil, err
	}
	return Crop(full, r), nil
}

func (c *Capturer) args(path string) []string {
	switch filepath.Base(c.bin) {
	case "screencapture":
		return []string{"-x", "-t", "png", path}
	default:
		// scrot refuses to overwrite without -o.
		return []string{"-o", path}
	}
}

// Crop returns the sub-image of img covered by r, clipped to img's bounds.
func Crop(img image.Image, r Region) image.Image {
	rect := image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H).Intersect(img.Bounds())
	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(rect)
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			out.Set(x, y, img.At(rect.Min.X+x, rect.Min.Y+y))
		}
	}
	return out
}
