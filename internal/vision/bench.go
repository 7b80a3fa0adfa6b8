package vision

import (
	"context"
	"image"

	"tftnerd/internal/logging"
)

// benchSlots is the number of unit positions on the bench strip.
const benchSlots = 9

// SplitSlots divides img into n equal-width vertical slices.
func SplitSlots(img image.Image, n int) []image.Image {
	b := img.Bounds()
	slotWidth := b.Dx() / n
	if slotWidth == 0 {
		return nil
	}
	slots := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		r := Region{
			X: b.Min.X + i*slotWidth,
			Y: b.Min.Y,
			W: slotWidth,
			H: b.Dy(),
		}
		slots = append(slots, Crop(img, r))
	}
	return slots
}

// BenchReader identifies the champions sitting on the bench.
type BenchReader struct {
	capturer  *Capturer
	templates []Template
	threshold float64
}

// NewBenchReader creates a bench reader over the given templates.
func NewBenchReader(capturer *Capturer, templates []Template, threshold float64) *BenchReader {
	return &BenchReader{capturer: capturer, templates: templates, threshold: threshold}
}

// Read captures the bench strip and matches each of its slots. Unoccupied
// slots come back as EmptySlot.
func (b *BenchReader) Read(ctx context.Context) ([]string, error) {
	strip, err := b.capturer.Capture(ctx, BenchRegion)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, benchSlots)
	for i, slot := range SplitSlots(strip, benchSlots) {
		name, score := BestMatch(slot, b.templates, b.threshold)
		logging.Vision("bench slot %d: %s (%.3f)", i+1, name, score)
		names = append(names, name)
	}
	return names, nil
}

// Occupied filters EmptySlot out of a slot reading.
func Occupied(names []string) []string {
	var out []string
	for _, n := range names {
		if n != EmptySlot {
			out = append(out, n)
		}
	}
	return out
}
