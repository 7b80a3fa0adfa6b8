package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"tftnerd/internal/logging"
)

// ErrShopNotVisible indicates the shop overlay is not on screen.
var ErrShopNotVisible = errors.New("shop not visible")

// ShopDetector decides whether the shop overlay is on screen by looking for
// the reroll button text anywhere in a capture.
type ShopDetector struct {
	capturer  *Capturer
	template  *image.Gray
	threshold float64
}

// NewShopDetector loads the reroll marker template from path.
func NewShopDetector(capturer *Capturer, templatePath string, threshold float64) (*ShopDetector, error) {
	img, err := loadImage(templatePath)
	if err != nil {
		return nil, fmt.Errorf("load shop template %s: %w", templatePath, err)
	}
	return &ShopDetector{
		capturer:  capturer,
		template:  ToGray(img),
		threshold: threshold,
	}, nil
}

// Visible reports whether the shop marker is currently on screen.
func (d *ShopDetector) Visible(ctx context.Context) (bool, error) {
	full, err := d.capturer.FullScreen(ctx)
	if err != nil {
		return false, err
	}
	score := MatchScore(ToGray(full), d.template)
	logging.Vision("shop marker score %.3f (threshold %.2f)", score, d.threshold)
	return score >= d.threshold, nil
}

// Wait polls until the shop appears or ctx ends.
func (d *ShopDetector) Wait(ctx context.Context, poll time.Duration) error {
	logging.Monitor("waiting for shop")
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		visible, err := d.Visible(ctx)
		if err != nil {
			return err
		}
		if visible {
			logging.Monitor("shop detected")
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ShopReader reads the five shop slots plus the gold and level counters from
// a single screen capture.
type ShopReader struct {
	capturer  *Capturer
	ocr       *OCR
	templates []Template
	threshold float64
}

// NewShopReader creates a shop reader. Templates may be nil, in which case
// slot names are read from the text row under each card via OCR.
func NewShopReader(capturer *Capturer, ocr *OCR, templates []Template, threshold float64) *ShopReader {
	return &ShopReader{
		capturer:  capturer,
		ocr:       ocr,
		templates: templates,
		threshold: threshold,
	}
}

// Snapshot is one reading of the shop area.
type Snapshot struct {
	Slots []string
	Gold  int
	Level int
}

// Read captures the screen once and extracts slots, gold, and level.
func (r *ShopReader) Read(ctx context.Context) (Snapshot, error) {
	full, err := r.capturer.FullScreen(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	if len(r.templates) > 0 {
		snap.Slots = make([]string, len(ShopSlotRegions))
		for i, region := range ShopSlotRegions {
			name, score := BestMatch(Crop(full, region), r.templates, r.threshold)
			logging.Vision("shop slot %d: %s (%.3f)", i+1, name, score)
			snap.Slots[i] = name
		}
	} else {
		snap.Slots = make([]string, len(ShopTextRegions))
		for i, region := range ShopTextRegions {
			text, err := r.ocr.Text(ctx, Crop(full, region))
			if err != nil {
				logging.Get(logging.CategoryVision).Warn("shop slot %d ocr failed: %v", i+1, err)
				text = ""
			}
			if text == "" {
				text = EmptySlot
			}
			logging.Vision("shop slot %d text: %s", i+1, text)
			snap.Slots[i] = text
		}
	}

	if snap.Gold, err = r.ocr.Digits(ctx, Crop(full, GoldRegion)); err != nil {
		return snap, fmt.Errorf("read gold: %w", err)
	}
	if snap.Level, err = r.ocr.Digits(ctx, Crop(full, LevelRegion)); err != nil {
		return snap, fmt.Errorf("read level: %w", err)
	}
	return snap, nil
}
