package vision

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"tftnerd/internal/logging"
)

// EmptySlot is returned when no template clears the confidence threshold.
const EmptySlot = "empty"

// Template is a named reference image for one champion portrait.
type Template struct {
	Name string
	Gray *image.Gray
}

// LoadTemplates reads every image in dir. The file stem is the champion name.
func LoadTemplates(dir string) ([]Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read template dir %s: %w", dir, err)
	}
	var templates []Template
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
			continue
		}
		img, err := loadImage(filepath.Join(dir, e.Name()))
		if err != nil {
			logging.Vision("skipping template %s: %v", e.Name(), err)
			continue
		}
		templates = append(templates, Template{
			Name: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Gray: ToGray(img),
		})
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("no usable templates in %s", dir)
	}
	logging.Vision("loaded %d templates from %s", len(templates), dir)
	return templates, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// ToGray converts any image to a zero-origin grayscale image. MatchScore
// indexes pixel rows directly and relies on the zero origin.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Set(x, y, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)))
		}
	}
	return out
}

// MatchScore slides tmpl over img and returns the best similarity in [0, 1].
// Similarity at each offset is one minus the mean absolute pixel difference.
func MatchScore(img, tmpl *image.Gray) float64 {
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	tw, th := tmpl.Bounds().Dx(), tmpl.Bounds().Dy()
	if tw == 0 || th == 0 || tw > iw || th > ih {
		return 0
	}

	best := 0.0
	for oy := 0; oy <= ih-th; oy++ {
		for ox := 0; ox <= iw-tw; ox++ {
			var diff int64
			for y := 0; y < th; y++ {
				irow := img.Pix[(oy+y)*img.Stride+ox:]
				trow := tmpl.Pix[y*tmpl.Stride:]
				for x := 0; x < tw; x++ {
					d := int64(irow[x]) - int64(trow[x])
					if d < 0 {
						d = -d
					}
					diff += d
				}
			}
			score := 1.0 - float64(diff)/float64(255*tw*th)
			if score > best {
				best = score
			}
		}
	}
	return best
}

// BestMatch scores img against every template and returns the winner, or
// EmptySlot when nothing clears threshold.
func BestMatch(img image.Image, templates []Template, threshold float64) (string, float64) {
	gray := ToGray(img)
	bestName := EmptySlot
	bestScore := -1.0
	for _, t := range templates {
		score := MatchScore(gray, t.Gray)
		if score > bestScore {
			bestScore = score
			bestName = t.Name
		}
	}
	if bestScore < threshold {
		return EmptySlot, bestScore
	}
	return bestName, bestScore
}
