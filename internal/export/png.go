package export

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/magbasin/internal/basin"
)

// Background is used for pixels that were skipped or never captured.
var Background = color.RGBA{0, 0, 0, 255}

// MagnetColor shades magnet idx of n. Hues are spread evenly around the
// colour wheel; fast captures are bright and slow ones fade towards dark.
func MagnetColor(idx, n, steps, maxSteps int) color.RGBA {
	hue := 0.0
	if n > 0 {
		hue = float64(idx) / float64(n) * 360
	}
	ratio := 0.0
	if maxSteps > 0 {
		ratio = math.Min(float64(steps)/float64(maxSteps), 1)
	}
	lightness := 0.6 * math.Max(1-math.Sqrt(ratio), 0.1)

	r, g, b := colorful.Hsl(hue, 1, lightness).Clamped().RGB255()
	return color.RGBA{r, g, b, 255}
}

// CellColor maps one classified pixel to its colour.
func CellColor(c basin.Cell, magnets, maxSteps int) color.RGBA {
	if c.Skipped {
		return Background
	}
	idx, ok := c.Result.CapturedMagnet()
	if !ok {
		return Background
	}
	return MagnetColor(idx, magnets, c.Result.Steps, maxSteps)
}

// Colorize renders a basin map to an image of the same size.
func Colorize(m *basin.Map, maxSteps int) *image.RGBA {
	w, h := m.Grid.Width, m.Grid.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			img.SetRGBA(px, py, CellColor(m.At(px, py), m.Magnets, maxSteps))
		}
	}
	return img
}

func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
