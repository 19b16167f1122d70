package viz

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// dotPixels is the edge, in window pixels, of one braille dot. A cell is
// 8x16 pixels and holds 2x4 dots.
const dotPixels = 4

// LoadLogo decodes an image and thresholds it into a braille overlay. A dot
// is set when the pixels it covers are mostly opaque.
func LoadLogo(path string) (*Canvas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode logo %s: %w", path, err)
	}
	return logoCanvas(img), nil
}

func logoCanvas(img image.Image) *Canvas {
	bounds := img.Bounds()
	dotsW := (bounds.Dx() + dotPixels - 1) / dotPixels
	dotsH := (bounds.Dy() + dotPixels - 1) / dotPixels
	c := NewCanvas((dotsW+1)/2, (dotsH+3)/4)

	for dy := 0; dy < dotsH; dy++ {
		for dx := 0; dx < dotsW; dx++ {
			var opaque, total int
			for py := 0; py < dotPixels; py++ {
				for px := 0; px < dotPixels; px++ {
					x := bounds.Min.X + dx*dotPixels + px
					y := bounds.Min.Y + dy*dotPixels + py
					if x >= bounds.Max.X || y >= bounds.Max.Y {
						continue
					}
					total++
					if _, _, _, a := img.At(x, y).RGBA(); a >= 0x8000 {
						opaque++
					}
				}
			}
			if total > 0 && 2*opaque >= total {
				c.SetShade(dx, dy, ShadeLogo)
			}
		}
	}
	return c
}
