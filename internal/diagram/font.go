package diagram

import (
	"image"
	"image/color"
	"image/draw"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// labelFont draws coordinates on raster diagrams, where oksvg cannot.
var labelFont *opentype.Font

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Printf("Failed to load regular font: %v", err)
		return
	}
	labelFont = f
}

func labelSize(square int) int {
	return max(square/5, 6)
}

// drawCoordinates writes file and rank labels at the same places WriteSVG
// puts its text elements.
func drawCoordinates(img draw.Image, opts Options) error {
	if labelFont == nil {
		return nil
	}
	s := opts.squareSize()
	face, err := opentype.NewFace(labelFont, &opentype.FaceOptions{
		Size:    float64(labelSize(s)),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return err
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0x33, 0x33, 0x33, 0xff}),
		Face: face,
	}
	for i := 0; i < 8; i++ {
		file, rank := i, i
		if opts.Flip {
			file, rank = 7-i, 7-i
		}
		label := string(rune('a' + file))
		d.Dot = fixed.Point26_6{X: fixed.I(i*s+s-s/8) - d.MeasureString(label), Y: fixed.I(8*s - s/16)}
		d.DrawString(label)

		d.Dot = fixed.P(s/16, i*s+s/4)
		d.DrawString(string(rune('8' - rank)))
	}
	return nil
}
