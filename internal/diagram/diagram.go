// Package diagram draws positions as SVG documents and PNG images.
package diagram

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"

	"github.com/hailam/chesscore/internal/board"
)

// ErrUnsupportedFormat is returned by SaveFile for unknown extensions.
var ErrUnsupportedFormat = errors.New("unsupported diagram format")

// Board colors
const (
	lightSquare   = "#f0d9b5"
	darkSquare    = "#b58863"
	lastMoveColor = "#cdd26a"
	markColor     = "#2e7d32"
	checkColor    = "#e53935"
)

// Options controls how a diagram is drawn.
type Options struct {
	SquareSize  int            // Pixels per square (default 60)
	Flip        bool           // Draw with Black at the bottom
	Coordinates bool           // File and rank labels
	ShowCheck   bool           // Red glow under a king in check
	LastMove    board.Move     // Highlighted origin and destination
	Marks       []board.Square // Dotted squares, e.g. legal destinations
}

// DefaultOptions returns options for a plain 480x480 diagram.
func DefaultOptions() Options {
	return Options{
		SquareSize:  60,
		Coordinates: true,
		ShowCheck:   true,
	}
}

func (o Options) squareSize() int {
	if o.SquareSize <= 0 {
		return 60
	}
	return o.SquareSize
}

// origin returns the top-left pixel of sq.
func (o Options) origin(sq board.Square) (int, int) {
	file, rank := sq.File(), sq.Rank()
	if o.Flip {
		file, rank = 7-file, 7-rank
	}
	s := o.squareSize()
	return file * s, rank * s
}

// errWriter keeps the first write error, since svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

// WriteSVG writes pos as an SVG document.
func WriteSVG(w io.Writer, pos board.Position, opts Options) error {
	ew := &errWriter{w: w}
	s := opts.squareSize()
	size := 8 * s

	canvas := svg.New(ew)
	canvas.Startview(size, size, 0, 0, size, size)
	canvas.Title("Chess diagram")

	canvas.Gid("squares")
	for sq := board.Square(0); sq < board.NoSquare; sq++ {
		x, y := opts.origin(sq)
		color := lightSquare
		if (sq.File()+sq.Rank())%2 == 1 {
			color = darkSquare
		}
		canvas.Rect(x, y, s, s, fill(color))
	}
	canvas.Gend()

	if opts.LastMove != board.NoMove {
		canvas.Gid("last-move")
		for _, sq := range []board.Square{opts.LastMove.From(), opts.LastMove.To()} {
			x, y := opts.origin(sq)
			canvas.Rect(x, y, s, s, fill(lastMoveColor), `fill-opacity="0.8"`)
		}
		canvas.Gend()
	}

	if opts.ShowCheck && pos.IsInCheck(pos.SideToMove) {
		x, y := opts.origin(pos.KingSquare(pos.SideToMove))
		canvas.Circle(x+s/2, y+s/2, s/2, fill(checkColor), `fill-opacity="0.6"`)
	}

	canvas.Gid("pieces")
	for sq := board.Square(0); sq < board.NoSquare; sq++ {
		if piece := pos.At(sq); piece != board.NoPiece {
			x, y := opts.origin(sq)
			drawPiece(canvas, piece, x, y, s)
		}
	}
	canvas.Gend()

	if len(opts.Marks) > 0 {
		canvas.Gid("marks")
		for _, sq := range opts.Marks {
			x, y := opts.origin(sq)
			canvas.Circle(x+s/2, y+s/2, s/7, fill(markColor), `fill-opacity="0.7"`)
		}
		canvas.Gend()
	}

	if opts.Coordinates {
		canvas.Gid("coordinates")
		for i := 0; i < 8; i++ {
			file, rank := i, i
			if opts.Flip {
				file, rank = 7-i, 7-i
			}
			style := fmt.Sprintf(`font-size="%d" font-family="sans-serif" fill="#333333"`, labelSize(s))
			canvas.Text(i*s+s-s/8, size-s/16, string(rune('a'+file)), style, `text-anchor="end"`)
			canvas.Text(s/16, i*s+s/4, string(rune('8'-rank)), style)
		}
		canvas.Gend()
	}

	canvas.End()
	return ew.err
}

func fill(color string) string {
	return fmt.Sprintf(`fill="%s"`, color)
}

// supersample is the render scale used before downscaling to the
// requested size.
const supersample = 2

// Render rasterizes pos into an RGBA image.
func Render(pos board.Position, opts Options) (*image.RGBA, error) {
	// oksvg skips text, so labels are drawn after rasterizing.
	labels := opts.Coordinates
	opts.Coordinates = false

	var buf bytes.Buffer
	if err := WriteSVG(&buf, pos, opts); err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(&buf, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parsing diagram: %w", err)
	}

	size := 8 * opts.squareSize()
	renderSize := size * supersample
	icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

	// Create RGBA image and render with anti-aliasing at high resolution
	large := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
	scanner := rasterx.NewScannerGV(renderSize, renderSize, large, large.Bounds())
	raster := rasterx.NewDasher(renderSize, renderSize, scanner)
	icon.Draw(raster, 1.0)

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(img, img.Bounds(), large, large.Bounds(), xdraw.Src, nil)

	if labels {
		if err := drawCoordinates(img, opts); err != nil {
			return nil, fmt.Errorf("drawing coordinates: %w", err)
		}
	}
	return img, nil
}

// WritePNG writes pos as a PNG image.
func WritePNG(w io.Writer, pos board.Position, opts Options) error {
	img, err := Render(pos, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SaveFile writes a diagram to path, choosing the format from the
// extension (.svg or .png).
func SaveFile(path string, pos board.Position, opts Options) (err error) {
	var write func(io.Writer, board.Position, Options) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		write = WriteSVG
	case ".png":
		write = WritePNG
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f, pos, opts)
}
