package diagram

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chesscore/internal/board"
)

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, board.NewPosition(), DefaultOptions()))
	out := buf.String()

	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, `viewBox="0 0 480 480"`)
	assert.Contains(t, out, `id="squares"`)
	assert.Equal(t, 32, strings.Count(out, `class="piece`))
	assert.Equal(t, 16, strings.Count(out, `class="piece P"`)+strings.Count(out, `class="piece p"`))
	assert.Contains(t, out, ">a</text>")
	assert.Contains(t, out, ">8</text>")
	assert.NotContains(t, out, `id="marks"`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestWriteSVGMarksAndCheck(t *testing.T) {
	pos := board.MustParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	opts := DefaultOptions()
	opts.LastMove = board.NewMove(board.D8, board.H4)
	opts.Marks = []board.Square{board.E3, board.E4}

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, pos, opts))
	out := buf.String()

	assert.Contains(t, out, `id="last-move"`)
	assert.Contains(t, out, `id="marks"`)
	assert.Contains(t, out, checkColor, "White is in check")
}

func TestWriteSVGReportsWriteErrors(t *testing.T) {
	err := WriteSVG(failingWriter{}, board.NewPosition(), DefaultOptions())
	assert.ErrorIs(t, err, os.ErrClosed)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, os.ErrClosed }

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d > -8 && d < 8
}

func TestRender(t *testing.T) {
	opts := DefaultOptions()
	opts.SquareSize = 40
	opts.LastMove = board.NewMove(board.E2, board.E4)
	pos := board.NewPosition().Apply(opts.LastMove)

	img, err := Render(pos, opts)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 320, img.Bounds().Dy())

	// d5 is an empty light square, a4 an empty dark one.
	light := img.RGBAAt(3*40+4, 3*40+4)
	assert.True(t, near(light.R, 0xf0) && near(light.G, 0xd9) && near(light.B, 0xb5), "d5 = %v", light)
	dark := img.RGBAAt(36, 4*40+36)
	assert.True(t, near(dark.R, 0xb5) && near(dark.G, 0x88) && near(dark.B, 0x63), "a4 = %v", dark)

	// e2 was vacated by the last move and is highlighted.
	e2 := img.RGBAAt(4*40+4, 6*40+4)
	assert.False(t, near(e2.B, 0xb5), "e2 = %v", e2)
}

func TestRenderDrawsCoordinates(t *testing.T) {
	opts := DefaultOptions()
	opts.SquareSize = 40
	with, err := Render(board.NewPosition(), opts)
	require.NoError(t, err)

	opts.Coordinates = false
	without, err := Render(board.NewPosition(), opts)
	require.NoError(t, err)

	assert.NotEqual(t, with.Pix, without.Pix)
	// Labels sit in the margins of the edge squares only.
	assert.Equal(t, with.RGBAAt(3*40+4, 3*40+4), without.RGBAAt(3*40+4, 3*40+4))
}

func TestRenderFlipped(t *testing.T) {
	opts := DefaultOptions()
	opts.SquareSize = 40
	opts.Flip = true
	pos := board.MustParseFEN("4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")

	img, err := Render(pos, opts)
	require.NoError(t, err)

	// With Black at the bottom, a1 is the top-right corner and holds the
	// white queen, whose body is white.
	body := img.RGBAAt(7*40+20, 24)
	assert.True(t, near(body.R, 0xff) && near(body.G, 0xff) && near(body.B, 0xff), "queen = %v", body)
	assert.Equal(t, uint8(0xff), img.RGBAAt(0, 0).A)
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	pos := board.NewPosition()

	svgPath := filepath.Join(dir, "start.svg")
	require.NoError(t, SaveFile(svgPath, pos, DefaultOptions()))
	data, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	pngPath := filepath.Join(dir, "start.PNG")
	require.NoError(t, SaveFile(pngPath, pos, DefaultOptions()))
	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 480, img.Bounds().Dx())

	err = SaveFile(filepath.Join(dir, "start.gif"), pos, DefaultOptions())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
