package diagram

import (
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/chesscore/internal/board"
)

// Piece outlines on a 100x100 grid per square.
type shape struct {
	polygons [][]int  // flattened x,y pairs
	rects    [][4]int // x, y, w, h
	circles  [][3]int // cx, cy, r
}

var pieceShapes = [6]shape{
	board.Pawn: {
		polygons: [][]int{{30, 85, 70, 85, 62, 52, 38, 52}},
		circles:  [][3]int{{50, 38, 13}},
	},
	board.Knight: {
		polygons: [][]int{{28, 85, 72, 85, 70, 58, 64, 26, 46, 16, 24, 40, 30, 50, 44, 44, 38, 62}},
	},
	board.Bishop: {
		polygons: [][]int{{50, 24, 66, 48, 58, 70, 42, 70, 34, 48}},
		rects:    [][4]int{{30, 72, 40, 13}},
		circles:  [][3]int{{50, 18, 6}},
	},
	board.Rook: {
		polygons: [][]int{{27, 18, 37, 18, 37, 26, 45, 26, 45, 18, 55, 18, 55, 26, 63, 26, 63, 18, 73, 18, 73, 38, 27, 38}},
		rects:    [][4]int{{34, 38, 32, 32}, {27, 70, 46, 15}},
	},
	board.Queen: {
		polygons: [][]int{{28, 70, 72, 70, 82, 28, 64, 50, 60, 20, 50, 48, 40, 20, 36, 50, 18, 28}},
		rects:    [][4]int{{28, 72, 44, 13}},
		circles:  [][3]int{{18, 26, 5}, {40, 18, 5}, {60, 18, 5}, {82, 26, 5}},
	},
	board.King: {
		polygons: [][]int{{30, 72, 70, 72, 64, 36, 36, 36}},
		rects:    [][4]int{{46, 8, 8, 24}, {38, 14, 24, 8}, {26, 74, 48, 12}},
	},
}

// drawPiece draws piece into the square whose top-left corner is (x, y).
func drawPiece(canvas *svg.SVG, piece board.Piece, x, y, size int) {
	body, outline := "#ffffff", "#222222"
	if piece.Color() == board.Black {
		body, outline = "#222222", "#000000"
	}
	scale := func(v int) int { return v * size / 100 }
	style := []string{
		fmt.Sprintf(`fill="%s"`, body),
		fmt.Sprintf(`stroke="%s"`, outline),
		fmt.Sprintf(`stroke-width="%d"`, max(size/30, 1)),
	}

	sh := pieceShapes[piece.Type()]
	canvas.Group(fmt.Sprintf(`class="piece %s"`, piece))
	for _, poly := range sh.polygons {
		xs := make([]int, 0, len(poly)/2)
		ys := make([]int, 0, len(poly)/2)
		for i := 0; i+1 < len(poly); i += 2 {
			xs = append(xs, x+scale(poly[i]))
			ys = append(ys, y+scale(poly[i+1]))
		}
		canvas.Polygon(xs, ys, style...)
	}
	for _, r := range sh.rects {
		canvas.Rect(x+scale(r[0]), y+scale(r[1]), scale(r[2]), scale(r[3]), style...)
	}
	for _, c := range sh.circles {
		canvas.Circle(x+scale(c[0]), y+scale(c[1]), scale(c[2]), style...)
	}
	canvas.Gend()
}
