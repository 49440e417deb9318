package board

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func destinations(moves []Move) []Square {
	var squares []Square
	for _, m := range moves {
		squares = append(squares, m.To())
	}
	sortSquares(squares)
	return squares
}

func TestInitialPawnDestinations(t *testing.T) {
	pos := NewPosition()
	got := destinations(pos.LegalDestinations(E2))
	if diff := cmp.Diff([]Square{E4, E3}, got); diff != "" {
		t.Errorf("e2 destinations (-want +got):\n%s", diff)
	}
	if n := len(pos.MovesForPlayer(White)); n != 20 {
		t.Errorf("White has %d moves in the initial position, want 20", n)
	}
}

func TestFoolsMate(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"f2f3", "e7e5", "g2g4"} {
		m, err := ParseMove(s, pos)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", s, err)
		}
		if err := pos.CheckMove(m); err != nil {
			t.Fatalf("CheckMove(%s): %v", s, err)
		}
		pos = pos.Apply(m)
	}

	mate := NewMove(D8, H4)
	if !ContainsMove(pos.LegalDestinations(D8), mate) {
		t.Fatalf("queen destinations %v do not include h4", pos.LegalDestinations(D8))
	}
	result := pos.Apply(mate)
	if !result.IsInCheck(White) {
		t.Error("White should be in check after Qh4")
	}
	if !result.IsInCheckmate(White) {
		t.Error("White should be checkmated after Qh4")
	}
	if result.IsInCheckmate(Black) {
		t.Error("Black reported as checkmated")
	}
}

func TestCastlingDisappearsAfterRookCapture(t *testing.T) {
	pos := MustParseFEN("4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	if !ContainsMove(pos.LegalDestinations(E1), NewMove(E1, G1)) {
		t.Fatal("kingside castling missing with rights, rook and empty path")
	}
	if !ContainsMove(pos.LegalDestinations(E1), NewMove(E1, C1)) {
		t.Fatal("queenside castling missing")
	}
}

func TestRookCaptureClearsCastling(t *testing.T) {
	// Black knight on g3 takes the h1 rook; White keeps only the queenside right.
	pos := MustParseFEN("4k3/8/8/8/8/6n1/8/R3K2R b KQ - 0 1")
	capture := NewMove(G3, H1)
	if err := pos.CheckMove(capture); err != nil {
		t.Fatalf("CheckMove(%s): %v", capture, err)
	}
	pos = pos.Apply(capture)

	if pos.CastlingRights.CanCastle(White, true) {
		t.Error("kingside right survived the rook capture")
	}
	if ContainsMove(pos.LegalDestinations(E1), NewMove(E1, G1)) {
		t.Error("kingside castling offered after the rook was captured")
	}
	if pos.IsMoveLegal(NewMove(E1, G1)) {
		t.Error("IsMoveLegal accepts castling without the rook")
	}
	if !ContainsMove(pos.LegalDestinations(E1), NewMove(E1, C1)) {
		t.Error("queenside castling should still be available")
	}
}

func TestCastlingNeedsEmptyPath(t *testing.T) {
	pos := MustParseFEN("4k3/8/8/8/8/8/8/RN2K1NR w KQ - 0 1")
	for _, m := range []Move{NewMove(E1, G1), NewMove(E1, C1)} {
		if ContainsMove(pos.MovesForPiece(E1), m) {
			t.Errorf("%s generated with a blocked path", m)
		}
		if pos.IsMoveLegal(m) {
			t.Errorf("IsMoveLegal accepts %s with a blocked path", m)
		}
	}
}

func TestPromotionCompleteness(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		from Square
		to   []Square
	}{
		{"push", "4k3/1P6/8/8/8/8/8/4K3 w - - 0 1", B7, []Square{B8}},
		{"push and captures", "r1n1k3/1P6/8/8/8/8/8/4K3 w - - 0 1", B7, []Square{A8, B8, C8}},
		{"black push", "4k3/8/8/8/8/8/6p1/K7 b - - 0 1", G2, []Square{G1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			moves := pos.LegalDestinations(tc.from)
			if len(moves) != 4*len(tc.to) {
				t.Fatalf("got %d moves %v, want %d", len(moves), moves, 4*len(tc.to))
			}
			color := pos.At(tc.from).Color()
			for _, to := range tc.to {
				seen := map[PieceType]bool{}
				for _, m := range moves {
					if m.To() != to {
						continue
					}
					if !m.IsPromotion() {
						t.Fatalf("plain move %s onto the last rank", m)
					}
					if m.Promotion().Color() != color {
						t.Errorf("%s promotes to the wrong color", m)
					}
					seen[m.Promotion().Type()] = true
				}
				for _, pt := range PromotionTypes {
					if !seen[pt] {
						t.Errorf("missing promotion to %s on %s", pt, to)
					}
				}
			}
		})
	}
}

func TestIsMoveLegalPromotionValidation(t *testing.T) {
	pos := MustParseFEN("4k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
	cases := map[string]struct {
		move  Move
		legal bool
	}{
		"queen":          {NewPromotion(B7, B8, WhiteQueen), true},
		"knight":         {NewPromotion(B7, B8, WhiteKnight), true},
		"missing":        {NewMove(B7, B8), false},
		"king":           {NewPromotion(B7, B8, WhiteKing), false},
		"pawn":           {NewPromotion(B7, B8, WhitePawn), false},
		"enemy color":    {NewPromotion(B7, B8, BlackQueen), false},
		"promoting king": {NewPromotion(E1, E2, WhiteRook), false},
	}
	for name, tc := range cases {
		if got := pos.IsMoveLegal(tc.move); got != tc.legal {
			t.Errorf("%s: IsMoveLegal(%s) = %v, want %v", name, tc.move, got, tc.legal)
		}
	}
}

// walkPositions plays a deterministic sequence of legal moves from fen and
// returns every position reached.
func walkPositions(fen string, plies int) []Position {
	pos := MustParseFEN(fen)
	positions := []Position{pos}
	for ply := 0; ply < plies; ply++ {
		moves := pos.MovesForPlayer(pos.SideToMove)
		if len(moves) == 0 {
			break
		}
		pos = pos.Apply(moves[(ply*13+5)%len(moves)])
		positions = append(positions, pos)
	}
	return positions
}

var walkFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1",
}

func TestGeneratorAgreesWithIsMoveLegal(t *testing.T) {
	for _, fen := range walkFENs {
		for _, pos := range walkPositions(fen, 40) {
			for sq := Square(0); sq < NoSquare; sq++ {
				if pos.IsEmpty(sq) {
					continue
				}
				generated := pos.MovesForPiece(sq)
				for _, m := range generated {
					if !pos.IsMoveLegal(m) {
						t.Fatalf("%s: generated %s rejected by IsMoveLegal", pos.FEN(), m)
					}
				}
				// Every geometrically legal move must also be generated.
				for to := Square(0); to < NoSquare; to++ {
					candidates := []Move{NewMove(sq, to)}
					for _, pt := range PromotionTypes {
						candidates = append(candidates, NewPromotion(sq, to, NewPiece(pt, pos.At(sq).Color())))
					}
					for _, m := range candidates {
						if pos.IsMoveLegal(m) && !ContainsMove(generated, m) {
							t.Fatalf("%s: IsMoveLegal accepts %s but the generator omits it", pos.FEN(), m)
						}
					}
				}
			}
		}
	}
}

func TestLegalMovesNeverLeaveKingInCheck(t *testing.T) {
	for _, fen := range walkFENs {
		for _, pos := range walkPositions(fen, 40) {
			for _, c := range []Color{White, Black} {
				for _, m := range pos.MovesForPlayer(c) {
					if pos.Apply(m).IsInCheck(c) {
						t.Fatalf("%s: legal move %s leaves %s in check", pos.FEN(), m, c)
					}
				}
			}
		}
	}
}

func TestKingsCannotTouch(t *testing.T) {
	pos := MustParseFEN("8/8/8/3k4/8/3K4/8/8 w - - 0 1")
	for _, m := range pos.LegalDestinations(D3) {
		if m.To().Rank() == 4 {
			t.Errorf("king move %s steps next to the enemy king", m)
		}
	}
}

func TestCheckMoveErrors(t *testing.T) {
	pos := NewPosition()
	if err := pos.CheckMove(NewMove(E4, E5)); !isMoveErr(err, ErrNoPiece) {
		t.Errorf("empty origin: %v", err)
	}
	if err := pos.CheckMove(NewMove(E7, E5)); !isMoveErr(err, ErrWrongSide) {
		t.Errorf("wrong side: %v", err)
	}
	if err := pos.CheckMove(NewMove(E2, E5)); !isMoveErr(err, ErrIllegalMove) {
		t.Errorf("triple push: %v", err)
	}

	pinned := MustParseFEN("4r1k1/8/8/8/8/8/4B3/4K3 w - - 0 1")
	if err := pinned.CheckMove(NewMove(E2, D3)); !isMoveErr(err, ErrIllegalMove) {
		t.Errorf("pinned bishop: %v", err)
	}
}

func isMoveErr(err, target error) bool {
	var me *MoveError
	return errors.As(err, &me) && errors.Is(err, target)
}
