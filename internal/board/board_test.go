package board

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSquareIndexBijection(t *testing.T) {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			if int(sq) != 8*rank+file {
				t.Fatalf("NewSquare(%d, %d) = %d, want %d", file, rank, sq, 8*rank+file)
			}
			if sq.File() != file || sq.Rank() != rank {
				t.Errorf("square %d decodes to (%d, %d), want (%d, %d)", sq, sq.File(), sq.Rank(), file, rank)
			}
			parsed, err := ParseSquare(sq.String())
			if err != nil || parsed != sq {
				t.Errorf("ParseSquare(%q) = %v, %v", sq.String(), parsed, err)
			}
		}
	}
	if A8 != 0 || H1 != 63 || E2.String() != "e2" || E2.Rank() != 6 {
		t.Errorf("unexpected square layout: A8=%d H1=%d E2=%s rank %d", A8, H1, E2, E2.Rank())
	}
}

func TestSquareAccessorsAgree(t *testing.T) {
	pos := NewPosition()
	for sq := Square(0); sq < NoSquare; sq++ {
		if pos.At(sq) != pos.AtFileRank(sq.File(), sq.Rank()) {
			t.Fatalf("At and AtFileRank disagree on %s", sq)
		}
	}
	pos.SetFileRank(3, 4, WhiteQueen)
	if pos.At(D4) != WhiteQueen {
		t.Errorf("SetFileRank(3, 4) did not land on d4")
	}
}

func TestColorHelpers(t *testing.T) {
	if White.Other() != Black || Black.Other() != White {
		t.Error("Other is not an involution")
	}
	if White.Direction() != -1 || Black.Direction() != 1 {
		t.Error("White must advance toward rank 0 and Black toward rank 7")
	}
	if White.PawnRank() != 6 || Black.PawnRank() != 1 {
		t.Errorf("pawn ranks = %d, %d", White.PawnRank(), Black.PawnRank())
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("round trip mismatch:\n got %s\nwant %s", got, fen)
		}
	}

	if diff := cmp.Diff(NewPosition(), MustParseFEN(StartFEN)); diff != "" {
		t.Errorf("NewPosition differs from StartFEN (-want +got):\n%s", diff)
	}
}

func TestParseFENRejects(t *testing.T) {
	bad := map[string]string{
		"too few fields":  "8/8/8/8/8/8/8/8 w",
		"no kings":        "8/8/8/8/8/8/8/8 w - - 0 1",
		"two white kings": "k7/8/8/8/8/8/8/KK6 w - - 0 1",
		"pawn on rank 8":  "kP6/8/8/8/8/8/8/K7 w - - 0 1",
		"bad piece":       "k7/8/8/8/8/8/8/K6X w - - 0 1",
		"bad side":        "k7/8/8/8/8/8/8/K7 x - - 0 1",
		"opponent check":  "k7/8/8/8/8/8/8/R6K w - - 0 1",
	}
	for name, fen := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFEN(fen)
			if !errors.Is(err, ErrInvalidFEN) {
				t.Errorf("ParseFEN(%q) error = %v, want ErrInvalidFEN", fen, err)
			}
		})
	}
}

func TestInitialPosition(t *testing.T) {
	pos := NewPosition()
	if pos.CastlingRights != AllCastling {
		t.Errorf("castling rights = %s, want KQkq", pos.CastlingRights)
	}
	if pos.EnPassant != NoSquare {
		t.Errorf("en passant = %s, want none", pos.EnPassant)
	}
	if pos.KingSquare(White) != E1 || pos.KingSquare(Black) != E8 {
		t.Errorf("kings on %s and %s", pos.KingSquare(White), pos.KingSquare(Black))
	}
	if err := pos.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

// changedSquares lists the squares whose contents differ.
func changedSquares(before, after Position) []Square {
	var changed []Square
	for sq := Square(0); sq < NoSquare; sq++ {
		if before.At(sq) != after.At(sq) {
			changed = append(changed, sq)
		}
	}
	return changed
}

func TestApplyRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		move    Move
		changed []Square
	}{
		{"quiet", StartFEN, NewMove(G1, F3), []Square{F3, G1}},
		{"double push", StartFEN, NewMove(E2, E4), []Square{E4, E2}},
		{"capture", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", NewMove(E4, D5), []Square{D5, E4}},
		{"castle kingside", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", NewMove(E1, G1), []Square{E1, F1, G1, H1}},
		{"castle queenside", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", NewMove(E8, C8), []Square{A8, C8, D8, E8}},
		{"en passant", "4k3/8/8/3Pp3/8/8/8/4K3 w - e6 0 2", NewMove(D5, E6), []Square{E6, D5, E5}},
		{"promotion capture", "3r3k/4P3/8/8/8/8/8/4K3 w - - 0 1", NewPromotion(E7, D8, WhiteQueen), []Square{D8, E7}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			if err := pos.CheckMove(tc.move); err != nil {
				t.Fatalf("CheckMove(%s): %v", tc.move, err)
			}
			next := pos.Apply(tc.move)

			want := append([]Square(nil), tc.changed...)
			sortSquares(want)
			if diff := cmp.Diff(want, changedSquares(pos, next)); diff != "" {
				t.Errorf("changed squares (-want +got):\n%s", diff)
			}
			if pos.FEN() != MustParseFEN(tc.fen).FEN() {
				t.Error("Apply mutated the original position")
			}
		})
	}
}

func sortSquares(s []Square) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

func TestApplyPlacesPieces(t *testing.T) {
	castled := MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1").Apply(NewMove(E1, G1))
	if castled.At(G1) != WhiteKing || castled.At(F1) != WhiteRook {
		t.Errorf("after O-O: g1=%s f1=%s", castled.At(G1), castled.At(F1))
	}
	if castled.CastlingRights != BlackKingSideCastle|BlackQueenSideCastle {
		t.Errorf("after O-O rights = %s, want kq", castled.CastlingRights)
	}

	ep := MustParseFEN("4k3/8/8/3Pp3/8/8/8/4K3 w - e6 0 2").Apply(NewMove(D5, E6))
	if ep.At(E6) != WhitePawn || ep.At(E5) != NoPiece {
		t.Errorf("after exd6 e.p.: e6=%s e5=%s", ep.At(E6), ep.At(E5))
	}

	promo := MustParseFEN("3r3k/4P3/8/8/8/8/8/4K3 w - - 0 1").Apply(NewPromotion(E7, D8, WhiteKnight))
	if promo.At(D8) != WhiteKnight || promo.At(E7) != NoPiece {
		t.Errorf("after exd8=N: d8=%s e7=%s", promo.At(D8), promo.At(E7))
	}
}

func TestApplyPanicsOnEmptyOrigin(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Apply from an empty square did not panic")
		}
	}()
	NewPosition().Apply(NewMove(E4, E5))
}

func TestEnPassantWindow(t *testing.T) {
	pos := MustParseFEN("4k3/3p4/8/4P3/8/8/8/4K3 b - - 0 1")
	pos = pos.Apply(NewMove(D7, D5))
	if pos.EnPassant != D6 {
		t.Fatalf("double push set en passant to %s, want d6", pos.EnPassant)
	}

	capture := NewMove(E5, D6)
	if !ContainsMove(pos.LegalDestinations(E5), capture) {
		t.Fatal("en passant capture missing right after the double push")
	}
	if !pos.IsMoveLegal(capture) {
		t.Fatal("IsMoveLegal rejects the en passant capture")
	}

	// Any other pair of moves closes the window.
	later := pos.Apply(NewMove(E1, F1)).Apply(NewMove(E8, F8))
	if later.EnPassant != NoSquare {
		t.Errorf("en passant square survived: %s", later.EnPassant)
	}
	if ContainsMove(later.LegalDestinations(E5), capture) || later.IsMoveLegal(capture) {
		t.Error("en passant capture still available after an intervening move")
	}
}

func TestCastlingRightsMonotonic(t *testing.T) {
	pos := MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	// Rook out and back: the right must not come back.
	pos = pos.Apply(NewMove(H1, H2)).Apply(NewMove(A8, A7)).Apply(NewMove(H2, H1)).Apply(NewMove(A7, A8))
	if pos.CastlingRights.CanCastle(White, true) || pos.CastlingRights.CanCastle(Black, false) {
		t.Errorf("rights restored after rook returned: %s", pos.CastlingRights)
	}
	if !pos.CastlingRights.CanCastle(White, false) || !pos.CastlingRights.CanCastle(Black, true) {
		t.Errorf("untouched rights lost: %s", pos.CastlingRights)
	}
	if ContainsMove(pos.LegalDestinations(E1), NewMove(E1, G1)) {
		t.Error("kingside castling offered after the right was cleared")
	}

	// King out and back clears both.
	pos = pos.Apply(NewMove(E1, D1)).Apply(NewMove(E8, D8)).Apply(NewMove(D1, E1)).Apply(NewMove(D8, E8))
	if pos.CastlingRights != NoCastling {
		t.Errorf("rights after king moves = %s, want -", pos.CastlingRights)
	}
}

func TestCastlingRightsNeverReappearInGames(t *testing.T) {
	pos := NewPosition()
	prev := pos.CastlingRights
	for ply := 0; ply < 80; ply++ {
		moves := pos.MovesForPlayer(pos.SideToMove)
		if len(moves) == 0 {
			break
		}
		pos = pos.Apply(moves[(ply*7)%len(moves)])
		if pos.CastlingRights&^prev != 0 {
			t.Fatalf("ply %d: rights grew from %s to %s", ply, prev, pos.CastlingRights)
		}
		prev = pos.CastlingRights
	}
}

func TestMoveParseAndString(t *testing.T) {
	pos := MustParseFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	m, err := ParseMove("a7a8q", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if m.Promotion() != WhiteQueen || m.From() != A7 || m.To() != A8 {
		t.Errorf("parsed %v: promo %s", m, m.Promotion())
	}
	if m.String() != "a7a8q" {
		t.Errorf("String() = %s", m.String())
	}
	if NewMove(E2, E4).Promotion() != NoPiece {
		t.Error("plain move reports a promotion")
	}
	for _, s := range []string{"", "e2", "e2e9", "a7a8k", "z1a1"} {
		if _, err := ParseMove(s, pos); !errors.Is(err, ErrInvalidMove) {
			t.Errorf("ParseMove(%q) error = %v, want ErrInvalidMove", s, err)
		}
	}
}
