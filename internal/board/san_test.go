package board

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const kiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func TestSAN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move Move
		want string
	}{
		{"pawn push", StartFEN, NewMove(E2, E4), "e4"},
		{"knight", StartFEN, NewMove(G1, F3), "Nf3"},
		{"mate", "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq g3 0 2", NewMove(D8, H4), "Qh4#"},
		{"short castle", kiwipeteFEN, NewMove(E1, G1), "O-O"},
		{"long castle", kiwipeteFEN, NewMove(E1, C1), "O-O-O"},
		{"file disambiguation", "8/8/6k1/8/8/8/4K3/R6R w - - 0 1", NewMove(A1, D1), "Rad1"},
		{"rank disambiguation", "8/8/6k1/R7/8/8/4K3/R7 w - - 0 1", NewMove(A5, A3), "R5a3"},
		{"promotion with check", "k7/4P3/8/8/8/8/8/4K3 w - - 0 1", NewPromotion(E7, E8, WhiteQueen), "e8=Q+"},
		{"en passant", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2", NewMove(E5, D6), "exd6"},
		{"capture", kiwipeteFEN, NewMove(E5, F7), "Nxf7"},
		{"stalemate has no suffix", "7k/8/4Q3/6K1/8/8/8/8 w - - 0 1", NewMove(E6, F7), "Qf7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := MustParseFEN(tt.fen)
			if got := tt.move.SAN(pos); got != tt.want {
				t.Errorf("SAN(%s) = %q, want %q", tt.move, got, tt.want)
			}
		})
	}
}

func TestParseSANRoundTrip(t *testing.T) {
	for _, fen := range []string{StartFEN, kiwipeteFEN, "8/8/6k1/R7/8/8/4K3/R6R w - - 0 1", "k7/4P3/8/8/8/8/8/4K3 w - - 0 1"} {
		pos := MustParseFEN(fen)
		for _, m := range pos.MovesForPlayer(pos.SideToMove) {
			san := m.SAN(pos)
			got, err := ParseSAN(san, pos)
			if err != nil {
				t.Errorf("%s: ParseSAN(%q): %v", fen, san, err)
				continue
			}
			if got != m {
				t.Errorf("%s: ParseSAN(%q) = %s, want %s", fen, san, got, m)
			}
		}
	}
}

func TestParseSANErrors(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"", "Nf6", "Qz9", "e5", "e8=K", "O-O", "Xe4"} {
		if _, err := ParseSAN(s, pos); !errors.Is(err, ErrInvalidMove) {
			t.Errorf("ParseSAN(%q) error = %v, want ErrInvalidMove", s, err)
		}
	}

	ambiguous := MustParseFEN("8/8/6k1/8/8/8/4K3/R6R w - - 0 1")
	if _, err := ParseSAN("Rd1", ambiguous); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("ambiguous Rd1 error = %v", err)
	}
}

func TestMovesToSAN(t *testing.T) {
	moves := []Move{NewMove(F2, F3), NewMove(E7, E5), NewMove(G2, G4), NewMove(D8, H4)}
	got := MovesToSAN(NewPosition(), moves)
	want := []string{"f3", "e5", "g4", "Qh4#"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MovesToSAN mismatch (-want +got):\n%s", diff)
	}
}
