package token

import "testing"

func TestTokensForDraws(t *testing.T) {
	tok := Token{Name: "Star Stone", PerDraw: 160, PerTenDraw: 1440}
	cases := map[int]int{
		-1: 0,
		0:  0,
		1:  160,
		9:  1440,
		10: 1440,
		13: 1440 + 3*160,
		20: 2880,
	}
	for n, want := range cases {
		if got := tok.TokensForDraws(n); got != want {
			t.Errorf("TokensForDraws(%d)=%d want %d", n, got, want)
		}
	}
}

func TestTokensForDrawsPerN(t *testing.T) {
	tok := Token{PerDraw: 100, PerNDraw: 450, N: 5}
	if got := tok.TokensForDraws(11); got != 2*450+100 {
		t.Fatalf("got %d", got)
	}
	if got := tok.TokensForDraws(4); got != 400 {
		t.Fatalf("got %d", got)
	}
}

func TestFree(t *testing.T) {
	if !(Token{}).Free() {
		t.Fatal("zero token should be free")
	}
	if (Token{PerDraw: 1}).Free() {
		t.Fatal("priced token reported free")
	}
}
