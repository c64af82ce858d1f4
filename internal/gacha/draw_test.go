package gacha

import (
	"testing"
)

func TestDrawBounds(t *testing.T) {
	got, err := Draw(0, NewSeededRNG(1))
	if err != nil || got {
		t.Fatalf("p=0 should never hit; got=%v err=%v", got, err)
	}
	got, err = Draw(1, NewSeededRNG(1))
	if err != nil || !got {
		t.Fatalf("p=1 should always hit; got=%v err=%v", got, err)
	}
	if _, err := Draw(-0.1, nil); err == nil {
		t.Fatalf("negative p must error")
	}
	if _, err := Draw(1.1, nil); err == nil {
		t.Fatalf("p>1 must error")
	}
}

func TestDrawStatApprox(t *testing.T) {
	const p = 0.3
	const n = 100000
	rng := NewSeededRNG(42)
	hit := 0
	for i := 0; i < n; i++ {
		ok, err := Draw(p, rng)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			hit++
		}
	}
	freq := float64(hit) / float64(n)
	// should be around 0.3
	if diff := freq - p; diff > 0.01 || diff < -0.01 {
		t.Fatalf("freq=%f not close to p=%f", freq, p)
	}
}

func TestPickIndexStaysInRange(t *testing.T) {
	for _, v := range []float64{0, 0.5, 0.999999999, 1} {
		i := pickIndex(7, NewSequenceRNG(v))
		if i < 0 || i >= 7 {
			t.Fatalf("pickIndex(%v)=%d out of range", v, i)
		}
	}
	if i := pickIndex(1, NewSequenceRNG(0.9)); i != 0 {
		t.Fatalf("single candidate must pick 0, got %d", i)
	}
}

func TestKeyedRNGReplays(t *testing.T) {
	a := NewKeyedRNG("player-1:spring:salt", 3)
	b := NewKeyedRNG("player-1:spring:salt", 3)
	c := NewKeyedRNG("player-2:spring:salt", 3)
	same := true
	for i := 0; i < 16; i++ {
		va, vb, vc := a.Float64(), b.Float64(), c.Float64()
		if va != vb {
			t.Fatalf("same key diverged at %d", i)
		}
		if va != vc {
			same = false
		}
	}
	if same {
		t.Fatal("different keys produced identical streams")
	}
}
