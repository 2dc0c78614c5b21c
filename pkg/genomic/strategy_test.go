package genomic

import (
	"errors"
	"math/rand"
	"testing"
)

func TestUniformBoundsAreValidatedAtConstruction(t *testing.T) {
	if _, err := NewUniformInt(5, 2); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error for int bounds 5 > 2, got %v", err)
	}
	if _, err := NewUniformFloat(2.5, 1.5); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error for float bounds 2.5 > 1.5, got %v", err)
	}
	if _, err := NewUniformInt(3, 3); err != nil {
		t.Fatalf("equal bounds should be valid: %v", err)
	}
}

func TestUniformIntStaysInsideInclusiveBounds(t *testing.T) {
	s, err := NewUniformInt[int32](-7, 13)
	if err != nil {
		t.Fatalf("new uniform int: %v", err)
	}
	rng := rand.New(rand.NewSource(9))
	seen := map[int32]bool{}
	for i := 0; i < 500; i++ {
		v := s.Apply(0, rng)
		if v < -7 || v > 13 {
			t.Fatalf("draw %d outside [-7, 13]", v)
		}
		seen[v] = true
	}
	if len(seen) < 10 {
		t.Fatalf("expected draws to spread over the range, got %d distinct values", len(seen))
	}
}

func TestUniformIntDegenerateRangeAlwaysReturnsTheBound(t *testing.T) {
	s, err := NewUniformInt[uint8](42, 42)
	if err != nil {
		t.Fatalf("new uniform int: %v", err)
	}
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		if v := s.Apply(0, rng); v != 42 {
			t.Fatalf("degenerate range produced %d", v)
		}
	}
}

func TestUniformIntCoversTheFullWidthRange(t *testing.T) {
	s, err := NewUniformInt[uint64](0, ^uint64(0))
	if err != nil {
		t.Fatalf("new uniform int: %v", err)
	}
	rng := rand.New(rand.NewSource(4))
	a, b := s.Apply(0, rng), s.Apply(0, rng)
	if a == b {
		t.Fatalf("full-width draws repeated: %d", a)
	}
}

func TestUniformFloatStaysInsideBounds(t *testing.T) {
	s, err := NewUniformFloat(0.25, 0.75)
	if err != nil {
		t.Fatalf("new uniform float: %v", err)
	}
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		v := s.Apply(0, rng)
		if v < 0.25 || v > 0.75 {
			t.Fatalf("draw %v outside [0.25, 0.75]", v)
		}
	}
}

func TestUniformStrategiesIgnoreTheCurrentValue(t *testing.T) {
	s, err := NewUniformFloat(0.0, 1.0)
	if err != nil {
		t.Fatalf("new uniform float: %v", err)
	}
	a := s.Apply(-100, rand.New(rand.NewSource(7)))
	b := s.Apply(100, rand.New(rand.NewSource(7)))
	if a != b {
		t.Fatalf("current value leaked into the draw: %v vs %v", a, b)
	}
}

func TestFixedBitsPreservesTheHighBits(t *testing.T) {
	s, err := NewFixedBits[uint16](4)
	if err != nil {
		t.Fatalf("new fixed bits: %v", err)
	}
	rng := rand.New(rand.NewSource(13))
	const current = uint16(0xAB50)
	for i := 0; i < 200; i++ {
		v := s.Apply(current, rng)
		if v&0xFFF0 != 0xAB50 {
			t.Fatalf("high bits changed: %#04x", v)
		}
	}
}

func TestFixedBitsHandlesNegativeCurrentValues(t *testing.T) {
	s, err := NewFixedBits[int8](3)
	if err != nil {
		t.Fatalf("new fixed bits: %v", err)
	}
	rng := rand.New(rand.NewSource(5))
	const current = int8(-3) // 0xFD
	for i := 0; i < 100; i++ {
		v := s.Apply(current, rng)
		if uint8(v)&0xF8 != 0xF8 {
			t.Fatalf("sign-carrying bits changed: %#02x", uint8(v))
		}
	}
}

func TestFixedBitsWidthIsValidated(t *testing.T) {
	if _, err := NewFixedBits[uint16](0); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error for 0 bits, got %v", err)
	}
	if _, err := NewFixedBits[uint16](17); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error for 17 bits on uint16, got %v", err)
	}
	if _, err := NewFixedBits[uint64](64); err != nil {
		t.Fatalf("64 bits on uint64 should be valid: %v", err)
	}
}

func TestBitWidthMatchesTheFixedWidthTypes(t *testing.T) {
	if w := bitWidth[uint8](); w != 8 {
		t.Fatalf("uint8 width %d", w)
	}
	if w := bitWidth[int8](); w != 8 {
		t.Fatalf("int8 width %d", w)
	}
	if w := bitWidth[uint32](); w != 32 {
		t.Fatalf("uint32 width %d", w)
	}
	if w := bitWidth[int64](); w != 64 {
		t.Fatalf("int64 width %d", w)
	}
}

func TestUniformUint64nStaysBelowN(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, n := range []uint64{1, 2, 3, 7, 16, 1000} {
		for i := 0; i < 200; i++ {
			if v := uniformUint64n(rng, n); v >= n {
				t.Fatalf("draw %d outside [0, %d)", v, n)
			}
		}
	}
}
