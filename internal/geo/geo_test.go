package geo

import (
	"errors"
	"testing"

	"github.com/OCAP2/kmlscene/pkg/core"
)

func TestPosition3DFromString_ValidWithElevation(t *testing.T) {
	pos, err := Position3DFromString("100.5,200.25,50.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.X != 100.5 || pos.Y != 200.25 || pos.Z != 50.0 {
		t.Errorf("unexpected position: %+v", pos)
	}
}

func TestPosition3DFromString_ValidWithoutElevation(t *testing.T) {
	pos, err := Position3DFromString("-122.08,37.42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.X != -122.08 || pos.Y != 37.42 || pos.Z != 0 {
		t.Errorf("unexpected position: %+v", pos)
	}
}

func TestPosition3DFromString_TrailingComma(t *testing.T) {
	pos, err := Position3DFromString("1,2,")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.Z != 0 {
		t.Errorf("expected elevation=0, got %f", pos.Z)
	}
}

func TestPosition3DFromString_Invalid(t *testing.T) {
	for _, input := range []string{"100.5", "abc,1", "1,abc", "1,2,abc", ""} {
		_, err := Position3DFromString(input)
		if !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("%q: expected ErrInvalidCoordinates, got %v", input, err)
		}
	}
}

func TestParseCoordinates(t *testing.T) {
	ps, err := ParseCoordinates("  0,0,0\n 1,0,0\t1,1,0  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(ps))
	}
	if ps[2] != (core.Position3D{X: 1, Y: 1}) {
		t.Errorf("unexpected last position: %+v", ps[2])
	}
}

func TestParseCoordinates_Empty(t *testing.T) {
	ps, err := ParseCoordinates("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 0 {
		t.Errorf("expected no positions, got %d", len(ps))
	}
}

func TestParseCoordinates_Invalid(t *testing.T) {
	_, err := ParseCoordinates("0,0 bad")
	if !errors.Is(err, ErrInvalidCoordinates) {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}
}
