package grid

import (
	"errors"
	"testing"
)

func TestIndexCoordinatesRoundTrip(t *testing.T) {
	for i := 0; i < Cells; i++ {
		x, y := IndexToCoordinates(i)
		got, ok := CoordinatesToIndex(x, y)
		if !ok || got != i {
			t.Errorf("index %d -> (%d, %d) -> %d ok=%t", i, x, y, got, ok)
		}
	}
	x, y := IndexToCoordinates(Center)
	if x != 2 || y != 2 {
		t.Errorf("center at (%d, %d), want (2, 2)", x, y)
	}
}

func TestCoordinatesToIndex_OutOfBounds(t *testing.T) {
	for _, c := range [][2]int{{0, 1}, {4, 1}, {1, 0}, {1, 4}} {
		if _, ok := CoordinatesToIndex(c[0], c[1]); ok {
			t.Errorf("(%d, %d) should be off the board", c[0], c[1])
		}
	}
}

func TestStep(t *testing.T) {
	tests := []struct {
		from int
		dir  Direction
		want int
		ok   bool
	}{
		{Center, Up, 1, true},
		{Center, Down, 7, true},
		{Center, Left, 3, true},
		{Center, Right, 5, true},
		{0, Up, 0, false},
		{0, Left, 0, false},
		{2, Right, 2, false},
		{8, Down, 8, false},
		{3, Left, 3, false},
		{5, Right, 5, false},
	}
	for _, tt := range tests {
		got, ok := Step(tt.from, tt.dir)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Step(%d, %s) = %d, %t; want %d, %t", tt.from, tt.dir, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range Directions {
		got, err := ParseDirection(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDirection(%q) = %v, %v", d.String(), got, err)
		}
	}
	if got, err := ParseDirection(" UP "); err != nil || got != Up {
		t.Errorf("ParseDirection should trim and fold case, got %v, %v", got, err)
	}
	if _, err := ParseDirection("diagonal"); !errors.Is(err, ErrUnknownDirection) {
		t.Errorf("err %v, want ErrUnknownDirection", err)
	}
}

func TestBlockedMessage(t *testing.T) {
	if got := BlockedMessage(Left); got != "You can't go left" {
		t.Errorf("BlockedMessage(Left) = %q", got)
	}
}
