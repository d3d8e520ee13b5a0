// Package grid implements the 3x3 navigator: one active cell, bounded moves
// in four directions, a step counter and a reset back to the center.
package grid

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Size is the number of rows and columns.
	Size = 3
	// Cells is the total number of cells on the board.
	Cells = Size * Size
	// Center is the index of the start cell, coordinates (2, 2).
	Center = 4
)

// ErrUnknownDirection is returned by ParseDirection for anything other than
// up, down, left or right.
var ErrUnknownDirection = errors.New("unknown direction")

// Direction is one of the four move directions.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists all directions in button order.
var Directions = []Direction{Up, Down, Left, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection maps "up", "down", "left", "right" (any case) to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// IndexToCoordinates returns the 1-based column and row of index.
func IndexToCoordinates(index int) (x, y int) {
	return index%Size + 1, index/Size + 1
}

// CoordinatesToIndex is the inverse of IndexToCoordinates. ok is false when
// (x, y) lies outside the board.
func CoordinatesToIndex(x, y int) (index int, ok bool) {
	if x < 1 || x > Size || y < 1 || y > Size {
		return 0, false
	}
	return (y-1)*Size + (x - 1), true
}

// Step returns the index reached by moving one cell from index in dir.
// When the target is off the board it returns index unchanged and false.
func Step(index int, dir Direction) (int, bool) {
	x, y := IndexToCoordinates(index)
	switch dir {
	case Up:
		y--
	case Down:
		y++
	case Left:
		x--
	case Right:
		x++
	}
	next, ok := CoordinatesToIndex(x, y)
	if !ok {
		return index, false
	}
	return next, true
}

// BlockedMessage is the text shown when a move runs into the edge.
func BlockedMessage(dir Direction) string {
	return "You can't go " + dir.String()
}
