package grid

import "fmt"

// Policy tunes how the navigator counts moves.
type Policy struct {
	// CountBlocked makes a move that runs into the edge still count as a step.
	CountBlocked bool
}

// DefaultPolicy counts every move request, blocked or not.
func DefaultPolicy() Policy {
	return Policy{CountBlocked: true}
}

// MoveResult describes one processed move.
type MoveResult struct {
	Direction Direction
	From      int
	To        int
	Blocked   bool
	Counted   bool
}

// Navigator holds the active index and the step counter. The zero value is
// not ready for use; call NewNavigator.
type Navigator struct {
	policy Policy
	index  int
	steps  int
}

// NewNavigator returns a navigator positioned on the center cell.
func NewNavigator(policy Policy) *Navigator {
	return &Navigator{policy: policy, index: Center}
}

// Index returns the active cell index.
func (n *Navigator) Index() int { return n.index }

// Steps returns the number of counted moves since the last reset.
func (n *Navigator) Steps() int { return n.steps }

// Coordinates returns the 1-based column and row of the active cell.
func (n *Navigator) Coordinates() (x, y int) {
	return IndexToCoordinates(n.index)
}

// Move applies one move. Moves past an edge leave the index unchanged.
func (n *Navigator) Move(dir Direction) MoveResult {
	next, ok := Step(n.index, dir)
	res := MoveResult{Direction: dir, From: n.index, To: next, Blocked: !ok}
	if ok || n.policy.CountBlocked {
		n.steps++
		res.Counted = true
	}
	n.index = next
	return res
}

func (n *Navigator) MoveUp() MoveResult    { return n.Move(Up) }
func (n *Navigator) MoveDown() MoveResult  { return n.Move(Down) }
func (n *Navigator) MoveLeft() MoveResult  { return n.Move(Left) }
func (n *Navigator) MoveRight() MoveResult { return n.Move(Right) }

// Reset puts the navigator back on the center cell with zero steps.
func (n *Navigator) Reset() {
	n.index = Center
	n.steps = 0
}

// CoordinatesText renders the coordinates line, e.g. "Coordinates (2, 2)".
func (n *Navigator) CoordinatesText() string {
	x, y := n.Coordinates()
	return CoordinatesText(x, y)
}

// StepsText renders the steps line, e.g. "You moved 0 times".
func (n *Navigator) StepsText() string {
	return StepsText(n.steps)
}

func CoordinatesText(x, y int) string {
	return fmt.Sprintf("Coordinates (%d, %d)", x, y)
}

func StepsText(steps int) string {
	return fmt.Sprintf("You moved %d times", steps)
}
