package viewmodel

// ActiveLabel is the marker rendered in the active cell.
const ActiveLabel = "B"

// Columns is the number of cells per board row.
const Columns = 3

// Cell is one square of the board.
type Cell struct {
	Index  int    `json:"index"`
	Active bool   `json:"active"`
	Label  string `json:"label"`
}

// Board holds data for the board fragment: the navigator and the email form.
type Board struct {
	SessionID   string `json:"sessionId"`
	Cells       []Cell `json:"cells"`
	Index       int    `json:"index"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Coordinates string `json:"coordinates"`
	Steps       int    `json:"steps"`
	StepsText   string `json:"stepsText"`
	Message     string `json:"message"`
	Email       string `json:"email"`
	// EmailHint is true when the email has the rough shape of an address.
	EmailHint  bool `json:"emailHint"`
	Submitting bool `json:"submitting"`
}

// BoardPage holds data for the full board document.
type BoardPage struct {
	Title string
	Board Board
}

// Rows splits the cells into board rows.
func (b Board) Rows() [][]Cell {
	rows := make([][]Cell, 0, (len(b.Cells)+Columns-1)/Columns)
	for i := 0; i < len(b.Cells); i += Columns {
		end := i + Columns
		if end > len(b.Cells) {
			end = len(b.Cells)
		}
		rows = append(rows, b.Cells[i:end])
	}
	return rows
}

// StreamURL is the SSE endpoint that keeps this board live.
func (b Board) StreamURL() string {
	return b.base() + "/stream"
}

// ActionURL is the endpoint for a board action such as "reset" or "move/up".
func (b Board) ActionURL(action string) string {
	return b.base() + "/" + action
}

func (b Board) base() string {
	return "/s/" + b.SessionID
}

// SuspiciousEmail is true for a non-empty email that does not look like an
// address.
func (b Board) SuspiciousEmail() bool {
	return b.Email != "" && !b.EmailHint
}
