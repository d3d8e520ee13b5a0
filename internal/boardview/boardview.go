// Package boardview turns session snapshots into view-models.
package boardview

import (
	"bgrid/internal/grid"
	"bgrid/internal/session"
	"bgrid/internal/submission"
	"bgrid/internal/viewmodel"
)

// FromSnapshot builds the board view from a session snapshot.
func FromSnapshot(snap session.Snapshot) viewmodel.Board {
	cells := make([]viewmodel.Cell, grid.Cells)
	for i := range cells {
		cells[i] = viewmodel.Cell{Index: i}
		if i == snap.Index {
			cells[i].Active = true
			cells[i].Label = viewmodel.ActiveLabel
		}
	}
	return viewmodel.Board{
		SessionID:   snap.ID,
		Cells:       cells,
		Index:       snap.Index,
		X:           snap.X,
		Y:           snap.Y,
		Coordinates: grid.CoordinatesText(snap.X, snap.Y),
		Steps:       snap.Steps,
		StepsText:   grid.StepsText(snap.Steps),
		Message:     snap.Message,
		Email:       snap.Email,
		EmailHint:   submission.LooksLikeEmail(snap.Email),
		Submitting:  snap.FormState == submission.StateSubmitting,
	}
}

// Page wraps the board view in the full document view.
func Page(title string, snap session.Snapshot) viewmodel.BoardPage {
	return viewmodel.BoardPage{Title: title, Board: FromSnapshot(snap)}
}
