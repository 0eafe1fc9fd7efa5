package model

// DefaultBoards returns the built-in board catalog.
func DefaultBoards() []Board {
	return []Board{
		{ID: "plate-a", Name: "Chapa A", Width: 2750, Height: 1840},
		{ID: "plate-b", Name: "Chapa B", Width: 2000, Height: 1000},
	}
}

// FindBoard returns the board with the given ID.
func FindBoard(boards []Board, id string) (Board, bool) {
	for _, b := range boards {
		if b.ID == id {
			return b, true
		}
	}
	return Board{}, false
}

// ValidBoard reports whether b can hold a piece: it needs an ID and
// positive dimensions.
func ValidBoard(b Board) bool {
	return b.ID != "" && b.Width > 0 && b.Height > 0
}
