package engine

import (
	"errors"
	"fmt"
)

// Reason classifies why a placement operation was rejected.
type Reason int

const (
	ReasonNone              Reason = iota
	ReasonCollision                // candidate overlaps another placed piece
	ReasonOutOfBounds              // candidate leaves the board
	ReasonInvalidDimensions        // width or height below 1
	ReasonNoStockRemaining         // template quantity exhausted
	ReasonNotFound                 // unknown template, piece or board
	ReasonNoBoardSelected
)

func (r Reason) String() string {
	switch r {
	case ReasonCollision:
		return "Collision"
	case ReasonOutOfBounds:
		return "OutOfBounds"
	case ReasonInvalidDimensions:
		return "InvalidDimensions"
	case ReasonNoStockRemaining:
		return "NoStockRemaining"
	case ReasonNotFound:
		return "NotFound"
	case ReasonNoBoardSelected:
		return "NoBoardSelected"
	default:
		return "None"
	}
}

// Message returns a short user-facing description of the reason.
func (r Reason) Message() string {
	switch r {
	case ReasonCollision:
		return "The piece would overlap another piece"
	case ReasonOutOfBounds:
		return "The piece would fall outside the board"
	case ReasonInvalidDimensions:
		return "Pieces must be at least 1 x 1"
	case ReasonNoStockRemaining:
		return "No pieces of this type remain"
	case ReasonNotFound:
		return "Item not found"
	case ReasonNoBoardSelected:
		return "Select a board first"
	default:
		return ""
	}
}

// Lookup reports whether the reason comes from a missing identity or an
// empty stock rather than from the geometry of the request.
func (r Reason) Lookup() bool {
	return r == ReasonNotFound || r == ReasonNoStockRemaining || r == ReasonNoBoardSelected
}

// PlacementError is returned by the placement operations. ID names the
// template or placed piece the request referred to.
type PlacementError struct {
	Reason Reason
	ID     string
}

func newError(reason Reason, id string) *PlacementError {
	return &PlacementError{Reason: reason, ID: id}
}

func (e *PlacementError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("placement rejected: %s", e.Reason)
	}
	return fmt.Sprintf("placement of %s rejected: %s", e.ID, e.Reason)
}

// Is matches any PlacementError with the same reason, so the sentinels
// below work with errors.Is.
func (e *PlacementError) Is(target error) bool {
	t, ok := target.(*PlacementError)
	return ok && t.Reason == e.Reason
}

// Sentinels for errors.Is comparisons.
var (
	ErrCollision         = &PlacementError{Reason: ReasonCollision}
	ErrOutOfBounds       = &PlacementError{Reason: ReasonOutOfBounds}
	ErrInvalidDimensions = &PlacementError{Reason: ReasonInvalidDimensions}
	ErrNoStockRemaining  = &PlacementError{Reason: ReasonNoStockRemaining}
	ErrNotFound          = &PlacementError{Reason: ReasonNotFound}
	ErrNoBoardSelected   = &PlacementError{Reason: ReasonNoBoardSelected}
)

// ReasonOf extracts the Reason from err, or ReasonNone if err is not a
// PlacementError.
func ReasonOf(err error) Reason {
	var pe *PlacementError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return ReasonNone
}
