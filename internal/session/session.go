// Package session holds the working state of one layout session: the board
// catalog, the active board, the piece inventory, the pieces placed on the
// active board, the selected piece and the most recent failure.
//
// A Session is safe for concurrent use. The catalog is usually loaded in the
// background while the UI is already accepting input.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/piwi3910/platelayout/internal/catalog"
	"github.com/piwi3910/platelayout/internal/engine"
	"github.com/piwi3910/platelayout/internal/importer"
	"github.com/piwi3910/platelayout/internal/log"
	"github.com/piwi3910/platelayout/internal/model"
)

// Config customizes a Session.
type Config struct {
	Log log.Logger
	// StrictLookups records unknown ids, empty stock and a missing board as
	// the last error. Otherwise those requests are silent no-ops.
	StrictLookups bool
}

// State is a point-in-time copy of a session.
type State struct {
	Boards        []model.Board
	ActiveBoardID string
	Templates     []model.PieceTemplate
	Placed        []model.PlacedPiece
	SelectedID    string
	Err           error
}

// Stats summarizes the active layout.
type Stats struct {
	PlacedCount int
	UsedArea    int
	BoardArea   int
	Utilization float64 // percent of the board covered
	Remaining   int     // unplaced instances across all templates
}

// Session is the controller between the input layer and the placement engine.
type Session struct {
	log    log.Logger
	strict bool

	mu       sync.Mutex
	boards   []model.Board
	created  map[string]bool // boards created in this session
	activeID string
	tpls     []model.PieceTemplate
	placed   []model.PlacedPiece
	selected string
	lastErr  error
}

// New creates an empty session with no boards.
func New(cfg Config) *Session {
	return &Session{
		log:     log.OrDiscard(cfg.Log),
		strict:  cfg.StrictLookups,
		created: make(map[string]bool),
	}
}

// LoadCatalog fetches boards from p and installs them with SetBoards.
func (s *Session) LoadCatalog(ctx context.Context, p catalog.Provider) error {
	boards, err := p.ListBoards(ctx)
	if err != nil {
		s.log.Printf("loading board catalog: %v", err)
		return fmt.Errorf("loading board catalog: %w", err)
	}
	s.SetBoards(boards)
	return nil
}

// SetBoards replaces the catalog. Boards created in this session are kept.
// If no board is active, or the active board is no longer listed, the first
// board becomes active.
func (s *Session) SetBoards(boards []model.Board) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Board, 0, len(boards)+len(s.created))
	next = append(next, boards...)
	for _, b := range s.boards {
		if !s.created[b.ID] {
			continue
		}
		if _, dup := model.FindBoard(next, b.ID); !dup {
			next = append(next, b)
		}
	}
	s.boards = next
	s.log.Printf("board catalog loaded: %d boards", len(next))

	if _, ok := model.FindBoard(next, s.activeID); ok || len(next) == 0 {
		return
	}
	s.selectBoard(next[0].ID)
}

// SelectBoard makes the board active. The placed pieces, the selection and
// the last error are cleared, even when the board is already active.
func (s *Session) SelectBoard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := model.FindBoard(s.boards, id); !ok {
		return s.fail("select board", &engine.PlacementError{Reason: engine.ReasonNotFound, ID: id})
	}
	s.selectBoard(id)
	return nil
}

func (s *Session) selectBoard(id string) {
	if len(s.placed) > 0 {
		s.log.Printf("switching to board %s discards %d placed pieces", id, len(s.placed))
	}
	s.activeID = id
	s.placed = nil
	s.selected = ""
	s.lastErr = nil
}

// CreateBoard adds a board to the catalog and makes it active.
func (s *Session) CreateBoard(name string, width, height int) (model.Board, error) {
	name = strings.TrimSpace(name)
	if name == "" || width < 1 || height < 1 {
		return model.Board{}, fmt.Errorf("creating board %q (%dx%d): %w", name, width, height, engine.ErrInvalidDimensions)
	}
	b := model.NewBoard(name, width, height)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards = append(append([]model.Board(nil), s.boards...), b)
	s.created[b.ID] = true
	s.selectBoard(b.ID)
	return b, nil
}

// AddTemplate adds req to the inventory, merging with an equal template.
func (s *Session) AddTemplate(req model.TemplateRequest) error {
	return s.BulkAddTemplates([]model.TemplateRequest{req})
}

// BulkAddTemplates adds every request in order. Nothing is added unless all
// requests are valid.
func (s *Session) BulkAddTemplates(reqs []model.TemplateRequest) error {
	cleaned := make([]model.TemplateRequest, len(reqs))
	for i, req := range reqs {
		req.Name = strings.TrimSpace(req.Name)
		if err := req.Validate(); err != nil {
			return err
		}
		cleaned[i] = req
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tpls = model.BulkAddOrMerge(s.tpls, cleaned)
	return nil
}

// ImportText parses a pasted piece list and adds it to the inventory. A
// malformed list becomes the last error and adds nothing.
func (s *Session) ImportText(text string) error {
	reqs, err := importer.ParseText(text)
	return s.ApplyImport(reqs, err)
}

// ApplyImport adds the requests produced by an importer. A non-nil parseErr
// becomes the last error and nothing is added, whichever importer produced it.
func (s *Session) ApplyImport(reqs []model.TemplateRequest, parseErr error) error {
	if parseErr != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.lastErr = parseErr
		s.log.Printf("import rejected: %v", parseErr)
		return parseErr
	}
	return s.BulkAddTemplates(reqs)
}

// Insert places one instance of the template on the active board. The new
// piece becomes the selection.
func (s *Session) Insert(templateID string, x, y float64) (model.PlacedPiece, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	layout, err := s.layout()
	if err != nil {
		return model.PlacedPiece{}, s.fail("insert", err)
	}
	res, err := engine.Insert(layout, s.tpls, templateID, x, y)
	if err != nil {
		return model.PlacedPiece{}, s.fail("insert", err)
	}
	s.placed = res.Placed
	s.tpls = res.Templates
	s.selected = res.Piece.ID
	s.lastErr = nil
	return res.Piece, nil
}

// Move relocates a placed piece. Drag input calls this once per pointer
// movement; each call is validated on its own.
func (s *Session) Move(placedID string, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	layout, err := s.layout()
	if err != nil {
		return s.fail("move", err)
	}
	placed, err := engine.Move(layout, placedID, x, y)
	if err != nil {
		return s.fail("move", err)
	}
	s.placed = placed
	s.lastErr = nil
	return nil
}

// Remove takes a placed piece off the board and returns it to the inventory.
func (s *Session) Remove(placedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	layout, err := s.layout()
	if err != nil {
		return s.fail("remove", err)
	}
	placed, tpls, err := engine.Remove(layout, s.tpls, placedID)
	if err != nil {
		return s.fail("remove", err)
	}
	s.placed = placed
	s.tpls = tpls
	s.selected = ""
	s.lastErr = nil
	return nil
}

// SelectPiece sets the selected piece. Unknown ids are ignored.
func (s *Session) SelectPiece(placedID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.placed {
		if p.ID == placedID {
			s.selected = placedID
			return true
		}
	}
	return false
}

// ClearError dismisses the last error.
func (s *Session) ClearError() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

// Err returns the most recent failure, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ActiveBoard returns the active board.
func (s *Session) ActiveBoard() (model.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.FindBoard(s.boards, s.activeID)
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Boards:        append([]model.Board(nil), s.boards...),
		ActiveBoardID: s.activeID,
		Templates:     append([]model.PieceTemplate(nil), s.tpls...),
		Placed:        append([]model.PlacedPiece(nil), s.placed...),
		SelectedID:    s.selected,
		Err:           s.lastErr,
	}
}

// Stats summarizes the active layout.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		PlacedCount: len(s.placed),
		UsedArea:    model.UsedArea(s.placed),
		Remaining:   model.RemainingStock(s.tpls),
	}
	if b, ok := model.FindBoard(s.boards, s.activeID); ok {
		st.BoardArea = b.Area()
	}
	if st.BoardArea > 0 {
		st.Utilization = float64(st.UsedArea) / float64(st.BoardArea) * 100
	}
	return st
}

// layout returns the active board and its pieces. Callers hold s.mu.
func (s *Session) layout() (engine.Layout, error) {
	b, ok := model.FindBoard(s.boards, s.activeID)
	if !ok {
		return engine.Layout{}, engine.ErrNoBoardSelected
	}
	return engine.Layout{Board: b, Placed: s.placed}, nil
}

// fail records err as the last error unless it is a lookup failure and the
// session is lenient. err is returned either way. Callers hold s.mu.
func (s *Session) fail(op string, err error) error {
	reason := engine.ReasonOf(err)
	if reason.Lookup() && !s.strict {
		return err
	}
	s.lastErr = err
	s.log.Printf("%s rejected: %v", op, err)
	return err
}
