// Package catalog provides the sources of stock boards a session can choose from.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/piwi3910/platelayout/internal/log"
	"github.com/piwi3910/platelayout/internal/model"
	"github.com/piwi3910/platelayout/internal/project"
)

// Provider lists the boards available to a session.
type Provider interface {
	ListBoards(ctx context.Context) ([]model.Board, error)
}

// Static serves a fixed board list after a delay, standing in for a remote
// backend.
type Static struct {
	Boards []model.Board
	Delay  time.Duration
}

// NewStatic creates a Static provider serving the default boards.
func NewStatic(delay time.Duration) *Static {
	return &Static{
		Boards: model.DefaultBoards(),
		Delay:  delay,
	}
}

// ListBoards waits for the configured delay, then returns a copy of the boards.
func (s *Static) ListBoards(ctx context.Context) ([]model.Board, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	boards := make([]model.Board, len(s.Boards))
	copy(boards, s.Boards)
	return boards, nil
}

// File reads boards from a JSON catalog file, creating it with the default
// boards when it does not exist.
type File struct {
	Path string
	Log  log.Logger
}

// ListBoards loads the catalog file and drops entries that cannot hold a piece.
func (f *File) ListBoards(ctx context.Context) ([]model.Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	boards, err := project.LoadBoards(f.Path)
	if err != nil {
		return nil, fmt.Errorf("loading board catalog %s: %w", f.Path, err)
	}
	return validBoards(boards, log.OrDiscard(f.Log)), nil
}

// FromConfig builds the provider selected by cfg.CatalogSource.
func FromConfig(cfg model.AppConfig, l log.Logger) (Provider, error) {
	switch cfg.CatalogSource {
	case "", model.CatalogStatic:
		return NewStatic(time.Duration(cfg.CatalogDelayMS) * time.Millisecond), nil
	case model.CatalogFile:
		path := cfg.CatalogFile
		if path == "" {
			path = project.DefaultBoardsPath()
		}
		return &File{Path: path, Log: l}, nil
	case model.CatalogSQL:
		return NewSQL(cfg.DatabaseDriver, cfg.DatabaseURL, l)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}
}

func validBoards(boards []model.Board, l log.Logger) []model.Board {
	valid := make([]model.Board, 0, len(boards))
	for _, b := range boards {
		if !model.ValidBoard(b) {
			l.Printf("skipping board %q (%dx%d): needs an id and positive dimensions", b.Name, b.Width, b.Height)
			continue
		}
		valid = append(valid, b)
	}
	return valid
}
