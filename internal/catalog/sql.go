package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/piwi3910/platelayout/internal/log"
	"github.com/piwi3910/platelayout/internal/model"
)

const listBoardsQuery = `SELECT id, name, width, height FROM boards ORDER BY name`

// SQL reads boards from a "boards" table.
type SQL struct {
	db  *sql.DB
	log log.Logger
}

// NewSQL opens a database for the catalog. The driver must already be
// registered, e.g. "postgres" by importing github.com/lib/pq.
func NewSQL(driverName, databaseURL string, l log.Logger) (*SQL, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("sql catalog requires a database url")
	}
	db, err := sql.Open(driverName, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return NewSQLFromDB(db, l), nil
}

// NewSQLFromDB wraps an already opened database.
func NewSQLFromDB(db *sql.DB, l log.Logger) *SQL {
	return &SQL{
		db:  db,
		log: log.OrDiscard(l),
	}
}

// ListBoards queries all boards ordered by name.
func (s *SQL) ListBoards(ctx context.Context) ([]model.Board, error) {
	rows, err := s.db.QueryContext(ctx, listBoardsQuery)
	if err != nil {
		return nil, fmt.Errorf("querying boards: %w", err)
	}
	defer rows.Close()

	var boards []model.Board
	for rows.Next() {
		var b model.Board
		if err := rows.Scan(&b.ID, &b.Name, &b.Width, &b.Height); err != nil {
			return nil, fmt.Errorf("scanning board row: %w", err)
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading board rows: %w", err)
	}
	return validBoards(boards, s.log), nil
}

// Close closes the underlying database.
func (s *SQL) Close() error {
	return s.db.Close()
}
