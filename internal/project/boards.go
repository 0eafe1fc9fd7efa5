package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/platelayout/internal/model"
)

// DefaultBoardsPath returns the default file path for the board catalog.
// This is located at ~/.platelayout/boards.json.
func DefaultBoardsPath() string {
	return filepath.Join(DefaultConfigDir(), "boards.json")
}

// SaveBoards writes the board catalog to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveBoards(path string, boards []model.Board) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(boards, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadBoards reads the board catalog from the specified JSON file.
// If the file does not exist, it returns the default boards and saves them.
func LoadBoards(path string) ([]model.Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			boards := model.DefaultBoards()
			if saveErr := SaveBoards(path, boards); saveErr != nil {
				return boards, saveErr
			}
			return boards, nil
		}
		return nil, err
	}
	var boards []model.Board
	if err := json.Unmarshal(data, &boards); err != nil {
		return nil, fmt.Errorf("failed to parse board catalog: %w", err)
	}
	if boards == nil {
		boards = []model.Board{}
	}
	return boards, nil
}
