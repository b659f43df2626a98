// Package workdir locates the files the notes TUI keeps on disk.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DBFile is the default sqlite database name.
	DBFile = "notes.db"
	// LogFile receives TUI log records.
	LogFile = "notes.log"
)

// Root returns the base directory for all notes files.
// The path is expanded at runtime to resolve to:
//
//	$HOME/Documents/Alkime/Notes
func Root() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, "Documents", "Alkime", "Notes"), nil
}

// FilePath returns the full path for a file in the root directory.
func FilePath(filename string) (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, filename), nil
}

// Prep ensures that the root directory exists.
func Prep() error {
	root, err := Root()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("failed to create working directory %s: %w", root, err)
	}

	return nil
}
