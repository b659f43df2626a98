// Package store persists notes.
package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/alkime/notes/internal/note"
)

// Store persists notes. List returns the newest note first.
type Store interface {
	Add(ctx context.Context, n note.Note) error
	List(ctx context.Context) ([]note.Note, error)
	Close() error
}

// Memory is a Store that lives for the process only.
type Memory struct {
	mu    sync.RWMutex
	notes []note.Note
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Add(_ context.Context, n note.Note) error {
	if n.Content == "" {
		return note.ErrEmptyContent
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = append(m.notes, n)

	return nil
}

func (m *Memory) List(context.Context) ([]note.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]note.Note, len(m.notes))
	for i, n := range m.notes {
		out[len(out)-1-i] = n
	}

	// Insertion order breaks ties between equal timestamps.
	slices.SortStableFunc(out, func(a, b note.Note) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})

	return out, nil
}

func (m *Memory) Close() error {
	return nil
}
