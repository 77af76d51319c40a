// Package ordering maintains the display order of siblings within a catalog
// scope (products under one category or sub-category, sub-categories under
// one parent). The engine is storage-agnostic: callers hand it a Store
// already closed over the scope.
package ordering

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotInScope is returned when the moved entity does not belong to the
// scope the store is closed over.
var ErrNotInScope = errors.New("entity not in scope")

// Direction of a single-step move.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == Up || d == Down
}

// Row is the minimal view of an ordered entity.
type Row struct {
	ID        uuid.UUID
	Order     int
	CreatedAt time.Time
}

// Store is the persistence surface the engine needs.
//
// Get returns the row for id, or nil when it is not in scope. Neighbor
// returns the row strictly on the given side of order, nearest first, or nil
// when none exists. List returns the whole scope sorted by
// (order asc, createdAt asc).
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*Row, error)
	Neighbor(ctx context.Context, order int, dir Direction) (*Row, error)
	List(ctx context.Context) ([]Row, error)
	SetOrder(ctx context.Context, id uuid.UUID, order int) error
	MaxOrder(ctx context.Context) (int, bool, error)
}

// MoveResult reports what a Move did.
type MoveResult struct {
	Moved      bool
	AtBoundary bool
}

// Move shifts the entity one position in the given direction.
//
// Fast path: swap order values with the nearest strict neighbor. When no
// strict neighbor exists (boundary, or duplicate order values crowding the
// entity), fall back to a full resequence of the scope, which swaps by list
// index and repairs gaps and duplicates. Being already first or last is a
// successful no-op, not an error.
func Move(ctx context.Context, st Store, id uuid.UUID, dir Direction) (*MoveResult, error) {
	cur, err := st.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, ErrNotInScope
	}

	neighbor, err := st.Neighbor(ctx, cur.Order, dir)
	if err != nil {
		return nil, err
	}
	if neighbor != nil && neighbor.Order != cur.Order {
		if err := st.SetOrder(ctx, cur.ID, neighbor.Order); err != nil {
			return nil, err
		}
		if err := st.SetOrder(ctx, neighbor.ID, cur.Order); err != nil {
			return nil, err
		}
		return &MoveResult{Moved: true}, nil
	}

	// Fallback: reorder by position within the full scope listing.
	rows, err := st.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(rows, id)
	if idx < 0 {
		return nil, ErrNotInScope
	}
	swap := idx - 1
	if dir == Down {
		swap = idx + 1
	}
	if swap < 0 || swap >= len(rows) {
		return &MoveResult{AtBoundary: true}, nil
	}
	rows[idx], rows[swap] = rows[swap], rows[idx]
	for i, row := range rows {
		if row.Order == i {
			continue
		}
		if err := st.SetOrder(ctx, row.ID, i); err != nil {
			return nil, err
		}
	}
	return &MoveResult{Moved: true}, nil
}

// NextOrder returns the order value for an entity appended to the scope:
// one past the current maximum, or 0 for an empty scope.
func NextOrder(ctx context.Context, st Store) (int, error) {
	max, ok, err := st.MaxOrder(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return max + 1, nil
}

func indexOf(rows []Row, id uuid.UUID) int {
	for i, r := range rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
