package ordering_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mystickies/store-api/internal/ordering"
)

// memStore is an in-memory ordering.Store over a single scope.
type memStore struct {
	rows map[uuid.UUID]*ordering.Row
}

func newMemStore(orders ...int) (*memStore, []uuid.UUID) {
	st := &memStore{rows: make(map[uuid.UUID]*ordering.Row)}
	ids := make([]uuid.UUID, len(orders))
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, ord := range orders {
		id := uuid.New()
		ids[i] = id
		st.rows[id] = &ordering.Row{ID: id, Order: ord, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
	}
	return st, ids
}

func (s *memStore) Get(_ context.Context, id uuid.UUID) (*ordering.Row, error) {
	r, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) Neighbor(_ context.Context, order int, dir ordering.Direction) (*ordering.Row, error) {
	var best *ordering.Row
	for _, r := range s.rows {
		if dir == ordering.Up && r.Order < order {
			if best == nil || r.Order > best.Order {
				cp := *r
				best = &cp
			}
		}
		if dir == ordering.Down && r.Order > order {
			if best == nil || r.Order < best.Order {
				cp := *r
				best = &cp
			}
		}
	}
	return best, nil
}

func (s *memStore) List(context.Context) ([]ordering.Row, error) {
	out := make([]ordering.Row, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *memStore) SetOrder(_ context.Context, id uuid.UUID, order int) error {
	s.rows[id].Order = order
	return nil
}

func (s *memStore) MaxOrder(context.Context) (int, bool, error) {
	if len(s.rows) == 0 {
		return 0, false, nil
	}
	max := -1
	for _, r := range s.rows {
		if r.Order > max {
			max = r.Order
		}
	}
	return max, true, nil
}

func (s *memStore) order(id uuid.UUID) int { return s.rows[id].Order }

func TestMoveSwapsNeighbors(t *testing.T) {
	t.Parallel()

	st, ids := newMemStore(0, 1, 2)
	ctx := context.Background()

	res, err := ordering.Move(ctx, st, ids[1], ordering.Down)
	require.NoError(t, err)
	assert.True(t, res.Moved)
	assert.Equal(t, 2, st.order(ids[1]))
	assert.Equal(t, 1, st.order(ids[2]))
	assert.Equal(t, 0, st.order(ids[0]))
}

func TestMoveBoundaryIsNoOp(t *testing.T) {
	t.Parallel()

	st, ids := newMemStore(0, 1, 2)
	ctx := context.Background()

	res, err := ordering.Move(ctx, st, ids[0], ordering.Up)
	require.NoError(t, err)
	assert.False(t, res.Moved)
	assert.True(t, res.AtBoundary)
	assert.Equal(t, 0, st.order(ids[0]))

	res, err = ordering.Move(ctx, st, ids[2], ordering.Down)
	require.NoError(t, err)
	assert.True(t, res.AtBoundary)
	assert.Equal(t, 2, st.order(ids[2]))
}

func TestMoveRoundTrip(t *testing.T) {
	t.Parallel()

	st, ids := newMemStore(0, 1, 2)
	ctx := context.Background()

	_, err := ordering.Move(ctx, st, ids[0], ordering.Down)
	require.NoError(t, err)
	_, err = ordering.Move(ctx, st, ids[0], ordering.Up)
	require.NoError(t, err)

	assert.Equal(t, 0, st.order(ids[0]))
	assert.Equal(t, 1, st.order(ids[1]))
	assert.Equal(t, 2, st.order(ids[2]))
}

func TestMoveRepairsDuplicatesAndGaps(t *testing.T) {
	t.Parallel()

	// Two rows share order 3, another sits at 7. The duplicate blocks the
	// fast swap, forcing the resequencing fallback.
	st, ids := newMemStore(3, 3, 7)
	ctx := context.Background()

	res, err := ordering.Move(ctx, st, ids[1], ordering.Up)
	require.NoError(t, err)
	assert.True(t, res.Moved)

	assert.Equal(t, 1, st.order(ids[0]))
	assert.Equal(t, 0, st.order(ids[1]))
	assert.Equal(t, 2, st.order(ids[2]))
}

func TestMoveOutsideScope(t *testing.T) {
	t.Parallel()

	st, _ := newMemStore(0, 1)
	_, err := ordering.Move(context.Background(), st, uuid.New(), ordering.Up)
	assert.ErrorIs(t, err, ordering.ErrNotInScope)
}

func TestNextOrder(t *testing.T) {
	t.Parallel()

	st, _ := newMemStore(0, 1, 2)
	n, err := ordering.NextOrder(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	empty, _ := newMemStore()
	n, err = ordering.NextOrder(context.Background(), empty)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
