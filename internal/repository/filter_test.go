package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypePredicate(t *testing.T) {
	t.Parallel()

	t.Run("empty type adds nothing", func(t *testing.T) {
		t.Parallel()
		where, args, idx := typePredicate("WHERE 1=1", nil, 1, "p.type", "")
		assert.Equal(t, "WHERE 1=1", where)
		assert.Empty(t, args)
		assert.Equal(t, 1, idx)
	})

	t.Run("product matches legacy null and empty rows", func(t *testing.T) {
		t.Parallel()
		where, args, idx := typePredicate("WHERE 1=1", nil, 1, "p.type", "product")
		assert.Equal(t, "WHERE 1=1 AND (p.type = $1 OR p.type IS NULL OR p.type = '')", where)
		assert.Equal(t, []interface{}{"product"}, args)
		assert.Equal(t, 2, idx)
	})

	t.Run("eservice is exact", func(t *testing.T) {
		t.Parallel()
		where, args, idx := typePredicate("WHERE 1=1", []interface{}{"x"}, 2, "type", "eservice")
		assert.Equal(t, "WHERE 1=1 AND type = $2", where)
		assert.Equal(t, []interface{}{"x", "eservice"}, args)
		assert.Equal(t, 3, idx)
	})
}
