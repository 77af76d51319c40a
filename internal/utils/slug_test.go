package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mystickies/store-api/internal/utils"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "holographic-stickers", utils.Slugify("Holographic Stickers"))
	assert.Equal(t, "a-b-c", utils.Slugify("  a   B\tc  "))
	assert.Equal(t, "already-fine", utils.Slugify("already-fine"))
	assert.Equal(t, "", utils.Slugify("   "))
	// Edge whitespace never becomes a hyphen.
	assert.Equal(t, "foo", utils.Slugify(" Foo"))
}
