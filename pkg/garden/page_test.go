package garden

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNavigation(t *testing.T) {
	items := []int{3, 4, 5}

	page := NewPage(items, 10, 3, 3)
	assert.True(t, page.HasNext())
	assert.True(t, page.HasPrev())
	assert.Equal(t, 1, page.PageNumber())
	assert.Equal(t, 4, page.TotalPages())

	first := NewPage([]int{0, 1, 2}, 10, 0, 3)
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())
	assert.Equal(t, 0, first.PageNumber())

	last := NewPage([]int{9}, 10, 9, 3)
	assert.False(t, last.HasNext())

	unlimited := NewPage([]int{1, 2}, 2, 0, 0)
	assert.False(t, unlimited.HasNext())
	assert.Equal(t, 1, unlimited.TotalPages())
}

func TestPageEmpty(t *testing.T) {
	page := NewPage[Channel](nil, 0, 0, 20)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasNext())
	assert.False(t, page.HasPrev())
	assert.Equal(t, 0, page.TotalPages())
}
