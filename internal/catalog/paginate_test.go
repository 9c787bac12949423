package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := make([]int, 47)
	for i := range items {
		items[i] = i + 1
	}

	pages := Paginate(items, 15)
	sizes := make([]int, len(pages))
	for i, page := range pages {
		sizes[i] = len(page)
	}
	assert.Equal(t, []int{15, 15, 15, 2}, sizes)
	assert.Equal(t, 1, pages[0][0])
	assert.Equal(t, 47, pages[3][1])
}

func TestPaginateEdges(t *testing.T) {
	assert.Empty(t, Paginate([]string{}, 15))
	assert.Empty(t, Paginate[string](nil, 15))
	assert.Equal(t, [][]int{{1, 2, 3}}, Paginate([]int{1, 2, 3}, 0))
	assert.Equal(t, [][]int{{1, 2, 3}}, Paginate([]int{1, 2, 3}, 3))
	assert.Equal(t, [][]int{{1}, {2}, {3}}, Paginate([]int{1, 2, 3}, 1))
}

func TestVisibleWindow(t *testing.T) {
	tests := []struct {
		current, total int
		low, high      int
	}{
		{3, 4, 1, 4},
		{8, 20, 3, 12},
		{19, 20, 10, 20},
		{1, 1, 1, 1},
		{6, 20, 1, 10},
		{7, 20, 2, 11},
		{16, 20, 11, 20},
		{17, 20, 10, 20},
		{20, 20, 10, 20},
		{10, 10, 1, 10},
		{0, 20, 1, 10},
		{99, 20, 10, 20},
		{1, 0, 0, 0},
	}

	for _, tt := range tests {
		low, high := VisibleWindow(tt.current, tt.total)
		assert.Equal(t, tt.low, low, "VisibleWindow(%d, %d) low", tt.current, tt.total)
		assert.Equal(t, tt.high, high, "VisibleWindow(%d, %d) high", tt.current, tt.total)
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 5))
	assert.Equal(t, 1, ClampPage(-3, 5))
	assert.Equal(t, 5, ClampPage(9, 5))
	assert.Equal(t, 3, ClampPage(3, 5))
	assert.Equal(t, 0, ClampPage(3, 0))
}
