package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		want       Params
	}{
		{"first page", 1, 10, Params{Page: 1, Size: 10, Offset: 0}},
		{"third page", 3, 10, Params{Page: 3, Size: 10, Offset: 20}},
		{"zero page clamps", 0, 10, Params{Page: 1, Size: 10, Offset: 0}},
		{"negative page clamps", -4, 20, Params{Page: 1, Size: 20, Offset: 0}},
		{"missing size", 2, 0, Params{Page: 2, Size: StockPageSize, Offset: StockPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.page, tt.size))
		})
	}
}

func TestMeta(t *testing.T) {
	m := New(1, 10).Meta(25)
	assert.Equal(t, 3, m.TotalPages)
	assert.False(t, m.HasPrev)
	assert.True(t, m.HasNext)

	m = New(3, 10).Meta(25)
	assert.True(t, m.HasPrev)
	assert.False(t, m.HasNext)

	m = New(2, 10).Meta(20)
	assert.True(t, m.HasPrev)
	assert.False(t, m.HasNext, "exactly full last page has no successor")
}

func TestMeta_EmptyResult(t *testing.T) {
	m := New(5, 20).Meta(0)
	assert.Equal(t, 0, m.TotalPages)
	assert.Equal(t, 5, m.Page)
	assert.True(t, m.HasPrev)
	assert.False(t, m.HasNext)
}
