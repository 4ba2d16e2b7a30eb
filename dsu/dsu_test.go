package dsu

import (
	"testing"

	"github.com/matryer/is"
)

func TestUnionFind(t *testing.T) {
	is := is.New(t)
	d := New(8)
	is.Equal(d.Len(), 8)
	for i := 0; i < 8; i++ {
		is.Equal(d.Find(i), i)
		is.Equal(d.SetSize(i), 1)
	}
	is.True(d.Union(0, 1))
	is.True(d.Union(2, 3))
	is.True(d.Union(1, 3))
	is.True(!d.Union(0, 2))
	is.True(d.Same(0, 3))
	is.True(!d.Same(0, 4))
	is.Equal(d.SetSize(2), 4)

	is.True(d.Union(4, 5))
	is.Equal(d.SetSize(5), 2)
	is.True(d.Union(5, 0))
	is.Equal(d.SetSize(1), 6)
	is.Equal(d.Find(7), 7)
}
