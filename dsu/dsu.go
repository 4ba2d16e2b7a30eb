// Package dsu is a fixed-size union-find over the indices [0, n).
package dsu

type DSU struct {
	parent []int
	size   []int
}

func New(n int) *DSU {
	d := &DSU{parent: make([]int, n), size: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
		d.size[i] = 1
	}
	return d
}

func (d *DSU) Len() int {
	return len(d.parent)
}

// Find returns the representative of x's set, halving paths as it goes.
func (d *DSU) Find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}
	return x
}

// Union merges the sets holding a and b. It reports whether they were
// distinct.
func (d *DSU) Union(a, b int) bool {
	ra, rb := d.Find(a), d.Find(b)
	if ra == rb {
		return false
	}
	if d.size[ra] < d.size[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	d.size[ra] += d.size[rb]
	return true
}

func (d *DSU) Same(a, b int) bool {
	return d.Find(a) == d.Find(b)
}

// SetSize is the number of elements in x's set.
func (d *DSU) SetSize(x int) int {
	return d.size[d.Find(x)]
}
