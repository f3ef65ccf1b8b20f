package dag

// Matrix is a sparse grid of node ids indexed by [rank][column]. Empty cells
// hold [None]. A Matrix is derived state: rebuild it with [Rearrange] after
// changing ranks or columns.
type Matrix [][]NodeID

// Rearrange builds the matrix for the current node coordinates of g.
//
// Rows exist for every rank from 0 to the deepest rank, and each row is as
// long as its rightmost occupied column. Nodes with a negative rank or
// column are left out. When two nodes claim the same cell the one later in
// iteration order wins. Rearrange does not mutate g, so calling it twice
// yields identical matrices.
func Rearrange(g *Graph) Matrix {
	nodes := g.Nodes()
	ranks := 0
	for _, n := range nodes {
		if n.Rank >= 0 && n.Column >= 0 {
			ranks = max(ranks, n.Rank+1)
		}
	}

	m := make(Matrix, ranks)
	for i := range m {
		m[i] = []NodeID{}
	}
	for _, n := range nodes {
		if n.Rank < 0 || n.Column < 0 {
			continue
		}
		row := m[n.Rank]
		for len(row) <= n.Column {
			row = append(row, None)
		}
		row[n.Column] = n.ID
		m[n.Rank] = row
	}
	return m
}

// Ranks returns the number of rows.
func (m Matrix) Ranks() int { return len(m) }

// Width returns the length of the widest row.
func (m Matrix) Width() int {
	w := 0
	for _, row := range m {
		w = max(w, len(row))
	}
	return w
}

// At returns the node at the given cell, or [None] when the cell is empty
// or out of range.
func (m Matrix) At(rank, col int) NodeID {
	if rank < 0 || rank >= len(m) || col < 0 || col >= len(m[rank]) {
		return None
	}
	return m[rank][col]
}

// Occupied reports whether the given cell holds a node.
func (m Matrix) Occupied(rank, col int) bool { return m.At(rank, col) != None }

// Row returns the ids of a rank from left to right, skipping holes.
func (m Matrix) Row(rank int) []NodeID {
	if rank < 0 || rank >= len(m) {
		return nil
	}
	out := make([]NodeID, 0, len(m[rank]))
	for _, id := range m[rank] {
		if id != None {
			out = append(out, id)
		}
	}
	return out
}
