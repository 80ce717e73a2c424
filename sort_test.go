// seehuhn.de/go/cells - an analytical anti-aliased polygon rasteriser core
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package cells

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeRow builds a row of cell pointers with the given x keys.
func makeRow(xs []int32) []*PlainCell {
	row := make([]*PlainCell, len(xs))
	for i, x := range xs {
		row[i] = &PlainCell{X: x, Y: 0, Cover: int32(i)}
	}
	return row
}

func rowKeys(row []*PlainCell) []int32 {
	xs := make([]int32, len(row))
	for i, c := range row {
		xs[i] = c.X
	}
	return xs
}

func TestQSortCells(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	randomKeys := func(n int, span int32) []int32 {
		xs := make([]int32, n)
		for i := range xs {
			xs[i] = rng.Int31n(span) - span/2
		}
		return xs
	}

	cases := []struct {
		name string
		xs   []int32
	}{
		{"empty", nil},
		{"single", []int32{42}},
		{"two", []int32{7, -3}},
		{"sorted", []int32{1, 2, 3, 4, 5, 6, 7, 8}},
		{"reversed", []int32{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}},
		{"all_equal", []int32{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}},
		{"at_threshold", randomKeys(qsortThreshold, 100)},
		{"above_threshold", randomKeys(qsortThreshold+1, 100)},
		{"random_small", randomKeys(40, 20)},
		{"random_duplicates", randomKeys(500, 16)},
		{"random_large", randomKeys(10000, 1 << 20)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := makeRow(tc.xs)
			want := slices.Clone(tc.xs)
			slices.Sort(want)
			if want == nil {
				want = []int32{}
			}

			qsortCells(row)

			assert.Equal(t, want, rowKeys(row))
		})
	}
}

// TestQSortCellsPreservesCells checks that sorting permutes the pointers
// without touching the cells themselves.
func TestQSortCellsPreservesCells(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	xs := make([]int32, 1000)
	for i := range xs {
		xs[i] = rng.Int31n(50)
	}
	row := makeRow(xs)

	seen := make(map[*PlainCell]bool, len(row))
	for _, c := range row {
		seen[c] = true
	}

	qsortCells(row)

	require.Len(t, row, len(xs))
	for i, c := range row {
		assert.True(t, seen[c], "cell %d is not one of the originals", i)
		assert.EqualValues(t, 0, c.Y)
	}
}

func TestSortEmptySetsFlag(t *testing.T) {
	r := NewPlainRasteriser()
	r.SortCells()
	assert.True(t, r.Sorted(), "sorting an empty rasteriser must still mark it sorted")
	assert.Equal(t, 0, r.TotalCells())

	// idempotent on the empty view as well
	r.SortCells()
	assert.True(t, r.Sorted())
}

// TestSortSpansBlocks sorts a cell population larger than one arena block,
// exercising the full-block and tail paths of the histogram and scatter
// passes.
func TestSortSpansBlocks(t *testing.T) {
	r := NewPlainRasteriser()

	// vertical lines, each one pixel column wide and 100 rows tall
	const height = 100
	const columns = 70 // 7000 cells > cellBlockSize
	for i := range columns {
		x := i * PolyBaseSize
		r.MoveTo(x, 0)
		r.LineTo(x, height*PolyBaseSize)
	}
	r.SortCells()

	require.Greater(t, r.TotalCells(), cellBlockSize)
	require.Equal(t, 0, r.MinY())
	require.Equal(t, height-1, r.MaxY())

	for y := r.MinY(); y <= r.MaxY(); y++ {
		row := r.ScanlineCells(y)
		assert.Equal(t, columns, len(row), "row %d", y)
		for i, c := range row {
			assert.EqualValues(t, y, c.Y)
			assert.EqualValues(t, i, c.X)
		}
	}
}
