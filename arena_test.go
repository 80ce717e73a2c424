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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tallColumn renders a vertical segment spanning height scanlines in
// pixel column col, emitting one cell per scanline.
func tallColumn(r *PlainRasteriser, col, height int) {
	x := col * PolyBaseSize
	r.MoveTo(x, 0)
	r.LineTo(x, height*PolyBaseSize)
}

func TestBlockGrowth(t *testing.T) {
	r := NewPlainRasteriser()
	tallColumn(r, 0, 5000)

	assert.Equal(t, 5000, r.TotalCells())
	assert.Equal(t, 2, r.arena.numBlocks)

	cells := committedCells(r)
	require.Len(t, cells, 5000)
	for i, c := range cells {
		want := PlainCell{X: 0, Y: int32(i), Cover: 256, Area: 0}
		if c != want {
			t.Fatalf("cell %d: got %+v, want %+v", i, c, want)
		}
	}
}

func TestResetReusesBlocks(t *testing.T) {
	r := NewPlainRasteriser()
	tallColumn(r, 0, 5000)
	require.Equal(t, 2, r.arena.numBlocks)
	dirLen := len(r.arena.blocks)

	r.Reset()
	assert.Equal(t, 0, r.TotalCells())
	assert.Equal(t, 0, r.arena.curBlock)

	tallColumn(r, 0, 5000)
	assert.Equal(t, 5000, r.TotalCells())
	assert.Equal(t, 2, r.arena.numBlocks, "reset must reuse blocks, not allocate")
	assert.Equal(t, dirLen, len(r.arena.blocks))
}

// TestSaturation drives the arena past its block ceiling and checks that
// the overflow is dropped silently while the sorted view stays well
// formed.
func TestSaturation(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates the full cell arena")
	}

	const height = cellBlockSize // 4096 cells per column
	const columns = cellBlockLimit + 76

	r := NewPlainRasteriser()
	for col := range columns {
		tallColumn(r, col, height)
	}

	// exactly the ceiling, nothing beyond
	require.Equal(t, cellBlockLimit*cellBlockSize, r.TotalCells())

	r.SortCells()
	require.True(t, r.Sorted())

	// bounding box and row grouping still hold on the truncated arena
	total := 0
	for y := r.MinY(); y <= r.MaxY(); y++ {
		row := r.ScanlineCells(y)
		total += len(row)
		for i, c := range row {
			if int(c.Y) != y {
				t.Fatalf("row %d holds a cell with y=%d", y, c.Y)
			}
			if int(c.X) < r.MinX() || int(c.X) > r.MaxX() {
				t.Fatalf("cell x=%d outside bounding box [%d, %d]", c.X, r.MinX(), r.MaxX())
			}
			if i > 0 && row[i-1].X > c.X {
				t.Fatalf("row %d not ascending at index %d", y, i)
			}
		}
	}
	assert.Equal(t, r.TotalCells(), total)

	// a reset recovers the full capacity
	r.Reset()
	tallColumn(r, 0, 100)
	assert.Equal(t, 100, r.TotalCells())
}
