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

import "math"

// dxLimit bounds the horizontal extent of a single segment so that all
// intermediate products in the decomposition stay within 32-bit signed
// range. Longer segments are bisected at their midpoint.
const dxLimit = 16384 << PolyBaseShift

// Rasteriser converts subpixel line segments into sorted coverage cells.
// The caller creates one instance and reuses it for multiple paths.
// Cell blocks and the sorted view grow as needed but never shrink,
// achieving zero allocations in steady state.
//
// A Rasteriser is not safe for concurrent mutation. After SortCells has
// returned, the sorted view may be read from multiple goroutines as long
// as no goroutine calls a mutating method.
type Rasteriser[T comparable] struct {
	arena    cellArena[T]
	numCells int

	cell Cell[T] // accumulator for the pixel currently being crossed
	seed Cell[T] // template copied into every freshly reset accumulator

	curX, curY int // current subpixel position

	minX, minY int32 // pixel bounding box of committed cells
	maxX, maxY int32

	sortedCells []*Cell[T] // dense cell pointer array, grouped by row
	sortedRows  []sortedRow
	isSorted    bool
}

// sortedRow describes the cells of one scanline within sortedCells.
type sortedRow struct {
	start, num int
}

// NewRasteriser creates an empty rasteriser whose cells carry auxiliary
// data of type T.
func NewRasteriser[T comparable]() *Rasteriser[T] {
	r := &Rasteriser[T]{}
	r.seed.Initial()
	r.cell = r.seed
	r.minX = math.MaxInt32
	r.minY = math.MaxInt32
	r.maxX = -math.MaxInt32
	r.maxY = -math.MaxInt32
	return r
}

// Reset logically empties the rasteriser: all committed cells are
// discarded, the bounding box becomes empty, and the accumulator returns
// to the seed state. Allocated cell blocks are retained for reuse.
func (r *Rasteriser[T]) Reset() {
	r.numCells = 0
	r.arena.reset()
	r.cell = r.seed
	r.isSorted = false
	r.minX = math.MaxInt32
	r.minY = math.MaxInt32
	r.maxX = -math.MaxInt32
	r.maxY = -math.MaxInt32
}

// SeedCell replaces the template cell that initialises every new
// accumulator. Embedders use this to attach auxiliary per-cell state:
// the seed's Aux value is copied into each emitted cell.
func (r *Rasteriser[T]) SeedCell(seed Cell[T]) {
	r.seed = seed
}

// MoveTo starts a new subpath at the subpixel position (x, y).
// If the cells are currently sorted, the rasteriser is reset first.
func (r *Rasteriser[T]) MoveTo(x, y int) {
	if r.isSorted {
		r.Reset()
	}

	ex := int32(x >> PolyBaseShift)
	ey := int32(y >> PolyBaseShift)
	if r.cell.X != ex || r.cell.Y != ey || r.cell != r.seed {
		r.addCurCell()
		r.cell = r.seed
		r.cell.X = ex
		r.cell.Y = ey
		r.cell.Cover = 0
		r.cell.Area = 0
	}
	r.curX = x
	r.curY = y
}

// LineTo emits cells for the segment from the current position to the
// subpixel position (x, y), which becomes the new current position.
func (r *Rasteriser[T]) LineTo(x, y int) {
	r.renderLine(r.curX, r.curY, x, y)
	r.curX = x
	r.curY = y
	r.isSorted = false
}

// MinX returns the smallest pixel x of any committed cell.
// Only meaningful while TotalCells is non-zero.
func (r *Rasteriser[T]) MinX() int { return int(r.minX) }

// MinY returns the smallest pixel y of any committed cell.
func (r *Rasteriser[T]) MinY() int { return int(r.minY) }

// MaxX returns the largest pixel x of any committed cell.
func (r *Rasteriser[T]) MaxX() int { return int(r.maxX) }

// MaxY returns the largest pixel y of any committed cell.
func (r *Rasteriser[T]) MaxY() int { return int(r.maxY) }

// TotalCells returns the number of committed cells. A pending accumulator
// contribution is not included until the next flush.
func (r *Rasteriser[T]) TotalCells() int { return r.numCells }

// Sorted reports whether the sorted view is current.
func (r *Rasteriser[T]) Sorted() bool { return r.isSorted }

// setCurCell repositions the accumulator to the pixel (x, y), flushing the
// previous pixel's contribution first and restarting from the seed.
func (r *Rasteriser[T]) setCurCell(x, y int) {
	if r.cell.X != int32(x) || r.cell.Y != int32(y) {
		r.addCurCell()
		r.cell = r.seed
		r.cell.X = int32(x)
		r.cell.Y = int32(y)
		r.cell.Cover = 0
		r.cell.Area = 0
	}
}

// addCurCell commits the accumulator to the arena if it holds a non-zero
// contribution, updating the cell count and the bounding box. When the
// block ceiling has been reached the cell is silently dropped.
func (r *Rasteriser[T]) addCurCell() {
	if r.cell.Area|r.cell.Cover != 0 {
		if r.numCells&cellBlockMask == 0 {
			if r.arena.curBlock >= cellBlockLimit {
				return
			}
			r.arena.allocateBlock()
		}
		r.arena.cur[r.numCells&cellBlockMask] = r.cell
		r.numCells++
		if r.cell.X < r.minX {
			r.minX = r.cell.X
		}
		if r.cell.X > r.maxX {
			r.maxX = r.cell.X
		}
		if r.cell.Y < r.minY {
			r.minY = r.cell.Y
		}
		if r.cell.Y > r.maxY {
			r.maxY = r.cell.Y
		}
	}
}

// renderHLine decomposes the part of a segment that stays on the single
// scanline ey. x1 and x2 are subpixel x coordinates; y1 and y2 are the
// subpixel y fractions within the scanline.
func (r *Rasteriser[T]) renderHLine(ey, x1, y1, x2, y2 int) {
	ex1 := x1 >> PolyBaseShift
	ex2 := x2 >> PolyBaseShift
	fx1 := x1 & PolyBaseMask
	fx2 := x2 & PolyBaseMask

	// no vertical motion; just move the accumulator to the end cell
	if y1 == y2 {
		r.setCurCell(ex2, ey)
		return
	}

	// everything is located in a single cell
	if ex1 == ex2 {
		delta := y2 - y1
		r.cell.Cover += int32(delta)
		r.cell.Area += int32((fx1 + fx2) * delta)
		return
	}

	// a run of adjacent cells on the same hline
	p := (PolyBaseSize - fx1) * (y2 - y1)
	first := PolyBaseSize
	incr := 1

	dx := x2 - x1
	if dx < 0 {
		p = fx1 * (y2 - y1)
		first = 0
		incr = -1
		dx = -dx
	}

	// truncating division, with negative remainders normalised so the
	// step sequence tracks the exact rational advance
	delta := p / dx
	mod := p % dx
	if mod < 0 {
		delta--
		mod += dx
	}

	r.cell.Cover += int32(delta)
	r.cell.Area += int32((fx1 + first) * delta)

	ex1 += incr
	r.setCurCell(ex1, ey)
	y1 += delta

	if ex1 != ex2 {
		p = PolyBaseSize * (y2 - y1 + delta)
		lift := p / dx
		rem := p % dx
		if rem < 0 {
			lift--
			rem += dx
		}

		mod -= dx

		for ex1 != ex2 {
			delta = lift
			mod += rem
			if mod >= 0 {
				mod -= dx
				delta++
			}

			r.cell.Cover += int32(delta)
			r.cell.Area += int32(PolyBaseSize * delta)
			y1 += delta
			ex1 += incr
			r.setCurCell(ex1, ey)
		}
	}

	delta = y2 - y1
	r.cell.Cover += int32(delta)
	r.cell.Area += int32((fx2 + PolyBaseSize - first) * delta)
}

// renderLine walks the segment from (x1, y1) to (x2, y2), splitting it at
// scanline boundaries and delegating each piece to renderHLine. All
// coordinates are subpixels.
func (r *Rasteriser[T]) renderLine(x1, y1, x2, y2 int) {
	dx := x2 - x1

	// Segments this wide would overflow the intermediate products below;
	// bisect at the midpoint and render the halves instead. Coverage and
	// area are linear in segment pieces, so the result is unchanged.
	if dx >= dxLimit || dx <= -dxLimit {
		cx := (x1 + x2) >> 1
		cy := (y1 + y2) >> 1
		r.renderLine(x1, y1, cx, cy)
		r.renderLine(cx, cy, x2, y2)
		return
	}

	dy := y2 - y1
	ey1 := y1 >> PolyBaseShift
	ey2 := y2 >> PolyBaseShift
	fy1 := y1 & PolyBaseMask
	fy2 := y2 & PolyBaseMask

	// everything is on a single hline
	if ey1 == ey2 {
		r.renderHLine(ey1, x1, fy1, x2, fy2)
		return
	}

	// Vertical segment: the whole run stays in one pixel column, so the
	// entry and exit trapezoids and the uniform middle part can be
	// emitted directly, without going through renderHLine.
	incr := 1
	if dx == 0 {
		ex := x1 >> PolyBaseShift
		twoFx := (x1 - (ex << PolyBaseShift)) << 1

		first := PolyBaseSize
		if dy < 0 {
			first = 0
			incr = -1
		}

		delta := first - fy1
		r.cell.Cover += int32(delta)
		r.cell.Area += int32(twoFx * delta)

		ey1 += incr
		r.setCurCell(ex, ey1)

		// Each intermediate pixel receives the same full-pixel
		// contribution. setCurCell has just reset the accumulator,
		// so these are assignments, not additions.
		delta = first + first - PolyBaseSize
		area := int32(twoFx * delta)
		for ey1 != ey2 {
			r.cell.Cover = int32(delta)
			r.cell.Area = area
			ey1 += incr
			r.setCurCell(ex, ey1)
		}

		delta = fy2 - PolyBaseSize + first
		r.cell.Cover += int32(delta)
		r.cell.Area += int32(twoFx * delta)
		return
	}

	// the segment crosses several scanlines
	p := (PolyBaseSize - fy1) * dx
	first := PolyBaseSize

	if dy < 0 {
		p = fy1 * dx
		first = 0
		incr = -1
		dy = -dy
	}

	delta := p / dy
	mod := p % dy
	if mod < 0 {
		delta--
		mod += dy
	}

	xFrom := x1 + delta
	r.renderHLine(ey1, x1, fy1, xFrom, first)

	ey1 += incr
	r.setCurCell(xFrom>>PolyBaseShift, ey1)

	if ey1 != ey2 {
		p = PolyBaseSize * dx
		lift := p / dy
		rem := p % dy
		if rem < 0 {
			lift--
			rem += dy
		}
		mod -= dy

		for ey1 != ey2 {
			delta = lift
			mod += rem
			if mod >= 0 {
				mod -= dy
				delta++
			}

			xTo := xFrom + delta
			r.renderHLine(ey1, xFrom, PolyBaseSize-first, xTo, first)
			xFrom = xTo

			ey1 += incr
			r.setCurCell(xFrom>>PolyBaseShift, ey1)
		}
	}

	r.renderHLine(ey1, xFrom, PolyBaseSize-first, x2, fy2)
}
