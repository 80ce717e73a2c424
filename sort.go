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

import "slices"

// SortCells builds the indexed view: for every occupied scanline a
// contiguous range of cell pointers ordered by ascending x. The call is
// idempotent; the view stays valid until the next mutating call. Sorting
// an empty rasteriser succeeds and leaves an empty view.
func (r *Rasteriser[T]) SortCells() {
	if r.isSorted {
		return
	}

	r.addCurCell()

	if r.numCells == 0 {
		r.isSorted = true
		return
	}

	r.sortedCells = slices.Grow(r.sortedCells[:0], r.numCells)[:r.numCells]

	height := int(r.maxY-r.minY) + 1
	r.sortedRows = slices.Grow(r.sortedRows[:0], height)[:height]
	clear(r.sortedRows)

	// histogram: count the cells on each scanline
	fullBlocks := r.numCells >> cellBlockShift
	for b := 0; b < fullBlocks; b++ {
		block := r.arena.blocks[b]
		for i := range block {
			r.sortedRows[block[i].Y-r.minY].start++
		}
	}
	if tail := r.numCells & cellBlockMask; tail != 0 {
		block := r.arena.blocks[fullBlocks]
		for i := 0; i < tail; i++ {
			r.sortedRows[block[i].Y-r.minY].start++
		}
	}

	// convert the histogram into starting offsets
	start := 0
	for i := range r.sortedRows {
		v := r.sortedRows[i].start
		r.sortedRows[i].start = start
		start += v
	}

	// scatter the cell pointers into their rows
	for b := 0; b < fullBlocks; b++ {
		block := r.arena.blocks[b]
		for i := range block {
			row := &r.sortedRows[block[i].Y-r.minY]
			r.sortedCells[row.start+row.num] = &block[i]
			row.num++
		}
	}
	if tail := r.numCells & cellBlockMask; tail != 0 {
		block := r.arena.blocks[fullBlocks]
		for i := 0; i < tail; i++ {
			row := &r.sortedRows[block[i].Y-r.minY]
			r.sortedCells[row.start+row.num] = &block[i]
			row.num++
		}
	}

	// arrange each row by ascending x
	for i := range r.sortedRows {
		row := r.sortedRows[i]
		if row.num > 0 {
			qsortCells(r.sortedCells[row.start : row.start+row.num])
		}
	}

	r.isSorted = true
}

// ScanlineNumCells returns the number of cells on the scanline y.
// SortCells must have been called, and y must lie within
// [MinY, MaxY]; otherwise the behaviour is undefined.
func (r *Rasteriser[T]) ScanlineNumCells(y int) int {
	return r.sortedRows[int32(y)-r.minY].num
}

// ScanlineCells returns the cells on the scanline y, ordered by ascending
// x. Cells with equal x are not merged; consumers accumulate them. The
// same preconditions as for ScanlineNumCells apply, and the returned slice
// is valid until the next mutating call.
func (r *Rasteriser[T]) ScanlineCells(y int) []*Cell[T] {
	row := r.sortedRows[int32(y)-r.minY]
	return r.sortedCells[row.start : row.start+row.num]
}

// qsortThreshold is the largest partition size that qsortCells sorts by
// insertion sort instead of partitioning.
const qsortThreshold = 9

// qsortCells sorts a row of cell pointers by ascending X. The sort is a
// non-recursive quicksort with median-of-three pivoting and an insertion
// sort for small partitions; the larger partition is deferred on an
// explicit stack while the smaller one is processed first, bounding the
// stack depth. The sort is not stable: cells with equal X may be
// reordered, which is harmless because consumers sum them commutatively.
func qsortCells[T comparable](cells []*Cell[T]) {
	var stack [80]int // pairs of deferred (base, limit) ranges
	top := 0

	base := 0
	limit := len(cells)

	for {
		length := limit - base

		if length > qsortThreshold {
			// move the median of three to base
			pivot := base + length/2
			cells[base], cells[pivot] = cells[pivot], cells[base]

			i := base + 1
			j := limit - 1

			// ensure cells[i].X <= cells[base].X <= cells[j].X
			if cells[j].X < cells[i].X {
				cells[i], cells[j] = cells[j], cells[i]
			}
			if cells[base].X < cells[i].X {
				cells[base], cells[i] = cells[i], cells[base]
			}
			if cells[j].X < cells[base].X {
				cells[base], cells[j] = cells[j], cells[base]
			}

			for {
				x := cells[base].X
				i++
				for cells[i].X < x {
					i++
				}
				j--
				for x < cells[j].X {
					j--
				}

				if i > j {
					break
				}
				cells[i], cells[j] = cells[j], cells[i]
			}

			cells[base], cells[j] = cells[j], cells[base]

			// defer the larger partition, continue with the smaller
			if j-base > limit-i {
				stack[top] = base
				stack[top+1] = j
				base = i
			} else {
				stack[top] = i
				stack[top+1] = limit
				limit = j
			}
			top += 2
		} else {
			// small partition: insertion sort
			for i := base + 1; i < limit; i++ {
				for j := i; j > base && cells[j].X < cells[j-1].X; j-- {
					cells[j], cells[j-1] = cells[j-1], cells[j]
				}
			}

			if top > 0 {
				top -= 2
				base = stack[top]
				limit = stack[top+1]
			} else {
				break
			}
		}
	}
}
