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

// Package cells implements the cell-accumulation core of an analytical
// anti-aliased polygon rasteriser.
//
// The package converts a stream of subpixel-precision line segments into a
// spatially sorted collection of per-pixel coverage records ("cells").
// For every pixel a path crosses it records a signed coverage delta and a
// signed area contribution, from which a downstream scanline stage can
// compute exact analytical pixel coverage under a chosen fill rule.
//
// Input coordinates are fixed-point integers with PolyBaseShift fractional
// bits. A Rasteriser accepts MoveTo/LineTo calls, decomposes each segment
// at pixel boundaries in both axes, and accumulates cells in a block
// arena. SortCells then buckets the cells by scanline and orders each
// scanline by ascending x, giving O(1) access to the cells of any row.
//
// Fill-rule evaluation, curve flattening, stroking, clipping and
// compositing are outside the scope of this package; they operate on the
// sorted cell view.
package cells

// Subpixel accuracy of the coordinate grid: the number of fractional bits
// of all input coordinates. With 32-bit cell coordinates the usable pixel
// range is bounded by the per-segment overflow guard in renderLine.
const (
	PolyBaseShift = 8                  // fractional bits per coordinate
	PolyBaseSize  = 1 << PolyBaseShift // subpixels per pixel
	PolyBaseMask  = PolyBaseSize - 1   // fractional part mask
)

// PolyCoord converts a device-space coordinate to the subpixel grid.
func PolyCoord(c float64) int {
	return int(c * PolyBaseSize)
}

// cellSentinel is an off-grid coordinate used for the seed state, so that
// the first setCurCell after a reset always repositions the accumulator.
const cellSentinel = 0x7FFF

// A Cell records the coverage contribution of all path segments crossing
// one pixel. X and Y are pixel coordinates. Cover is the accumulated
// coverage delta in subpixel units along y, positive for segments crossing
// the pixel with increasing y. Area is twice the signed area of the
// trapezoids clipped to the pixel, in units of subpixel x times subpixel y,
// offset such that Cover*2*PolyBaseSize - Area is the analytical alpha
// integrand.
//
// Aux carries embedder-defined per-cell state. It is copied from the seed
// cell (see [Rasteriser.SeedCell]) whenever the rasteriser starts a new
// cell, and is otherwise opaque to this package. Embedders without
// auxiliary state use [PlainCell].
type Cell[T comparable] struct {
	X, Y        int32
	Cover, Area int32
	Aux         T
}

// Initial resets c to the seed state: off-grid coordinates, zero coverage,
// and the zero value of the auxiliary type.
func (c *Cell[T]) Initial() {
	var zero T
	c.X = cellSentinel
	c.Y = cellSentinel
	c.Cover = 0
	c.Area = 0
	c.Aux = zero
}

// PlainCell is a cell without auxiliary per-cell state.
type PlainCell = Cell[struct{}]

// PlainRasteriser is a rasteriser over cells without auxiliary state.
type PlainRasteriser = Rasteriser[struct{}]

// NewPlainRasteriser creates a rasteriser over [PlainCell] cells.
func NewPlainRasteriser() *PlainRasteriser {
	return NewRasteriser[struct{}]()
}
